// Package openai embeds search queries through an OpenAI-compatible embeddings endpoint.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ytsearch/internal/domain"
	"github.com/kailas-cloud/ytsearch/internal/metrics"
)

// Config holds the embedding endpoint settings.
type Config struct {
	APIKey  string
	BaseURL string // empty = api.openai.com
	Model   string // empty = domain.DefaultEmbeddingModel
	// Dimensions shortens the vector on models that support it. Zero keeps the model default.
	Dimensions int
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Embedder calls the embeddings API once per query.
type Embedder struct {
	client *openai.Client
	cfg    Config
}

// NewEmbedder builds an embedder. The key is not checked here; the caller resolves credentials per request.
func NewEmbedder(cfg Config) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = domain.DefaultEmbeddingModel
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Embedder{client: openai.NewClientWithConfig(clientCfg), cfg: cfg}
}

// Embed implements domain.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          openai.EmbeddingModel(e.cfg.Model),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		Dimensions:     e.cfg.Dimensions,
	})
	elapsed := time.Since(start)

	result, outcome, err := e.interpret(resp, err)
	metrics.EmbeddingRequestsTotal.WithLabelValues(e.cfg.Model, outcome).Inc()
	if err != nil {
		return domain.EmbeddingResult{}, err
	}

	metrics.EmbeddingRequestDuration.WithLabelValues(e.cfg.Model).Observe(elapsed.Seconds())
	if result.TotalTokens > 0 {
		metrics.EmbeddingTokensTotal.WithLabelValues(e.cfg.Model).Add(float64(result.TotalTokens))
	}
	e.cfg.Logger.Debug("Embedding created",
		zap.String("model", e.cfg.Model),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("total_tokens", result.TotalTokens),
		zap.Duration("duration", elapsed),
	)
	return result, nil
}

// interpret maps the API response to a result and a metrics outcome.
func (e *Embedder) interpret(resp openai.EmbeddingResponse, err error) (domain.EmbeddingResult, string, error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.EmbeddingResult{}, metrics.OutcomeTimeout, fmt.Errorf("embedding request: %w", domain.ErrTimeout)
	case err != nil:
		return domain.EmbeddingResult{}, metrics.OutcomeAPIError, parseAPIError(err)
	case len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0:
		return domain.EmbeddingResult{}, metrics.OutcomeEmptyResponse,
			fmt.Errorf("no embedding in response: %w", domain.ErrEmbedding)
	}
	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, metrics.OutcomeSuccess, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors wrap domain.ErrEmbedding. The request URL and key never appear in the message.
func parseAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s", upstream(apiErr.HTTPStatusCode), apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("%w: %s", upstream(reqErr.HTTPStatusCode), detail)
		}
		return upstream(reqErr.HTTPStatusCode)
	}

	return fmt.Errorf("embedding request failed: %w", domain.ErrEmbedding)
}

func upstream(status int) *domain.UpstreamError {
	return &domain.UpstreamError{Service: "embedding", StatusCode: status, Err: domain.ErrEmbedding}
}

// extractDetail pulls a message out of a non-standard JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) != nil {
		return ""
	}
	if parsed.Detail != "" {
		return parsed.Detail
	}
	return parsed.Error.Message
}

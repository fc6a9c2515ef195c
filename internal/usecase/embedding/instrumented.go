package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ytsearch/internal/domain"
	"github.com/kailas-cloud/ytsearch/internal/logger"
)

// InstrumentedEmbedder records per-request usage and logs each embedding call
// with the request logger. Provider metrics live in transport/openai.
type InstrumentedEmbedder struct {
	inner  domain.Embedder
	model  string
	logger *zap.Logger
}

// NewInstrumentedEmbedder wraps inner. logger is used when the context carries none.
func NewInstrumentedEmbedder(inner domain.Embedder, model string, logger *zap.Logger) *InstrumentedEmbedder {
	return &InstrumentedEmbedder{inner: inner, model: model, logger: logger}
}

// Embed implements domain.Embedder.
func (p *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	log := logger.FromContextOr(ctx, p.logger).With(zap.String("model", p.model))

	start := time.Now()
	result, err := p.inner.Embed(ctx, text)
	elapsed := time.Since(start)

	if err != nil {
		log.Error("Embedding failed", zap.Duration("duration", elapsed), zap.Error(err))
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	domain.UsageFromContext(ctx).Record(result.TotalTokens)

	log.Debug("Embedding done",
		zap.Duration("duration", elapsed),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("total_tokens", result.TotalTokens),
		zap.Bool("cached", result.TotalTokens == 0),
	)
	return result, nil
}

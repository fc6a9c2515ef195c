// Package supabase calls a similarity-search procedure through the Supabase REST RPC endpoint.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kailas-cloud/ytsearch/internal/domain"
	"github.com/kailas-cloud/ytsearch/internal/metrics"
)

const service = "vector_store"

// maxErrorBody bounds how much of a failed response is read for diagnostics.
const maxErrorBody = 4 << 10

// Config holds the Supabase connection settings.
type Config struct {
	URL        string
	Key        string
	Function   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client calls {url}/rest/v1/rpc/{function}.
type Client struct {
	endpoint string
	key      string
	timeout  time.Duration
	http     *http.Client
}

// NewClient creates a Supabase RPC client.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.URL, "/") + "/rest/v1/rpc/" + cfg.Function,
		key:      cfg.Key,
		timeout:  cfg.Timeout,
		http:     hc,
	}
}

type rpcRequest struct {
	InputVector []float32 `json:"input_vector"`
}

// matchRow holds one returned row. A column of an unexpected type reads as absent.
type matchRow map[string]json.RawMessage

func (r matchRow) get(key string) (json.RawMessage, bool) {
	raw, ok := r[key]
	if !ok || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}

func (r matchRow) str(key string) *string {
	var s string
	if raw, ok := r.get(key); ok && json.Unmarshal(raw, &s) == nil {
		return &s
	}
	return nil
}

func (r matchRow) int(key string) *int {
	var n int
	if raw, ok := r.get(key); ok && json.Unmarshal(raw, &n) == nil {
		return &n
	}
	return nil
}

func (r matchRow) float(key string) *float64 {
	var f float64
	if raw, ok := r.get(key); ok && json.Unmarshal(raw, &f) == nil {
		return &f
	}
	return nil
}

// MatchVideo returns the top-ranked chunk for vec, or nil when the procedure returns no rows.
func (c *Client) MatchVideo(ctx context.Context, vec []float32) (_ *domain.SimilarityMatch, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(service, "rpc", start, err) }()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(rpcRequest{InputVector: vec})
	if err != nil {
		return nil, fmt.Errorf("encode rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build rpc request: %w", domain.ErrVectorSearch)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("vector search: %w", domain.ErrTimeout)
		}
		// *url.Error carries the endpoint; report the cause only.
		return nil, fmt.Errorf("vector search request failed: %w", domain.ErrVectorSearch)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return nil, &domain.UpstreamError{Service: service, StatusCode: resp.StatusCode, Err: domain.ErrVectorSearch}
	}

	var rows []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("vector search: %w", domain.ErrTimeout)
		}
		return nil, fmt.Errorf("decode rpc response: %w", domain.ErrVectorSearch)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var r matchRow
	_ = json.Unmarshal(rows[0], &r) // a non-object row has no readable columns
	return &domain.SimilarityMatch{
		VideoID:    r.str("video_id"),
		URL:        r.str("url"),
		ChunkIndex: r.int("chunk_index"),
		ChunkText:  r.str("chunk_text"),
		Score:      r.float("score"),
	}, nil
}

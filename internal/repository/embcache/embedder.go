// Package embcache puts a key-value cache in front of a query embedder.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ytsearch/internal/db"
	"github.com/kailas-cloud/ytsearch/internal/domain"
	"github.com/kailas-cloud/ytsearch/internal/logger"
)

const keyPrefix = "emb:"

type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Options configures an Embedder.
type Options struct {
	Model string
	TTL   time.Duration
	// Dimensions, when set, rejects cached vectors of another size.
	Dimensions int
	// Lookups counts cache results under the "result" label ("hit" or "miss").
	Lookups *prometheus.CounterVec
	Logger  *zap.Logger
}

// Embedder serves repeated queries from the cache. The cache is best-effort:
// read and write failures are logged and the request falls through to the provider.
type Embedder struct {
	inner domain.Embedder
	kv    kv
	opts  Options
}

// New wraps inner with a cache backed by store.
func New(inner domain.Embedder, store kv, opts Options) *Embedder {
	return &Embedder{inner: inner, kv: store, opts: opts}
}

// Embed implements domain.Embedder. A hit reports zero tokens.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := e.key(text)
	log := logger.FromContextOr(ctx, e.opts.Logger)

	if vec, ok := e.lookup(ctx, log, key); ok {
		e.count("hit")
		return domain.EmbeddingResult{Embedding: vec}, nil
	}
	e.count("miss")

	res, err := e.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}
	if len(res.Embedding) > 0 {
		if err := e.kv.SetWithTTL(ctx, key, encodeVector(res.Embedding), e.opts.TTL); err != nil {
			log.Warn("Embedding cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return res, nil
}

// key hashes model and trimmed text, so surrounding whitespace shares an entry.
func (e *Embedder) key(text string) string {
	sum := sha256.Sum256([]byte(e.opts.Model + "\x00" + strings.TrimSpace(text)))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (e *Embedder) lookup(ctx context.Context, log *zap.Logger, key string) ([]float32, bool) {
	data, err := e.kv.Get(ctx, key)
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
		return nil, false
	case err != nil:
		log.Warn("Embedding cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	vec, err := decodeVector(data)
	if err == nil && e.opts.Dimensions > 0 && len(vec) != e.opts.Dimensions {
		err = fmt.Errorf("cached vector has %d dimensions, want %d", len(vec), e.opts.Dimensions)
	}
	if err != nil {
		log.Warn("Discarding cached embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vec, true
}

func (e *Embedder) count(result string) {
	if e.opts.Lookups != nil {
		e.opts.Lookups.WithLabelValues(result).Inc()
	}
}

package db

import (
	"context"
	"time"
)

// Cache is a byte-value store with expiry, used for query embeddings.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close()
}

package embcache

import (
	"context"
	"time"

	"github.com/kailas-cloud/ytsearch/internal/db"
	"github.com/kailas-cloud/ytsearch/internal/domain"
)

type stubEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	s.calls++
	return s.result, s.err
}

// memKV is an in-memory kv with optional failure injection.
type memKV struct {
	data    map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	setKeys []string
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKV) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.setKeys = append(m.setKeys, key)
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

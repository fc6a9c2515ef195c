package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/ytsearch/internal/db"
)

var _ db.Cache = (*Store)(nil)

const readyPollInterval = 100 * time.Millisecond

// Config holds connection parameters for the embedding cache.
type Config struct {
	Addrs       []string
	Username    string
	Password    string
	DB          int
	DialTimeout time.Duration
	// KeyPrefix is prepended to every key, e.g. "ytsearch:".
	KeyPrefix string
}

// Store is a rueidis-backed db.Cache. Client-side caching is off.
type Store struct {
	client rueidis.Client
	prefix string
}

// NewStore creates the client without waiting for the server.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("redis: at least one address is required")
	}

	opt := rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	}
	if cfg.DialTimeout > 0 {
		opt.Dialer.Timeout = cfg.DialTimeout
	}

	client, err := rueidis.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("redis: connect %v: %w", cfg.Addrs, err)
	}
	return &Store{client: client, prefix: cfg.KeyPrefix}, nil
}

// Open creates the store and waits up to readyTimeout for it to answer PING.
// The client is closed when the server never becomes ready.
func Open(ctx context.Context, cfg Config, readyTimeout time.Duration) (*Store, error) {
	s, err := NewStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.WaitForReady(ctx, readyTimeout); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// WaitForReady polls Ping until the server responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("redis not ready after %s: %w", timeout, ctx.Err())
		case <-ticker.C:
			if s.Ping(ctx) == nil {
				return nil
			}
		}
	}
}

// Get returns the value at key, or db.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	key = s.prefix + key
	data, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).AsBytes()
	switch {
	case rueidis.IsRedisNil(err):
		return nil, db.ErrKeyNotFound
	case err != nil:
		return nil, &db.Error{Op: db.OpGet, Key: key, Err: err}
	}
	return data, nil
}

// SetWithTTL stores value at key. A non-positive ttl stores without expiry.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	key = s.prefix + key
	set := s.client.B().Set().Key(key).Value(rueidis.BinaryString(value))

	var cmd rueidis.Completed
	if ttl > 0 {
		cmd = set.Ex(ttl).Build()
	} else {
		cmd = set.Build()
	}
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Key: key, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

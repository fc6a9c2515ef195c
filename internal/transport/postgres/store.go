// Package postgres runs the similarity-search procedure directly over a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/ytsearch/internal/domain"
	"github.com/kailas-cloud/ytsearch/internal/metrics"
)

const service = "vector_store"

// querier is the subset of pgxpool.Pool used for matching.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store matches query vectors with a SQL function returning
// (video_id, url, chunk_index, chunk_text, score) rows, best first.
type Store struct {
	pool    *pgxpool.Pool
	q       querier
	query   string
	timeout time.Duration
}

// NewStore connects a pool. function must already be validated as a plain identifier.
func NewStore(ctx context.Context, dsn, function string, timeout time.Duration) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return &Store{pool: pool, q: pool, query: matchQuery(function), timeout: timeout}, nil
}

func matchQuery(function string) string {
	return "SELECT video_id, url, chunk_index, chunk_text, score FROM " + function + "($1::vector) LIMIT 1"
}

// Close releases the pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// MatchVideo returns the top-ranked chunk for vec, or nil when the function returns no rows.
func (s *Store) MatchVideo(ctx context.Context, vec []float32) (_ *domain.SimilarityMatch, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(service, "query", start, err) }()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var m domain.SimilarityMatch
	err = s.q.QueryRow(ctx, s.query, vectorLiteral(vec)).
		Scan(&m.VideoID, &m.URL, &m.ChunkIndex, &m.ChunkText, &m.Score)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	case errors.Is(err, context.DeadlineExceeded):
		return nil, fmt.Errorf("vector search: %w", domain.ErrTimeout)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorSearch, err)
	}
	return &m, nil
}

// vectorLiteral formats vec in pgvector text form: [v1,v2,...].
func vectorLiteral(vec []float32) string {
	var b strings.Builder
	b.Grow(len(vec)*10 + 2)
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

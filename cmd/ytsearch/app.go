package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ytsearch/internal/config"
	dbRedis "github.com/kailas-cloud/ytsearch/internal/db/redis"
	"github.com/kailas-cloud/ytsearch/internal/domain"
	"github.com/kailas-cloud/ytsearch/internal/metrics"
	"github.com/kailas-cloud/ytsearch/internal/repository/embcache"
	"github.com/kailas-cloud/ytsearch/internal/transport/delegate"
	openaiEmb "github.com/kailas-cloud/ytsearch/internal/transport/openai"
	"github.com/kailas-cloud/ytsearch/internal/transport/postgres"
	"github.com/kailas-cloud/ytsearch/internal/transport/supabase"
	"github.com/kailas-cloud/ytsearch/internal/transport/youtube"
	"github.com/kailas-cloud/ytsearch/internal/usecase/delegated"
	"github.com/kailas-cloud/ytsearch/internal/usecase/direct"
	embeddinguc "github.com/kailas-cloud/ytsearch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/ytsearch/internal/usecase/health"
	videouc "github.com/kailas-cloud/ytsearch/internal/usecase/video"
)

// app is the composition root: the endpoint service, its health report and the closers of pooled clients.
type app struct {
	videos  *videouc.Service
	health  *healthuc.Service
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}
	components := map[string]healthuc.Pinger{}

	var backend videouc.Backend
	switch cfg.Strategy {
	case config.StrategyDelegated:
		backend = delegated.New(delegate.NewClient(delegate.Config{
			Interpreter: cfg.Delegate.Interpreter,
			Script:      cfg.Delegate.Script,
			Dir:         cfg.Delegate.Dir,
			Timeout:     seconds(cfg.Delegate.TimeoutSec),
			Logger:      logger,
		}))
		logger.Info("Delegated strategy configured",
			zap.String("interpreter", cfg.Delegate.Interpreter),
			zap.String("script", cfg.Delegate.Script),
		)
	default:
		deps, err := buildDirectDeps(ctx, cfg, logger, a, components)
		if err != nil {
			a.Close()
			return nil, err
		}
		backend = direct.New(deps)
	}

	a.videos = videouc.New(backend, cfg.Strategy)
	a.health = healthuc.New(components)
	return a, nil
}

func buildDirectDeps(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	a *app,
	components map[string]healthuc.Pinger,
) (direct.Deps, error) {
	deps := direct.Deps{
		Credentials:   cfg.Credentials(),
		StoreSettings: cfg.VectorStoreSettings(),
		Platform: youtube.NewClient(youtube.Config{
			APIKey:           cfg.YouTube.APIKey,
			BaseURL:          cfg.YouTube.BaseURL,
			SearchMaxResults: cfg.YouTube.SearchMaxResults,
			RecentVideos:     cfg.YouTube.RecentVideos,
			Timeout:          seconds(cfg.YouTube.TimeoutSec),
		}),
	}

	deps.Embedder = buildEmbedder(ctx, cfg, logger, a, components)

	switch cfg.VectorStore.Driver {
	case config.DriverPostgres:
		if cfg.VectorStore.DSN == "" {
			// Requests fail with a configuration error before reaching the store.
			logger.Warn("vector_store.dsn is empty; similarity search is unavailable")
			break
		}
		store, err := postgres.NewStore(ctx, cfg.VectorStore.DSN, cfg.VectorStore.Function,
			seconds(cfg.VectorStore.TimeoutSec))
		if err != nil {
			return direct.Deps{}, fmt.Errorf("postgres vector store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		components["vector_store"] = store
		deps.Store = store
	default:
		deps.Store = supabase.NewClient(supabase.Config{
			URL:      cfg.VectorStore.URL,
			Key:      cfg.VectorStore.Key,
			Function: cfg.VectorStore.Function,
			Timeout:  seconds(cfg.VectorStore.TimeoutSec),
		})
	}

	return deps, nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached (optional) -> Instrumented.
func buildEmbedder(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	a *app,
	components map[string]healthuc.Pinger,
) domain.Embedder {
	base := openaiEmb.NewEmbedder(openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    seconds(cfg.Embedding.TimeoutSec),
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cfg.Cache.Enabled() {
		store, err := dbRedis.Open(ctx, dbRedis.Config{
			Addrs:       cfg.Cache.Addrs,
			Password:    cfg.Cache.Password,
			DB:          cfg.Cache.DB,
			DialTimeout: seconds(cfg.Cache.DialTimeoutSec),
			KeyPrefix:   cfg.Cache.KeyPrefix,
		}, seconds(cfg.Cache.ReadySec))
		if err != nil {
			logger.Warn("Embedding cache unavailable, continuing without it", zap.Error(err))
		} else {
			a.closers = append(a.closers, store.Close)
			components["cache"] = store
			embedder = embcache.New(base, store, embcache.Options{
				Model:      cfg.Embedding.Model,
				TTL:        seconds(cfg.Cache.TTLSec),
				Dimensions: cfg.Embedding.Dimensions,
				Lookups:    metrics.EmbeddingCacheTotal,
				Logger:     logger,
			})
			logger.Info("Embedding cache enabled", zap.Strings("addrs", cfg.Cache.Addrs))
		}
	}

	return embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Embedding.Model, logger)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

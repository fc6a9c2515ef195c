package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/ytsearch/internal/config"
	logpkg "github.com/kailas-cloud/ytsearch/internal/logger"
	"github.com/kailas-cloud/ytsearch/internal/metrics"
	chiTransport "github.com/kailas-cloud/ytsearch/internal/transport/chi"
	"github.com/kailas-cloud/ytsearch/internal/version"
	"github.com/kailas-cloud/ytsearch/internal/web"
)

func runServe(ctx context.Context, f flags) error {
	if err := config.LoadDotenv(f.dotenv); err != nil {
		return fmt.Errorf("dotenv: %w", err)
	}

	env := f.env
	if env == "" {
		env = config.GetEnv()
	}

	cfg, err := loadConfig(env, f)
	if err != nil {
		return err
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Format, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ytsearch gateway",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("strategy", cfg.Strategy),
		zap.String("vector_store", cfg.VectorStore.Driver),
		zap.Bool("cache", cfg.Cache.Enabled()),
	)

	metrics.Register()

	app, err := buildApp(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	static, err := web.Static(cfg.HTTP.StaticDir)
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}

	server := chiTransport.NewServer(app.videos, app.health, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		APIKeys: cfg.Auth.APIKeys,
		Static:  static,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return err //nolint:wrapcheck // already wrapped per goroutine
	}
	logger.Info("Server stopped gracefully")
	return nil
}

// loadConfig reads the config file and applies CLI overrides, re-validating afterwards.
func loadConfig(env string, f flags) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if f.config != "" {
		cfg, err = config.LoadFile(f.config)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	if f.strategy != "" {
		cfg.Strategy = f.strategy
	}
	if f.port != 0 {
		cfg.HTTP.Port = f.port
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid overrides: %w", err)
	}
	return cfg, nil
}

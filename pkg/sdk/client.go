package ytsearch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ytsearch/internal/config"
	"github.com/kailas-cloud/ytsearch/internal/domain"
	"github.com/kailas-cloud/ytsearch/internal/transport/delegate"
	openaiEmb "github.com/kailas-cloud/ytsearch/internal/transport/openai"
	"github.com/kailas-cloud/ytsearch/internal/transport/postgres"
	"github.com/kailas-cloud/ytsearch/internal/transport/supabase"
	"github.com/kailas-cloud/ytsearch/internal/transport/youtube"
	"github.com/kailas-cloud/ytsearch/internal/usecase/delegated"
	"github.com/kailas-cloud/ytsearch/internal/usecase/direct"
	healthuc "github.com/kailas-cloud/ytsearch/internal/usecase/health"
	videouc "github.com/kailas-cloud/ytsearch/internal/usecase/video"
)

const (
	defaultTimeout         = 15 * time.Second
	defaultDelegateTimeout = 120 * time.Second
	defaultFunction        = "match_youtube_video"
	strategySDK            = "sdk"
)

// Internal interface for substitution in tests.
type videoUseCase interface {
	SearchSimilar(ctx context.Context, query string) (*domain.SimilarityMatch, error)
	SearchVideos(ctx context.Context, query string) ([]domain.Video, error)
	ChannelInfo(ctx context.Context, videoURL string) (domain.Channel, error)
	SaveChannel(ctx context.Context, channelID string) (string, error)
	Transcript(ctx context.Context, videoURL string) (domain.Transcript, error)
}

// Client is the ytsearch SDK entry point. It is safe for concurrent use.
type Client struct {
	videos    videoUseCase
	healthSvc healthUseCase
	closers   []func()
	obs       *observer
}

// New creates a Client. Missing credentials are not an error here:
// each call that needs one fails with ErrConfiguration.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{function: defaultFunction}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := &Client{obs: obs}
	components := map[string]healthuc.Pinger{}

	var backend videouc.Backend
	if cfg.delegate != nil {
		timeout := cfg.timeout
		if timeout == 0 {
			timeout = defaultDelegateTimeout
		}
		backend = delegated.New(delegate.NewClient(delegate.Config{
			Interpreter: cfg.delegate.interpreter,
			Script:      cfg.delegate.script,
			Dir:         cfg.delegate.dir,
			Timeout:     timeout,
		}))
	} else {
		deps, err := c.directDeps(ctx, cfg, components)
		if err != nil {
			c.Close()
			return nil, err
		}
		backend = direct.New(deps)
	}

	c.videos = videouc.New(backend, strategySDK)
	c.healthSvc = healthuc.New(components)
	return c, nil
}

func (c *Client) directDeps(
	ctx context.Context, cfg *clientConfig, components map[string]healthuc.Pinger,
) (direct.Deps, error) {
	timeout := cfg.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	creds := map[config.Setting]string{
		config.SettingEmbeddingAPIKey: cfg.embeddingKey,
		config.SettingVectorStoreURL:  cfg.supabaseURL,
		config.SettingVectorStoreKey:  cfg.supabaseKey,
		config.SettingVectorStoreDSN:  cfg.postgresDSN,
		config.SettingYouTubeAPIKey:   cfg.youtubeKey,
	}

	deps := direct.Deps{
		Credentials: config.NewCredentials(creds),
		Embedder: openaiEmb.NewEmbedder(openaiEmb.Config{
			APIKey:  cfg.embeddingKey,
			BaseURL: cfg.embeddingBaseURL,
			Model:   cfg.embeddingModel,
			Timeout: timeout,
			Logger:  zap.NewNop(),
		}),
		Platform: youtube.NewClient(youtube.Config{
			APIKey:  cfg.youtubeKey,
			Timeout: timeout,
		}),
		Indexer:     cfg.indexer,
		Transcripts: cfg.transcripts,
	}

	if cfg.postgresDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.postgresDSN, cfg.function, timeout)
		if err != nil {
			return direct.Deps{}, fmt.Errorf("ytsearch: postgres store: %w", err)
		}
		c.closers = append(c.closers, store.Close)
		components["vector_store"] = store
		deps.Store = store
		deps.StoreSettings = []config.Setting{config.SettingVectorStoreDSN}
		return deps, nil
	}

	deps.Store = supabase.NewClient(supabase.Config{
		URL:      cfg.supabaseURL,
		Key:      cfg.supabaseKey,
		Function: cfg.function,
		Timeout:  timeout,
	})
	return deps, nil
}

// Close releases pooled connections.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// SearchSimilar returns the transcript chunk closest to query, or nil when nothing matches.
func (c *Client) SearchSimilar(ctx context.Context, query string) (_ *Match, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search_similar", start, err) }()

	m, err := c.videos.SearchSimilar(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ytsearch: %w", err)
	}
	return matchFromDomain(m), nil
}

// SearchVideos runs a keyword search.
func (c *Client) SearchVideos(ctx context.Context, query string) (_ []Video, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search_videos", start, err) }()

	videos, err := c.videos.SearchVideos(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ytsearch: %w", err)
	}
	return videosFromDomain(videos), nil
}

// ChannelInfo resolves the channel that published the video at videoURL.
func (c *Client) ChannelInfo(ctx context.Context, videoURL string) (_ Channel, err error) {
	start := time.Now()
	defer func() { c.obs.observe("channel_info", start, err) }()

	ch, err := c.videos.ChannelInfo(ctx, videoURL)
	if err != nil {
		return Channel{}, fmt.Errorf("ytsearch: %w", err)
	}
	return Channel{ID: ch.ID, Name: ch.Name, RecentVideos: videosFromDomain(ch.RecentVideos)}, nil
}

// SaveChannel indexes a channel for similarity search.
func (c *Client) SaveChannel(ctx context.Context, channelID string) (_ string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("save_channel", start, err) }()

	msg, err := c.videos.SaveChannel(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("ytsearch: %w", err)
	}
	return msg, nil
}

// Transcript fetches the transcript of the video at videoURL.
func (c *Client) Transcript(ctx context.Context, videoURL string) (_ Transcript, err error) {
	start := time.Now()
	defer func() { c.obs.observe("transcript", start, err) }()

	t, err := c.videos.Transcript(ctx, videoURL)
	if err != nil {
		return Transcript{}, fmt.Errorf("ytsearch: %w", err)
	}
	return Transcript{VideoID: t.VideoID, Text: t.Text}, nil
}

package ytsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	embeddingKey     string
	embeddingBaseURL string
	embeddingModel   string

	supabaseURL string
	supabaseKey string
	postgresDSN string
	function    string

	youtubeKey string

	delegate *delegateConfig

	transcripts TranscriptSource
	indexer     ChannelIndexer

	timeout    time.Duration
	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

type delegateConfig struct {
	interpreter string
	script      string
	dir         string
}

// WithOpenAI sets the embedding provider key used by similarity search.
func WithOpenAI(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.embeddingKey = apiKey
	})
}

// WithEmbeddingEndpoint points the embedding client at an OpenAI-compatible API and model.
// Empty values keep the defaults.
func WithEmbeddingEndpoint(baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.embeddingBaseURL = baseURL
		c.embeddingModel = model
	})
}

// WithSupabase uses the Supabase RPC endpoint as the vector store.
func WithSupabase(url, key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.supabaseURL = url
		c.supabaseKey = key
		c.postgresDSN = ""
	})
}

// WithPostgres queries the similarity function directly over a pgx pool.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.postgresDSN = dsn
	})
}

// WithMatchFunction overrides the similarity function name. Default: match_youtube_video.
func WithMatchFunction(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.function = name
	})
}

// WithYouTube sets the YouTube Data API key.
func WithYouTube(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.youtubeKey = apiKey
	})
}

// WithDelegate answers every call through an external script instead of direct upstream calls.
func WithDelegate(interpreter, script, dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.delegate = &delegateConfig{interpreter: interpreter, script: script, dir: dir}
	})
}

// WithTranscriptSource supplies transcript extraction for direct mode.
// Without it Transcript returns ErrNotImplemented.
func WithTranscriptSource(s TranscriptSource) Option {
	return optionFunc(func(c *clientConfig) {
		c.transcripts = s
	})
}

// WithChannelIndexer supplies channel indexing for direct mode.
// Without it SaveChannel returns ErrNotImplemented.
func WithChannelIndexer(i ChannelIndexer) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexer = i
	})
}

// WithTimeout bounds every outbound call. Default: 15s (120s in delegated mode).
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

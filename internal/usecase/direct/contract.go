package direct

import (
	"context"

	"github.com/kailas-cloud/ytsearch/internal/config"
	"github.com/kailas-cloud/ytsearch/internal/domain"
)

// Credentials reports the first missing setting as a *domain.ConfigurationError.
type Credentials interface {
	Require(settings ...config.Setting) error
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// VectorSearcher returns the top-ranked chunk for a vector, or nil when nothing matches.
type VectorSearcher interface {
	MatchVideo(ctx context.Context, vec []float32) (*domain.SimilarityMatch, error)
}

// Platform is the video platform client.
type Platform interface {
	SearchVideos(ctx context.Context, query string) ([]domain.Video, error)
	FetchChannelContext(ctx context.Context, videoURL string) (domain.Channel, error)
}

// ChannelIndexer embeds a channel's videos into the similarity store.
type ChannelIndexer interface {
	IndexChannel(ctx context.Context, channelID string) (string, error)
}

// TranscriptSource extracts the transcript text of a video.
type TranscriptSource interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

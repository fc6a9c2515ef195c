package video

import (
	"context"

	"github.com/kailas-cloud/ytsearch/internal/domain"
)

// Backend answers the five gateway operations. Implemented by the direct and delegated strategies.
type Backend interface {
	// SearchSimilar returns the best-matching transcript chunk. nil, nil means no match.
	SearchSimilar(ctx context.Context, query string) (*domain.SimilarityMatch, error)
	SearchVideos(ctx context.Context, query string) ([]domain.Video, error)
	ChannelInfo(ctx context.Context, videoURL string) (domain.Channel, error)
	// SaveChannel indexes a channel's videos and returns a human-readable summary.
	SaveChannel(ctx context.Context, channelID string) (string, error)
	Transcript(ctx context.Context, videoURL string) (domain.Transcript, error)
}

package direct

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/ytsearch/internal/config"
	"github.com/kailas-cloud/ytsearch/internal/domain"
)

// Deps holds the collaborators of the direct strategy. Indexer and Transcripts may be nil.
type Deps struct {
	Credentials   Credentials
	StoreSettings []config.Setting
	Embedder      Embedder
	Store         VectorSearcher
	Platform      Platform
	Indexer       ChannelIndexer
	Transcripts   TranscriptSource
}

// Service answers every operation with direct upstream calls.
// Each operation checks its settings before the first outbound call and stops at the first failure.
type Service struct {
	creds         Credentials
	storeSettings []config.Setting
	embed         Embedder
	store         VectorSearcher
	platform      Platform
	indexer       ChannelIndexer
	transcripts   TranscriptSource
}

// New creates a direct strategy.
func New(d Deps) *Service {
	s := &Service{
		creds:         d.Credentials,
		storeSettings: d.StoreSettings,
		embed:         d.Embedder,
		store:         d.Store,
		platform:      d.Platform,
		indexer:       d.Indexer,
		transcripts:   d.Transcripts,
	}
	if len(s.storeSettings) == 0 {
		s.storeSettings = []config.Setting{config.SettingVectorStoreURL, config.SettingVectorStoreKey}
	}
	if s.indexer == nil {
		s.indexer = UnimplementedIndexer{}
	}
	if s.transcripts == nil {
		s.transcripts = UnimplementedTranscripts{}
	}
	return s
}

// SearchSimilar embeds the query and returns the closest stored chunk, or nil.
func (s *Service) SearchSimilar(ctx context.Context, query string) (*domain.SimilarityMatch, error) {
	required := append([]config.Setting{config.SettingEmbeddingAPIKey}, s.storeSettings...)
	if err := s.creds.Require(required...); err != nil {
		return nil, err //nolint:wrapcheck // configuration errors are reported as-is
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	m, err := s.store.MatchVideo(ctx, emb.Embedding)
	if err != nil {
		return nil, fmt.Errorf("match video: %w", err)
	}
	return m, nil
}

// SearchVideos runs a keyword search.
func (s *Service) SearchVideos(ctx context.Context, query string) ([]domain.Video, error) {
	if err := s.creds.Require(config.SettingYouTubeAPIKey); err != nil {
		return nil, err //nolint:wrapcheck // configuration errors are reported as-is
	}
	videos, err := s.platform.SearchVideos(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}
	return videos, nil
}

// ChannelInfo resolves the channel of a video and its recent uploads.
func (s *Service) ChannelInfo(ctx context.Context, videoURL string) (domain.Channel, error) {
	if err := s.creds.Require(config.SettingYouTubeAPIKey); err != nil {
		return domain.Channel{}, err //nolint:wrapcheck // configuration errors are reported as-is
	}
	ch, err := s.platform.FetchChannelContext(ctx, videoURL)
	if err != nil {
		return domain.Channel{}, fmt.Errorf("youtube channel: %w", err)
	}
	return ch, nil
}

// SaveChannel indexes a channel through the configured ChannelIndexer.
func (s *Service) SaveChannel(ctx context.Context, channelID string) (string, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return "", fmt.Errorf("%w: channel_id is required", domain.ErrInvalidRequest)
	}
	required := append([]config.Setting{config.SettingEmbeddingAPIKey, config.SettingYouTubeAPIKey}, s.storeSettings...)
	if err := s.creds.Require(required...); err != nil {
		return "", err //nolint:wrapcheck // configuration errors are reported as-is
	}
	msg, err := s.indexer.IndexChannel(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("index channel %s: %w", channelID, err)
	}
	return msg, nil
}

// Transcript extracts the video id and fetches its transcript.
func (s *Service) Transcript(ctx context.Context, videoURL string) (domain.Transcript, error) {
	videoID, err := domain.ExtractVideoID(videoURL)
	if err != nil {
		return domain.Transcript{}, err //nolint:wrapcheck // already carries the URL
	}
	text, err := s.transcripts.Fetch(ctx, videoID)
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("fetch transcript %s: %w", videoID, err)
	}
	return domain.Transcript{VideoID: videoID, Text: text}, nil
}

// UnimplementedIndexer is the ChannelIndexer used until a real one is configured.
type UnimplementedIndexer struct{}

// IndexChannel always fails with domain.ErrNotImplemented.
func (UnimplementedIndexer) IndexChannel(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("channel embedding persistence is not available: %w", domain.ErrNotImplemented)
}

// UnimplementedTranscripts is the TranscriptSource used until a real one is configured.
type UnimplementedTranscripts struct{}

// Fetch always fails with domain.ErrNotImplemented.
func (UnimplementedTranscripts) Fetch(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("transcript extraction is not available: %w", domain.ErrNotImplemented)
}

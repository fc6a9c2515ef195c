package video

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ytsearch/internal/domain"
	"github.com/kailas-cloud/ytsearch/internal/logger"
	"github.com/kailas-cloud/ytsearch/internal/metrics"
)

// Operation names used in logs and metrics.
const (
	OpSearchSimilar = "search_similar"
	OpSearchVideos  = "search_videos"
	OpChannelInfo   = "channel_info"
	OpSaveChannel   = "save_channel"
	OpTranscript    = "transcript"
)

// Service is the endpoint layer over a Backend.
// URLs are validated here so every strategy rejects malformed input identically and without outbound calls.
type Service struct {
	backend  Backend
	strategy string
}

// New creates a video service. strategy labels metrics only.
func New(backend Backend, strategy string) *Service {
	return &Service{backend: backend, strategy: strategy}
}

// SearchSimilar finds the transcript chunk closest to query. A nil match is a successful "no match".
func (s *Service) SearchSimilar(ctx context.Context, query string) (*domain.SimilarityMatch, error) {
	ctx = s.scope(ctx, OpSearchSimilar)
	m, err := s.backend.SearchSimilar(ctx, query)
	s.record(ctx, OpSearchSimilar, err)
	if err != nil {
		return nil, fmt.Errorf("search similar: %w", err)
	}
	return m, nil
}

// SearchVideos runs a keyword search on the video platform.
func (s *Service) SearchVideos(ctx context.Context, query string) ([]domain.Video, error) {
	ctx = s.scope(ctx, OpSearchVideos)
	videos, err := s.backend.SearchVideos(ctx, query)
	s.record(ctx, OpSearchVideos, err)
	if err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}
	if videos == nil {
		videos = []domain.Video{}
	}
	return videos, nil
}

// ChannelInfo resolves the channel behind a video URL and its most recent videos.
func (s *Service) ChannelInfo(ctx context.Context, videoURL string) (domain.Channel, error) {
	ctx = s.scope(ctx, OpChannelInfo)
	if _, err := domain.ExtractVideoID(videoURL); err != nil {
		s.record(ctx, OpChannelInfo, err)
		return domain.Channel{}, err
	}
	ch, err := s.backend.ChannelInfo(ctx, videoURL)
	s.record(ctx, OpChannelInfo, err)
	if err != nil {
		return domain.Channel{}, fmt.Errorf("channel info: %w", err)
	}
	if ch.RecentVideos == nil {
		ch.RecentVideos = []domain.Video{}
	}
	return ch, nil
}

// SaveChannel indexes a channel's videos for similarity search.
func (s *Service) SaveChannel(ctx context.Context, channelID string) (string, error) {
	ctx = s.scope(ctx, OpSaveChannel)
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		err := fmt.Errorf("%w: channel_id is required", domain.ErrInvalidRequest)
		s.record(ctx, OpSaveChannel, err)
		return "", err
	}
	msg, err := s.backend.SaveChannel(ctx, channelID)
	s.record(ctx, OpSaveChannel, err)
	if err != nil {
		return "", fmt.Errorf("save channel: %w", err)
	}
	return msg, nil
}

// Transcript fetches the transcript of the video at videoURL.
func (s *Service) Transcript(ctx context.Context, videoURL string) (domain.Transcript, error) {
	ctx = s.scope(ctx, OpTranscript)
	videoID, err := domain.ExtractVideoID(videoURL)
	if err != nil {
		s.record(ctx, OpTranscript, err)
		return domain.Transcript{}, err
	}
	t, err := s.backend.Transcript(ctx, videoURL)
	s.record(ctx, OpTranscript, err)
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("transcript: %w", err)
	}
	if t.VideoID == "" {
		t.VideoID = videoID
	}
	return t, nil
}

// scope tags the request logger so backends log with the operation attached.
func (s *Service) scope(ctx context.Context, op string) context.Context {
	return logger.With(ctx, zap.String("operation", op), zap.String("strategy", s.strategy))
}

func (s *Service) record(ctx context.Context, op string, err error) {
	outcome := outcomeOf(err)
	metrics.OperationsTotal.WithLabelValues(op, s.strategy, outcome).Inc()
	if err != nil {
		logger.FromContext(ctx).Warn("Operation failed",
			zap.String("outcome", outcome),
			zap.Error(err),
		)
	}
}

// outcomeOf classifies an error into a low-cardinality metric label.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrConfiguration):
		return "configuration"
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidURL):
		return "invalid"
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrNotImplemented):
		return "not_implemented"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "upstream_error"
	}
}

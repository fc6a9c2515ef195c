package ytsearch

import (
	"context"

	"github.com/kailas-cloud/ytsearch/internal/domain"
)

// --- videoUseCase mock ---

type mockVideoUC struct {
	searchSimilarFn func(ctx context.Context, query string) (*domain.SimilarityMatch, error)
	searchVideosFn  func(ctx context.Context, query string) ([]domain.Video, error)
	channelInfoFn   func(ctx context.Context, videoURL string) (domain.Channel, error)
	saveChannelFn   func(ctx context.Context, channelID string) (string, error)
	transcriptFn    func(ctx context.Context, videoURL string) (domain.Transcript, error)
}

func (m *mockVideoUC) SearchSimilar(ctx context.Context, query string) (*domain.SimilarityMatch, error) {
	return m.searchSimilarFn(ctx, query)
}

func (m *mockVideoUC) SearchVideos(ctx context.Context, query string) ([]domain.Video, error) {
	return m.searchVideosFn(ctx, query)
}

func (m *mockVideoUC) ChannelInfo(ctx context.Context, videoURL string) (domain.Channel, error) {
	return m.channelInfoFn(ctx, videoURL)
}

func (m *mockVideoUC) SaveChannel(ctx context.Context, channelID string) (string, error) {
	return m.saveChannelFn(ctx, channelID)
}

func (m *mockVideoUC) Transcript(ctx context.Context, videoURL string) (domain.Transcript, error) {
	return m.transcriptFn(ctx, videoURL)
}

// --- TranscriptSource mock ---

type mockTranscripts struct {
	fn func(ctx context.Context, videoID string) (string, error)
}

func (m *mockTranscripts) Fetch(ctx context.Context, videoID string) (string, error) {
	return m.fn(ctx, videoID)
}

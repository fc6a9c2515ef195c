package ytsearch

import (
	"context"

	"github.com/kailas-cloud/ytsearch/internal/domain"
)

// TranscriptSource extracts the transcript text of a video by id.
type TranscriptSource interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// ChannelIndexer embeds a channel's videos into the similarity store and returns a summary.
type ChannelIndexer interface {
	IndexChannel(ctx context.Context, channelID string) (string, error)
}

// Match is the transcript chunk closest to a query. Fields the store omitted are nil.
type Match struct {
	VideoID    *string
	URL        *string
	ChunkIndex *int
	ChunkText  *string
	Score      *float64
}

// Video is normalized video metadata. Counts are nil when not exposed.
type Video struct {
	ID            string
	Title         string
	PublishedDate string
	ChannelName   string
	ChannelID     string
	ThumbnailURL  string
	ViewCount     *int64
	LikeCount     *int64
	URL           string
}

// Channel is a channel with its most recent videos.
type Channel struct {
	ID           string
	Name         string
	RecentVideos []Video
}

// Transcript is the text extracted for one video.
type Transcript struct {
	VideoID string
	Text    string
}

func matchFromDomain(m *domain.SimilarityMatch) *Match {
	if m == nil {
		return nil
	}
	return &Match{
		VideoID:    m.VideoID,
		URL:        m.URL,
		ChunkIndex: m.ChunkIndex,
		ChunkText:  m.ChunkText,
		Score:      m.Score,
	}
}

func videoFromDomain(v domain.Video) Video {
	return Video{
		ID:            v.ID,
		Title:         v.Title,
		PublishedDate: v.PublishedDate,
		ChannelName:   v.ChannelName,
		ChannelID:     v.ChannelID,
		ThumbnailURL:  v.ThumbnailURL,
		ViewCount:     v.ViewCount,
		LikeCount:     v.LikeCount,
		URL:           v.URL,
	}
}

func videosFromDomain(in []domain.Video) []Video {
	out := make([]Video, len(in))
	for i, v := range in {
		out[i] = videoFromDomain(v)
	}
	return out
}

package chi

import "github.com/kailas-cloud/ytsearch/internal/domain"

type queryRequest struct {
	Query string `json:"query"`
}

type videoURLRequest struct {
	VideoURL string `json:"video_url"`
}

type channelRequest struct {
	ChannelID string `json:"channel_id"`
}

type transcriptRequest struct {
	URL string `json:"url"`
}

// similarResponse is either a match or, on no match, only the error field.
type similarResponse struct {
	VideoID    *string  `json:"video_id,omitempty"`
	URL        *string  `json:"url,omitempty"`
	ChunkIndex *int     `json:"chunk_index,omitempty"`
	ChunkText  *string  `json:"chunk_text,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// videoResponse keeps absent counts as null.
type videoResponse struct {
	Title         string `json:"title"`
	PublishedDate string `json:"published_date"`
	ChannelName   string `json:"channel_name"`
	ChannelID     string `json:"channel_id"`
	ThumbnailURL  string `json:"thumbnail_url"`
	ViewCount     *int64 `json:"view_count"`
	LikeCount     *int64 `json:"like_count"`
	URL           string `json:"url"`
}

type channelResponse struct {
	ChannelID    string          `json:"channel_id"`
	ChannelName  string          `json:"channel_name"`
	RecentVideos []videoResponse `json:"recent_videos"`
}

type saveResponse struct {
	Message string `json:"message"`
}

type transcriptResponse struct {
	VideoID    string `json:"video_id"`
	Transcript string `json:"transcript"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func similarToResponse(m *domain.SimilarityMatch) similarResponse {
	if m == nil {
		return similarResponse{Error: domain.NoMatchMessage}
	}
	return similarResponse{
		VideoID:    m.VideoID,
		URL:        m.URL,
		ChunkIndex: m.ChunkIndex,
		ChunkText:  m.ChunkText,
		Score:      m.Score,
	}
}

func videoToResponse(v domain.Video) videoResponse {
	return videoResponse{
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

func videosToResponse(videos []domain.Video) []videoResponse {
	out := make([]videoResponse, len(videos))
	for i, v := range videos {
		out[i] = videoToResponse(v)
	}
	return out
}

func channelToResponse(c domain.Channel) channelResponse {
	return channelResponse{
		ChannelID:    c.ID,
		ChannelName:  c.Name,
		RecentVideos: videosToResponse(c.RecentVideos),
	}
}

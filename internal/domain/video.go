package domain

// NoMatchMessage is reported when the vector store has no row for a query.
const NoMatchMessage = "No similar video found."

// WatchURLPrefix is the canonical watch URL without the video id.
const WatchURLPrefix = "https://www.youtube.com/watch?v="

// SimilarityMatch is the top-ranked transcript chunk returned by the vector store.
type SimilarityMatch struct {
	VideoID    *string
	URL        *string
	ChunkIndex *int
	ChunkText  *string
	Score      *float64
}

// Video is normalized video metadata. Counts are nil when the platform does not expose them.
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

// Channel is a channel with its most recent videos, newest first.
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

// WatchURL returns the canonical watch URL for a video id.
func WatchURL(videoID string) string {
	return WatchURLPrefix + videoID
}

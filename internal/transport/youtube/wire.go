package youtube

import (
	"strconv"

	"github.com/kailas-cloud/ytsearch/internal/domain"
)

const notAvailable = "N/A"

type searchListResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type videoListResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID         string          `json:"id"`
	Snippet    videoSnippet    `json:"snippet"`
	Statistics videoStatistics `json:"statistics"`
}

type videoSnippet struct {
	Title        string     `json:"title"`
	PublishedAt  string     `json:"publishedAt"`
	ChannelID    string     `json:"channelId"`
	ChannelTitle string     `json:"channelTitle"`
	Thumbnails   thumbnails `json:"thumbnails"`
}

type thumbnails struct {
	Default *thumbnail `json:"default"`
	Medium  *thumbnail `json:"medium"`
	High    *thumbnail `json:"high"`
}

type thumbnail struct {
	URL string `json:"url"`
}

// Counts arrive as decimal strings and may be absent (e.g. hidden likes).
type videoStatistics struct {
	ViewCount *string `json:"viewCount"`
	LikeCount *string `json:"likeCount"`
}

func (it videoItem) toVideo() domain.Video {
	s := it.Snippet
	return domain.Video{
		ID:            it.ID,
		Title:         orDefault(s.Title, notAvailable),
		PublishedDate: s.PublishedAt,
		ChannelName:   orDefault(s.ChannelTitle, notAvailable),
		ChannelID:     s.ChannelID,
		ThumbnailURL:  s.Thumbnails.best(),
		ViewCount:     parseCount(it.Statistics.ViewCount),
		LikeCount:     parseCount(it.Statistics.LikeCount),
		URL:           domain.WatchURL(it.ID),
	}
}

// best picks high, then medium, then default.
func (t thumbnails) best() string {
	for _, th := range []*thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.URL != "" {
			return th.URL
		}
	}
	return ""
}

// parseCount yields nil for absent or unparsable values.
func parseCount(s *string) *int64 {
	if s == nil {
		return nil
	}
	n, err := strconv.ParseInt(*s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

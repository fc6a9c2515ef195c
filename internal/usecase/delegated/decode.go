package delegated

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/kailas-cloud/ytsearch/internal/domain"
)

// videoFields accepts both the gateway's snake_case keys and the script's camelCase keys.
type videoFields map[string]json.RawMessage

func (v videoFields) str(keys ...string) string {
	for _, k := range keys {
		raw, ok := v[k]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}
	return ""
}

// optional reads key as T. A null or mistyped value is absent.
func optional[T any](v videoFields, key string) *T {
	raw, ok := v[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	var x T
	if json.Unmarshal(raw, &x) != nil {
		return nil
	}
	return &x
}

// count accepts a JSON number or a decimal string. Anything else is absent.
func (v videoFields) count(keys ...string) *int64 {
	for _, k := range keys {
		raw, ok := v[k]
		if !ok {
			continue
		}
		var n int64
		if json.Unmarshal(raw, &n) == nil {
			return &n
		}
		var s string
		if json.Unmarshal(raw, &s) == nil {
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

func (v videoFields) toVideo() domain.Video {
	url := v.str("url")
	id := v.str("id", "video_id", "videoId")
	if id == "" && url != "" {
		id, _ = domain.ExtractVideoID(url)
	}
	if url == "" && id != "" {
		url = domain.WatchURL(id)
	}
	return domain.Video{
		ID:            id,
		Title:         orDefault(v.str("title"), "N/A"),
		PublishedDate: v.str("published_date", "publishedDate", "publishedAt"),
		ChannelName:   orDefault(v.str("channel_name", "channelName", "channelTitle"), "N/A"),
		ChannelID:     v.str("channel_id", "channelId"),
		ThumbnailURL:  v.str("thumbnail_url", "thumbnailUrl", "thumbnail"),
		ViewCount:     v.count("view_count", "viewCount"),
		LikeCount:     v.count("like_count", "likeCount"),
		URL:           url,
	}
}

var errNoChannelID = errors.New("channel id missing")

// channelFields accepts {channel_id, channel_name, recent_videos} and {channelTitle, channelUrl, videos}.
type channelFields struct {
	ChannelID    string        `json:"channel_id"`
	ChannelName  string        `json:"channel_name"`
	RecentVideos []videoFields `json:"recent_videos"`
	ChannelTitle string        `json:"channelTitle"`
	ChannelURL   string        `json:"channelUrl"`
	Videos       []videoFields `json:"videos"`
}

func decodeChannel(payload json.RawMessage) (domain.Channel, error) {
	var f channelFields
	if err := json.Unmarshal(payload, &f); err != nil {
		return domain.Channel{}, err //nolint:wrapcheck // caller reports malformed output
	}

	ch := domain.Channel{
		ID:   f.ChannelID,
		Name: f.ChannelName,
	}
	if ch.ID == "" && f.ChannelURL != "" {
		if _, id, ok := strings.Cut(f.ChannelURL, "/channel/"); ok {
			ch.ID = strings.Trim(id, "/")
		}
	}
	if ch.ID == "" {
		return domain.Channel{}, errNoChannelID
	}
	if ch.Name == "" {
		ch.Name = orDefault(f.ChannelTitle, "Unknown Channel")
	}

	items := f.RecentVideos
	if items == nil {
		items = f.Videos
	}
	ch.RecentVideos = make([]domain.Video, 0, len(items))
	for _, it := range items {
		ch.RecentVideos = append(ch.RecentVideos, it.toVideo())
	}
	return ch, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Package youtube is a thin client for the YouTube Data API v3 search and videos endpoints.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/ytsearch/internal/domain"
	"github.com/kailas-cloud/ytsearch/internal/metrics"
)

const (
	service = "youtube"

	// DefaultBaseURL is the public Data API v3 root.
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

	unknownChannel = "Unknown Channel"
	maxErrorBody   = 4 << 10
)

// Config holds the video platform client settings.
type Config struct {
	APIKey           string
	BaseURL          string
	SearchMaxResults int
	RecentVideos     int
	Timeout          time.Duration
	HTTPClient       *http.Client
}

// Client issues search and details calls. Safe for concurrent use.
type Client struct {
	base         string
	key          string
	searchMax    int
	recentVideos int
	timeout      time.Duration
	http         *http.Client
}

// NewClient creates a YouTube Data API client.
func NewClient(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	searchMax := cfg.SearchMaxResults
	if searchMax <= 0 {
		searchMax = 20
	}
	recent := cfg.RecentVideos
	if recent <= 0 {
		recent = 5
	}
	return &Client{
		base:         base,
		key:          cfg.APIKey,
		searchMax:    searchMax,
		recentVideos: recent,
		timeout:      cfg.Timeout,
		http:         hc,
	}
}

// SearchVideos runs a keyword search and enriches the hits with snippet and statistics.
// No hits means no details call.
func (c *Client) SearchVideos(ctx context.Context, query string) ([]domain.Video, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	ids, err := c.search(ctx, url.Values{
		"part":       {"snippet"},
		"q":          {query},
		"type":       {"video"},
		"maxResults": {strconv.Itoa(c.searchMax)},
	})
	if err != nil {
		return nil, err
	}
	return c.videoDetails(ctx, ids)
}

// FetchChannelContext resolves the channel of the video at videoURL and lists its most recent videos.
func (c *Client) FetchChannelContext(ctx context.Context, videoURL string) (domain.Channel, error) {
	videoID, err := domain.ExtractVideoID(videoURL)
	if err != nil {
		return domain.Channel{}, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var lookup videoListResponse
	if err := c.get(ctx, "videos", url.Values{"part": {"snippet"}, "id": {videoID}}, &lookup); err != nil {
		return domain.Channel{}, err
	}
	if len(lookup.Items) == 0 || lookup.Items[0].Snippet.ChannelID == "" {
		return domain.Channel{}, fmt.Errorf("%w: %w", domain.ErrPlatform, domain.ErrChannelNotFound)
	}
	snippet := lookup.Items[0].Snippet

	ch := domain.Channel{
		ID:   snippet.ChannelID,
		Name: orDefault(snippet.ChannelTitle, unknownChannel),
	}

	ids, err := c.search(ctx, url.Values{
		"part":       {"snippet"},
		"channelId":  {ch.ID},
		"order":      {"date"},
		"type":       {"video"},
		"maxResults": {strconv.Itoa(c.recentVideos)},
	})
	if err != nil {
		return domain.Channel{}, err
	}
	if ch.RecentVideos, err = c.videoDetails(ctx, ids); err != nil {
		return domain.Channel{}, err
	}
	return ch, nil
}

func (c *Client) search(ctx context.Context, params url.Values) ([]string, error) {
	var resp searchListResponse
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.ID.VideoID != "" {
			ids = append(ids, it.ID.VideoID)
		}
	}
	return ids, nil
}

func (c *Client) videoDetails(ctx context.Context, ids []string) ([]domain.Video, error) {
	if len(ids) == 0 {
		return []domain.Video{}, nil
	}
	var resp videoListResponse
	params := url.Values{"part": {"snippet,statistics"}, "id": {strings.Join(ids, ",")}}
	if err := c.get(ctx, "videos", params, &resp); err != nil {
		return nil, err
	}
	videos := make([]domain.Video, 0, len(resp.Items))
	for _, it := range resp.Items {
		videos = append(videos, it.toVideo())
	}
	return videos, nil
}

// get performs GET {base}/{endpoint}?params&key=... and decodes the JSON body into out.
// Errors never carry the request URL, which contains the API key.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(service, endpoint, start, err) }()

	params.Set("key", c.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, domain.ErrPlatform)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("youtube %s: %w", endpoint, domain.ErrTimeout)
		}
		return fmt.Errorf("youtube %s request failed: %w", endpoint, domain.ErrPlatform)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := apiErrorMessage(io.LimitReader(resp.Body, maxErrorBody))
		uerr := &domain.UpstreamError{Service: service, StatusCode: resp.StatusCode, Err: domain.ErrPlatform}
		if msg != "" {
			return fmt.Errorf("%w: %s", uerr, msg)
		}
		return uerr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("youtube %s: %w", endpoint, domain.ErrTimeout)
		}
		return fmt.Errorf("decode %s response: %w", endpoint, domain.ErrPlatform)
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}

// apiErrorMessage extracts error.message from a Data API error body.
func apiErrorMessage(r io.Reader) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.NewDecoder(r).Decode(&body) != nil {
		return ""
	}
	return body.Error.Message
}

package delegated

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/ytsearch/internal/domain"
	"github.com/kailas-cloud/ytsearch/internal/transport/delegate"
)

// Service answers every operation by delegating to the client script and normalizing its output.
type Service struct {
	inv Invoker
}

// New creates a delegated strategy.
func New(inv Invoker) *Service {
	return &Service{inv: inv}
}

// SearchSimilar delegates the similarity search. The script's no-match object maps to nil.
func (s *Service) SearchSimilar(ctx context.Context, query string) (*domain.SimilarityMatch, error) {
	payload, _, err := s.call(ctx, delegate.OpSearchSimilar, map[string]string{"query": query})
	if err != nil {
		var derr *domain.DelegationError
		if errors.As(err, &derr) && derr.Message == domain.NoMatchMessage {
			return nil, nil
		}
		return nil, err
	}

	var row videoFields
	if err := json.Unmarshal(payload, &row); err != nil {
		return nil, malformed(delegate.OpSearchSimilar, payload)
	}
	match := &domain.SimilarityMatch{
		VideoID:    optional[string](row, "video_id"),
		URL:        optional[string](row, "url"),
		ChunkIndex: optional[int](row, "chunk_index"),
		ChunkText:  optional[string](row, "chunk_text"),
		Score:      optional[float64](row, "score"),
	}
	if match.VideoID == nil && match.URL == nil && match.ChunkText == nil {
		return nil, malformed(delegate.OpSearchSimilar, payload)
	}
	return match, nil
}

// SearchVideos delegates the keyword search.
// The script may return its list JSON-encoded inside a string "result"; only that field is decoded a second time.
func (s *Service) SearchVideos(ctx context.Context, query string) ([]domain.Video, error) {
	payload, unwrapped, err := s.call(ctx, delegate.OpSearchVideos, map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	if unwrapped {
		var inner string
		if json.Unmarshal(payload, &inner) == nil {
			payload = json.RawMessage(inner)
		}
	}

	var items []videoFields
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, malformed(delegate.OpSearchVideos, payload)
	}
	videos := make([]domain.Video, 0, len(items))
	for _, it := range items {
		videos = append(videos, it.toVideo())
	}
	return videos, nil
}

// ChannelInfo delegates the channel lookup.
func (s *Service) ChannelInfo(ctx context.Context, videoURL string) (domain.Channel, error) {
	payload, _, err := s.call(ctx, delegate.OpChannelInfo, map[string]string{"video_url": videoURL})
	if err != nil {
		return domain.Channel{}, err
	}
	ch, err := decodeChannel(payload)
	if err != nil {
		return domain.Channel{}, malformed(delegate.OpChannelInfo, payload)
	}
	return ch, nil
}

// SaveChannel delegates channel indexing and returns the script's summary.
func (s *Service) SaveChannel(ctx context.Context, channelID string) (string, error) {
	payload, _, err := s.call(ctx, delegate.OpSaveChannel, map[string]string{"channel_id": channelID})
	if err != nil {
		return "", err
	}
	var msg string
	if json.Unmarshal(payload, &msg) == nil && strings.TrimSpace(msg) != "" {
		return msg, nil
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(payload, &obj) == nil && obj.Message != "" {
		return obj.Message, nil
	}
	return "", malformed(delegate.OpSaveChannel, payload)
}

// Transcript delegates transcript extraction.
func (s *Service) Transcript(ctx context.Context, videoURL string) (domain.Transcript, error) {
	payload, _, err := s.call(ctx, delegate.OpTranscript, map[string]string{"url": videoURL})
	if err != nil {
		return domain.Transcript{}, err
	}
	var text string
	if json.Unmarshal(payload, &text) == nil && strings.TrimSpace(text) != "" {
		return domain.Transcript{Text: text}, nil
	}
	var obj struct {
		VideoID    string `json:"video_id"`
		Transcript string `json:"transcript"`
	}
	if json.Unmarshal(payload, &obj) == nil && obj.Transcript != "" {
		return domain.Transcript{VideoID: obj.VideoID, Text: obj.Transcript}, nil
	}
	return domain.Transcript{}, malformed(delegate.OpTranscript, payload)
}

// call invokes op and returns the effective payload: the "result" field when present, else the whole document.
// unwrapped reports whether the payload came from "result".
// An object carrying "error" without "result" is a remote failure; a null payload is malformed.
func (s *Service) call(ctx context.Context, op string, args any) (payload json.RawMessage, unwrapped bool, err error) {
	out, err := s.inv.Invoke(ctx, op, args)
	if err != nil {
		return nil, false, fmt.Errorf("invoke %s: %w", op, err)
	}

	var doc json.RawMessage
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		return nil, false, malformed(op, []byte(out))
	}
	payload = doc

	var env map[string]json.RawMessage
	if json.Unmarshal(doc, &env) == nil && env != nil {
		if result, ok := env["result"]; ok {
			payload, unwrapped = result, true
		} else if rawErr, ok := env["error"]; ok {
			return nil, false, &domain.DelegationError{Operation: op, Stdout: out, Message: errorText(rawErr)}
		}
	}

	if isNull(payload) {
		return nil, false, malformed(op, []byte(out))
	}
	return payload, unwrapped, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

func errorText(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func malformed(op string, payload []byte) error {
	return &domain.DelegationError{Operation: op, Stdout: string(payload), Message: "unexpected output"}
}

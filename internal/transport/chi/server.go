package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ytsearch/internal/domain"
	healthuc "github.com/kailas-cloud/ytsearch/internal/usecase/health"
	"github.com/kailas-cloud/ytsearch/internal/version"
)

const maxBodyBytes = 1 << 20

// VideoService answers the five gateway operations.
type VideoService interface {
	SearchSimilar(ctx context.Context, query string) (*domain.SimilarityMatch, error)
	SearchVideos(ctx context.Context, query string) ([]domain.Video, error)
	ChannelInfo(ctx context.Context, videoURL string) (domain.Channel, error)
	SaveChannel(ctx context.Context, channelID string) (string, error)
	Transcript(ctx context.Context, videoURL string) (domain.Transcript, error)
}

// HealthChecker reports dependency health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers of the gateway.
type Server struct {
	videos        VideoService
	health        HealthChecker
	logger        *zap.Logger
	now           func() time.Time
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(videos VideoService, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{
		videos:        videos,
		health:        health,
		logger:        logger,
		now:           time.Now,
		errorHandlers: defaultErrorHandlers(),
	}
}

// SearchSimilar handles POST /api/search.
func (s *Server) SearchSimilar(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	match, err := s.videos.SearchSimilar(ctx, req.Query)
	setEmbeddingHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, similarToResponse(match))
}

// SearchVideos handles POST /api/youtube/search.
func (s *Server) SearchVideos(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	videos, err := s.videos.SearchVideos(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, videosToResponse(videos))
}

// ChannelInfo handles POST /api/channel/info.
func (s *Server) ChannelInfo(w http.ResponseWriter, r *http.Request) {
	var req videoURLRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ch, err := s.videos.ChannelInfo(r.Context(), req.VideoURL)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, channelToResponse(ch))
}

// SaveChannel handles POST /api/channel/save.
func (s *Server) SaveChannel(w http.ResponseWriter, r *http.Request) {
	var req channelRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	msg, err := s.videos.SaveChannel(ctx, req.ChannelID)
	setEmbeddingHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, saveResponse{Message: msg})
}

// Transcript handles POST /api/transcript.
func (s *Server) Transcript(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if !decodeBody(w, r, &req) {
		return
	}

	t, err := s.videos.Transcript(r.Context(), req.URL)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, transcriptResponse{VideoID: t.VideoID, Transcript: t.Text})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	var checks map[string]string
	if len(report.Checks) > 0 {
		checks = make(map[string]string, len(report.Checks))
		for k, v := range report.Checks {
			checks[k] = string(v)
		}
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:    string(report.Status),
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Version:   version.Version,
		Checks:    checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// NotFound handles unknown routes with the uniform error body.
func (s *Server) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, CategoryNotFound, "route not found")
}

// MethodNotAllowed handles known routes called with the wrong method.
func (s *Server) MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, CategoryBadRequest, "method not allowed")
}

// decodeBody reads a JSON body into dst. On failure it writes a 400 and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		msg := "Invalid request body: " + err.Error()
		if errors.Is(err, io.EOF) {
			msg = "Invalid request body: empty body"
		}
		writeError(w, http.StatusBadRequest, CategoryBadRequest, msg)
		return false
	}
	if dec.More() {
		writeError(w, http.StatusBadRequest, CategoryBadRequest,
			fmt.Sprintf("Invalid request body: unexpected data after JSON object at offset %d", dec.InputOffset()))
		return false
	}
	return true
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage.Used() {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.Tokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, category, message string) {
	writeJSON(w, status, errorResponse{
		Error:   category,
		Message: message,
	})
}

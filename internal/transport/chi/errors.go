package chi

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ytsearch/internal/domain"
	"github.com/kailas-cloud/ytsearch/internal/logger"
)

// Error categories carried in the "error" field of failure bodies.
const (
	CategoryConfiguration  = "Configuration Error"
	CategoryBadRequest     = "Bad Request"
	CategoryInvalidURL     = "Invalid URL"
	CategoryEmbedding      = "Embedding Error"
	CategoryDatabase       = "Database Error"
	CategoryYouTube        = "YouTube API Error"
	CategoryDelegation     = "Delegation Error"
	CategoryTimeout        = "Timeout"
	CategoryNotImplemented = "Not Implemented"
	CategoryUnauthorized   = "Unauthorized"
	CategoryNotFound       = "Not Found"
	CategoryInternal       = "Internal Error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// defaultErrorHandlers is ordered: timeouts win over the upstream that timed out,
// and invalid URLs over the generic bad request.
func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrTimeout, http.StatusGatewayTimeout, CategoryTimeout),
		sentinelHandler(domain.ErrConfiguration, http.StatusInternalServerError, CategoryConfiguration),
		sentinelHandler(domain.ErrInvalidURL, http.StatusBadRequest, CategoryInvalidURL),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CategoryBadRequest),
		sentinelHandler(domain.ErrEmbedding, http.StatusBadGateway, CategoryEmbedding),
		sentinelHandler(domain.ErrVectorSearch, http.StatusBadGateway, CategoryDatabase),
		sentinelHandler(domain.ErrPlatform, http.StatusBadGateway, CategoryYouTube),
		sentinelHandler(domain.ErrDelegation, http.StatusBadGateway, CategoryDelegation),
		sentinelHandler(domain.ErrNotImplemented, http.StatusNotImplemented, CategoryNotImplemented),
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, category string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, category, msg)
		return true
	}
}

// safeDomainMessage returns a client message without upstream bodies, URLs or secrets.
func safeDomainMessage(err error) string {
	var cfgErr *domain.ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr.Error()
	}
	if errors.Is(err, domain.ErrChannelNotFound) {
		return domain.ErrChannelNotFound.Error()
	}
	if errors.Is(err, domain.ErrTimeout) {
		return domain.ErrTimeout.Error()
	}
	var upErr *domain.UpstreamError
	if errors.As(err, &upErr) {
		return upErr.Err.Error() + ": " + upErr.Error()
	}
	var delErr *domain.DelegationError
	if errors.As(err, &delErr) {
		if delErr.Message != "" {
			return domain.ErrDelegation.Error() + ": " + delErr.Message
		}
		return fmt.Sprintf("%s: %s exited with status %d", domain.ErrDelegation, delErr.Operation, delErr.ExitCode)
	}

	sentinels := []error{
		domain.ErrInvalidURL,
		domain.ErrInvalidRequest,
		domain.ErrEmbedding,
		domain.ErrVectorSearch,
		domain.ErrPlatform,
		domain.ErrDelegation,
		domain.ErrNotImplemented,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CategoryInternal, "internal error")
}

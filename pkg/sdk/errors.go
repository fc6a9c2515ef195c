package ytsearch

import "github.com/kailas-cloud/ytsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrConfiguration   = domain.ErrConfiguration
	ErrInvalidRequest  = domain.ErrInvalidRequest
	ErrInvalidURL      = domain.ErrInvalidURL
	ErrEmbedding       = domain.ErrEmbedding
	ErrVectorSearch    = domain.ErrVectorSearch
	ErrPlatform        = domain.ErrPlatform
	ErrChannelNotFound = domain.ErrChannelNotFound
	ErrDelegation      = domain.ErrDelegation
	ErrTimeout         = domain.ErrTimeout
	ErrNotImplemented  = domain.ErrNotImplemented
)

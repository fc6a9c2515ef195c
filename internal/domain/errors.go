package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration signals a missing credential or endpoint.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidRequest signals a malformed client request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidURL signals a URL without a recognizable video id.
	ErrInvalidURL = errors.New("invalid YouTube URL")
	// ErrEmbedding signals an embedding provider failure or an unparseable response.
	ErrEmbedding = errors.New("embedding provider error")
	// ErrVectorSearch signals a vector store failure.
	ErrVectorSearch = errors.New("vector search error")
	// ErrPlatform signals a video platform API failure or a malformed response.
	ErrPlatform = errors.New("video platform error")
	// ErrChannelNotFound signals a video lookup without a channel id.
	// Always reported together with ErrPlatform.
	ErrChannelNotFound = errors.New("Channel ID not found") //nolint:staticcheck // client-facing message
	// ErrDelegation signals a failed or unparseable delegated call.
	ErrDelegation = errors.New("delegation error")
	// ErrTimeout signals an outbound call that exceeded its deadline.
	ErrTimeout = errors.New("upstream timeout")
	// ErrNotImplemented signals an operation without a configured backend.
	ErrNotImplemented = errors.New("not implemented")
)

// ConfigurationError names the setting that is missing. The value is never carried.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return e.Setting + " is not configured"
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// UpstreamError reports a non-success status from an external service.
type UpstreamError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// DelegationError carries both output streams of a failed delegated call for diagnostics.
type DelegationError struct {
	Operation string
	ExitCode  int
	Stdout    string
	Stderr    string
	Message   string
}

func (e *DelegationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Operation)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
		return b.String()
	}
	fmt.Fprintf(&b, ": exit status %d", e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		b.WriteString(": ")
		b.WriteString(s)
	}
	return b.String()
}

func (e *DelegationError) Unwrap() error { return ErrDelegation }

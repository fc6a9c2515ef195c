package domain

import "context"

type usageKey struct{}

// EmbeddingUsage counts embedding calls and billed tokens within one request.
// Only the request goroutine touches it.
type EmbeddingUsage struct {
	Calls  int
	Tokens int
}

// NewContextWithUsage attaches a fresh usage counter to ctx.
func NewContextWithUsage(ctx context.Context) (context.Context, *EmbeddingUsage) {
	u := &EmbeddingUsage{}
	return context.WithValue(ctx, usageKey{}, u), u
}

// UsageFromContext returns the request counter, or nil.
func UsageFromContext(ctx context.Context) *EmbeddingUsage {
	u, _ := ctx.Value(usageKey{}).(*EmbeddingUsage)
	return u
}

// Record counts one successful embedding call. A cache hit records zero tokens.
// No-op on a nil receiver.
func (u *EmbeddingUsage) Record(tokens int) {
	if u == nil {
		return
	}
	u.Calls++
	u.Tokens += tokens
}

// Used reports whether any embedding was produced for the request.
func (u *EmbeddingUsage) Used() bool {
	return u != nil && u.Calls > 0
}

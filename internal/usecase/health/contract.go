package health

import "context"

// Pinger checks availability of one optional dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

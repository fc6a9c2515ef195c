package delegated

import "context"

// Invoker runs one named operation out of process and returns its raw stdout.
type Invoker interface {
	Invoke(ctx context.Context, operation string, args any) (string, error)
}

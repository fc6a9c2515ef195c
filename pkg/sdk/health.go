package ytsearch

import (
	"context"

	healthuc "github.com/kailas-cloud/ytsearch/internal/usecase/health"
)

// HealthStatus is the result of pinging the client's pooled connections.
type HealthStatus struct {
	Status string            // "healthy" or "degraded"
	Checks map[string]string // component name to "ok" or "error"
}

// Healthy reports whether every component answered.
func (h HealthStatus) Healthy() bool { return h.Status == string(healthuc.Healthy) }

// Failing lists the components that did not answer.
func (h HealthStatus) Failing() []string {
	var out []string
	for name, state := range h.Checks {
		if state != string(healthuc.CheckOK) {
			out = append(out, name)
		}
	}
	return out
}

// Health pings the pooled connections. Only the postgres pool (WithPostgres) is pooled;
// a client without one is always healthy.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for name, state := range report.Checks {
		checks[name] = string(state)
	}
	return HealthStatus{Status: string(report.Status), Checks: checks}
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates every configured dependency answered.
	Healthy Status = "healthy"
	// Degraded indicates at least one dependency failed its ping.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const defaultPingTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	components  map[string]Pinger
	pingTimeout time.Duration
}

// New creates a Service over named components. Nil pingers are skipped,
// so a gateway without a cache or a SQL pool reports healthy with no checks.
func New(components map[string]Pinger) *Service {
	c := make(map[string]Pinger, len(components))
	for name, p := range components {
		if p != nil {
			c[name] = p
		}
	}
	return &Service{components: c, pingTimeout: defaultPingTimeout}
}

// Check pings every component under a short timeout.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.components))

	for name, p := range s.components {
		pctx, cancel := context.WithTimeout(ctx, s.pingTimeout)
		if err := p.Ping(pctx); err != nil {
			checks[name] = CheckError
		} else {
			checks[name] = CheckOK
		}
		cancel()
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

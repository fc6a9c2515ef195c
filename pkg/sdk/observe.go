package ytsearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "ytsearch"

// observer logs and counts client calls. A nil observer is a no-op.
type observer struct {
	logger *slog.Logger
	calls  *prometheus.CounterVec
	timing *prometheus.HistogramVec
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}

	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "sdk",
		Name:      "calls_total",
		Help:      "SDK calls by operation and outcome.",
	}, []string{"operation", "outcome"})
	timing := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "sdk",
		Name:      "call_duration_seconds",
		Help:      "SDK call duration in seconds.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 120},
	}, []string{"operation"})

	var err error
	if o.calls, err = registerOrReuse(reg, calls); err != nil {
		return nil, err
	}
	if o.timing, err = registerOrReuse(reg, timing); err != nil {
		return nil, err
	}
	return o, nil
}

// registerOrReuse registers c, or returns the collector already registered under the same name.
// Lets several clients share one registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("ytsearch: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, fmt.Errorf("ytsearch: metric registered with type %T", are.ExistingCollector)
	}
	return existing, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	elapsed := time.Since(start)
	outcome := outcomeOf(err)

	if o.calls != nil {
		o.calls.WithLabelValues(op, outcome).Inc()
		o.timing.WithLabelValues(op).Observe(elapsed.Seconds())
	}

	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("ytsearch call failed", "op", op, "outcome", outcome, "duration", elapsed, "error", err)
		return
	}
	o.logger.Debug("ytsearch call done", "op", op, "duration", elapsed)
}

// outcomeOf maps an error to a small label set.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidURL):
		return "invalid"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrNotImplemented):
		return "not_implemented"
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

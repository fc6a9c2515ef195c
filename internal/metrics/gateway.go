package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Gateway Prometheus metrics: endpoint operations and outbound calls.
var (
	OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Gateway operations by strategy and outcome",
		},
		[]string{"operation", "strategy", "outcome"},
	)

	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outbound calls to external services",
		},
		[]string{"service", "call", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Outbound call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"service", "call"},
	)
)

func gatewayCollectors() []prometheus.Collector {
	return []prometheus.Collector{OperationsTotal, UpstreamRequestsTotal, UpstreamRequestDuration}
}

// ObserveUpstream records one outbound call.
func ObserveUpstream(service, call string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(service, call, status).Inc()
	UpstreamRequestDuration.WithLabelValues(service, call).Observe(time.Since(start).Seconds())
}

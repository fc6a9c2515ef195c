package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "ytsearch"

// Embedding outcomes used as the "outcome" label.
const (
	OutcomeSuccess       = "success"
	OutcomeTimeout       = "timeout"
	OutcomeAPIError      = "api_error"
	OutcomeEmptyResponse = "empty_response"
)

// Embedding Prometheus metrics. One query embedding per similarity search.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "requests_total",
			Help:      "Embedding provider calls by model and outcome",
		},
		[]string{"model", "outcome"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "request_duration_seconds",
			Help:      "Embedding provider call duration in seconds, successful calls only",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "tokens_total",
			Help:      "Tokens billed by the embedding provider",
		},
		[]string{"model"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "cache_total",
			Help:      "Query embedding cache lookups",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

func embeddingCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingTokensTotal,
		EmbeddingCacheTotal,
	}
}

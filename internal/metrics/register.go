package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var registerOnce sync.Once

// Register adds every gateway collector to the default registry. Safe to call more than once.
// Collectors that are never registered still count; they are only missing from /metrics.
func Register() {
	registerOnce.Do(func() {
		var cs []prometheus.Collector
		cs = append(cs, httpCollectors()...)
		cs = append(cs, embeddingCollectors()...)
		cs = append(cs, gatewayCollectors()...)
		prometheus.MustRegister(cs...)
	})
}

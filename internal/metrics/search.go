package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "studysearch"

// Search pipeline Prometheus metrics.
var (
	PipelineStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of each per-query model fitting stage",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15},
		},
		[]string{"stage"},
	)

	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of study search API requests",
		},
		[]string{"status"}, // HTTP status code, or "error" for transport failures
	)

	UpstreamRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Study search API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	TableCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_cache_total",
			Help:      "Record table cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerOnce sync.Once

// RegisterSearchMetrics registers the pipeline, upstream and cache metrics.
// Safe to call more than once.
func RegisterSearchMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PipelineStageDuration,
			UpstreamRequestsTotal,
			UpstreamRequestDuration,
			TableCacheTotal,
		)
	})
}

// ObserveStage records one pipeline stage duration.
func ObserveStage(stage string, d time.Duration) {
	PipelineStageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

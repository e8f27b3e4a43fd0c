package studysearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/studysearch/internal/domain"
)

const (
	metricsNamespace = "studysearch"
	metricsSubsystem = "sdk"
)

// Outcome labels for studysearch_sdk_operations_total.
const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeUpstream = "upstream"
	outcomeCanceled = "canceled"
	outcomeError    = "error"
)

type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	results    prometheus.Histogram
	cache      *prometheus.CounterVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "operations_total",
			Help:      "SDK operations by type and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "operation_duration_seconds",
			Help:      "SDK operation latency including the upstream fetch and model fit.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "search_results",
			Help:      "Number of studies returned per search.",
			Buckets:   []float64{0, 1, 3, 5, 10, 25, 50, 100},
		}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "table_cache_total",
			Help:      "Record table cache lookups by result.",
		}, []string{"result"}),
	}

	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.results); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.cache); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers *c, or swaps in the collector already registered
// under the same descriptor so several clients can share one registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("studysearch: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("studysearch: metric registered with type %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// outcome classifies err for the operations counter.
func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, domain.ErrInvalidQuery), errors.Is(err, domain.ErrInvalidRequest):
		return outcomeInvalid
	case errors.Is(err, domain.ErrUpstream):
		return outcomeUpstream
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCanceled
	default:
		return outcomeError
	}
}

// observer logs and counts SDK operations. A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}
	m, err := newSDKMetrics(reg)
	if err != nil {
		return nil, err
	}
	o.metrics = m
	return o, nil
}

func (o *observer) cacheCounter() *prometheus.CounterVec {
	if o == nil || o.metrics == nil {
		return nil
	}
	return o.metrics.cache
}

// observe records one finished operation. attrs are extra slog key/value
// pairs attached to the log line.
func (o *observer) observe(op string, start time.Time, err error, attrs ...any) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	res := outcome(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, res).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}
	if o.logger == nil {
		return
	}

	args := append([]any{"op", op, "outcome", res, "duration", dur}, attrs...)
	if err != nil {
		o.logger.Warn("studysearch operation failed", append(args, "error", err)...)
		return
	}
	o.logger.Debug("studysearch operation completed", args...)
}

// observeResults records how many studies a successful search returned.
func (o *observer) observeResults(n int) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.results.Observe(float64(n))
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// routeUnmatched labels requests chi could not route.
const routeUnmatched = "unmatched"

var (
	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency. Search requests include the upstream fetch and model fit.",
		Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "route", "status"})

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route pattern and status.",
	}, []string{"method", "route", "status"})

	httpResponseSize = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_response_size_bytes",
		Help:      "HTTP response body size.",
		Buckets:   prometheus.ExponentialBuckets(256, 4, 7),
	}, []string{"route"})

	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})
)

func init() {
	prometheus.MustRegister(httpRequestDuration, httpRequestsTotal, httpResponseSize, httpInFlight)
}

// Middleware records latency, count, response size and concurrency for every
// request, labeled by chi route pattern.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			httpInFlight.Inc()
			defer httpInFlight.Dec()

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			route := routePattern(r)
			status := strconv.Itoa(rec.status)
			httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(elapsed.Seconds())
			httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
			httpResponseSize.WithLabelValues(route).Observe(float64(rec.bytes))
		})
	}
}

// routePattern returns the matched chi pattern. Raw paths never become labels.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return routeUnmatched
}

// recorder captures the first status code and counts body bytes.
type recorder struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

func (w *recorder) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *recorder) Write(b []byte) (int, error) {
	w.written = true
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err //nolint:wrapcheck // pass-through writer
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "explorer_upstream_requests_total",
			Help: "Total number of NASA API requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	upstreamDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "explorer_upstream_duration_seconds",
			Help:    "NASA API request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	cyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "explorer_fetch_cycles_total",
			Help: "Total number of fetch cycles by result.",
		},
		[]string{"result"},
	)

	cycleDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "explorer_fetch_cycle_duration_seconds",
			Help:    "Fetch cycle duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "explorer_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"route", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "explorer_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

// Cycle results recorded by ObserveCycle.
const (
	CycleOK      = "ok"      // every section updated
	CyclePartial = "partial" // some sections failed softly
	CycleError   = "error"   // the cycle ended with an error
	CycleStale   = "stale"   // superseded before it finished
)

func init() {
	prometheus.MustRegister(upstreamRequestsTotal)
	prometheus.MustRegister(upstreamDurationSeconds)
	prometheus.MustRegister(cyclesTotal)
	prometheus.MustRegister(cycleDurationSeconds)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
}

// ObserveUpstream records one NASA API request.
func ObserveUpstream(endpoint, outcome string, elapsed time.Duration) {
	upstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	upstreamDurationSeconds.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveCycle records one completed fetch cycle.
func ObserveCycle(result string, elapsed time.Duration) {
	cyclesTotal.WithLabelValues(result).Inc()
	cycleDurationSeconds.Observe(elapsed.Seconds())
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// unmatchedRoute labels requests that matched no registered pattern.
const unmatchedRoute = "other"

// routeLabel returns the mux pattern that served r. The mux sets it on r
// during ServeHTTP, so it is only meaningful afterwards.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return unmatchedRoute
	}
	return r.Pattern
}

// Middleware records request count and duration for each request, labelled
// by route pattern rather than raw path.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := routeLabel(r)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by route pattern and status code.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ideacoach",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration measures HTTP request latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ideacoach",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RequestsInProgress tracks in-flight HTTP requests.
	RequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ideacoach",
			Name:      "http_requests_in_progress",
			Help:      "Number of HTTP requests being served",
		},
	)

	// AnalysesTotal counts analysis outcomes. outcome is "success" or an error kind.
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ideacoach",
			Name:      "analyses_total",
			Help:      "Total number of idea analyses by outcome",
		},
		[]string{"provider", "outcome"},
	)

	// AnalysisDuration measures the remote model round trip.
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ideacoach",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of idea analyses in seconds",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider"},
	)
)

// RecordAnalysis records one analysis outcome.
func RecordAnalysis(provider, outcome string, d time.Duration) {
	AnalysesTotal.WithLabelValues(provider, outcome).Inc()
	AnalysisDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// Metrics tracks request counters. The route label is the chi pattern, not the raw path.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RequestsInProgress.Inc()
		defer RequestsInProgress.Dec()

		start := time.Now()
		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// MetricsHandler exposes the Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// Package metrics provides the prometheus registry for layoutd.
//
// A Registry owns its own prometheus registry so tests can create isolated
// instances; the HTTP layer exposes it at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all layoutd metrics.
type Registry struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Layout pipeline metrics
	LayoutsTotal    *prometheus.CounterVec
	LayoutDuration  prometheus.Histogram
	LayoutNodeCount prometheus.Histogram

	// Cache metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
}

// NewRegistry creates a Registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.HTTPRequestsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "layoutd_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "layoutd_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1.0, 2.5, 8.0},
		},
		[]string{"method", "path"},
	)

	r.HTTPRequestsInFlight = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "layoutd_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	r.LayoutsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "layoutd_layouts_total",
			Help: "Total number of layout computations",
		},
		[]string{"result"}, // ok, timeout, engine_error, invalid
	)

	r.LayoutDuration = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "layoutd_layout_duration_seconds",
			Help:    "Duration of engine layout calls in seconds",
			Buckets: []float64{0.01, 0.05, 0.25, 1.0, 2.0, 4.0, 8.0},
		},
	)

	r.LayoutNodeCount = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "layoutd_layout_node_count",
			Help:    "Number of nodes per layout request",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000},
		},
	)

	r.CacheHitsTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "layoutd_cache_hits_total",
			Help: "Total number of layout cache hits",
		},
	)

	r.CacheMissesTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "layoutd_cache_misses_total",
			Help: "Total number of layout cache misses",
		},
	)

	return r
}

// Prometheus returns the underlying registry for the /metrics handler.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

// RecordHTTPRequest records one completed HTTP request.
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     prometheus.CounterVec
	HTTPRequestDuration   prometheus.HistogramVec
	HTTPActiveConnections prometheus.GaugeVec

	// Cache metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Engagement metrics
	PlaysRecordedTotal    prometheus.CounterVec
	LikeEventsTotal       prometheus.CounterVec
	BookmarkEventsTotal   prometheus.CounterVec
	LibraryGenerationTime prometheus.HistogramVec

	// Error metrics
	ErrorsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			HTTPActiveConnections: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "http_active_connections",
					Help: "Number of currently active HTTP connections",
				},
				[]string{"method", "path"},
			),

			CacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_hits_total",
					Help: "Total number of cache hits",
				},
				[]string{"cache_name"},
			),
			CacheMissesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_misses_total",
					Help: "Total number of cache misses",
				},
				[]string{"cache_name"},
			),

			PlaysRecordedTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "plays_recorded_total",
					Help: "Play events recorded, by completion outcome",
				},
				[]string{"completed"},
			),
			LikeEventsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "like_events_total",
					Help: "Like and unlike events",
				},
				[]string{"action"},
			),
			BookmarkEventsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "bookmark_events_total",
					Help: "Bookmark and unbookmark events",
				},
				[]string{"action"},
			),
			LibraryGenerationTime: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "library_generation_seconds",
					Help:    "Time spent building library responses",
					Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1},
				},
				[]string{"section"},
			),

			ErrorsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of API errors",
				},
				[]string{"error_type", "endpoint"},
			),
		}
	})
	return instance
}

// Get returns the metrics instance, initializing it if needed
func Get() *Metrics {
	return Initialize()
}

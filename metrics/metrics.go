// Package metrics provides Prometheus metrics collection for the StatCan
// tables API. Besides the HTTP server metrics it tracks the domain side:
// how many download URLs are built (and from which index source), WDS
// upstream calls, and metadata cache effectiveness.
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	URLsBuiltTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "download_urls_built_total",
			Help: "Download URLs built, by member index source (registry or metadata)",
		},
		[]string{"source"},
	)

	WDSRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wds_requests_total",
			Help: "Requests to the StatCan Web Data Service, by endpoint and outcome",
		},
		[]string{"endpoint", "status"},
	)

	MetadataCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "metadata_cache_hits_total",
			Help: "Cube metadata served from the in-process cache",
		},
	)

	MetadataCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "metadata_cache_misses_total",
			Help: "Cube metadata lookups that had to hit the WDS",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(URLsBuiltTotal)
	prometheus.MustRegister(WDSRequestsTotal)
	prometheus.MustRegister(MetadataCacheHits)
	prometheus.MustRegister(MetadataCacheMisses)
}

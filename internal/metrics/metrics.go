// Package metrics holds the Prometheus collectors of the medicine lookup service.
// Collectors are registered with the default registry on package init.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "medscan"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_total",
			Help:      "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_request_in_flight",
			Help:      "Current in-flight requests",
		},
	)

	// ProviderRequests counts upstream AI calls by provider, operation and outcome
	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Upstream AI provider calls",
		},
		[]string{"provider", "operation", "outcome"},
	)

	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Upstream AI provider latency",
			Buckets:   []float64{.1, .25, .5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "operation"},
	)

	// CacheLookups counts result cache reads by result (hit, miss, expired, error)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups",
		},
		[]string{"result"},
	)

	CacheWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_write_failures_total",
			Help:      "Result cache writes that were dropped",
		},
	)

	ExtractionOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_total",
			Help:      "Name extraction attempts by outcome",
		},
		[]string{"outcome"},
	)

	TranslationOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translation_total",
			Help:      "Translation attempts by language and outcome",
		},
		[]string{"language", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestTotals,
		HTTPRequestDuration,
		HTTPRequestInFlight,
		ProviderRequests,
		ProviderLatency,
		CacheLookups,
		CacheWriteFailures,
		ExtractionOutcomes,
		TranslationOutcomes,
	)
}

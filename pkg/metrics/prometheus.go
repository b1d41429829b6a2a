// Package metrics provides Prometheus metrics for the spinlens service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// latencyBuckets are in milliseconds; analysis is sub-millisecond for typical
// windows while fetches take hundreds of milliseconds.
var latencyBuckets = []float64{0.1, 0.5, 1, 5, 10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 25000} //nolint:gochecknoglobals // bucket layout

// Manager owns every Prometheus collector used by spinlens.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Ingestion
	recordsIngested  prometheus.Counter
	recordsDropped   prometheus.Counter
	lightningDropped prometheus.Counter
	fetchLatency     prometheus.Histogram
	fetchErrors      prometheus.Counter

	// Analysis
	spinsAnalyzed    prometheus.Counter
	reportsGenerated *prometheus.CounterVec
	analysisLatency  prometheus.Histogram
	windowSize       prometheus.Gauge
	lightningRate    prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry served on /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "spinlens",
		subsystem:        "analyzer",
		histogramBuckets: latencyBuckets,
		enabled:          true,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // collector declarations
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.recordsIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "records_ingested_total",
		Help: "Raw records handed to the normalizer",
	})
	m.recordsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "records_dropped_total",
		Help: "Raw records dropped because the winning number could not be read",
	})
	m.lightningDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "lightning_entries_dropped_total",
		Help: "Lightning entries dropped because their number could not be read",
	})
	m.fetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "fetch_latency_milliseconds",
		Help:    "Upstream fetch latency in milliseconds",
		Buckets: m.histogramBuckets,
	})
	m.fetchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "fetch_errors_total",
		Help: "Upstream fetches that failed",
	})

	m.spinsAnalyzed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "spins_analyzed_total",
		Help: "Canonical spins fed into statistics and suggestions",
	})
	m.reportsGenerated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "reports_generated_total",
		Help: "Reports generated by primary strategy",
	}, []string{"strategy"})
	m.analysisLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "analysis_latency_milliseconds",
		Help:    "Normalize, analyze and suggest latency in milliseconds",
		Buckets: m.histogramBuckets,
	})
	m.windowSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "window_size",
		Help: "Number of spins in the most recent report",
	})
	m.lightningRate = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "lightning_rate",
		Help: "Lightning hit rate of the most recent report",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "errors_by_endpoint_total",
		Help: "HTTP errors by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})
	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "errors_by_type_total",
		Help: "Errors by type and severity",
	}, []string{"error_type", "severity"})
}

// RecordNormalization adds one normalization pass to the ingestion counters.
func (m *Manager) RecordNormalization(records, dropped, lightningDropped int) {
	if !m.enabled {
		return
	}
	m.recordsIngested.Add(float64(records))
	m.recordsDropped.Add(float64(dropped))
	m.lightningDropped.Add(float64(lightningDropped))
}

// RecordReport records a generated report.
func (m *Manager) RecordReport(strategy string, spins int, lightningRate, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.spinsAnalyzed.Add(float64(spins))
	m.reportsGenerated.WithLabelValues(strategy).Inc()
	m.analysisLatency.Observe(latencyMs)
	m.windowSize.Set(float64(spins))
	m.lightningRate.Set(lightningRate)
}

// RecordFetchLatency observes an upstream fetch duration.
func (m *Manager) RecordFetchLatency(latencyMs float64) {
	if m.enabled {
		m.fetchLatency.Observe(latencyMs)
	}
}

// RecordFetchError counts a failed upstream fetch.
func (m *Manager) RecordFetchError() {
	if m.enabled {
		m.fetchErrors.Inc()
	}
}

// RecordHTTPRequest counts an HTTP request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError counts an HTTP error by endpoint and by type.
func (m *Manager) RecordHTTPError(endpoint, method, errorType, severity string) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// Package-level helpers delegate to the global manager.

func RecordNormalization(records, dropped, lightningDropped int) {
	globalManager.RecordNormalization(records, dropped, lightningDropped)
}

func RecordReport(strategy string, spins int, lightningRate, latencyMs float64) {
	globalManager.RecordReport(strategy, spins, lightningRate, latencyMs)
}

func RecordFetchLatency(latencyMs float64) { globalManager.RecordFetchLatency(latencyMs) }

func RecordFetchError() { globalManager.RecordFetchError() }

func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

func RecordHTTPError(endpoint, method, errorType, severity string) {
	globalManager.RecordHTTPError(endpoint, method, errorType, severity)
}

// GetRegistry returns the registry the global manager is registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

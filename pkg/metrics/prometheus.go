// Package metrics provides Prometheus metrics for the graduate employment analytics service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the analytics service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	loadBuckets      []float64
	registry         prometheus.Registerer

	// Analysis Metrics - one series per analysis kind
	analysesTotal       *prometheus.CounterVec
	analysisLatency     *prometheus.HistogramVec
	analysisGroups      *prometheus.GaugeVec
	undefinedStatistics *prometheus.CounterVec
	droppedRecords      *prometheus.CounterVec

	// Snapshot Metrics - dataset loading
	snapshotRecords      prometheus.Gauge
	snapshotLoadDuration prometheus.Histogram
	snapshotLoads        *prometheus.CounterVec
	snapshotLastUnix     prometheus.Gauge
	snapshotSkippedRows  prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ges",
		subsystem:        "analytics",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		loadBuckets:      []float64{5, 25, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.analysesTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "analyses_total",
			Help:      "Total number of analyses run, by analysis and outcome",
		},
		[]string{"analysis", "outcome"},
	)

	m.analysisLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "analysis_latency_milliseconds",
			Help:      "Time spent computing one analysis",
			Buckets:   m.histogramBuckets,
		},
		[]string{"analysis"},
	)

	m.analysisGroups = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "analysis_groups",
			Help:      "Number of groups produced by the latest run of each analysis",
		},
		[]string{"analysis"},
	)

	m.undefinedStatistics = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "undefined_statistics_total",
			Help:      "Statistics reported as undefined, by statistic and reason",
		},
		[]string{"statistic", "reason"},
	)

	m.droppedRecords = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dropped_records_total",
			Help:      "Records excluded from an analysis because a field was missing",
		},
		[]string{"field"},
	)

	m.snapshotRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_records",
		Help:      "Number of survey records in the current snapshot",
	})

	m.snapshotLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_load_duration_milliseconds",
		Help:      "Time spent loading a survey snapshot",
		Buckets:   m.loadBuckets,
	})

	m.snapshotLoads = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "snapshot_loads_total",
			Help:      "Snapshot loads by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_unix",
		Help:      "Unix time of the last successful snapshot load",
	})

	m.snapshotSkippedRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_skipped_rows_total",
		Help:      "Source rows skipped while loading because the year was unreadable",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Analysis Metrics Functions.

// RecordAnalysis increments the analyses counter for an outcome ("ok", "error").
func RecordAnalysis(analysis, outcome string) {
	globalManager.analysesTotal.WithLabelValues(analysis, outcome).Inc()
}

// RecordAnalysisLatency records how long an analysis took in milliseconds.
func RecordAnalysisLatency(analysis string, latencyMs float64) {
	globalManager.analysisLatency.WithLabelValues(analysis).Observe(latencyMs)
}

// UpdateAnalysisGroups sets the group count of the latest run.
func UpdateAnalysisGroups(analysis string, groups int) {
	globalManager.analysisGroups.WithLabelValues(analysis).Set(float64(groups))
}

// RecordUndefinedStatistic counts a statistic that could not be computed.
func RecordUndefinedStatistic(statistic, reason string) {
	globalManager.undefinedStatistics.WithLabelValues(statistic, reason).Inc()
}

// RecordDroppedRecords adds n records excluded for a missing field.
func RecordDroppedRecords(field string, n int) {
	if n <= 0 {
		return
	}
	globalManager.droppedRecords.WithLabelValues(field).Add(float64(n))
}

// Snapshot Metrics Functions.

// UpdateSnapshotRecords sets the record count of the current snapshot.
func UpdateSnapshotRecords(count int) {
	globalManager.snapshotRecords.Set(float64(count))
}

// RecordSnapshotLoadDuration records a snapshot load duration in milliseconds.
func RecordSnapshotLoadDuration(durationMs float64) {
	globalManager.snapshotLoadDuration.Observe(durationMs)
}

// RecordSnapshotLoad counts a snapshot load attempt.
func RecordSnapshotLoad(source, outcome string) {
	globalManager.snapshotLoads.WithLabelValues(source, outcome).Inc()
}

// UpdateSnapshotLastUnix sets the time of the last successful load.
func UpdateSnapshotLastUnix(unix float64) {
	globalManager.snapshotLastUnix.Set(unix)
}

// RecordSnapshotSkippedRows adds rows skipped while loading.
func RecordSnapshotSkippedRows(n int) {
	if n <= 0 {
		return
	}
	globalManager.snapshotSkippedRows.Add(float64(n))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

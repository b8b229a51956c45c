// Package metrics provides Prometheus metrics for the skillboard collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Skip reasons used with RecordTeamSkipped.
const (
	SkipNoData    = "no_data"
	SkipEmpty     = "empty"
	SkipDuplicate = "duplicate"
	SkipError     = "error"
)

// Collection outcomes used with RecordCollection.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Latency buckets in milliseconds. Collections poll a remote API team by
// team, so a full pass is measured in seconds to minutes.
var collectionBuckets = []float64{500, 1_000, 5_000, 15_000, 30_000, 60_000, 120_000, 300_000}

// Manager manages all Prometheus metrics for the collector.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Collection
	teamsFetched       prometheus.Counter
	teamsSkipped       *prometheus.CounterVec
	fetchErrors        prometheus.Counter
	fetchLatency       prometheus.Histogram
	runsFolded         prometheus.Counter
	collections        *prometheus.CounterVec
	collectionDuration prometheus.Histogram
	lastSuccessUnix    prometheus.Gauge

	// Sinks
	sinkWrites  *prometheus.CounterVec
	sinkErrors  *prometheus.CounterVec
	sinkLatency *prometheus.HistogramVec

	// Leaderboard
	leaderboardSize prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "skillboard",
		subsystem:        "collector",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.teamsFetched = m.counter("teams_fetched_total", "Teams whose skills were fetched successfully")
	m.teamsSkipped = m.counterVec("teams_skipped_total", "Teams left out of a collection, by reason", "reason")
	m.fetchErrors = m.counter("fetch_errors_total", "Failed skills fetches")
	m.fetchLatency = m.histogram("fetch_latency_milliseconds", "Latency of one team's skills fetch in milliseconds", m.histogramBuckets)
	m.runsFolded = m.counter("skills_runs_folded_total", "Skills runs folded into event aggregates")
	m.collections = m.counterVec("collections_total", "Completed collection passes, by outcome", "status")
	m.collectionDuration = m.histogram("collection_duration_milliseconds", "Duration of a full collection pass in milliseconds", collectionBuckets)
	m.lastSuccessUnix = m.gauge("last_success_unixtime", "Unix time of the last successfully published collection")

	m.sinkWrites = m.counterVec("sink_writes_total", "Documents written, by sink", "sink")
	m.sinkErrors = m.counterVec("sink_errors_total", "Failed document writes, by sink", "sink")
	m.sinkLatency = m.histogramVec("sink_latency_milliseconds", "Document write latency in milliseconds, by sink", m.histogramBuckets, "sink")

	m.leaderboardSize = m.gauge("leaderboard_size", "Teams on the published leaderboard")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets, "endpoint", "method", "status_code")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint, method and type", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that ended in an error", m.histogramBuckets, "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds", m.histogramBuckets)
}

// Manager methods.

func (m *Manager) RecordTeamFetched(latencyMs float64) {
	m.teamsFetched.Inc()
	m.fetchLatency.Observe(latencyMs)
}

func (m *Manager) RecordTeamSkipped(reason string) { m.teamsSkipped.WithLabelValues(reason).Inc() }

func (m *Manager) RecordFetchError(latencyMs float64) {
	m.fetchErrors.Inc()
	m.errorLatency.WithLabelValues("robotevents", "fetch").Observe(latencyMs)
}

func (m *Manager) RecordRunsFolded(n int) { m.runsFolded.Add(float64(n)) }

func (m *Manager) RecordCollection(status string, durationMs float64) {
	m.collections.WithLabelValues(status).Inc()
	m.collectionDuration.Observe(durationMs)
}

func (m *Manager) SetLastSuccess(unix int64) { m.lastSuccessUnix.Set(float64(unix)) }

func (m *Manager) RecordSinkWrite(sink string, latencyMs float64) {
	m.sinkWrites.WithLabelValues(sink).Inc()
	m.sinkLatency.WithLabelValues(sink).Observe(latencyMs)
}

func (m *Manager) RecordSinkError(sink string) { m.sinkErrors.WithLabelValues(sink).Inc() }

func (m *Manager) UpdateLeaderboardSize(n int) { m.leaderboardSize.Set(float64(n)) }

// Package-level helpers operating on the global manager.

// RecordTeamFetched counts a successful fetch and its latency.
func RecordTeamFetched(latencyMs float64) { globalManager.RecordTeamFetched(latencyMs) }

// RecordTeamSkipped counts a team left out of a collection.
func RecordTeamSkipped(reason string) { globalManager.RecordTeamSkipped(reason) }

// RecordFetchError counts a failed fetch.
func RecordFetchError(latencyMs float64) { globalManager.RecordFetchError(latencyMs) }

// RecordRunsFolded counts skills runs folded into aggregates.
func RecordRunsFolded(n int) { globalManager.RecordRunsFolded(n) }

// RecordCollection records a finished collection pass.
func RecordCollection(status string, durationMs float64) {
	globalManager.RecordCollection(status, durationMs)
}

// SetLastSuccess sets the time of the last published collection.
func SetLastSuccess(unix int64) { globalManager.SetLastSuccess(unix) }

// RecordSinkWrite counts a successful sink write.
func RecordSinkWrite(sink string, latencyMs float64) { globalManager.RecordSinkWrite(sink, latencyMs) }

// RecordSinkError counts a failed sink write.
func RecordSinkError(sink string) { globalManager.RecordSinkError(sink) }

// UpdateLeaderboardSize sets the published leaderboard size.
func UpdateLeaderboardSize(n int) { globalManager.UpdateLeaderboardSize(n) }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

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

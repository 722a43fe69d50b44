// Package metrics provides Prometheus metrics for the portfolio site.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the site exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// Content
	postsLoaded           prometheus.Gauge
	postsSkipped          prometheus.Gauge
	contentReloads        prometheus.Counter
	contentReloadFailures prometheus.Counter
	contentReloadDuration prometheus.Histogram
	markdownRenderLatency prometheus.Histogram
	pageRenders           *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level helpers

// Custom registry so /healthz does not expose the default Go collectors twice.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager. Without WithPrometheusRegistry the
// collectors go to prometheus.DefaultRegisterer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "upperdine",
		subsystem:        "site",
		histogramBuckets: prometheus.DefBuckets,
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

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.postsLoaded = auto.NewGauge(m.gaugeOpts("posts_loaded", "Number of posts currently served"))
	m.postsSkipped = auto.NewGauge(m.gaugeOpts("posts_skipped", "Number of post files rejected by the last load"))
	m.contentReloads = auto.NewCounter(m.counterOpts("content_reloads_total", "Total number of post directory reloads"))
	m.contentReloadFailures = auto.NewCounter(m.counterOpts("content_reload_failures_total", "Reloads that failed to read the posts directory"))
	m.contentReloadDuration = auto.NewHistogram(
		m.histogramOpts("content_reload_duration_milliseconds", "Duration of a full posts reload in milliseconds", m.histogramBuckets),
	)
	m.markdownRenderLatency = auto.NewHistogram(
		m.histogramOpts("markdown_render_latency_milliseconds", "Markdown to HTML render latency in milliseconds",
			[]float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 25, 50}),
	)
	m.pageRenders = auto.NewCounterVec(
		m.counterOpts("page_renders_total", "HTML pages rendered by template"),
		[]string{"page"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordHTTPRequest increments the request counter.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes a request duration in milliseconds.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if m.enabled {
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordErrorByType counts an error by type and severity.
func (m *Manager) RecordErrorByType(errorType, severity string) {
	if m.enabled {
		m.errorRateByType.WithLabelValues(errorType, severity).Inc()
	}
}

// RecordErrorByEndpoint counts an error against the endpoint that produced it.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if m.enabled {
		m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// UpdatePostsLoaded sets the number of posts currently served.
func (m *Manager) UpdatePostsLoaded(count int) {
	if m.enabled {
		m.postsLoaded.Set(float64(count))
	}
}

// UpdatePostsSkipped sets the number of post files rejected by the last load.
func (m *Manager) UpdatePostsSkipped(count int) {
	if m.enabled {
		m.postsSkipped.Set(float64(count))
	}
}

// RecordContentReload records a finished reload and its duration.
func (m *Manager) RecordContentReload(durationMs float64) {
	if m.enabled {
		m.contentReloads.Inc()
		m.contentReloadDuration.Observe(durationMs)
	}
}

// RecordContentReloadFailure counts a reload that could not read the directory.
func (m *Manager) RecordContentReloadFailure() {
	if m.enabled {
		m.contentReloadFailures.Inc()
	}
}

// RecordMarkdownRender observes a markdown render latency in milliseconds.
func (m *Manager) RecordMarkdownRender(latencyMs float64) {
	if m.enabled {
		m.markdownRenderLatency.Observe(latencyMs)
	}
}

// RecordPageRender counts a rendered HTML page.
func (m *Manager) RecordPageRender(page string) {
	if m.enabled {
		m.pageRenders.WithLabelValues(page).Inc()
	}
}

// UpdateSystemMemoryUsage sets the allocated heap in bytes.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if m.enabled {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	if m.enabled {
		m.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime observes an average GC pause in milliseconds.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) {
	if m.enabled {
		m.systemGCPauseTime.Observe(pauseMs)
	}
}

// Package-level helpers bound to the global manager.

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, durationMs)
}

func RecordErrorByType(errorType, severity string) {
	globalManager.RecordErrorByType(errorType, severity)
}

func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

func UpdatePostsLoaded(count int)  { globalManager.UpdatePostsLoaded(count) }
func UpdatePostsSkipped(count int) { globalManager.UpdatePostsSkipped(count) }

func RecordContentReload(durationMs float64) { globalManager.RecordContentReload(durationMs) }
func RecordContentReloadFailure()            { globalManager.RecordContentReloadFailure() }
func RecordMarkdownRender(latencyMs float64) { globalManager.RecordMarkdownRender(latencyMs) }
func RecordPageRender(page string)           { globalManager.RecordPageRender(page) }

func UpdateSystemMemoryUsage(bytes uint64)   { globalManager.UpdateSystemMemoryUsage(bytes) }
func UpdateSystemGoroutineCount(count int)   { globalManager.UpdateSystemGoroutineCount(count) }
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.RecordSystemGCPauseTime(pauseMs) }

// GetRegistry returns the registry backing the package-level helpers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

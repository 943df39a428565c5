// Package metrics provides Prometheus metrics for the dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Bundle sources for RecordBundleServed.
const (
	SourceCache    = "cache"
	SourceComputed = "computed"
)

// Manager manages all Prometheus metrics for the dashboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Dashboard metrics
	bundleLatency prometheus.Histogram
	bundlesServed *prometheus.CounterVec
	bundlesEmpty  prometheus.Counter
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	cacheSize     prometheus.Gauge
	renderLatency *prometheus.HistogramVec

	// Warm-up metrics
	warmupQueueSize prometheus.Gauge
	warmupJobs      *prometheus.CounterVec
	warmupLatency   prometheus.Histogram
	warmupWorkers   prometheus.Gauge

	// Dataset metrics
	datasetRows         prometheus.Gauge
	datasetCountries    prometheus.Gauge
	datasetYears        prometheus.Gauge
	datasetSports       prometheus.Gauge
	datasetLoadDuration prometheus.Gauge

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
	customRegistry.MustRegister(collectors.NewBuildInfoCollector())
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "mindthegap",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
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
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.bundleLatency = auto.NewHistogram(m.histogramOpts(
		"bundle_compute_milliseconds", "Time to compute a chart bundle for one filter state"))
	m.bundlesServed = auto.NewCounterVec(m.counterOpts(
		"bundles_served_total", "Chart bundles served, by source"), []string{"source"})
	m.bundlesEmpty = auto.NewCounter(m.counterOpts(
		"bundles_empty_total", "Chart bundles whose filters matched no medal record"))
	m.cacheHits = auto.NewCounter(m.counterOpts(
		"cache_hits_total", "Bundle cache hits"))
	m.cacheMisses = auto.NewCounter(m.counterOpts(
		"cache_misses_total", "Bundle cache misses"))
	m.cacheSize = auto.NewGauge(m.gaugeOpts(
		"cache_size", "Bundles currently cached"))
	m.renderLatency = auto.NewHistogramVec(m.histogramOpts(
		"render_milliseconds", "Time to render a figure as an image, by format"), []string{"format"})

	m.warmupQueueSize = auto.NewGauge(m.gaugeOpts("warmup_queue_size", "Filter states waiting to be warmed"))
	m.warmupJobs = auto.NewCounterVec(m.counterOpts(
		"warmup_jobs_total", "Warm-up jobs by result"), []string{"result"})
	m.warmupLatency = auto.NewHistogram(m.histogramOpts(
		"warmup_job_milliseconds", "Time to warm one filter state"))
	m.warmupWorkers = auto.NewGauge(m.gaugeOpts("warmup_workers", "Warm-up workers running"))

	m.datasetRows = auto.NewGauge(m.gaugeOpts("dataset_rows", "Medal records loaded"))
	m.datasetCountries = auto.NewGauge(m.gaugeOpts("dataset_countries", "Distinct countries in the dataset"))
	m.datasetYears = auto.NewGauge(m.gaugeOpts("dataset_years", "Distinct Games years in the dataset"))
	m.datasetSports = auto.NewGauge(m.gaugeOpts("dataset_sports", "Distinct sports in the dataset"))
	m.datasetLoadDuration = auto.NewGauge(m.gaugeOpts(
		"dataset_load_duration_milliseconds", "Duration of the last dataset load"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts(
		"errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts(
		"errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap memory in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_milliseconds", "Most recent GC pause in milliseconds"))
}

// Dashboard Metrics Functions.

// RecordBundleLatency records the time spent computing a bundle.
func RecordBundleLatency(latencyMs float64) {
	globalManager.bundleLatency.Observe(latencyMs)
}

// RecordBundleServed counts a bundle served from source (SourceCache or SourceComputed).
func RecordBundleServed(source string) {
	globalManager.bundlesServed.WithLabelValues(source).Inc()
}

// RecordEmptyBundle counts a bundle whose filters matched nothing.
func RecordEmptyBundle() {
	globalManager.bundlesEmpty.Inc()
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// UpdateCacheSize sets the number of cached bundles.
func UpdateCacheSize(size int64) {
	globalManager.cacheSize.Set(float64(size))
}

// RecordRenderLatency records the time spent rendering an image.
func RecordRenderLatency(format string, latencyMs float64) {
	globalManager.renderLatency.WithLabelValues(format).Observe(latencyMs)
}

// Warm-up Metrics Functions.

// Warm-up job results for RecordWarmupJob.
const (
	WarmupOK       = "ok"
	WarmupFailed   = "failed"
	WarmupRejected = "rejected"
)

// UpdateWarmupQueueSize sets the number of queued warm-up jobs.
func UpdateWarmupQueueSize(size int) {
	globalManager.warmupQueueSize.Set(float64(size))
}

// RecordWarmupJob counts a warm-up job by result.
func RecordWarmupJob(result string) {
	globalManager.warmupJobs.WithLabelValues(result).Inc()
}

// RecordWarmupLatency records the time spent on one warm-up job.
func RecordWarmupLatency(latencyMs float64) {
	globalManager.warmupLatency.Observe(latencyMs)
}

// UpdateWarmupWorkers sets the number of running warm-up workers.
func UpdateWarmupWorkers(count int) {
	globalManager.warmupWorkers.Set(float64(count))
}

// Dataset Metrics Functions.

// UpdateDatasetStats sets the dataset size gauges.
func UpdateDatasetStats(rows, countries, years, sports int) {
	globalManager.datasetRows.Set(float64(rows))
	globalManager.datasetCountries.Set(float64(countries))
	globalManager.datasetYears.Set(float64(years))
	globalManager.datasetSports.Set(float64(sports))
}

// RecordDatasetLoadDuration sets the duration of the last dataset load.
func RecordDatasetLoadDuration(durationMs float64) {
	globalManager.datasetLoadDuration.Set(durationMs)
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

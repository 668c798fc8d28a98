// Package metrics provides Prometheus metrics for the palmares dashboard service.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Dataset load outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Manager manages all Prometheus metrics for the palmares service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Dataset Metrics - What was loaded and how it went
	datasetLoads        *prometheus.CounterVec
	datasetLoadDuration prometheus.Histogram
	datasetLastLoadUnix prometheus.Gauge
	datasetColleges     prometheus.Gauge
	datasetYears        prometheus.Gauge
	datasetScoreRecords prometheus.Gauge

	// View Metrics - Cost and shape of derived views
	viewBuildLatency *prometheus.HistogramVec
	filteredRows     prometheus.Histogram
	searchQueries    prometheus.Counter

	// Chart Metrics
	chartRenders *prometheus.CounterVec
	chartErrors  *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// The process-wide manager and the registry /healthz exposes. Configure
// replaces both.
var (
	globalManager  atomic.Pointer[Manager]            //nolint:gochecknoglobals // singleton metrics manager
	customRegistry atomic.Pointer[prometheus.Registry] //nolint:gochecknoglobals // registry behind /healthz
)

func init() { //nolint:gochecknoinits // metrics are usable before configuration
	Configure()
}

// Configure rebuilds the global manager with opts on a fresh registry and
// returns it. Call it before serving, since handlers capture the registry.
func Configure(opts ...Option) *Manager {
	registry := prometheus.NewRegistry()
	m := NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry.Store(registry)
	globalManager.Store(m)
	return m
}

func current() *Manager {
	return globalManager.Load()
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "palmares",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// RefreshInterval is the period of gauge refreshes such as system metrics.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// Enabled reports whether recording functions take effect.
func (m *Manager) Enabled() bool {
	return m != nil && m.enabled
}

// Namespace is the first segment of every metric name.
func (m *Manager) Namespace() string {
	return m.namespace
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

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Dataset Metrics
	m.datasetLoads = auto.NewCounterVec(
		m.counterOpts("dataset_loads_total", "Total number of dataset loads by trigger and outcome"),
		[]string{"trigger", "outcome"},
	)
	m.datasetLoadDuration = auto.NewHistogram(m.histogramOpts(
		"dataset_load_duration_milliseconds",
		"Dataset fetch and decode duration in milliseconds",
		[]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	))
	m.datasetLastLoadUnix = auto.NewGauge(m.gaugeOpts(
		"dataset_last_load_unix",
		"Unix timestamp of the last successful dataset load",
	))
	m.datasetColleges = auto.NewGauge(m.gaugeOpts("dataset_colleges", "Number of colleges in the loaded dataset"))
	m.datasetYears = auto.NewGauge(m.gaugeOpts("dataset_years", "Number of selectable years in the loaded dataset"))
	m.datasetScoreRecords = auto.NewGauge(m.gaugeOpts(
		"dataset_score_records",
		"Number of score records in the loaded dataset",
	))

	// View Metrics
	m.viewBuildLatency = auto.NewHistogramVec(
		m.histogramOpts("view_build_latency_milliseconds", "View model build latency in milliseconds", m.histogramBuckets),
		[]string{"view"},
	)
	m.filteredRows = auto.NewHistogram(m.histogramOpts(
		"filtered_rows",
		"Number of rows left after the filter stage",
		[]float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	))
	m.searchQueries = auto.NewCounter(m.counterOpts(
		"search_queries_total",
		"Total number of dashboard views built with a non-empty search",
	))

	// Chart Metrics
	m.chartRenders = auto.NewCounterVec(
		m.counterOpts("chart_renders_total", "Total number of SVG charts rendered"),
		[]string{"chart"},
	)
	m.chartErrors = auto.NewCounterVec(
		m.counterOpts("chart_errors_total", "Total number of SVG chart render failures"),
		[]string{"chart"},
	)

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts(
			"http_request_duration_milliseconds",
			"HTTP request duration in milliseconds (user experience)",
			m.histogramBuckets,
		),
		[]string{"endpoint", "method", "status_code"},
	)

	// Enhanced Error Metrics - Detailed error tracking
	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// Dataset Metrics Functions.

// RecordDatasetLoad counts a dataset load. trigger is "startup" or "reload".
func RecordDatasetLoad(trigger, outcome string, durationMs float64) {
	m := current()
	if !m.Enabled() {
		return
	}
	m.datasetLoads.WithLabelValues(trigger, outcome).Inc()
	m.datasetLoadDuration.Observe(durationMs)
	if outcome == OutcomeSuccess {
		m.datasetLastLoadUnix.Set(float64(time.Now().Unix()))
	}
}

// UpdateDatasetSize sets the size gauges of the loaded dataset.
func UpdateDatasetSize(colleges, years, scoreRecords int) {
	m := current()
	if !m.Enabled() {
		return
	}
	m.datasetColleges.Set(float64(colleges))
	m.datasetYears.Set(float64(years))
	m.datasetScoreRecords.Set(float64(scoreRecords))
}

// View Metrics Functions.

// RecordViewBuild records how long building a view model took.
func RecordViewBuild(view string, latencyMs float64) {
	m := current()
	if !m.Enabled() {
		return
	}
	m.viewBuildLatency.WithLabelValues(view).Observe(latencyMs)
}

// RecordFilteredRows records the size of a filtered row set.
func RecordFilteredRows(count int) {
	m := current()
	if !m.Enabled() {
		return
	}
	m.filteredRows.Observe(float64(count))
}

// RecordSearchQuery counts a view built with a search.
func RecordSearchQuery() {
	m := current()
	if !m.Enabled() {
		return
	}
	m.searchQueries.Inc()
}

// Chart Metrics Functions.

// RecordChartRender counts a rendered chart.
func RecordChartRender(chart string) {
	m := current()
	if !m.Enabled() {
		return
	}
	m.chartRenders.WithLabelValues(chart).Inc()
}

// RecordChartError counts a failed chart render.
func RecordChartError(chart string) {
	m := current()
	if !m.Enabled() {
		return
	}
	m.chartErrors.WithLabelValues(chart).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	m := current()
	if !m.Enabled() {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	m := current()
	if !m.Enabled() {
		return
	}
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Enhanced Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	m := current()
	if !m.Enabled() {
		return
	}
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	m := current()
	if !m.Enabled() {
		return
	}
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	m := current()
	if !m.Enabled() {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	m := current()
	if !m.Enabled() {
		return
	}
	m.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	m := current()
	if !m.Enabled() {
		return
	}
	m.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	m := current()
	if !m.Enabled() {
		return
	}
	m.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	m := current()
	if !m.Enabled() {
		return
	}
	m.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry.Load()
}

// RefreshInterval is the refresh period of the global manager.
func RefreshInterval() time.Duration {
	return current().refreshInterval
}

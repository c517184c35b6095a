// Package metrics provides Prometheus metrics for the persona matching service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// defaultLatencyBuckets covers in-memory operations (sub-millisecond) up to
// slow HTTP responses, in milliseconds.
var defaultLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000} //nolint:gochecknoglobals // read-only bucket layout

// Manager manages all Prometheus metrics for the persona service.
type Manager struct {
	namespace       string
	subsystem       string
	latencyBuckets  []float64
	refreshInterval time.Duration
	registry        prometheus.Registerer

	// Matching
	matchesTotal *prometheus.CounterVec
	matchErrors  *prometheus.CounterVec
	matchLatency prometheus.Histogram
	submissions  *prometheus.CounterVec
	catalogRoles prometheus.Gauge

	// Aggregation
	summaries     *prometheus.CounterVec
	teamworkIndex prometheus.Histogram
	forgets       *prometheus.CounterVec
	facetImports  *prometheus.CounterVec

	// Registry
	registryGroups        prometheus.Gauge
	registryMembers       prometheus.Gauge
	registryUpdateLatency prometheus.Histogram
	registryQueryLatency  prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
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
		namespace:       "persona",
		subsystem:       "core",
		latencyBuckets:  defaultLatencyBuckets,
		refreshInterval: defaultRefreshInterval,
		registry:        prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// RefreshInterval is how often gauge updaters should poll their sources.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.matchesTotal = auto.NewCounterVec(
		m.counterOpts("matches_total", "Total number of successful role matches by department"),
		[]string{"department"},
	)
	m.matchErrors = auto.NewCounterVec(
		m.counterOpts("match_errors_total", "Total number of rejected match requests by reason"),
		[]string{"reason"},
	)
	m.matchLatency = auto.NewHistogram(
		m.histogramOpts("match_latency_milliseconds", "Histogram of match latency in milliseconds", m.latencyBuckets),
	)
	m.submissions = auto.NewCounterVec(
		m.counterOpts("submissions_total", "Total number of trait submissions by outcome"),
		[]string{"outcome"},
	)
	m.catalogRoles = auto.NewGauge(
		m.gaugeOpts("catalog_roles", "Number of roles in the loaded catalog"),
	)

	m.summaries = auto.NewCounterVec(
		m.counterOpts("summaries_total", "Total number of group summaries by mode"),
		[]string{"mode"},
	)
	m.teamworkIndex = auto.NewHistogram(
		m.histogramOpts("teamwork_index", "Distribution of computed teamwork indices",
			[]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}),
	)
	m.forgets = auto.NewCounterVec(
		m.counterOpts("forgets_total", "Total number of forget requests by outcome"),
		[]string{"outcome"},
	)
	m.facetImports = auto.NewCounterVec(
		m.counterOpts("facet_imports_total", "Total number of facet import previews by outcome"),
		[]string{"outcome"},
	)

	m.registryGroups = auto.NewGauge(
		m.gaugeOpts("registry_groups", "Number of groups held in the member registry"),
	)
	m.registryMembers = auto.NewGauge(
		m.gaugeOpts("registry_members", "Number of members held across all groups"),
	)
	m.registryUpdateLatency = auto.NewHistogram(
		m.histogramOpts("registry_update_latency_milliseconds", "Registry write latency in milliseconds", m.latencyBuckets),
	)
	m.registryQueryLatency = auto.NewHistogram(
		m.histogramOpts("registry_query_latency_milliseconds", "Registry read latency in milliseconds", m.latencyBuckets),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.latencyBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordMatch counts a successful match into department.
func RecordMatch(department string) {
	globalManager.matchesTotal.WithLabelValues(department).Inc()
}

// RecordMatchError counts a rejected match.
func RecordMatchError(reason string) {
	globalManager.matchErrors.WithLabelValues(reason).Inc()
}

// RecordMatchLatency records match latency in milliseconds.
func RecordMatchLatency(latencyMs float64) {
	globalManager.matchLatency.Observe(latencyMs)
}

// RecordSubmission counts a submission as "created", "updated" or "stateless".
func RecordSubmission(outcome string) {
	globalManager.submissions.WithLabelValues(outcome).Inc()
}

// UpdateCatalogRoles sets the loaded catalog size.
func UpdateCatalogRoles(count int) {
	globalManager.catalogRoles.Set(float64(count))
}

// RecordSummary counts a summary rendered in mode.
func RecordSummary(mode string) {
	globalManager.summaries.WithLabelValues(mode).Inc()
}

// RecordTeamworkIndex observes a computed teamwork index.
func RecordTeamworkIndex(index float64) {
	globalManager.teamworkIndex.Observe(index)
}

// RecordForget counts a forget request as "removed" or "missing".
func RecordForget(outcome string) {
	globalManager.forgets.WithLabelValues(outcome).Inc()
}

// RecordFacetImport counts a facet import preview.
func RecordFacetImport(outcome string) {
	globalManager.facetImports.WithLabelValues(outcome).Inc()
}

// UpdateRegistrySize sets the registry group and member gauges.
func UpdateRegistrySize(groups, members int) {
	globalManager.registryGroups.Set(float64(groups))
	globalManager.registryMembers.Set(float64(members))
}

// RecordRegistryUpdateLatency records registry write latency.
func RecordRegistryUpdateLatency(latencyMs float64) {
	globalManager.registryUpdateLatency.Observe(latencyMs)
}

// RecordRegistryQueryLatency records registry read latency.
func RecordRegistryQueryLatency(latencyMs float64) {
	globalManager.registryQueryLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
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

// RefreshInterval returns the global manager's gauge refresh interval.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

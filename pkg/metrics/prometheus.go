// Package metrics provides Prometheus metrics for the roster solver service.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Solve outcomes used as label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Manager manages all Prometheus metrics for the solver service.
type Manager struct {
	mu               sync.RWMutex
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Solver metrics
	solvesTotal          *prometheus.CounterVec
	solveLatency         prometheus.Histogram
	assignsTotal         *prometheus.CounterVec
	slotFailures         prometheus.Counter
	unmetRequirements    prometheus.Counter
	exhaustedSlots       prometheus.Counter
	backgroundCandidates prometheus.Histogram

	// Estimator cache
	estimatorCacheHits   prometheus.Counter
	estimatorCacheMisses prometheus.Counter

	// Result store
	storedResults prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "roster",
		subsystem:        "solver",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval is how often gauge metrics should be refreshed by callers.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Enabled reports whether recording is on.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.solvesTotal = auto.NewCounterVec(
		m.counterOpts("solves_total", "Total number of team solves by outcome"),
		[]string{"outcome"},
	)
	m.solveLatency = auto.NewHistogram(m.histogramOpts(
		"solve_latency_milliseconds", "Histogram of team solve latency in milliseconds",
		[]float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	))
	m.assignsTotal = auto.NewCounterVec(
		m.counterOpts("assigns_total", "Total number of single-slot assignments by outcome"),
		[]string{"outcome"},
	)
	m.slotFailures = auto.NewCounter(m.counterOpts(
		"slot_failures_total", "Slots left without a background because no candidate was feasible"))
	m.unmetRequirements = auto.NewCounter(m.counterOpts(
		"unmet_requirements_total", "Requirement goal units left unmet after allocation"))
	m.exhaustedSlots = auto.NewCounter(m.counterOpts(
		"exhausted_slots_total", "Slots whose finalize ran out of investment budget"))
	m.backgroundCandidates = auto.NewHistogram(m.histogramOpts(
		"background_candidates", "Eligible background candidates scored per selection",
		prometheus.ExponentialBuckets(1, 4, 8),
	))

	m.estimatorCacheHits = auto.NewCounter(m.counterOpts(
		"estimator_cache_hits_total", "Range estimates served from cache"))
	m.estimatorCacheMisses = auto.NewCounter(m.counterOpts(
		"estimator_cache_misses_total", "Range estimates computed from the level curves"))

	m.storedResults = auto.NewGauge(m.gaugeOpts(
		"stored_results", "Solve results currently held in the result store"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_seconds", "HTTP request duration in seconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by HTTP endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in errors",
			[]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
}

// Default returns the global manager.
func Default() *Manager { return globalManager }

// SetEnabled turns recording on the global manager on or off.
func SetEnabled(on bool) {
	globalManager.mu.Lock()
	globalManager.enabled = on
	globalManager.mu.Unlock()
}

func enabled() bool {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	return globalManager.enabled
}

// RecordSolve counts a team solve and its latency in milliseconds.
func RecordSolve(outcome string, latencyMs float64) {
	if !enabled() {
		return
	}
	globalManager.solvesTotal.WithLabelValues(outcome).Inc()
	globalManager.solveLatency.Observe(latencyMs)
}

// RecordAssign counts a single-slot assignment.
func RecordAssign(outcome string) {
	if !enabled() {
		return
	}
	globalManager.assignsTotal.WithLabelValues(outcome).Inc()
}

// RecordSlotFailure increments the failed slot counter.
func RecordSlotFailure() {
	if !enabled() {
		return
	}
	globalManager.slotFailures.Inc()
}

// RecordUnmetRequirement adds units of unmet goal.
func RecordUnmetRequirement(units int) {
	if !enabled() || units <= 0 {
		return
	}
	globalManager.unmetRequirements.Add(float64(units))
}

// RecordExhaustedSlot increments the exhausted slot counter.
func RecordExhaustedSlot() {
	if !enabled() {
		return
	}
	globalManager.exhaustedSlots.Inc()
}

// RecordBackgroundCandidates observes how many candidates a selection scored.
func RecordBackgroundCandidates(n int) {
	if !enabled() {
		return
	}
	globalManager.backgroundCandidates.Observe(float64(n))
}

// RecordEstimatorCacheHit increments the estimator cache hit counter.
func RecordEstimatorCacheHit() {
	if !enabled() {
		return
	}
	globalManager.estimatorCacheHits.Inc()
}

// RecordEstimatorCacheMiss increments the estimator cache miss counter.
func RecordEstimatorCacheMiss() {
	if !enabled() {
		return
	}
	globalManager.estimatorCacheMisses.Inc()
}

// UpdateStoredResults sets the result store size.
func UpdateStoredResults(n int) {
	if !enabled() {
		return
	}
	globalManager.storedResults.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !enabled() {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !enabled() {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !enabled() {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !enabled() {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !enabled() {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !enabled() {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !enabled() {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package metrics provides Prometheus metrics for the barhop recommender.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Latency histograms observe milliseconds, not seconds.
var defaultLatencyBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}

// Manager owns every collector of the service.
type Manager struct {
	namespace       string
	subsystem       string
	latencyBuckets  []float64
	distanceBuckets []float64
	constLabels     map[string]string
	registry        prometheus.Registerer

	// Recommendation pipeline
	recommendations       *prometheus.CounterVec
	recommendationLatency prometheus.Histogram
	itineraryStops        prometheus.Histogram
	itineraryDistance     prometheus.Histogram
	selectorBackfills     prometheus.Counter

	// Dataset and snapshot store
	datasetVenues          prometheus.Gauge
	datasetRejected        prometheus.Gauge
	datasetReloads         *prometheus.CounterVec
	datasetLoadDuration    prometheus.Histogram
	snapshotLastUnix       prometheus.Gauge
	repositoryQueryLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "barhop",
		subsystem:       "recommender",
		latencyBuckets:  defaultLatencyBuckets,
		distanceBuckets: prometheus.ExponentialBuckets(100, 2, 10),
		constLabels:     map[string]string{},
		registry:        prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.recommendations = auto.NewCounterVec(
		m.counterOpts("recommendations_total", "Recommendation requests by outcome"),
		[]string{"outcome"},
	)
	m.recommendationLatency = auto.NewHistogram(m.histogramOpts(
		"recommendation_latency_milliseconds", "End-to-end pipeline latency in milliseconds", m.latencyBuckets))
	m.itineraryStops = auto.NewHistogram(m.histogramOpts(
		"itinerary_stops", "Number of stops per itinerary", prometheus.LinearBuckets(1, 1, 20)))
	m.itineraryDistance = auto.NewHistogram(m.histogramOpts(
		"itinerary_walking_distance_meters", "Total walking distance per itinerary", m.distanceBuckets))
	m.selectorBackfills = auto.NewCounter(m.counterOpts(
		"selector_backfills_total", "Stops admitted without meeting the minimum separation"))

	m.datasetVenues = auto.NewGauge(m.gaugeOpts("dataset_venues", "Venues in the active snapshot"))
	m.datasetRejected = auto.NewGauge(m.gaugeOpts("dataset_rejected_rows", "Rows rejected by the last load"))
	m.datasetReloads = auto.NewCounterVec(
		m.counterOpts("dataset_reloads_total", "Dataset loads by outcome"),
		[]string{"outcome"},
	)
	m.datasetLoadDuration = auto.NewHistogram(m.histogramOpts(
		"dataset_load_duration_milliseconds", "Dataset load duration in milliseconds", m.latencyBuckets))
	m.snapshotLastUnix = auto.NewGauge(m.gaugeOpts(
		"snapshot_last_unix", "Unix timestamp of the last snapshot publish"))
	m.repositoryQueryLatency = auto.NewHistogram(m.histogramOpts(
		"repository_query_latency_milliseconds", "Snapshot query latency in milliseconds", m.latencyBuckets))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.latencyBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordRecommendation counts a recommendation request by outcome
// ("ok", "invalid", "error").
func (m *Manager) RecordRecommendation(outcome string, latencyMs float64) {
	m.recommendations.WithLabelValues(outcome).Inc()
	m.recommendationLatency.Observe(latencyMs)
}

// RecordItinerary observes the shape of a produced itinerary.
func (m *Manager) RecordItinerary(stops int, distanceMeters float64, backfilled int) {
	m.itineraryStops.Observe(float64(stops))
	m.itineraryDistance.Observe(distanceMeters)
	m.selectorBackfills.Add(float64(backfilled))
}

// RecordDatasetLoad records a dataset load attempt. Sizes are only updated on
// success.
func (m *Manager) RecordDatasetLoad(outcome string, venues, rejected int, durationMs float64) {
	m.datasetReloads.WithLabelValues(outcome).Inc()
	m.datasetLoadDuration.Observe(durationMs)
	if outcome == OutcomeOK {
		m.datasetVenues.Set(float64(venues))
		m.datasetRejected.Set(float64(rejected))
	}
}

// Outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// RecordRecommendation counts a recommendation on the global manager.
func RecordRecommendation(outcome string, latencyMs float64) {
	globalManager.RecordRecommendation(outcome, latencyMs)
}

// RecordItinerary observes an itinerary on the global manager.
func RecordItinerary(stops int, distanceMeters float64, backfilled int) {
	globalManager.RecordItinerary(stops, distanceMeters, backfilled)
}

// RecordDatasetLoad records a dataset load on the global manager.
func RecordDatasetLoad(outcome string, venues, rejected int, durationMs float64) {
	globalManager.RecordDatasetLoad(outcome, venues, rejected, durationMs)
}

// UpdateSnapshotTimestamp sets the time the active snapshot was published.
func UpdateSnapshotTimestamp(t time.Time) {
	globalManager.snapshotLastUnix.Set(float64(t.Unix()))
}

// RecordRepositoryQueryLatency records snapshot query latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
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

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use.
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

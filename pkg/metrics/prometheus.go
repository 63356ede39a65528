// Package metrics provides Prometheus metrics for the clubperf service.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup outcomes.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Report engine
	reportsGenerated   *prometheus.CounterVec
	reportBuildLatency prometheus.Histogram
	samplesIngested    prometheus.Counter
	athletesScored     *prometheus.CounterVec
	rulesTriggered     *prometheus.CounterVec

	// Record store
	storeQueryLatency *prometheus.HistogramVec
	storedSamples     prometheus.Gauge

	// Report cache
	cacheLookups *prometheus.CounterVec

	// Ingestion
	ingestQueueSize     prometheus.Gauge
	ingestQueueCapacity prometheus.Gauge
	ingestEnqueued      *prometheus.CounterVec
	ingestWriteLatency  prometheus.Histogram
	ingestWorkersActive prometheus.Gauge
	ingestDedupeSize    prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "clubperf",
		subsystem:        "reports",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.reportsGenerated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "generated_total",
		Help:        "Coaching reports generated, by language and input source",
		ConstLabels: m.constLabels,
	}, []string{"language", "source"})

	m.reportBuildLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "build_latency_milliseconds",
		Help:        "Time spent building one coaching report",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.samplesIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "samples_ingested_total",
		Help:        "Timing samples fed into report builds",
		ConstLabels: m.constLabels,
	})

	m.athletesScored = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "athletes_scored_total",
		Help:        "Athletes scored, by category (none when no composite could be computed)",
		ConstLabels: m.constLabels,
	}, []string{"category"})

	m.rulesTriggered = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rules_triggered_total",
		Help:        "Team rules that fired, by action block",
		ConstLabels: m.constLabels,
	}, []string{"block"})

	m.storeQueryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "store",
		Name:        "query_latency_milliseconds",
		Help:        "Record store query latency",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"store", "outcome"})

	m.storedSamples = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "store",
		Name:        "samples",
		Help:        "Samples held by the in-memory record store",
		ConstLabels: m.constLabels,
	})

	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "cache",
		Name:        "lookups_total",
		Help:        "Report cache lookups, by result",
		ConstLabels: m.constLabels,
	}, []string{"result"})

	m.ingestQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "ingest",
		Name:        "queue_size",
		Help:        "Records waiting in the ingestion queue",
		ConstLabels: m.constLabels,
	})

	m.ingestQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "ingest",
		Name:        "queue_capacity",
		Help:        "Maximum records the ingestion queue holds",
		ConstLabels: m.constLabels,
	})

	m.ingestEnqueued = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "ingest",
		Name:        "records_total",
		Help:        "Submitted records, by outcome (accepted, duplicate, rejected, full, closed, cancelled)",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.ingestWriteLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "ingest",
		Name:        "write_latency_milliseconds",
		Help:        "Time a worker spends writing one record to the store",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.ingestWorkersActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "ingest",
		Name:        "workers",
		Help:        "Running ingestion workers",
		ConstLabels: m.constLabels,
	})

	m.ingestDedupeSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "ingest",
		Name:        "dedupe_ids",
		Help:        "Result ids remembered for duplicate detection",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "HTTP requests, by endpoint, method and status",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "request_duration_seconds",
		Help:        "HTTP request duration in seconds",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "errors_total",
		Help:        "Errors, by component and type",
		ConstLabels: m.constLabels,
	}, []string{"component", "type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})

	m.systemGCPauseTime = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "gc_pause_milliseconds",
		Help:        "Average GC pause time",
		ConstLabels: m.constLabels,
	})
}

// RecordReportGenerated counts one report.
func RecordReportGenerated(language, source string) {
	globalManager.reportsGenerated.WithLabelValues(language, source).Inc()
}

// RecordReportBuildLatency records build latency in milliseconds.
func RecordReportBuildLatency(latencyMs float64) {
	globalManager.reportBuildLatency.Observe(latencyMs)
}

// RecordSamplesIngested adds n samples.
func RecordSamplesIngested(n int) {
	if n > 0 {
		globalManager.samplesIngested.Add(float64(n))
	}
}

// RecordAthleteScored counts one athlete under its category.
func RecordAthleteScored(category string) {
	if category == "" {
		category = "none"
	}
	globalManager.athletesScored.WithLabelValues(category).Inc()
}

// RecordRulesTriggered adds n fired rules for an action block.
func RecordRulesTriggered(block string, n int) {
	if n > 0 {
		globalManager.rulesTriggered.WithLabelValues(block).Add(float64(n))
	}
}

// RecordStoreQueryLatency records a store query.
func RecordStoreQueryLatency(store, outcome string, latencyMs float64) {
	globalManager.storeQueryLatency.WithLabelValues(store, outcome).Observe(latencyMs)
}

// UpdateStoredSamples sets the in-memory store size.
func UpdateStoredSamples(n int) {
	globalManager.storedSamples.Set(float64(n))
}

// RecordCacheLookup counts a cache hit or miss.
func RecordCacheLookup(result string) {
	globalManager.cacheLookups.WithLabelValues(result).Inc()
}

// UpdateIngestQueue sets the ingestion queue size and capacity.
func UpdateIngestQueue(size, capacity int) {
	globalManager.ingestQueueSize.Set(float64(size))
	globalManager.ingestQueueCapacity.Set(float64(capacity))
}

// RecordIngestOutcome counts n submitted records under an outcome.
func RecordIngestOutcome(outcome string, n int) {
	if n > 0 {
		globalManager.ingestEnqueued.WithLabelValues(outcome).Add(float64(n))
	}
}

// RecordIngestWriteLatency records a worker store write in milliseconds.
func RecordIngestWriteLatency(latencyMs float64) {
	globalManager.ingestWriteLatency.Observe(latencyMs)
}

// UpdateIngestWorkers sets the number of running workers.
func UpdateIngestWorkers(n int) {
	globalManager.ingestWorkersActive.Set(float64(n))
}

// UpdateDedupeSize sets the number of remembered result ids.
func UpdateDedupeSize(n int64) {
	globalManager.ingestDedupeSize.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in seconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutineCount.Set(float64(n))
}

// RecordSystemGCPauseTime sets the average GC pause in milliseconds.
func RecordSystemGCPauseTime(ms float64) {
	globalManager.systemGCPauseTime.Set(ms)
}

// RegisterCollector adds an external collector, such as a connection pool
// collector, to the custom registry. A collector that is already registered
// is not an error.
func RegisterCollector(c prometheus.Collector) error {
	err := customRegistry.Register(c)
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package metrics provides Prometheus metrics for the accolade award engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Trigger metrics
	triggersProcessed *prometheus.CounterVec
	triggersDuplicate prometheus.Counter
	evaluationLatency prometheus.Histogram

	// Grant metrics
	awardsGranted  *prometheus.CounterVec
	grantConflicts prometheus.Counter

	// Evaluator health
	evaluatorErrors *prometheus.CounterVec

	// Store latencies
	ledgerInsertLatency prometheus.Histogram
	historyQueryLatency prometheus.Histogram

	// Sweep metrics
	sweepMembersChecked prometheus.Gauge
	sweepAwardsGranted  prometheus.Gauge
	sweepDuration       prometheus.Histogram
	sweepLastUnix       prometheus.Gauge

	// Queue / worker health
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge
	workerCount   prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "accolade",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.triggersProcessed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "triggers_processed_total",
			Help:      "Total number of triggers evaluated, by trigger kind",
		},
		[]string{"kind"},
	)

	m.triggersDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "triggers_duplicate_total",
		Help:      "Total number of duplicate trigger deliveries skipped",
	})

	m.evaluationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_latency_milliseconds",
		Help:      "Histogram of full dispatch latency per trigger in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.awardsGranted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "awards_granted_total",
			Help:      "Total number of awards granted, by award id",
		},
		[]string{"award"},
	)

	m.grantConflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "grant_conflicts_total",
		Help:      "Total number of insert-if-absent calls that lost to an existing grant",
	})

	m.evaluatorErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "evaluator_errors_total",
			Help:      "Total number of swallowed evaluator errors, by evaluator",
		},
		[]string{"evaluator"},
	)

	m.ledgerInsertLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ledger_insert_latency_milliseconds",
		Help:      "Histogram of grant ledger insert latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.historyQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_query_latency_milliseconds",
		Help:      "Histogram of history reader query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.sweepMembersChecked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweep_members_checked",
		Help:      "Number of members checked by the most recent bulk sweep",
	})

	m.sweepAwardsGranted = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweep_awards_granted",
		Help:      "Number of awards granted by the most recent bulk sweep",
	})

	m.sweepDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweep_duration_milliseconds",
		Help:      "Histogram of bulk sweep duration in milliseconds",
		Buckets:   []float64{100, 500, 1000, 5000, 15000, 60000, 300000},
	})

	m.sweepLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweep_last_unix",
		Help:      "Unix timestamp of the most recent completed bulk sweep",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the sweep trigger queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum capacity of the sweep trigger queue",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of sweep workers",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordTriggerProcessed increments the processed-trigger counter for a kind.
func RecordTriggerProcessed(kind string) {
	globalManager.triggersProcessed.WithLabelValues(kind).Inc()
}

// RecordTriggerDuplicate increments the duplicate-delivery counter.
func RecordTriggerDuplicate() {
	globalManager.triggersDuplicate.Inc()
}

// RecordEvaluationLatency records the full dispatch latency for one trigger.
func RecordEvaluationLatency(latencyMs float64) {
	globalManager.evaluationLatency.Observe(latencyMs)
}

// RecordAwardGranted increments the granted counter for an award id.
func RecordAwardGranted(award string) {
	globalManager.awardsGranted.WithLabelValues(award).Inc()
}

// RecordGrantConflict increments the lost-insert counter.
func RecordGrantConflict() {
	globalManager.grantConflicts.Inc()
}

// RecordEvaluatorError increments the swallowed-error counter for an evaluator.
func RecordEvaluatorError(evaluator string) {
	globalManager.evaluatorErrors.WithLabelValues(evaluator).Inc()
}

// RecordLedgerInsertLatency records grant ledger insert latency.
func RecordLedgerInsertLatency(latencyMs float64) {
	globalManager.ledgerInsertLatency.Observe(latencyMs)
}

// RecordHistoryQueryLatency records history reader query latency.
func RecordHistoryQueryLatency(latencyMs float64) {
	globalManager.historyQueryLatency.Observe(latencyMs)
}

// RecordSweep records the outcome of a completed bulk sweep.
func RecordSweep(checked, awarded int, durationMs float64, completedUnix int64) {
	globalManager.sweepMembersChecked.Set(float64(checked))
	globalManager.sweepAwardsGranted.Set(float64(awarded))
	globalManager.sweepDuration.Observe(durationMs)
	globalManager.sweepLastUnix.Set(float64(completedUnix))
}

// UpdateQueueSize sets the current sweep queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the sweep queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateWorkerCount sets the sweep worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

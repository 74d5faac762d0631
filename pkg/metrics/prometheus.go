// Package metrics provides Prometheus metrics for the rinkstats service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every rinkstats collector.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Engine
	gamesComputed     *prometheus.CounterVec
	computeLatency    prometheus.Histogram
	eventsNormalized  prometheus.Counter
	penaltiesWalked   prometheus.Counter
	specialTeamsGoals *prometheus.CounterVec
	computeErrors     *prometheus.CounterVec
	gamesDuplicate    prometheus.Counter

	// Store
	storeGames        prometheus.Gauge
	storeWriteLatency prometheus.Histogram
	storeReadLatency  prometheus.Histogram

	// Queue
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueued    prometheus.Counter
	queueDequeued    prometheus.Counter
	queueRejected    prometheus.Counter
	queueWait        prometheus.Histogram

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide metrics

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates and registers a full set of collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rinkstats",
		subsystem:        "",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
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
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

func (m *Manager) initializeMetrics() {
	m.gamesComputed = m.counterVec("games_computed_total", "Games fully computed, by game type", "game_type")
	m.computeLatency = m.histogram("compute_latency_milliseconds", "Time to compute one game in milliseconds", m.histogramBuckets)
	m.eventsNormalized = m.counter("events_normalized_total", "Plays accepted by the normalizer")
	m.penaltiesWalked = m.counter("penalties_walked_total", "Penalties that opened a window")
	m.specialTeamsGoals = m.counterVec("special_teams_goals_total", "Power-play and short-handed goals attributed", "strength")
	m.computeErrors = m.counterVec("compute_errors_total", "Games that failed to compute, by error kind", "kind")
	m.gamesDuplicate = m.counter("games_duplicate_total", "Game submissions rejected as duplicates")

	m.storeGames = m.gauge("store_games", "Reports held by the store")
	m.storeWriteLatency = m.histogram("store_write_latency_milliseconds", "Report write latency in milliseconds", m.histogramBuckets)
	m.storeReadLatency = m.histogram("store_read_latency_milliseconds", "Report read latency in milliseconds", m.histogramBuckets)

	m.queueSize = m.gauge("queue_size", "Jobs waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue size over capacity")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Jobs dequeued")
	m.queueRejected = m.counter("queue_enqueue_errors_total", "Jobs rejected by a full or closed queue")
	m.queueWait = m.histogram("queue_wait_milliseconds", "Time a job spent queued in milliseconds", m.histogramBuckets)

	m.workerCount = m.gauge("worker_count", "Workers in the pool")
	m.workerActiveCount = m.gauge("worker_active_count", "Workers currently computing a game")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Worker job latency in milliseconds", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Jobs that failed in a worker")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// RecordGameComputed counts a computed game and observes its latency.
func (m *Manager) RecordGameComputed(gameType string, latency time.Duration) {
	m.gamesComputed.WithLabelValues(gameType).Inc()
	m.computeLatency.Observe(ms(latency))
}

// RecordEventsNormalized adds n accepted plays.
func (m *Manager) RecordEventsNormalized(n int) { m.eventsNormalized.Add(float64(n)) }

// RecordPenaltiesWalked adds n penalty windows.
func (m *Manager) RecordPenaltiesWalked(n int) { m.penaltiesWalked.Add(float64(n)) }

// RecordSpecialTeamsGoals adds power-play and short-handed goals.
func (m *Manager) RecordSpecialTeamsGoals(ppg, shg int) {
	m.specialTeamsGoals.WithLabelValues("ppg").Add(float64(ppg))
	m.specialTeamsGoals.WithLabelValues("shg").Add(float64(shg))
}

// RecordComputeError counts a failed game by error kind.
func (m *Manager) RecordComputeError(kind string) { m.computeErrors.WithLabelValues(kind).Inc() }

// RecordGameDuplicate counts a rejected duplicate submission.
func (m *Manager) RecordGameDuplicate() { m.gamesDuplicate.Inc() }

// RecordGameComputed counts a computed game on the global manager.
func RecordGameComputed(gameType string, latency time.Duration) {
	globalManager.RecordGameComputed(gameType, latency)
}

// RecordEventsNormalized adds n accepted plays.
func RecordEventsNormalized(n int) { globalManager.RecordEventsNormalized(n) }

// RecordPenaltiesWalked adds n penalty windows.
func RecordPenaltiesWalked(n int) { globalManager.RecordPenaltiesWalked(n) }

// RecordSpecialTeamsGoals adds power-play and short-handed goals.
func RecordSpecialTeamsGoals(ppg, shg int) { globalManager.RecordSpecialTeamsGoals(ppg, shg) }

// RecordComputeError counts a failed game by error kind.
func RecordComputeError(kind string) { globalManager.RecordComputeError(kind) }

// RecordGameDuplicate counts a rejected duplicate submission.
func RecordGameDuplicate() { globalManager.RecordGameDuplicate() }

// Store metrics.

// UpdateStoreGames sets the number of stored reports.
func UpdateStoreGames(n int) { globalManager.storeGames.Set(float64(n)) }

// RecordStoreWrite observes a report write.
func RecordStoreWrite(latency time.Duration) { globalManager.storeWriteLatency.Observe(ms(latency)) }

// RecordStoreRead observes a report read.
func RecordStoreRead(latency time.Duration) { globalManager.storeReadLatency.Observe(ms(latency)) }

// Queue metrics.

// UpdateQueueSize sets the current queue size and utilization.
func UpdateQueueSize(size, capacity int) {
	globalManager.queueSize.Set(float64(size))
	if capacity > 0 {
		globalManager.queueUtilization.Set(float64(size) / float64(capacity))
	}
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueDequeue increments the dequeue counter and observes queue wait.
func RecordQueueDequeue(wait time.Duration) {
	globalManager.queueDequeued.Inc()
	globalManager.queueWait.Observe(ms(wait))
}

// RecordQueueEnqueueError increments the rejected-job counter.
func RecordQueueEnqueueError() { globalManager.queueRejected.Inc() }

// Worker metrics.

// UpdateWorkerCount sets the pool size.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// AddWorkerActive moves the active worker gauge by delta.
func AddWorkerActive(delta int) { globalManager.workerActiveCount.Add(float64(delta)) }

// RecordWorkerProcessingLatency observes one job's latency in a worker.
func RecordWorkerProcessingLatency(latency time.Duration) {
	globalManager.workerProcessingLatency.Observe(ms(latency))
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// System metrics.

// UpdateSystemMemoryUsage sets heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// RecordSystemGCPauseTime records a GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// GetRegistry returns the registry the global manager writes to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

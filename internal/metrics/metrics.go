package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Fetch routing counters
	FetchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_requests_total",
			Help: "Total number of fetches handled, by routing class",
		},
		[]string{"class"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of store hits",
		},
		[]string{"class"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of store misses",
		},
		[]string{"class"},
	)

	NetworkFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "network_failures_total",
			Help: "Total number of failed network fetches",
		},
		[]string{"class"},
	)

	OfflineFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offline_fallbacks_total",
			Help: "Total number of responses served without the network after a failure",
		},
		[]string{"class", "source"}, // source: cache, synthetic, none
	)

	// Store write outcomes (writes never fail the response path)
	CacheWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_writes_total",
			Help: "Total number of background store writes",
		},
		[]string{"class", "result"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of store errors",
		},
		[]string{"level", "kind"},
	)

	DetachedTasks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "detached_tasks_in_flight",
			Help: "Background tasks started but not yet finished",
		},
	)

	// Lifecycle
	LifecycleEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifecycle_events_total",
			Help: "Install and activate events by result",
		},
		[]string{"event", "result"},
	)

	GenerationsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "generations_deleted_total",
			Help: "Stale store generations deleted on activation",
		},
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Duration of store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "level"},
	)

	// L1 capacity metrics only (if L1 is in-memory)
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_capacity_bytes",
			Help: "L1 cache capacity in bytes",
		},
		[]string{"level"},
	)

	CacheUsed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_used_bytes",
			Help: "L1 cache used space in bytes",
		},
		[]string{"level"},
	)

	CacheKeys = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_keys",
			Help: "Number of entries held by a cache level",
		},
		[]string{"level"},
	)
)

// RecordFetch records a fetch routed to class
func RecordFetch(class string) {
	FetchRequests.WithLabelValues(class).Inc()
}

// RecordCacheHit records a store hit
func RecordCacheHit(class string) {
	CacheHits.WithLabelValues(class).Inc()
}

// RecordCacheMiss records a store miss
func RecordCacheMiss(class string) {
	CacheMisses.WithLabelValues(class).Inc()
}

// RecordNetworkFailure records a rejected fetch
func RecordNetworkFailure(class string) {
	NetworkFailures.WithLabelValues(class).Inc()
}

// RecordOfflineFallback records what answered after a network failure
func RecordOfflineFallback(class, source string) {
	OfflineFallbacks.WithLabelValues(class, source).Inc()
}

// RecordCacheWrite records the outcome of a background write
func RecordCacheWrite(class string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	CacheWrites.WithLabelValues(class, result).Inc()
}

// RecordCacheError records a store error with level and kind
func RecordCacheError(level, kind string) {
	CacheErrors.WithLabelValues(level, kind).Inc()
}

// DetachedTaskStarted increments the in-flight gauge
func DetachedTaskStarted() {
	DetachedTasks.Inc()
}

// DetachedTaskDone decrements the in-flight gauge
func DetachedTaskDone() {
	DetachedTasks.Dec()
}

// RecordLifecycleEvent records an install or activate outcome
func RecordLifecycleEvent(event string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	LifecycleEvents.WithLabelValues(event, result).Inc()
}

// RecordGenerationsDeleted adds n deleted generations
func RecordGenerationsDeleted(n int) {
	GenerationsDeleted.Add(float64(n))
}

// UpdateL1CacheCapacity updates L1 cache capacity metrics only
func UpdateL1CacheCapacity(capacity, used int64) {
	CacheCapacity.WithLabelValues("l1").Set(float64(capacity))
	CacheUsed.WithLabelValues("l1").Set(float64(used))
}

// UpdateCacheKeys updates the number of keys in cache
func UpdateCacheKeys(level string, count int64) {
	CacheKeys.WithLabelValues(level).Set(float64(count))
}

// TimeCacheOperation returns a timer function for measuring store operation duration
func TimeCacheOperation(operation, level string) func() {
	timer := prometheus.NewTimer(CacheOperationDuration.WithLabelValues(operation, level))
	return func() {
		timer.ObserveDuration()
	}
}

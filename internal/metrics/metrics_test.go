package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCacheMetrics(t *testing.T) {
	// Metrics are package-level variables, automatically registered.
	// These checks verify the helpers don't panic and move the right series.

	t.Run("RecordFetch", func(t *testing.T) {
		before := testutil.ToFloat64(FetchRequests.WithLabelValues("static_cache_first"))
		RecordFetch("static_cache_first")
		assert.Equal(t, before+1, testutil.ToFloat64(FetchRequests.WithLabelValues("static_cache_first")))
	})

	t.Run("RecordCacheHitAndMiss", func(t *testing.T) {
		hits := testutil.ToFloat64(CacheHits.WithLabelValues("cdn_cache_first"))
		misses := testutil.ToFloat64(CacheMisses.WithLabelValues("cdn_cache_first"))
		RecordCacheHit("cdn_cache_first")
		RecordCacheMiss("cdn_cache_first")
		assert.Equal(t, hits+1, testutil.ToFloat64(CacheHits.WithLabelValues("cdn_cache_first")))
		assert.Equal(t, misses+1, testutil.ToFloat64(CacheMisses.WithLabelValues("cdn_cache_first")))
	})

	t.Run("RecordCacheWrite", func(t *testing.T) {
		ok := testutil.ToFloat64(CacheWrites.WithLabelValues("navigation_network_first", "ok"))
		failed := testutil.ToFloat64(CacheWrites.WithLabelValues("navigation_network_first", "error"))
		RecordCacheWrite("navigation_network_first", nil)
		RecordCacheWrite("navigation_network_first", errors.New("boom"))
		assert.Equal(t, ok+1, testutil.ToFloat64(CacheWrites.WithLabelValues("navigation_network_first", "ok")))
		assert.Equal(t, failed+1, testutil.ToFloat64(CacheWrites.WithLabelValues("navigation_network_first", "error")))
	})

	t.Run("DetachedTasks", func(t *testing.T) {
		before := testutil.ToFloat64(DetachedTasks)
		DetachedTaskStarted()
		assert.Equal(t, before+1, testutil.ToFloat64(DetachedTasks))
		DetachedTaskDone()
		assert.Equal(t, before, testutil.ToFloat64(DetachedTasks))
	})

	t.Run("RecordLifecycleEvent", func(t *testing.T) {
		before := testutil.ToFloat64(LifecycleEvents.WithLabelValues("install", "error"))
		RecordLifecycleEvent("install", errors.New("asset missing"))
		assert.Equal(t, before+1, testutil.ToFloat64(LifecycleEvents.WithLabelValues("install", "error")))
	})

	t.Run("RecordGenerationsDeleted", func(t *testing.T) {
		before := testutil.ToFloat64(GenerationsDeleted)
		RecordGenerationsDeleted(3)
		assert.Equal(t, before+3, testutil.ToFloat64(GenerationsDeleted))
	})

	t.Run("RecordCacheError", func(t *testing.T) {
		// This should not panic
		RecordCacheError("l1", "encode")
		RecordNetworkFailure("bypass")
		RecordOfflineFallback("static_cache_first", "synthetic")
	})

	t.Run("UpdateL1CacheCapacity", func(t *testing.T) {
		UpdateL1CacheCapacity(1000000, 500000)
		assert.Equal(t, float64(1000000), testutil.ToFloat64(CacheCapacity.WithLabelValues("l1")))
		assert.Equal(t, float64(500000), testutil.ToFloat64(CacheUsed.WithLabelValues("l1")))
	})

	t.Run("UpdateCacheKeys", func(t *testing.T) {
		UpdateCacheKeys("l1", 1000)
		assert.Equal(t, float64(1000), testutil.ToFloat64(CacheKeys.WithLabelValues("l1")))
	})

	t.Run("TimeCacheOperation", func(t *testing.T) {
		// This should not panic
		timer := TimeCacheOperation("get", "l1")
		timer()
	})
}

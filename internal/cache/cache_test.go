package cache

import (
	"sync"
	"testing"
	"time"

	"expiring-cache/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, maxSize int, ttl time.Duration) *ExpiringCache[string, int] {
	t.Helper()
	c, err := New[string, int](maxSize, ttl, metrics.NewRegistry())
	require.NoError(t, err)
	return c
}

func TestNew_RejectsNonPositiveTTL(t *testing.T) {
	_, err := New[string, int](10, 0, metrics.NewRegistry())
	assert.ErrorIs(t, err, ErrNonPositiveTTL)

	_, err = New[string, int](10, -time.Second, metrics.NewRegistry())
	assert.ErrorIs(t, err, ErrNonPositiveTTL)
}

func TestPutGet(t *testing.T) {
	c := newTestCache(t, 10, time.Minute)

	t.Run("put and get existing key", func(t *testing.T) {
		_, existed := c.Put("a", 1)
		assert.False(t, existed)

		v, ok := c.Get("a")
		require.True(t, ok)
		assert.Equal(t, 1, v)
	})

	t.Run("get non-existing key", func(t *testing.T) {
		_, ok := c.Get("missing")
		assert.False(t, ok)
	})

	t.Run("overwrite returns previous value", func(t *testing.T) {
		old, existed := c.Put("a", 2)
		require.True(t, existed)
		assert.Equal(t, 1, old)
	})

	t.Run("lookup is an alias for get", func(t *testing.T) {
		v, ok := c.Lookup("a")
		require.True(t, ok)
		assert.Equal(t, 2, v)
	})
}

func TestGet_HonorsTTL(t *testing.T) {
	c := newTestCache(t, 10, 30*time.Millisecond)

	c.Put("short", 1)
	c.PutWithTTL("long", 2, time.Minute)

	v, ok := c.Get("short")
	require.True(t, ok, "entry should be live before its ttl elapses")
	assert.Equal(t, 1, v)

	time.Sleep(50 * time.Millisecond)

	_, ok = c.Get("short")
	assert.False(t, ok, "entry should be gone after its ttl elapses")

	v, ok = c.Get("long")
	require.True(t, ok, "per-put ttl should override the default")
	assert.Equal(t, 2, v)
}

func TestGet_ExpiredKeyIsDeleted(t *testing.T) {
	reg := metrics.NewRegistry()
	c, err := New[string, string](10, 5*time.Millisecond, reg)
	require.NoError(t, err)

	c.Put("temp", "value")
	time.Sleep(20 * time.Millisecond)

	// Still present in the raw view: nothing has touched it yet.
	assert.True(t, c.ContainsKey("temp"))
	assert.Contains(t, c.Keys(), "temp")

	// Get triggers the expiration path and deletes the entry.
	v, ok := c.Get("temp")
	assert.False(t, ok)
	assert.Equal(t, "", v)

	assert.False(t, c.ContainsKey("temp"))
	assert.Equal(t, 0, c.Len())

	// Verify metrics side-effects
	snap := reg.Snapshot()
	assert.Equal(t, int64(1), snap[string(metrics.CacheExpiredTotal)])
	assert.Equal(t, int64(0), snap[string(metrics.CacheHitsTotal)])
}

func TestLRUEvictionIsIndependentOfTTL(t *testing.T) {
	c := newTestCache(t, 2, time.Hour)

	c.Put("a", 1)
	c.Put("b", 2)

	// Touch "a" so "b" becomes the LRU victim.
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted even though nothing expired")

	v, ok = c.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestSetDefaultExpiration(t *testing.T) {
	c := newTestCache(t, 10, 20*time.Millisecond)

	t.Run("rejects non-positive ttl and keeps prior value", func(t *testing.T) {
		err := c.SetDefaultExpiration(0)
		assert.ErrorIs(t, err, ErrNonPositiveTTL)

		err = c.SetDefaultExpiration(-time.Second)
		assert.ErrorIs(t, err, ErrNonPositiveTTL)

		assert.Equal(t, 20*time.Millisecond, c.DefaultExpiration())
	})

	t.Run("does not retroactively change stored entries", func(t *testing.T) {
		c.Put("old", 1)

		require.NoError(t, c.SetDefaultExpiration(time.Minute))
		c.Put("new", 2)

		time.Sleep(40 * time.Millisecond)

		_, ok := c.Get("old")
		assert.False(t, ok, "entry inserted under the old default should expire on its original schedule")

		v, ok := c.Get("new")
		require.True(t, ok, "entry inserted under the new default should still be live")
		assert.Equal(t, 2, v)
	})
}

func TestPut_ReturnsStalePreviousValue(t *testing.T) {
	c := newTestCache(t, 10, time.Minute)

	c.PutWithTTL("k", 1, time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	// The displaced value is reported even though it is already stale.
	old, existed := c.Put("k", 2)
	require.True(t, existed)
	assert.Equal(t, 1, old)
}

func TestPutAll(t *testing.T) {
	c := newTestCache(t, 10, time.Minute)

	c.PutAll(map[string]int{"a": 1, "b": 2, "c": 3})

	assert.Equal(t, 3, c.Len())
	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		v, ok := c.Get(key)
		require.True(t, ok)
		assert.Equal(t, want, v)
	}
}

func TestRemove(t *testing.T) {
	c := newTestCache(t, 10, 5*time.Millisecond)

	t.Run("returns the removed value", func(t *testing.T) {
		c.PutWithTTL("a", 1, time.Minute)

		v, ok := c.Remove("a")
		require.True(t, ok)
		assert.Equal(t, 1, v)

		_, ok = c.Remove("a")
		assert.False(t, ok)
	})

	t.Run("returns stale values too", func(t *testing.T) {
		c.Put("b", 2)
		time.Sleep(20 * time.Millisecond)

		v, ok := c.Remove("b")
		require.True(t, ok, "remove is unconditional, expiry state is ignored")
		assert.Equal(t, 2, v)
	})
}

func TestBulkViewsAreNotFilteredByExpiry(t *testing.T) {
	c := newTestCache(t, 10, 5*time.Millisecond)

	c.Put("stale", 1)
	c.PutWithTTL("live", 2, time.Minute)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 2, c.Len())
	assert.False(t, c.IsEmpty())
	assert.True(t, c.ContainsKey("stale"))
	assert.True(t, c.ContainsValue(1), "stale values still count for ContainsValue")
	assert.ElementsMatch(t, []string{"stale", "live"}, c.Keys())
	assert.ElementsMatch(t, []int{1, 2}, c.Values())
}

func TestValues_CollapsesDuplicates(t *testing.T) {
	c := newTestCache(t, 10, time.Minute)

	c.Put("a", 7)
	c.Put("b", 7)
	c.Put("c", 8)

	assert.ElementsMatch(t, []int{7, 8}, c.Values())
}

func TestEntries_SnapshotDoesNotWriteBack(t *testing.T) {
	c := newTestCache(t, 10, time.Minute)
	c.Put("a", 1)

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Key())
	assert.Equal(t, 1, entries[0].Value())

	old := entries[0].SetValue(99)
	assert.Equal(t, 1, old)
	assert.Equal(t, 99, entries[0].Value())

	// Storage is untouched: the pairing is a snapshot, not a view.
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestClear(t *testing.T) {
	c := newTestCache(t, 10, time.Minute)

	c.Put("a", 1)
	c.Put("b", 2)

	c.Clear()

	assert.True(t, c.IsEmpty())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestSetMaxCacheSize_ShrinkEvictsImmediately(t *testing.T) {
	c := newTestCache(t, 2, time.Minute)

	c.Put("a", 1)
	c.Put("b", 2)

	c.SetMaxCacheSize(1)

	assert.Equal(t, 1, c.MaxCacheSize())
	assert.Equal(t, 1, c.Len())

	v, ok := c.Get("b")
	require.True(t, ok, "the most recently used entry should survive the shrink")
	assert.Equal(t, 2, v)

	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestPurgeExpired(t *testing.T) {
	reg := metrics.NewRegistry()
	c, err := New[string, int](10, 5*time.Millisecond, reg)
	require.NoError(t, err)

	c.Put("x", 1)
	c.Put("y", 2)
	c.PutWithTTL("z", 3, time.Minute)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 3, c.Len())

	removed := c.PurgeExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Len())
	assert.True(t, c.ContainsKey("z"))

	assert.Equal(t, 0, c.PurgeExpired(), "second sweep should find nothing")

	snap := reg.Snapshot()
	assert.Equal(t, int64(2), snap[string(metrics.CacheExpiredTotal)])
}

// The walkthrough scenario: capacity 2, touch "a", insert "c", "b" goes.
func TestEvictionScenario(t *testing.T) {
	c := newTestCache(t, 2, time.Second)

	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok)

	v, ok = c.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestConcurrentAccess(t *testing.T) {
	c := newTestCache(t, 100, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Put("key", n)
			c.Get("key")
			c.ContainsKey("key")
			c.Keys()
		}(i)
	}
	wg.Wait()

	_, ok := c.Get("key")
	assert.True(t, ok)
}

func TestMetricsSideEffects(t *testing.T) {
	reg := metrics.NewRegistry()
	c, err := New[string, int](1, time.Minute, reg)
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2) // evicts "a" (capacity 1)

	c.Get("b")       // hit
	c.Get("missing") // miss

	snap := reg.Snapshot()
	assert.Equal(t, int64(2), snap[string(metrics.CachePutsTotal)])
	assert.Equal(t, int64(1), snap[string(metrics.CacheEvictionsTotal)])
	assert.Equal(t, int64(2), snap[string(metrics.CacheGetsTotal)])
	assert.Equal(t, int64(1), snap[string(metrics.CacheHitsTotal)])
	assert.Equal(t, int64(1), snap[string(metrics.CacheMissesTotal)])
}

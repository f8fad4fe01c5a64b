package metrics

import (
	"sync"
	"sync/atomic"
)

// MetricKey is a strongly typed metric identifier.
type MetricKey string

// Metric keys (centralized)
const (
	// Cache
	CacheGetsTotal      MetricKey = "cache_gets_total"
	CacheHitsTotal      MetricKey = "cache_hits_total"
	CacheMissesTotal    MetricKey = "cache_misses_total"
	CachePutsTotal      MetricKey = "cache_puts_total"
	CacheExpiredTotal   MetricKey = "cache_expired_total"
	CacheEvictionsTotal MetricKey = "cache_evictions_total"

	// Purge sweeps
	PurgeRunsTotal    MetricKey = "purge_runs_total"
	PurgeRemovedTotal MetricKey = "purge_removed_total"

	// Loader
	LoaderLoadsTotal  MetricKey = "loader_loads_total"
	LoaderSharedTotal MetricKey = "loader_shared_total"
	LoaderErrorsTotal MetricKey = "loader_errors_total"
)

// Registry stores all metrics.
type Registry struct {
	mu       sync.RWMutex
	counters map[MetricKey]*int64
}

// NewRegistry creates a metrics registry.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[MetricKey]*int64),
	}
}

// Inc increments a metric by 1.
func (r *Registry) Inc(key MetricKey) {
	r.Add(key, 1)
}

// Add increments a metric by delta.
func (r *Registry) Add(key MetricKey, delta int64) {
	r.mu.RLock()
	ptr, ok := r.counters[key]
	r.mu.RUnlock()

	if ok {
		atomic.AddInt64(ptr, delta)
		return
	}

	// Slow path: metric not yet initialized
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if ptr, ok = r.counters[key]; ok {
		atomic.AddInt64(ptr, delta)
		return
	}

	var val int64
	r.counters[key] = &val
	atomic.AddInt64(&val, delta)
}

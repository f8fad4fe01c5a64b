package cache

import (
	"errors"
	"sync"
	"time"

	"expiring-cache/internal/lru"
	"expiring-cache/internal/metrics"
)

// ErrNonPositiveTTL is returned when a default time-to-live of zero or less
// is supplied. Validation happens before any state changes.
var ErrNonPositiveTTL = errors.New("default ttl must be positive")

// ExpiringCache is a bounded key–value cache whose entries expire.
//
// Design principles:
// - Capacity eviction is delegated to an LRU store; expiry is layered on top
// - Expiration is lazy: staleness is detected on point lookup, not by a
//   background sweep (PurgeExpired exists for callers who want one)
// - Bulk accessors (Len, ContainsKey, Keys, Values, Entries) report raw
//   presence and may surface entries that are already stale but untouched
// - One mutex guards every operation, so the check-then-act sequences in
//   Get and PutWithTTL are atomic to external observers
//
// Note:
// TTL testing uses short sleeps instead of injecting a clock,
// keeping the cache free of test-only concerns.
type ExpiringCache[K comparable, V comparable] struct {
	mu         sync.Mutex
	store      *lru.Store[K, Item[V]]
	defaultTTL time.Duration
	metrics    *metrics.Registry
}

// New creates a cache holding at most maxSize entries whose values expire
// defaultTTL after insertion. defaultTTL must be positive.
func New[K comparable, V comparable](
	maxSize int,
	defaultTTL time.Duration,
	metricsRegistry *metrics.Registry,
) (*ExpiringCache[K, V], error) {
	if defaultTTL <= 0 {
		return nil, ErrNonPositiveTTL
	}

	c := &ExpiringCache[K, V]{
		store:      lru.New[K, Item[V]](maxSize),
		defaultTTL: defaultTTL,
		metrics:    metricsRegistry,
	}
	c.store.OnEvict(func(K, Item[V]) {
		c.metrics.Inc(metrics.CacheEvictionsTotal)
	})
	return c, nil
}

// SetDefaultExpiration replaces the default time-to-live used by Put and
// PutAll. Entries already stored keep the deadline stamped when they were
// inserted. A non-positive ttl is rejected and the prior default is kept.
func (c *ExpiringCache[K, V]) SetDefaultExpiration(ttl time.Duration) error {
	if ttl <= 0 {
		return ErrNonPositiveTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultTTL = ttl
	return nil
}

// DefaultExpiration returns the default time-to-live currently in effect.
func (c *ExpiringCache[K, V]) DefaultExpiration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.defaultTTL
}

// Put inserts value under key with the default time-to-live and returns the
// displaced value if the key was already present.
func (c *ExpiringCache[K, V]) Put(key K, value V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.putLocked(key, value, c.defaultTTL)
}

// PutWithTTL inserts value under key with an explicit time-to-live.
//
// The displaced value, if any, is returned without checking its own expiry:
// a previous value that is already stale is still reported as the old value.
// Inserting at capacity may evict an unrelated LRU entry as a side effect.
func (c *ExpiringCache[K, V]) PutWithTTL(key K, value V, ttl time.Duration) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.putLocked(key, value, ttl)
}

func (c *ExpiringCache[K, V]) putLocked(key K, value V, ttl time.Duration) (V, bool) {
	c.metrics.Inc(metrics.CachePutsTotal)

	old, existed := c.store.Put(key, Item[V]{
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
	})
	if !existed {
		var zero V
		return zero, false
	}
	return old.Value, true
}

// PutAll inserts every pairing of m with the default time-to-live, one Put
// per pairing. There is no atomicity across the batch.
func (c *ExpiringCache[K, V]) PutAll(m map[K]V) {
	for key, value := range m {
		c.Put(key, value)
	}
}

// Get returns the live value stored under key.
//
// Behavior:
// - Returns (value, true) if the key is present and not expired
// - A stale entry is deleted on the spot and treated as missing
// - The lookup marks the key most recently used in the underlying store
func (c *ExpiringCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.Inc(metrics.CacheGetsTotal)

	it, ok := c.store.Get(key)
	if !ok {
		c.metrics.Inc(metrics.CacheMissesTotal)
		var zero V
		return zero, false
	}

	if it.Expired(time.Now()) {
		c.store.Remove(key)
		c.metrics.Inc(metrics.CacheExpiredTotal)
		var zero V
		return zero, false
	}

	c.metrics.Inc(metrics.CacheHitsTotal)
	return it.Value, true
}

// Lookup is an alias for Get, exposed for the Cache capability interface.
func (c *ExpiringCache[K, V]) Lookup(key K) (V, bool) {
	return c.Get(key)
}

// Remove deletes the entry under key unconditionally and returns its value
// if one was stored, whether or not it had expired.
func (c *ExpiringCache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.store.Remove(key)
	if !ok {
		var zero V
		return zero, false
	}
	return it.Value, true
}

// Len returns the raw number of stored entries, stale ones included.
func (c *ExpiringCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Len()
}

// IsEmpty reports whether the cache holds no entries at all.
func (c *ExpiringCache[K, V]) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.IsEmpty()
}

// ContainsKey reports raw presence of key. A stale entry that no Get has
// touched yet still counts as present.
func (c *ExpiringCache[K, V]) ContainsKey(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.ContainsKey(key)
}

// ContainsValue reports whether any stored entry wraps value, compared by
// value equality and ignoring expiry state.
func (c *ExpiringCache[K, V]) ContainsValue(value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.ContainsValueFunc(func(it Item[V]) bool {
		return it.Value == value
	})
}

// Clear removes every entry.
func (c *ExpiringCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Clear()
}

// Keys returns the stored keys in MRU -> LRU order, unfiltered by expiry.
func (c *ExpiringCache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Keys()
}

// Values returns the set of stored values with their expiry envelopes
// stripped. Duplicate values collapse to one occurrence (the first in
// MRU -> LRU order). Unfiltered by expiry.
func (c *ExpiringCache[K, V]) Values() []V {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[V]struct{})
	out := make([]V, 0, c.store.Len())
	for _, it := range c.store.Values() {
		if _, dup := seen[it.Value]; dup {
			continue
		}
		seen[it.Value] = struct{}{}
		out = append(out, it.Value)
	}
	return out
}

// Entries returns detached key–value pairings for every stored entry,
// unfiltered by expiry. Mutating a returned Entry does not write back.
func (c *ExpiringCache[K, V]) Entries() []*Entry[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()

	kvs := c.store.Entries()
	out := make([]*Entry[K, V], 0, len(kvs))
	for _, kv := range kvs {
		out = append(out, &Entry[K, V]{key: kv.Key, value: kv.Value.Value})
	}
	return out
}

// MaxCacheSize returns the capacity limit of the underlying store.
func (c *ExpiringCache[K, V]) MaxCacheSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.MaxSize()
}

// SetMaxCacheSize changes the capacity limit. Shrinking evicts least
// recently used entries immediately, regardless of their expiry state.
func (c *ExpiringCache[K, V]) SetMaxCacheSize(maxSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.SetMaxSize(maxSize)
}

// PurgeExpired removes every entry that is already stale and returns how
// many were dropped. This is the explicit sweep for callers who need bulk
// views to be fresher than the lazy default.
func (c *ExpiringCache[K, V]) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for _, kv := range c.store.Entries() {
		if kv.Value.Expired(now) {
			c.store.Remove(kv.Key)
			removed++
		}
	}

	if removed > 0 {
		c.metrics.Add(metrics.CacheExpiredTotal, int64(removed))
	}
	return removed
}

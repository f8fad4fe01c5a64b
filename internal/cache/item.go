package cache

import "time"

// Item wraps a cached value together with its expiration deadline.
//
// Design choices:
// - ExpiresAt is stamped once at insertion time (now + ttl) and never
//   changes afterwards; reads do not slide the deadline.
// - Equality between items is defined by the wrapped value alone; the
//   deadline never participates in value comparisons.
type Item[V comparable] struct {
	Value     V
	ExpiresAt time.Time
}

// Expired checks whether the item is past its deadline at the given time.
// Expiry requires now to be strictly after ExpiresAt; at exactly the
// deadline the item is still fresh.
func (it Item[V]) Expired(now time.Time) bool {
	return now.After(it.ExpiresAt)
}

package loader

import (
	"context"
	"fmt"
	"time"

	"expiring-cache/internal/cache"
	"expiring-cache/internal/logs"
	"expiring-cache/internal/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// LoadFunc fetches the value for a key from the backing source
// (DNS resolver, database, parser, ...). It is only called on cache misses.
type LoadFunc[V comparable] func(ctx context.Context, key string) (V, error)

// Loader is a read-through memoization layer over an ExpiringCache.
//
// Design principles:
// - Cache hit: return immediately, no source contact
// - Cache miss: fetch through singleflight, so concurrent misses for the
//   same key trigger exactly one load and share its result
// - Load errors are never cached; the next lookup retries the source
type Loader[V comparable] struct {
	id      string
	cache   *cache.ExpiringCache[string, V]
	load    LoadFunc[V]
	ttl     time.Duration
	sf      singleflight.Group
	logger  *logs.Logger
	metrics *metrics.Registry
}

// NewLoader creates a loader memoizing results in c.
// ttl <= 0 means loaded values use the cache's default expiration.
func NewLoader[V comparable](
	c *cache.ExpiringCache[string, V],
	load LoadFunc[V],
	ttl time.Duration,
	logger *logs.Logger,
	metricsRegistry *metrics.Registry,
) *Loader[V] {
	return &Loader[V]{
		id:      uuid.New().String(),
		cache:   c,
		load:    load,
		ttl:     ttl,
		logger:  logger,
		metrics: metricsRegistry,
	}
}

// ID returns the unique identifier of this loader instance,
// used to tell loaders apart in log output.
func (l *Loader[V]) ID() string {
	return l.id
}

// Load returns the value for key, fetching it from the source on a miss
// and memoizing the result.
func (l *Loader[V]) Load(ctx context.Context, key string) (V, error) {
	if v, ok := l.cache.Get(key); ok {
		return v, nil
	}

	l.metrics.Inc(metrics.LoaderLoadsTotal)

	v, err, shared := l.sf.Do(key, func() (any, error) {
		value, err := l.load(ctx, key)
		if err != nil {
			return nil, err
		}

		if l.ttl > 0 {
			l.cache.PutWithTTL(key, value, l.ttl)
		} else {
			l.cache.Put(key, value)
		}
		return value, nil
	})

	if shared {
		l.metrics.Inc(metrics.LoaderSharedTotal)
	}

	if err != nil {
		l.metrics.Inc(metrics.LoaderErrorsTotal)
		l.logger.Warn(fmt.Sprintf("loader %s: load failed for key %q: %v", l.id, key, err))
		var zero V
		return zero, err
	}

	return v.(V), nil
}

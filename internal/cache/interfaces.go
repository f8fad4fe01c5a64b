package cache

// Cache is the minimal caching capability: point lookup plus capacity
// accessors. ExpiringCache satisfies it so callers that only need a cache,
// not a full map surface, can depend on this interface alone.
type Cache[K comparable, V comparable] interface {
	Lookup(key K) (V, bool)
	MaxCacheSize() int
	SetMaxCacheSize(maxSize int)
}

// Map is the conventional map-like surface, so an ExpiringCache can be used
// wherever a plain key–value store is expected. The bulk accessors report
// raw presence and are not filtered by expiry.
type Map[K comparable, V comparable] interface {
	Get(key K) (V, bool)
	Put(key K, value V) (V, bool)
	PutAll(m map[K]V)
	Remove(key K) (V, bool)
	Len() int
	IsEmpty() bool
	ContainsKey(key K) bool
	ContainsValue(value V) bool
	Clear()
	Keys() []K
	Values() []V
	Entries() []*Entry[K, V]
}

var (
	_ Cache[string, string] = (*ExpiringCache[string, string])(nil)
	_ Map[string, string]   = (*ExpiringCache[string, string])(nil)
)

package lru

import "container/list"

// Store is a fixed-capacity key–value store with least-recently-used eviction.
//
// Design principles:
// - map[K]*list.Element gives O(1) lookup, container/list keeps recency order
// - Front of the list is the most recently used entry, Back the least
// - Capacity is mutable at runtime; shrinking evicts immediately
//
// Note:
// Store is NOT safe for concurrent use on its own. It is designed to be owned
// by a single caller (or wrapped by one) that provides mutual exclusion.
type Store[K comparable, V any] struct {
	maxSize int
	items   map[K]*list.Element
	order   *list.List
	onEvict func(K, V)
}

// node is the value held by each list element. The key lives here too because
// capacity eviction starts from list nodes, not from the map.
type node[K comparable, V any] struct {
	key   K
	value V
}

// KV is one key–value pairing of an Entries snapshot.
type KV[K comparable, V any] struct {
	Key   K
	Value V
}

// New creates a store holding at most maxSize entries.
// maxSize <= 0 means unbounded.
func New[K comparable, V any](maxSize int) *Store[K, V] {
	return &Store[K, V]{
		maxSize: maxSize,
		items:   make(map[K]*list.Element),
		order:   list.New(),
	}
}

// OnEvict registers a callback invoked for every entry removed by capacity
// pressure (insert overflow or SetMaxSize shrink). It is not called for
// overwrites, Remove, or Clear.
func (s *Store[K, V]) OnEvict(fn func(K, V)) {
	s.onEvict = fn
}

// Get returns the value stored under key and marks it most recently used.
func (s *Store[K, V]) Get(key K) (V, bool) {
	el, ok := s.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	s.order.MoveToFront(el)
	return el.Value.(*node[K, V]).value, true
}

// Put inserts or replaces the value under key and marks it most recently
// used. It returns the displaced value if the key was already present.
// Inserting over capacity silently evicts the least recently used entry.
func (s *Store[K, V]) Put(key K, value V) (V, bool) {
	if el, ok := s.items[key]; ok {
		n := el.Value.(*node[K, V])
		old := n.value
		n.value = value
		s.order.MoveToFront(el)
		return old, true
	}

	el := s.order.PushFront(&node[K, V]{key: key, value: value})
	s.items[key] = el
	s.evictOverflow()

	var zero V
	return zero, false
}

// Remove deletes the entry under key and returns its value if one existed.
func (s *Store[K, V]) Remove(key K) (V, bool) {
	el, ok := s.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	n := el.Value.(*node[K, V])
	delete(s.items, key)
	s.order.Remove(el)
	return n.value, true
}

// Clear removes every entry without invoking eviction callbacks.
func (s *Store[K, V]) Clear() {
	s.items = make(map[K]*list.Element)
	s.order.Init()
}

// Len returns the number of stored entries.
func (s *Store[K, V]) Len() int {
	return len(s.items)
}

// IsEmpty reports whether the store holds no entries.
func (s *Store[K, V]) IsEmpty() bool {
	return len(s.items) == 0
}

// ContainsKey reports raw key presence without touching recency order.
func (s *Store[K, V]) ContainsKey(key K) bool {
	_, ok := s.items[key]
	return ok
}

// ContainsValueFunc reports whether any stored value satisfies match.
func (s *Store[K, V]) ContainsValueFunc(match func(V) bool) bool {
	for el := s.order.Front(); el != nil; el = el.Next() {
		if match(el.Value.(*node[K, V]).value) {
			return true
		}
	}
	return false
}

// Keys returns the keys in MRU -> LRU order at call time.
func (s *Store[K, V]) Keys() []K {
	out := make([]K, 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*node[K, V]).key)
	}
	return out
}

// Values returns the values in MRU -> LRU order at call time.
func (s *Store[K, V]) Values() []V {
	out := make([]V, 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*node[K, V]).value)
	}
	return out
}

// Entries returns a snapshot of all pairings in MRU -> LRU order.
func (s *Store[K, V]) Entries() []KV[K, V] {
	out := make([]KV[K, V], 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		n := el.Value.(*node[K, V])
		out = append(out, KV[K, V]{Key: n.key, Value: n.value})
	}
	return out
}

// MaxSize returns the current capacity limit.
func (s *Store[K, V]) MaxSize() int {
	return s.maxSize
}

// SetMaxSize changes the capacity limit. Shrinking below the current length
// evicts least recently used entries until the store fits.
func (s *Store[K, V]) SetMaxSize(maxSize int) {
	s.maxSize = maxSize
	s.evictOverflow()
}

func (s *Store[K, V]) evictOverflow() {
	if s.maxSize <= 0 {
		return
	}
	for len(s.items) > s.maxSize {
		el := s.order.Back()
		if el == nil {
			return
		}
		n := el.Value.(*node[K, V])
		delete(s.items, n.key)
		s.order.Remove(el)
		if s.onEvict != nil {
			s.onEvict(n.key, n.value)
		}
	}
}

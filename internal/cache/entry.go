package cache

// Entry is a detached key–value pairing produced by Entries.
//
// It is a snapshot, not a view: SetValue mutates only this local pairing and
// never writes back into the cache. Callers who want to update storage must
// go through Put.
type Entry[K comparable, V comparable] struct {
	key   K
	value V
}

// Key returns the key of this pairing.
func (e *Entry[K, V]) Key() K {
	return e.key
}

// Value returns the value of this pairing.
func (e *Entry[K, V]) Value() V {
	return e.value
}

// SetValue replaces the value of this local pairing and returns the previous
// one. The underlying cache is not touched.
func (e *Entry[K, V]) SetValue(value V) V {
	old := e.value
	e.value = value
	return old
}

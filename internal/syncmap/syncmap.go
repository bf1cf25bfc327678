// Package syncmap provides a generic, type-safe wrapper around sync.Map.
package syncmap

import "sync"

// Map wraps a sync.Map with type parameters so callers get compile-time
// key/value types instead of interface assertions at every call site.
// The zero value is empty and ready to use. Like sync.Map, it is
// optimized for keys that are written once and read many times.
type Map[K comparable, V any] struct {
	m sync.Map
}

// Load returns the value stored for key, or the zero value and false
// when the key is absent.
func (m *Map[K, V]) Load(key K) (V, bool) {
	v, ok := m.m.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// Store sets the value for key.
func (m *Map[K, V]) Store(key K, value V) {
	m.m.Store(key, value)
}

// LoadOrStore returns the existing value for key if present; otherwise it
// stores value and returns it. loaded reports whether the value was
// already present.
func (m *Map[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	v, loaded := m.m.LoadOrStore(key, value)
	return v.(V), loaded
}

// LoadAndDelete atomically removes the value for key, returning it if the
// key was present.
func (m *Map[K, V]) LoadAndDelete(key K) (V, bool) {
	v, ok := m.m.LoadAndDelete(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// Delete removes the value for key.
func (m *Map[K, V]) Delete(key K) {
	m.m.Delete(key)
}

// Range calls visit for each key/value pair until visit returns false.
// The view is weakly consistent: entries stored or deleted concurrently
// with the walk may or may not be visited.
func (m *Map[K, V]) Range(visit func(key K, value V) bool) {
	m.m.Range(func(k, v any) bool {
		return visit(k.(K), v.(V))
	})
}

// Len counts the entries with a full walk; O(n). Callers that need a
// cheap size should track it alongside the map.
func (m *Map[K, V]) Len() int {
	n := 0
	m.m.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}

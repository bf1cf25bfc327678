// Package identity memoizes a single derived value per owner object,
// keyed by pointer identity. It is the degenerate cache: no list, no
// capacity, just the most recent (owner, value) pairing. Presenting a
// different owner displaces the previous value; Invalidate drops it
// explicitly.
package identity

import "sync"

// CreateFunc derives the memoized value from an owner.
type CreateFunc[T any, V any] func(owner *T) (V, error)

// Memoizer caches the value derived from the most recently seen owner.
// Safe for concurrent use. The memoizer keeps the owner pointer alive
// until displacement or Invalidate, so owners with releasable state
// should be invalidated explicitly when retired.
type Memoizer[T any, V any] struct {
	create CreateFunc[T, V]

	// mu guards the pairing and is held while create runs, so a value
	// is derived at most once per (owner, generation).
	mu    sync.Mutex
	owner *T
	value V
	valid bool
}

// New constructs an empty memoizer.
// Panics when create is nil.
func New[T any, V any](create CreateFunc[T, V]) *Memoizer[T, V] {
	if create == nil {
		panic("create must not be nil")
	}
	return &Memoizer[T, V]{create: create}
}

// Get returns the memoized value for owner, deriving it when owner
// differs from the previously seen one (by pointer identity). A create
// failure is returned without being stored, so the next Get retries.
func (m *Memoizer[T, V]) Get(owner *T) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.owner == owner {
		return m.value, nil
	}
	v, err := m.create(owner)
	if err != nil {
		var zero V
		return zero, err
	}
	m.owner, m.value, m.valid = owner, v, true
	return v, nil
}

// Invalidate drops the memoized pairing. The next Get derives afresh,
// even for the same owner.
func (m *Memoizer[T, V]) Invalidate() {
	m.mu.Lock()
	var zero V
	m.owner, m.value, m.valid = nil, zero, false
	m.mu.Unlock()
}

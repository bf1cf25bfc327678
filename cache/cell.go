package cache

import (
	"sync"
	"sync/atomic"
)

// valueCell is a materialize-once slot for an entry's value. The first
// caller whose fill succeeds publishes the value; from then on the
// stored value is immutable for the lifetime of the owning entry.
//
// Concurrency notes:
//   - mu may be held for a long time (fill can perform I/O). It must
//     never be acquired while a structural lock is held.
//   - The value write happens-before materialized.Store(true), so any
//     reader that observes materialized == true also observes the final
//     value. snapshot relies on this and never blocks.
//   - A failed fill publishes nothing; the next materialize call runs
//     fill again. Failures are never stored.
type valueCell[V any] struct {
	mu           sync.Mutex
	value        V
	materialized atomic.Bool
}

// materialize returns the stored value, running fill first if the cell is
// still empty. Racing callers serialize on mu and at most one fill can
// succeed; the rest observe the published value. The lock is released on
// every exit path, including a fill panic.
func (c *valueCell[V]) materialize(fill func() (V, error)) (V, error) {
	if c.materialized.Load() {
		return c.value, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.materialized.Load() {
		return c.value, nil
	}
	v, err := fill()
	if err != nil {
		var zero V
		return zero, err
	}
	c.value = v
	c.materialized.Store(true)
	return v, nil
}

// materializeNoLock is materialize without mu, for the unsynchronized
// cache where a single caller owns every entry.
func (c *valueCell[V]) materializeNoLock(fill func() (V, error)) (V, error) {
	if c.materialized.Load() {
		return c.value, nil
	}
	v, err := fill()
	if err != nil {
		var zero V
		return zero, err
	}
	c.value = v
	c.materialized.Store(true)
	return v, nil
}

// snapshot returns the published value without blocking. ok is false
// while the cell is empty, including while a fill is in flight.
func (c *valueCell[V]) snapshot() (V, bool) {
	if !c.materialized.Load() {
		var zero V
		return zero, false
	}
	return c.value, true
}

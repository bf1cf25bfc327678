// Package future provides a single-resolution, multi-waiter result cell:
// one goroutine resolves a Promise, any number of goroutines await the
// matching Future before or after resolution.
package future

import (
	"context"
	"sync/atomic"
)

// Future is the read side of a Promise: a (value, error) pair that
// becomes available exactly once. Waiters block in Await or select on
// Done. A Future is safe for concurrent use and may be awaited any
// number of times; every waiter observes the same result.
type Future[V any] struct {
	done chan struct{} // closed when val/err are published
	val  V
	err  error
}

// Promise is the write side. The first Complete publishes the result
// and wakes every current and future waiter; later calls are ignored.
type Promise[V any] struct {
	f        *Future[V]
	resolved atomic.Bool
}

// NewPromise returns an unresolved promise.
func NewPromise[V any]() *Promise[V] {
	return &Promise[V]{
		f: &Future[V]{done: make(chan struct{})},
	}
}

// Future returns the read side. Every call returns the same Future, so
// it can be handed out before the result exists.
func (p *Promise[V]) Future() *Future[V] { return p.f }

// Complete resolves the promise with (val, err) and reports whether this
// call won. Publishing happens before the done channel is closed, so a
// waiter that observes Done also observes the final values.
func (p *Promise[V]) Complete(val V, err error) bool {
	if !p.resolved.CompareAndSwap(false, true) {
		return false
	}
	p.f.val = val
	p.f.err = err
	close(p.f.done)
	return true
}

// Await blocks until the future resolves or ctx is cancelled. A ctx
// error abandons only this wait; the future is unaffected and other
// waiters still receive the result.
func (f *Future[V]) Await(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Done returns a channel that is closed once the future has resolved.
// After Done is closed, Await returns immediately.
func (f *Future[V]) Done() <-chan struct{} { return f.done }

// Package async adapts the cache to values produced in the background:
// cached entries are futures, so a lookup never blocks on another key's
// production and concurrent lookups of one key share a single
// computation.
package async

import (
	"context"

	"github.com/IvanBrykalov/memolru/cache"
	"github.com/IvanBrykalov/memolru/future"
)

// ProduceFunc computes the value for key. It runs in a background
// goroutine with a context detached from any single caller.
type ProduceFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Options configures an asynchronous cache.
type Options[K comparable, V any] struct {
	// MaxCount is the resident entry limit. Must be > 0.
	MaxCount int

	// Produce computes values in the background. Required.
	Produce ProduceFunc[K, V]

	// Metrics is forwarded to the underlying cache. Nil => no metrics.
	Metrics cache.Metrics
}

// Cache memoizes in-flight and completed computations. The first Get
// for a key starts Produce in a goroutine and caches the shared future,
// inside the underlying cache's creation scope, so every racing and
// later caller observes the same future. A failed computation is
// forgotten once it resolves: current waiters receive the error and the
// next Get starts production over.
type Cache[K comparable, V any] struct {
	inner   cache.Cache[K, *future.Future[V]]
	produce ProduceFunc[K, V]
}

// New constructs an asynchronous cache.
// Panics when MaxCount <= 0 or Produce is nil.
func New[K comparable, V any](opt Options[K, V]) *Cache[K, V] {
	if opt.Produce == nil {
		panic("Produce must not be nil")
	}
	c := &Cache[K, V]{produce: opt.Produce}
	c.inner = cache.New[K, *future.Future[V]](cache.Options[K, *future.Future[V]]{
		MaxCount: opt.MaxCount,
		Create:   c.start,
		Metrics:  opt.Metrics,
	})
	return c
}

// Get returns the value for key, waiting for its computation to finish.
// Cancelling ctx abandons only this wait; the computation keeps running
// and its result stays cached for other callers.
func (c *Cache[K, V]) Get(ctx context.Context, key K) (V, error) {
	f, err := c.inner.Get(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}
	return f.Await(ctx)
}

// GetFuture returns the shared future for key, starting production if
// needed, without waiting for it to resolve.
func (c *Cache[K, V]) GetFuture(ctx context.Context, key K) (*future.Future[V], error) {
	return c.inner.Get(ctx, key)
}

// Remove forgets key and returns its future, if any. An in-flight
// computation is not stopped; it resolves for whoever still holds the
// future.
func (c *Cache[K, V]) Remove(key K) (*future.Future[V], bool) {
	return c.inner.Remove(key)
}

// Clear forgets every entry. In-flight computations keep running and
// resolve their futures.
func (c *Cache[K, V]) Clear() {
	c.inner.Clear()
}

// Len returns the number of resident entries, including unresolved ones.
func (c *Cache[K, V]) Len() int { return c.inner.Len() }

// Stats returns the underlying cache's counters.
func (c *Cache[K, V]) Stats() cache.Stats { return c.inner.Stats() }

// start launches the background computation for key and returns its
// future immediately. It runs inside the underlying cache's creation
// scope, which is what makes the future shared: the scope admits one
// producer per entry. The computation gets a detached context, since
// the caller that happened to start it has no special claim on it.
func (c *Cache[K, V]) start(_ context.Context, key K) (*future.Future[V], error) {
	p := future.NewPromise[V]()
	go func() {
		v, err := c.produce(context.Background(), key)
		p.Complete(v, err)
		if err != nil {
			// Forget the failed entry so the next Get retries.
			// Waiters already hold the future and see the error.
			c.inner.Remove(key)
		}
	}()
	return p.Future(), nil
}

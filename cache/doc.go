// Package cache provides a generic, capacity-bounded, least-recently-used
// cache whose values are produced on demand, with at-most-once production
// per key even under concurrent access.
//
// Design
//
//   - Storage: a key index (map) for lookups plus an intrusive doubly
//     linked list ordering entries from least to most recently used.
//     Both reference the same entry objects. All operations are O(1)
//     expected.
//
//   - Concurrency: the concurrent cache (New) guards list topology with
//     one short structural mutex, uses a concurrent map as the index,
//     and gives every entry its own production lock. Producing a value
//     for key A never blocks lookups of key B; only callers of the same
//     key serialize. The single-caller cache (NewUnlocked) runs the
//     identical algorithm with no synchronization at all.
//
//   - Production: values come from Options.Create, invoked at most once
//     per resident entry. Concurrent Gets for a new key race to produce;
//     one runs Create, the rest wait and share the result. A Create
//     failure is returned to the caller, nothing is cached, and the next
//     Get for that key tries again.
//
//   - Eviction: strict recency order. When the resident count exceeds
//     MaxCount, least recently used entries are removed until the bound
//     holds. MaxCount can be changed at runtime. The two constructors
//     enforce the bound at slightly different points; see NewUnlocked.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; plug a Prometheus adapter to
//     export metrics.
//
//   - Callbacks: Options.OnEvict(key, value) is called for capacity
//     evictions of produced values, outside all cache locks.
//
// Basic usage
//
//	c := cache.New[string, []byte](cache.Options[string, []byte]{
//	    MaxCount: 10_000,
//	    Create: func(ctx context.Context, key string) ([]byte, error) {
//	        return fetch(ctx, key) // e.g. read from disk or a backend
//	    },
//	})
//	v, err := c.Get(ctx, "a") // first access runs Create
//	v, err = c.Get(ctx, "a")  // hit: returns the cached value
//
// Explicit removal
//
//	if v, ok := c.Remove("a"); ok {
//	    _ = v // the removed value, if it had been produced
//	}
//	if k, v, ok := c.RemoveLRU(); ok {
//	    _, _ = k, v // the coldest entry
//	}
//	for _, kv := range c.Clear() {
//	    release(kv.Value) // dispose everything that was resident
//	}
//
// Exporting metrics (Prometheus adapter)
//
//	m := prom.New(nil, "memolru", "demo", nil) // implements cache.Metrics
//	c := cache.New[string, []byte](cache.Options[string, []byte]{
//	    MaxCount: 10_000,
//	    Create:   loadBytes,
//	    Metrics:  m,
//	})
//
// Thread-safety & complexity
//
// All methods of a cache returned by New are safe for concurrent use. A
// cache returned by NewUnlocked must be confined to one goroutine.
// Typical operation cost is O(1) expected time: one map access and a
// constant amount of pointer fixes; the structural mutex is never held
// while user code runs.
package cache

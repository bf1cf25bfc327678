package cache

import "context"

// CreateFunc produces the value for a key. The cache invokes it at most
// once per resident entry: concurrent lookups for the same key wait for
// a single call to finish and share its result. An error is returned to
// the caller whose lookup ran the function, nothing is stored, and a
// later lookup for the same key runs the function again.
type CreateFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// EvictReason explains why an entry left the cache.
type EvictReason int

const (
	// EvictCapacity: removed to keep the resident count within MaxCount.
	EvictCapacity EvictReason = iota
	// EvictManual: removed by Remove, RemoveLRU, or Clear.
	EvictManual
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
// The cache calls these outside of its structural mutex.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// Options configures a cache instance. MaxCount and Create are required;
// New and NewUnlocked panic when either is missing.
type Options[K comparable, V any] struct {
	// MaxCount is the resident entry limit. Must be > 0.
	// It can be changed later via SetMaxCount.
	MaxCount int

	// Create produces values on miss. Required.
	Create CreateFunc[K, V]

	// Metrics receives Hit/Miss/Evict/Size signals. Nil => NoopMetrics.
	Metrics Metrics

	// OnEvict is called after a capacity eviction of an entry whose
	// value had been produced, outside all cache locks. Entries removed
	// explicitly return their value to the caller instead.
	OnEvict func(key K, value V)

	// SelfCheck enables an O(n) recency list consistency walk after
	// structural changes, reported through the package logger.
	// Intended for tests and debugging; leave off in production.
	SelfCheck bool
}

package cache

import "context"

// KV is one key/value pairing evicted by Clear.
type KV[K comparable, V any] struct {
	Key   K
	Value V
}

// Cache is a capacity-bounded, least-recently-used cache whose values
// are produced on demand by a CreateFunc. New returns an implementation
// safe for concurrent use; NewUnlocked returns one for a single caller.
//
// Typical complexity is amortized O(1) per operation: a map access plus
// constant-time list adjustments under a short structural lock. Value
// production runs outside that lock and only serializes callers of the
// same key.
type Cache[K comparable, V any] interface {
	// Get returns the value for key, producing it on first access.
	// A hit promotes the entry to most recently used. The only error
	// Get can return is the create function's own failure (and the
	// create function is free to surface ctx errors); a failed
	// production leaves the key retryable.
	//
	// ctx is passed to the create function. Waiting for another
	// caller's in-flight production of the same key is not
	// interruptible.
	Get(ctx context.Context, key K) (V, error)

	// Remove deletes key if present. It returns the entry's value; the
	// value is the zero value when production had not completed (still
	// in flight, or failed). ok reports whether an entry was removed.
	// Removing an absent key has no effect.
	Remove(key K) (V, bool)

	// RemoveLRU deletes the least recently used entry and returns its
	// key and value, or ok == false when the cache is empty. As with
	// Remove, the value is the zero value for an entry that never
	// finished production.
	RemoveLRU() (K, V, bool)

	// Clear removes every entry and returns the key/value pairings
	// whose values had been produced, so callers can release resources
	// they hold. Entries still in production are dropped silently.
	Clear() []KV[K, V]

	// Len returns the number of resident entries.
	Len() int

	// MaxCount returns the current resident entry limit.
	MaxCount() int

	// SetMaxCount replaces the resident entry limit. Shrinking does not
	// evict immediately; subsequent Get calls converge the cache onto
	// the new bound. Panics if n <= 0.
	SetMaxCount(n int)

	// Stats returns a snapshot of the access counters.
	Stats() Stats

	// ResetStats zeroes the access counters.
	ResetStats()
}

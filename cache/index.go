package cache

import (
	"github.com/IvanBrykalov/memolru/internal/syncmap"
	"github.com/IvanBrykalov/memolru/internal/util"
)

// keyIndex maps keys to live entries for the concurrent cache. The map
// carries its own internal synchronization, independent of the
// structural mutex; count tracks cardinality so size is O(1).
type keyIndex[K comparable, V any] struct {
	m     syncmap.Map[K, *entry[K, V]]
	count util.PaddedAtomicInt64
}

// getOrInsert returns the resident entry for key, or inserts and returns
// a fresh stateNew entry. loaded reports whether the entry already
// existed.
func (ix *keyIndex[K, V]) getOrInsert(key K) (e *entry[K, V], loaded bool) {
	if e, ok := ix.m.Load(key); ok {
		return e, true
	}
	e, loaded = ix.m.LoadOrStore(key, newEntry[K, V](key))
	if !loaded {
		ix.count.Add(1)
	}
	return e, loaded
}

// remove atomically pops the entry for key, if any.
func (ix *keyIndex[K, V]) remove(key K) (*entry[K, V], bool) {
	e, ok := ix.m.LoadAndDelete(key)
	if ok {
		ix.count.Add(-1)
	}
	return e, ok
}

// size returns the number of indexed entries.
func (ix *keyIndex[K, V]) size() int { return int(ix.count.Load()) }

// drain pops every indexed entry and passes it to fn. Entries stored
// concurrently with the walk may survive; they belong to lookups that
// ordered themselves after the drain.
func (ix *keyIndex[K, V]) drain(fn func(*entry[K, V])) {
	ix.m.Range(func(key K, _ *entry[K, V]) bool {
		if e, ok := ix.m.LoadAndDelete(key); ok {
			ix.count.Add(-1)
			fn(e)
		}
		return true
	})
}

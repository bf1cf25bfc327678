package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/IvanBrykalov/memolru/internal/util"
)

// cache is the concurrent implementation: a single recency list under a
// structural mutex, a concurrent key index, and per-entry creation
// arbitration. All methods are safe for concurrent use by multiple
// goroutines.
//
// Lock discipline:
//   - mu guards only list topology and the two counters. Critical
//     sections are O(1) pointer fixups; user code (Create, OnEvict,
//     Metrics) never runs under it.
//   - An entry's value cell has its own lock, held while Create runs.
//     The two locks never nest: mu is always released before a cell is
//     touched.
//   - The key index synchronizes itself.
type cache[K comparable, V any] struct {
	opt Options[K, V]

	index keyIndex[K, V]

	// ---- guarded by mu ----
	mu   sync.Mutex
	list recencyList[K, V]

	// Counters are mutated only under mu; padded so the hot list fields
	// and the counters live on separate cache lines.
	_         util.CacheLinePad
	totalHits util.PaddedInt64
	cacheHits util.PaddedInt64

	// maxCount is read by the eviction loop on every iteration, so a
	// concurrent SetMaxCount steers in-flight eviction.
	maxCount atomic.Int64
}

// New constructs a concurrent cache with the provided Options.
// Defaults: nil Metrics => NoopMetrics.
// Panics when MaxCount <= 0 or Create is nil.
func New[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	if opt.MaxCount <= 0 {
		panic("MaxCount must be > 0")
	}
	if opt.Create == nil {
		panic("Create must not be nil")
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}

	c := &cache[K, V]{opt: opt}
	c.maxCount.Store(int64(opt.MaxCount))
	return c
}

// ---- Cache[K,V] implementation ----

// Get returns the value for key, producing it on first access.
func (c *cache[K, V]) Get(ctx context.Context, key K) (V, error) {
	e, _ := c.index.getOrInsert(key)

	// Capacity is enforced before this call's entry is linked, so the
	// newcomer itself is never the victim of its own insert.
	c.evictOverLimit()

	c.mu.Lock()
	var hit bool
	switch e.state {
	case stateNew:
		c.list.insertTail(e)
		c.totalHits.V++
	case stateLinked:
		c.list.promoteTail(e)
		c.totalHits.V++
		c.cacheHits.V++
		hit = true
	case stateDeleted:
		// A concurrent remover won the race for this entry. It is no
		// longer shared, so skipping list placement is safe; the call
		// still produces and returns a value, which simply will not be
		// resident afterwards.
		c.totalHits.V++
	}
	c.checkLocked()
	c.mu.Unlock()

	if hit {
		c.opt.Metrics.Hit()
	} else {
		c.opt.Metrics.Miss()
	}
	c.opt.Metrics.Size(c.index.size())

	return e.cell.materialize(func() (V, error) {
		return c.opt.Create(ctx, key)
	})
}

// Remove deletes key if present and returns its value (zero if the value
// was never produced).
func (c *cache[K, V]) Remove(key K) (V, bool) {
	e, ok := c.removeEntry(key)
	if !ok {
		var zero V
		return zero, false
	}
	c.opt.Metrics.Evict(EvictManual)
	c.opt.Metrics.Size(c.index.size())
	v, _ := e.cell.snapshot()
	return v, true
}

// RemoveLRU deletes and returns the least recently used entry.
func (c *cache[K, V]) RemoveLRU() (K, V, bool) {
	for {
		c.mu.Lock()
		victim := c.list.lru()
		c.mu.Unlock()
		if victim == nil {
			var zk K
			var zv V
			return zk, zv, false
		}

		key := victim.key
		e, ok := c.removeEntry(key)
		if !ok {
			// The peeked entry was removed by someone else between the
			// peek and our pop. Re-peek.
			continue
		}
		c.opt.Metrics.Evict(EvictManual)
		c.opt.Metrics.Size(c.index.size())
		v, _ := e.cell.snapshot()
		return key, v, true
	}
}

// Clear removes every entry and returns the produced key/value pairings.
//
// Entries an in-flight Get has indexed but not yet linked are popped and
// marked deleted too, so the Get observes the deletion at its link step
// and cannot resurrect them. Entries concurrently popped by Remove are
// detached here but reported by that Remove, never twice.
func (c *cache[K, V]) Clear() []KV[K, V] {
	c.mu.Lock()

	drained := make([]*entry[K, V], 0, c.list.size)
	c.index.drain(func(e *entry[K, V]) {
		drained = append(drained, e)
	})

	// Detach the whole list, including entries a racing Remove already
	// popped from the index; its unlink then finds them deleted and
	// leaves the counters alone.
	for e := c.list.head; e != nil; {
		next := e.moreRecent
		e.lessRecent, e.moreRecent = nil, nil
		e.state = stateDeleted
		e = next
	}
	c.list.head, c.list.tail, c.list.size = nil, nil, 0

	// Catch drained entries that were never linked.
	for _, e := range drained {
		e.state = stateDeleted
	}

	c.checkLocked()
	c.mu.Unlock()

	pairs := make([]KV[K, V], 0, len(drained))
	for _, e := range drained {
		if v, ok := e.cell.snapshot(); ok {
			pairs = append(pairs, KV[K, V]{Key: e.key, Value: v})
		}
		c.opt.Metrics.Evict(EvictManual)
	}
	c.opt.Metrics.Size(c.index.size())
	return pairs
}

// Len returns the number of resident entries.
func (c *cache[K, V]) Len() int { return c.index.size() }

// MaxCount returns the current resident entry limit.
func (c *cache[K, V]) MaxCount() int { return int(c.maxCount.Load()) }

// SetMaxCount replaces the resident entry limit. Shrinking does not
// evict immediately; subsequent Get calls converge onto the new bound.
func (c *cache[K, V]) SetMaxCount(n int) {
	if n <= 0 {
		panic("MaxCount must be > 0")
	}
	c.maxCount.Store(int64(n))
}

// Stats returns a snapshot of the access counters.
func (c *cache[K, V]) Stats() Stats {
	c.mu.Lock()
	s := Stats{
		TotalHits: c.totalHits.V,
		CacheHits: c.cacheHits.V,
	}
	c.mu.Unlock()
	s.Items = c.index.size()
	return s
}

// ResetStats zeroes the access counters.
func (c *cache[K, V]) ResetStats() {
	c.mu.Lock()
	c.totalHits.V = 0
	c.cacheHits.V = 0
	c.mu.Unlock()
}

// ---- internals ----

// evictOverLimit removes least recently used entries until the resident
// count is within the bound. Each removal takes the structural mutex on
// its own, and the bound is re-read every iteration. The loop ends early
// when the list has nothing left to evict (for example, the count is
// held up by entries other lookups have indexed but not linked yet).
func (c *cache[K, V]) evictOverLimit() {
	for int64(c.index.size()) > c.maxCount.Load() {
		c.mu.Lock()
		victim := c.list.lru()
		c.mu.Unlock()
		if victim == nil {
			return
		}

		e, ok := c.removeEntry(victim.key)
		if !ok {
			// Raced with another remover; re-check the bound.
			continue
		}
		c.opt.Metrics.Evict(EvictCapacity)
		c.notifyEvict(e)
	}
}

// removeEntry pops key from the index and unlinks its entry. The two
// steps take their locks in sequence, never together.
func (c *cache[K, V]) removeEntry(key K) (*entry[K, V], bool) {
	e, ok := c.index.remove(key)
	if !ok {
		return nil, false
	}
	c.mu.Lock()
	c.list.unlink(e)
	c.checkLocked()
	c.mu.Unlock()
	return e, true
}

// notifyEvict runs the OnEvict callback for a capacity eviction, outside
// all locks. Entries whose value never finished production are skipped;
// there is nothing for the callback to release.
func (c *cache[K, V]) notifyEvict(e *entry[K, V]) {
	if c.opt.OnEvict == nil {
		return
	}
	if v, ok := e.cell.snapshot(); ok {
		c.opt.OnEvict(e.key, v)
	}
}

// checkLocked walks the list when SelfCheck is enabled. Violations mean
// a bug in the cache itself and are logged, never returned to callers.
func (c *cache[K, V]) checkLocked() {
	if !c.opt.SelfCheck {
		return
	}
	// Index cardinality is deliberately not compared here: lookups in
	// flight hold indexed entries that are not linked yet.
	if err := c.list.verify(-1); err != nil {
		log.Errorf("consistency check failed: %v", err)
	}
}

// Compile-time check: the concurrent implementation satisfies Cache.
var _ Cache[string, int] = (*cache[string, int])(nil)

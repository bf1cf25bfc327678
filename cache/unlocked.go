package cache

import "context"

// unlockedCache runs the same algorithm as the concurrent cache with all
// synchronization stripped: a plain map index, direct list surgery, and
// unguarded counters. Exactly one goroutine may use it at a time;
// behavior under concurrent access is undefined.
//
// Its capacity convention also differs deliberately: eviction runs
// before a new key is inserted and frees room for it ("< MaxCount"
// before insert), so the resident count never exceeds the bound, even
// transiently. The concurrent cache instead trims after the insert
// ("<= MaxCount" after), tolerating a momentary overshoot.
type unlockedCache[K comparable, V any] struct {
	opt      Options[K, V]
	index    map[K]*entry[K, V]
	list     recencyList[K, V]
	maxCount int

	totalHits int64
	cacheHits int64
}

// NewUnlocked constructs a single-caller cache with the provided
// Options. Defaults and validation match New.
func NewUnlocked[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	if opt.MaxCount <= 0 {
		panic("MaxCount must be > 0")
	}
	if opt.Create == nil {
		panic("Create must not be nil")
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}

	return &unlockedCache[K, V]{
		opt:      opt,
		index:    make(map[K]*entry[K, V]),
		maxCount: opt.MaxCount,
	}
}

// ---- Cache[K,V] implementation ----

// Get returns the value for key, producing it on first access.
func (u *unlockedCache[K, V]) Get(ctx context.Context, key K) (V, error) {
	if e, ok := u.index[key]; ok {
		u.list.promoteTail(e)
		u.totalHits++
		u.cacheHits++
		u.check()
		u.opt.Metrics.Hit()
		return e.cell.materializeNoLock(func() (V, error) {
			return u.opt.Create(ctx, key)
		})
	}

	u.evictToFit()

	e := newEntry[K, V](key)
	u.index[key] = e
	u.list.insertTail(e)
	u.totalHits++
	u.check()
	u.opt.Metrics.Miss()
	u.opt.Metrics.Size(len(u.index))

	return e.cell.materializeNoLock(func() (V, error) {
		return u.opt.Create(ctx, key)
	})
}

// Remove deletes key if present and returns its value (zero if the value
// was never produced).
func (u *unlockedCache[K, V]) Remove(key K) (V, bool) {
	e, ok := u.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	u.removeEntry(e)
	u.opt.Metrics.Evict(EvictManual)
	u.opt.Metrics.Size(len(u.index))
	v, _ := e.cell.snapshot()
	return v, true
}

// RemoveLRU deletes and returns the least recently used entry.
func (u *unlockedCache[K, V]) RemoveLRU() (K, V, bool) {
	victim := u.list.lru()
	if victim == nil {
		var zk K
		var zv V
		return zk, zv, false
	}
	u.removeEntry(victim)
	u.opt.Metrics.Evict(EvictManual)
	u.opt.Metrics.Size(len(u.index))
	v, _ := victim.cell.snapshot()
	return victim.key, v, true
}

// Clear removes every entry and returns the produced key/value pairings.
func (u *unlockedCache[K, V]) Clear() []KV[K, V] {
	pairs := make([]KV[K, V], 0, len(u.index))
	for e := u.list.head; e != nil; {
		next := e.moreRecent
		e.lessRecent, e.moreRecent = nil, nil
		e.state = stateDeleted
		if v, ok := e.cell.snapshot(); ok {
			pairs = append(pairs, KV[K, V]{Key: e.key, Value: v})
		}
		u.opt.Metrics.Evict(EvictManual)
		e = next
	}
	u.list.head, u.list.tail, u.list.size = nil, nil, 0
	u.index = make(map[K]*entry[K, V])
	u.opt.Metrics.Size(0)
	return pairs
}

// Len returns the number of resident entries.
func (u *unlockedCache[K, V]) Len() int { return len(u.index) }

// MaxCount returns the current resident entry limit.
func (u *unlockedCache[K, V]) MaxCount() int { return u.maxCount }

// SetMaxCount replaces the resident entry limit. Shrinking does not
// evict immediately; the next miss converges onto the new bound.
func (u *unlockedCache[K, V]) SetMaxCount(n int) {
	if n <= 0 {
		panic("MaxCount must be > 0")
	}
	u.maxCount = n
}

// Stats returns a snapshot of the access counters.
func (u *unlockedCache[K, V]) Stats() Stats {
	return Stats{
		TotalHits: u.totalHits,
		CacheHits: u.cacheHits,
		Items:     len(u.index),
	}
}

// ResetStats zeroes the access counters.
func (u *unlockedCache[K, V]) ResetStats() {
	u.totalHits = 0
	u.cacheHits = 0
}

// ---- internals ----

// evictToFit removes least recently used entries until there is room for
// one more, so an insert right after never exceeds the bound.
func (u *unlockedCache[K, V]) evictToFit() {
	for len(u.index) >= u.maxCount {
		victim := u.list.lru()
		if victim == nil {
			return
		}
		u.removeEntry(victim)
		u.opt.Metrics.Evict(EvictCapacity)
		if u.opt.OnEvict != nil {
			if v, ok := victim.cell.snapshot(); ok {
				u.opt.OnEvict(victim.key, v)
			}
		}
	}
}

func (u *unlockedCache[K, V]) removeEntry(e *entry[K, V]) {
	delete(u.index, e.key)
	u.list.unlink(e)
	u.check()
}

// check walks the list when SelfCheck is enabled. With a single caller
// the index comparison is exact.
func (u *unlockedCache[K, V]) check() {
	if !u.opt.SelfCheck {
		return
	}
	if err := u.list.verify(len(u.index)); err != nil {
		log.Errorf("consistency check failed: %v", err)
	}
}

// Compile-time check: the single-caller implementation satisfies Cache.
var _ Cache[string, int] = (*unlockedCache[string, int])(nil)

// Package repository partitions caching by owner: each owner value gets
// its own independent cache, created on first use and dropped by an
// explicit Release. Nothing disappears implicitly; an owner's partition
// lives until released.
package repository

import (
	"sync"

	"github.com/IvanBrykalov/memolru/cache"
)

// BuildFunc returns the cache options for a new owner's partition.
// It runs under the partition table's lock and must not call back into
// the Partition.
type BuildFunc[O comparable, K comparable, V any] func(owner O) cache.Options[K, V]

// Partition owns one cache per owner. Safe for concurrent use; the
// per-owner caches are the concurrent kind.
type Partition[O comparable, K comparable, V any] struct {
	mu     sync.Mutex
	caches map[O]cache.Cache[K, V]
	build  BuildFunc[O, K, V]
}

// New constructs an empty partition table.
// Panics when build is nil.
func New[O comparable, K comparable, V any](build BuildFunc[O, K, V]) *Partition[O, K, V] {
	if build == nil {
		panic("build must not be nil")
	}
	return &Partition[O, K, V]{
		caches: make(map[O]cache.Cache[K, V]),
		build:  build,
	}
}

// ForOwner returns the owner's cache, creating it on first use. Every
// call with the same owner returns the same cache until Release.
func (p *Partition[O, K, V]) ForOwner(owner O) cache.Cache[K, V] {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.caches[owner]
	if !ok {
		c = cache.New[K, V](p.build(owner))
		p.caches[owner] = c
	}
	return c
}

// Release drops the owner's cache and returns its cleared entries, so
// the caller can release resources held by the values. Releasing an
// unknown owner returns nil. A caller that kept the cache from an
// earlier ForOwner can still use it; it is simply no longer this
// partition's.
func (p *Partition[O, K, V]) Release(owner O) []cache.KV[K, V] {
	p.mu.Lock()
	c, ok := p.caches[owner]
	delete(p.caches, owner)
	p.mu.Unlock()

	if !ok {
		return nil
	}
	return c.Clear()
}

// Len returns the number of live owners.
func (p *Partition[O, K, V]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.caches)
}

// Clear releases every owner, discarding the cleared entries. Use
// Release per owner when the entries matter.
func (p *Partition[O, K, V]) Clear() {
	p.mu.Lock()
	caches := p.caches
	p.caches = make(map[O]cache.Cache[K, V])
	p.mu.Unlock()

	for _, c := range caches {
		c.Clear()
	}
}

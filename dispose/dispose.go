// Package dispose wraps the cache so that values are closed when they
// leave it: on capacity eviction, explicit removal, Clear, and final
// teardown. Values must implement io.Closer.
package dispose

import (
	"context"
	"io"
	"reflect"

	"github.com/IvanBrykalov/memolru/cache"
)

// Options configures a disposing cache.
type Options[K comparable, V io.Closer] struct {
	// MaxCount is the resident entry limit. Must be > 0.
	MaxCount int

	// Create produces values on miss. Required.
	Create cache.CreateFunc[K, V]

	// Metrics is forwarded to the underlying cache. Nil => no metrics.
	Metrics cache.Metrics

	// OnCloseError receives Close failures. Nil drops them.
	OnCloseError func(key K, err error)
}

// Cache closes every value that leaves it. Each resident value is
// closed exactly once: capacity evictions close via the eviction
// callback, Remove/RemoveLRU/Clear close what they return, and Close
// tears down the rest.
//
// Ownership has one sharp edge inherent to handing out shared values:
// a Get that races the eviction of its own key can return a value the
// cache no longer tracks, and the cache will have closed it or will
// never close it. Callers that keep values beyond the Get call must
// coordinate with eviction themselves (for example with reference
// counting); this wrapper does not.
type Cache[K comparable, V io.Closer] struct {
	inner   cache.Cache[K, V]
	onError func(key K, err error)
}

// New constructs a disposing cache.
// Panics when MaxCount <= 0 or Create is nil.
func New[K comparable, V io.Closer](opt Options[K, V]) *Cache[K, V] {
	d := &Cache[K, V]{onError: opt.OnCloseError}
	d.inner = cache.New[K, V](cache.Options[K, V]{
		MaxCount: opt.MaxCount,
		Create:   opt.Create,
		Metrics:  opt.Metrics,
		OnEvict:  d.closeValue,
	})
	return d
}

// Get returns the value for key, producing it on first access. The
// value stays owned by the cache; do not close it.
func (d *Cache[K, V]) Get(ctx context.Context, key K) (V, error) {
	return d.inner.Get(ctx, key)
}

// Remove deletes key and closes its value. It reports whether an entry
// was removed.
func (d *Cache[K, V]) Remove(key K) bool {
	v, ok := d.inner.Remove(key)
	if !ok {
		return false
	}
	d.closeValue(key, v)
	return true
}

// RemoveLRU deletes the least recently used entry and closes its value.
func (d *Cache[K, V]) RemoveLRU() (K, bool) {
	k, v, ok := d.inner.RemoveLRU()
	if !ok {
		var zk K
		return zk, false
	}
	d.closeValue(k, v)
	return k, true
}

// Clear removes and closes every resident value.
func (d *Cache[K, V]) Clear() {
	for _, kv := range d.inner.Clear() {
		d.closeValue(kv.Key, kv.Value)
	}
}

// Len returns the number of resident entries.
func (d *Cache[K, V]) Len() int { return d.inner.Len() }

// Stats returns the underlying cache's counters.
func (d *Cache[K, V]) Stats() cache.Stats { return d.inner.Stats() }

// Close tears the cache down, closing every resident value. The Cache
// itself is an io.Closer so its lifetime can be scoped with defer.
// Close always returns nil; per-value failures go to OnCloseError.
func (d *Cache[K, V]) Close() error {
	d.Clear()
	return nil
}

var _ io.Closer = (*Cache[string, io.Closer])(nil)

// closeValue closes v unless there is nothing to close: entries whose
// production never finished yield the zero value here.
func (d *Cache[K, V]) closeValue(key K, v V) {
	if isNil(v) {
		return
	}
	if err := v.Close(); err != nil && d.onError != nil {
		d.onError(key, err)
	}
}

// isNil reports whether v boxes no closable value, which includes a
// typed nil pointer inside a non-nil interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

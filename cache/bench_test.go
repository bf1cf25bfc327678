package cache

import (
	"context"
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"
)

// benchmarkMix exercises a Get/Remove mix against a warm cache; Removes
// force the next Get of that key to run the create function again.
// It uses parallel workers (RunParallel spawns GOMAXPROCS goroutines).
// String keys include strconv/concat costs and often allocate, which is
// fine for an end-to-end benchmark.
func benchmarkMix(b *testing.B, getPct int) {
	c := New[string, string](Options[string, string]{
		MaxCount: 100_000,
		Create: func(_ context.Context, _ string) (string, error) {
			return "v", nil
		},
	})
	ctx := context.Background()

	// Preload half the capacity to get a realistic hit-rate.
	for i := 0; i < 50_000; i++ {
		c.Get(ctx, "k:"+strconv.Itoa(i))
	}

	// Report per-op allocations for a rough idea where costs go.
	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 16) - 1 // hot keyspace (power of two for fast &-mask)

	b.RunParallel(func(pb *testing.PB) {
		// Independent RNG stream for each worker.
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := "k:" + strconv.Itoa(i&keyMask)
			if r.Intn(100) < getPct {
				c.Get(ctx, k)
			} else {
				c.Remove(k)
			}
			i++
		}
	})
}

func BenchmarkCache_99g1r(b *testing.B)  { benchmarkMix(b, 99) }
func BenchmarkCache_90g10r(b *testing.B) { benchmarkMix(b, 90) }

// benchmarkMixInt is the same workload but with int keys.
// This removes strconv/alloc noise and better exposes the cache hot path.
func benchmarkMixInt(b *testing.B, getPct int) {
	c := New[int, int](Options[int, int]{
		MaxCount: 100_000,
		Create: func(_ context.Context, _ int) (int, error) {
			return 1, nil
		},
	})
	ctx := context.Background()

	for i := 0; i < 50_000; i++ {
		c.Get(ctx, i)
	}

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 16) - 1

	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := i & keyMask
			if r.Intn(100) < getPct {
				c.Get(ctx, k)
			} else {
				c.Remove(k)
			}
			i++
		}
	})
}

func BenchmarkCache_IntKeys_99g1r(b *testing.B)  { benchmarkMixInt(b, 99) }
func BenchmarkCache_IntKeys_90g10r(b *testing.B) { benchmarkMixInt(b, 90) }

// All workers hammer one key: every Get is a hit that promotes the same
// entry, so this measures contention on the structural mutex.
func BenchmarkCache_HotKey(b *testing.B) {
	c := New[string, int](Options[string, int]{
		MaxCount: 16,
		Create: func(_ context.Context, _ string) (int, error) {
			return 7, nil
		},
	})
	ctx := context.Background()
	c.Get(ctx, "hot")

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Get(ctx, "hot")
		}
	})
}

// A keyspace four times the bound keeps the eviction loop busy on nearly
// every Get.
func BenchmarkCache_EvictChurn(b *testing.B) {
	c := New[int, int](Options[int, int]{
		MaxCount: 1024,
		Create: func(_ context.Context, k int) (int, error) {
			return k, nil
		},
	})
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		for pb.Next() {
			c.Get(ctx, r.Intn(4096))
		}
	})
}

// The single-caller form on one goroutine, as a baseline for how much
// the synchronization costs.
func benchmarkUnlocked(b *testing.B, keys int) {
	c := NewUnlocked[int, int](Options[int, int]{
		MaxCount: 100_000,
		Create: func(_ context.Context, _ int) (int, error) {
			return 1, nil
		},
	})
	ctx := context.Background()
	for i := 0; i < keys; i++ {
		c.Get(ctx, i)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(ctx, i%keys)
	}
}

func BenchmarkUnlocked_Get(b *testing.B) { benchmarkUnlocked(b, 50_000) }

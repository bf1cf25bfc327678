package syncmap

import (
	"sync"
	"testing"
)

func TestMap_LoadStore(t *testing.T) {
	t.Parallel()

	var m Map[string, int]

	if _, ok := m.Load("a"); ok {
		t.Fatal("empty map must not contain a")
	}
	m.Store("a", 1)
	if v, ok := m.Load("a"); !ok || v != 1 {
		t.Fatalf("Load a want 1, got %v ok=%v", v, ok)
	}

	m.Delete("a")
	if _, ok := m.Load("a"); ok {
		t.Fatal("a must be absent after Delete")
	}
}

func TestMap_LoadOrStore(t *testing.T) {
	t.Parallel()

	var m Map[string, int]

	if v, loaded := m.LoadOrStore("a", 1); loaded || v != 1 {
		t.Fatalf("first LoadOrStore want (1,false), got (%v,%v)", v, loaded)
	}
	if v, loaded := m.LoadOrStore("a", 2); !loaded || v != 1 {
		t.Fatalf("second LoadOrStore want (1,true), got (%v,%v)", v, loaded)
	}
}

func TestMap_LoadAndDelete(t *testing.T) {
	t.Parallel()

	var m Map[int, string]

	if _, ok := m.LoadAndDelete(1); ok {
		t.Fatal("LoadAndDelete on empty map must report absence")
	}
	m.Store(1, "x")
	if v, ok := m.LoadAndDelete(1); !ok || v != "x" {
		t.Fatalf("LoadAndDelete want (x,true), got (%v,%v)", v, ok)
	}
	if _, ok := m.Load(1); ok {
		t.Fatal("key must be gone after LoadAndDelete")
	}
}

func TestMap_RangeLen(t *testing.T) {
	t.Parallel()

	var m Map[int, int]
	for i := 0; i < 10; i++ {
		m.Store(i, i*i)
	}

	if n := m.Len(); n != 10 {
		t.Fatalf("Len want 10, got %d", n)
	}

	seen := make(map[int]int)
	m.Range(func(k, v int) bool {
		seen[k] = v
		return true
	})
	if len(seen) != 10 {
		t.Fatalf("Range visited %d entries, want 10", len(seen))
	}
	for k, v := range seen {
		if v != k*k {
			t.Fatalf("Range saw %d=%d, want %d", k, v, k*k)
		}
	}

	// Early stop.
	visits := 0
	m.Range(func(int, int) bool {
		visits++
		return false
	})
	if visits != 1 {
		t.Fatalf("Range must stop after visit returns false, got %d visits", visits)
	}
}

// Concurrent LoadOrStore on the same key must agree on a single winner.
func TestMap_ConcurrentLoadOrStore(t *testing.T) {
	t.Parallel()

	var m Map[string, int]
	const goroutines = 32

	results := make([]int, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			v, _ := m.LoadOrStore("k", id)
			results[id] = v
		}(i)
	}
	wg.Wait()

	first := results[0]
	for _, v := range results {
		if v != first {
			t.Fatalf("winners disagree: %d vs %d", first, v)
		}
	}
}

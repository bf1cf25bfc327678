package identity

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type owner struct{ name string }

func TestMemoizer_SameOwnerDerivesOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	m := New[owner, string](func(o *owner) (string, error) {
		calls++
		return "derived:" + o.name, nil
	})

	o := &owner{name: "a"}
	v, err := m.Get(o)
	require.NoError(t, err)
	require.Equal(t, "derived:a", v)

	v, err = m.Get(o)
	require.NoError(t, err)
	require.Equal(t, "derived:a", v)
	require.Equal(t, 1, calls)
}

func TestMemoizer_DifferentOwnerDisplaces(t *testing.T) {
	t.Parallel()

	calls := 0
	m := New[owner, string](func(o *owner) (string, error) {
		calls++
		return o.name, nil
	})

	first := &owner{name: "first"}
	second := &owner{name: "second"}

	_, err := m.Get(first)
	require.NoError(t, err)
	_, err = m.Get(second)
	require.NoError(t, err)
	require.Equal(t, 2, calls)

	// Returning to the displaced owner derives again: only the latest
	// pairing is kept.
	_, err = m.Get(first)
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

// Two distinct owners with identical contents must not share a value:
// the key is the pointer, not the contents.
func TestMemoizer_PointerIdentityNotEquality(t *testing.T) {
	t.Parallel()

	calls := 0
	m := New[owner, int](func(*owner) (int, error) {
		calls++
		return calls, nil
	})

	a := &owner{name: "same"}
	b := &owner{name: "same"}

	va, err := m.Get(a)
	require.NoError(t, err)
	vb, err := m.Get(b)
	require.NoError(t, err)
	require.NotEqual(t, va, vb)
}

func TestMemoizer_Invalidate(t *testing.T) {
	t.Parallel()

	calls := 0
	m := New[owner, int](func(*owner) (int, error) {
		calls++
		return calls, nil
	})

	o := &owner{}
	_, err := m.Get(o)
	require.NoError(t, err)

	m.Invalidate()

	_, err = m.Get(o)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestMemoizer_ErrorNotCached(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("derive failed")
	calls := 0
	m := New[owner, int](func(*owner) (int, error) {
		calls++
		if calls == 1 {
			return 0, wantErr
		}
		return 42, nil
	})

	o := &owner{}
	_, err := m.Get(o)
	require.ErrorIs(t, err, wantErr)

	v, err := m.Get(o)
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

// Concurrent Gets of one owner must observe a single derivation.
func TestMemoizer_ConcurrentGets(t *testing.T) {
	t.Parallel()

	var calls int // guarded by the memoizer's own serialization
	m := New[owner, int](func(*owner) (int, error) {
		calls++
		return calls, nil
	})

	o := &owner{}
	const goroutines = 16
	results := make([]int, goroutines)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(slot int) {
			defer wg.Done()
			v, err := m.Get(o)
			if err != nil {
				t.Errorf("Get: %v", err)
				return
			}
			results[slot] = v
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, calls)
	for _, v := range results {
		require.Equal(t, 1, v)
	}
}

func TestMemoizer_NilCreatePanics(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		New[owner, int](nil)
	})
}

package future

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFuture_AwaitAfterComplete(t *testing.T) {
	t.Parallel()

	p := NewPromise[int]()
	require.True(t, p.Complete(42, nil))

	v, err := p.Future().Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestFuture_AwaitBeforeComplete(t *testing.T) {
	t.Parallel()

	p := NewPromise[string]()
	f := p.Future()

	go func() {
		time.Sleep(10 * time.Millisecond)
		p.Complete("done", nil)
	}()

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, "done", v)
}

func TestFuture_ErrorPropagates(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	p := NewPromise[int]()
	p.Complete(0, wantErr)

	_, err := p.Future().Await(context.Background())
	require.ErrorIs(t, err, wantErr)
}

func TestFuture_FirstCompleteWins(t *testing.T) {
	t.Parallel()

	p := NewPromise[int]()
	require.True(t, p.Complete(1, nil))
	require.False(t, p.Complete(2, nil))

	v, err := p.Future().Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestFuture_AwaitCancellation(t *testing.T) {
	t.Parallel()

	p := NewPromise[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Future().Await(ctx)
	require.ErrorIs(t, err, context.Canceled)

	// The future itself is unaffected and resolves for other waiters.
	p.Complete(7, nil)
	v, err := p.Future().Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestFuture_DoneChannel(t *testing.T) {
	t.Parallel()

	p := NewPromise[int]()
	f := p.Future()

	select {
	case <-f.Done():
		t.Fatal("Done must not be closed before Complete")
	default:
	}

	p.Complete(1, nil)

	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("Done must be closed after Complete")
	}
}

// Many goroutines race Complete; every waiter must observe the single
// winning value.
func TestFuture_ConcurrentComplete(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		writers := rapid.IntRange(1, 16).Draw(t, "writers")
		waiters := rapid.IntRange(1, 16).Draw(t, "waiters")

		p := NewPromise[int]()
		f := p.Future()

		results := make([]int, waiters)
		var wg sync.WaitGroup
		wg.Add(waiters)
		for i := 0; i < waiters; i++ {
			go func(slot int) {
				defer wg.Done()
				v, err := f.Await(context.Background())
				if err != nil {
					t.Errorf("Await: %v", err)
					return
				}
				results[slot] = v
			}(i)
		}

		wins := 0
		var winWg sync.WaitGroup
		winWg.Add(writers)
		var mu sync.Mutex
		for i := 0; i < writers; i++ {
			go func(val int) {
				defer winWg.Done()
				if p.Complete(val, nil) {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}(i + 1)
		}
		winWg.Wait()
		wg.Wait()

		if wins != 1 {
			t.Fatalf("exactly one Complete must win, got %d", wins)
		}
		winner, err := f.Await(context.Background())
		if err != nil {
			t.Fatalf("Await after resolution: %v", err)
		}
		for slot, v := range results {
			if v != winner {
				t.Fatalf("waiter %d saw %d, winner is %d", slot, v, winner)
			}
		}
	})
}

package renderer

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_DefaultsToCPUCount(t *testing.T) {
	assert.Equal(t, runtime.NumCPU(), NewWorkerPool(0).GetNumWorkers())
	assert.Equal(t, runtime.NumCPU(), NewWorkerPool(-3).GetNumWorkers())
	assert.Equal(t, 5, NewWorkerPool(5).GetNumWorkers())
}

func TestWorkerPool_RunsEveryRowOnce(t *testing.T) {
	pool := NewWorkerPool(4)
	const rows = 100

	var mu sync.Mutex
	seen := make(map[int]int)

	err := pool.Run(context.Background(), rows, func(row int) error {
		mu.Lock()
		seen[row]++
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, seen, rows)
	for row := 0; row < rows; row++ {
		assert.Equal(t, 1, seen[row], "row %d", row)
	}
}

func TestWorkerPool_BoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(2)

	var running, peak int32
	err := pool.Run(context.Background(), 50, func(row int) error {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		runtime.Gosched()
		atomic.AddInt32(&running, -1)
		return nil
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestWorkerPool_StopsOnCancel(t *testing.T) {
	pool := NewWorkerPool(1)
	ctx, cancel := context.WithCancel(context.Background())

	var done int32
	err := pool.Run(ctx, 1000, func(row int) error {
		if atomic.AddInt32(&done, 1) == 3 {
			cancel()
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, atomic.LoadInt32(&done), int32(1000))
}

func TestWorkerPool_PropagatesError(t *testing.T) {
	pool := NewWorkerPool(2)
	boom := errors.New("boom")

	err := pool.Run(context.Background(), 10, func(row int) error {
		if row == 4 {
			return boom
		}
		return nil
	})

	assert.ErrorIs(t, err, boom)
}

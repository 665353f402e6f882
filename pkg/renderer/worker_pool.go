package renderer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RowTask renders a single row. Each row writes only its own slice of the
// frame buffer, so tasks never need to synchronize with each other.
type RowTask func(row int) error

// WorkerPool runs row tasks with a bounded number of goroutines
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run executes task for every row in [0, rows). Cancellation is checked before
// each row starts; rows already running finish normally.
func (wp *WorkerPool) Run(ctx context.Context, rows int, task RowTask) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	scheduled := 0
	for row := 0; row < rows; row++ {
		if gctx.Err() != nil {
			break
		}
		scheduled++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return task(row)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if scheduled < rows {
		return ctx.Err()
	}
	return nil
}

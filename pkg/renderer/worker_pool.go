package renderer

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// WorkerPool renders the tiles of a frame in parallel. Every tile owns a
// disjoint set of pixels, so workers never share output slots.
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a pool with the specified number of workers
// (0 = use CPU count)
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Run calls render for every tile and returns once all of them are done.
// The return is the frame barrier. After the first error the remaining tiles
// are skipped and that error is returned.
//
// onDone, when not nil, is called after each successful tile. Calls are
// serialized so the callback needs no locking of its own.
func (wp *WorkerPool) Run(ctx context.Context, tiles []*Tile, render func(ctx context.Context, tile *Tile) error, onDone func(tile *Tile, done int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	var mu sync.Mutex
	done := 0

	for _, tile := range tiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := render(gctx, tile); err != nil {
				return err
			}
			if onDone != nil {
				mu.Lock()
				done++
				onDone(tile, done)
				mu.Unlock()
			}
			return nil
		})
	}

	return g.Wait()
}

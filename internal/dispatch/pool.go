// -----------------------------------------------------------------------
// Parallel Dispatcher - bounded worker pool with index-slot result placement
// -----------------------------------------------------------------------

// Package dispatch runs one unit function per work item on a bounded worker
// pool and reassembles results in submission order. Ordering is not a
// property of completion timing: each worker writes its result into the slot
// matching the item's original index, and no two workers ever share a slot,
// so the result slice needs no locking and is index-ordered regardless of
// how completions interleave.
package dispatch

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/models"
)

// UnitFunc transcribes one work item. Implementations report per-unit
// failures as data on the returned output, never by panicking; a panic is
// still recovered at the dispatch boundary and leaves the slot nil.
type UnitFunc func(ctx context.Context, item models.WorkItem) *models.UnitOutput

// ProgressFunc observes batch progress as a monotonically advancing
// "completed of total" pair. Calls are serialized by the dispatcher.
type ProgressFunc func(completed, total int)

// Dispatcher fans work items out to a bounded number of concurrent workers.
type Dispatcher struct {
	logger     arbor.ILogger
	maxWorkers int
	progress   ProgressFunc
}

// NewDispatcher creates a dispatcher with the given worker cap. A cap of
// zero or less falls back to a single worker.
func NewDispatcher(maxWorkers int, logger arbor.ILogger, progress ProgressFunc) *Dispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &Dispatcher{
		logger:     logger,
		maxWorkers: maxWorkers,
		progress:   progress,
	}
}

// Run processes every item and returns one result slot per item, aligned to
// item order. Concurrency is min(len(items), maxWorkers). Run blocks until
// every submitted unit is terminal; it never aborts early on unit failure.
// A nil slot means the unit crashed at the dispatch boundary - the
// aggregator renders it as a missing part.
//
// Context cancellation stops units that have not started; units already
// running see the cancellation through their own context.
func (d *Dispatcher) Run(ctx context.Context, items []models.WorkItem, fn UnitFunc) []*models.UnitResult {
	total := len(items)
	results := make([]*models.UnitResult, total)
	if total == 0 {
		return results
	}

	workers := d.maxWorkers
	if total < workers {
		workers = total
	}

	d.logger.Info().Int("items", total).Int("workers", workers).Msg("Dispatching units")

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	// progressMu serializes the counter and the callback so observers see a
	// strictly monotonic "N of M" sequence.
	var progressMu sync.Mutex
	completed := 0

	for _, item := range items {
		if ctx.Err() != nil {
			d.logger.Warn().Int("index", item.Index).Msg("Run cancelled, unit not submitted")
			continue
		}

		sem <- struct{}{}
		wg.Add(1)

		go func(item models.WorkItem) {
			defer wg.Done()
			defer func() { <-sem }()

			output := d.runUnit(ctx, item, fn)
			if output != nil {
				// Disjoint slot per worker: item.Index is unique per item.
				results[item.Index] = &models.UnitResult{Index: item.Index, Output: *output}
			}

			progressMu.Lock()
			completed++
			done := completed
			d.logger.Debug().Int("completed", done).Int("total", total).Msg("Unit finished")
			if d.progress != nil {
				d.progress(done, total)
			}
			progressMu.Unlock()
		}(item)
	}

	wg.Wait()
	return results
}

// runUnit invokes fn with panic containment. A panicking unit is logged and
// produces a nil output, isolating the failure from sibling units.
func (d *Dispatcher) runUnit(ctx context.Context, item models.WorkItem, fn UnitFunc) (output *models.UnitOutput) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			d.logger.Error().
				Int("index", item.Index).
				Str("panic", fmt.Sprintf("%v", r)).
				Str("stack", string(buf[:n])).
				Msg("Unit worker crashed, slot left missing")
			output = nil
		}
	}()

	return fn(ctx, item)
}

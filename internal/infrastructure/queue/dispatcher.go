package queue

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
)

const defaultWorkers = 16

// ErrJobPanicked is returned by Do when the submitted job panics.
var ErrJobPanicked = errors.New("job panicked")

// Dispatcher runs jobs on a fixed-size goroutine pool shared by all callers.
// A caller holds one of the pool's slots while its job runs, so the pool also
// bounds the number of concurrent store round trips. Waiting for a slot ends
// with the caller's context.
type Dispatcher struct {
	pool    *ants.Pool
	slots   chan struct{}
	waiting atomic.Int32
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) (*Dispatcher, error) {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	pool, err := ants.NewPool(numWorkers, ants.WithPanicHandler(func(p any) {
		log.Error().Interface("panic", p).Msg("worker panicked outside a job")
	}))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Dispatcher{pool: pool, slots: make(chan struct{}, numWorkers), log: log}, nil
}

// Do runs fn on a pool worker and waits for it to return or for ctx to end,
// whichever comes first. A job whose ctx expired while queued is not run.
func (d *Dispatcher) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.acquire(ctx); err != nil {
		return err
	}

	done := make(chan error, 1)
	err := d.pool.Submit(func() {
		defer d.release()
		if err := ctx.Err(); err != nil {
			done <- err
			return
		}
		defer func() {
			if p := recover(); p != nil {
				d.log.Error().
					Interface("panic", p).
					Bytes("stack", debug.Stack()).
					Msg("job panicked")
				done <- fmt.Errorf("%w: %v", ErrJobPanicked, p)
			}
		}()
		done <- fn(ctx)
	})
	if err != nil {
		d.release()
		return fmt.Errorf("submit job: %w", err)
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) acquire(ctx context.Context) error {
	select {
	case d.slots <- struct{}{}:
		return nil
	default:
	}

	d.waiting.Add(1)
	defer d.waiting.Add(-1)
	select {
	case d.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) release() { <-d.slots }

// Running reports the number of workers executing a job.
func (d *Dispatcher) Running() int { return d.pool.Running() }

// Waiting reports the number of callers blocked on a free worker.
func (d *Dispatcher) Waiting() int { return int(d.waiting.Load()) }

// Cap reports the pool size.
func (d *Dispatcher) Cap() int { return d.pool.Cap() }

// Release closes the pool. Jobs already running finish; later Do calls fail.
func (d *Dispatcher) Release() {
	d.pool.Release()
}

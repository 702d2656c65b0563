package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestDispatcher(t *testing.T, workers int) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(workers, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	t.Cleanup(d.Release)
	return d
}

func TestDispatcher_Do_ReturnsJobResult(t *testing.T) {
	d := newTestDispatcher(t, 2)
	want := errors.New("boom")

	if err := d.Do(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := d.Do(context.Background(), func(context.Context) error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := newTestDispatcher(t, 0)
	if d.Cap() != defaultWorkers {
		t.Errorf("expected %d workers, got %d", defaultWorkers, d.Cap())
	}
}

func TestDispatcher_Do_RecoversPanic(t *testing.T) {
	d := newTestDispatcher(t, 1)

	err := d.Do(context.Background(), func(context.Context) error { panic("kaput") })
	if !errors.Is(err, ErrJobPanicked) {
		t.Fatalf("expected ErrJobPanicked, got %v", err)
	}

	// The pool must still serve jobs afterwards.
	if err := d.Do(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("pool unusable after panic: %v", err)
	}
}

func TestDispatcher_Do_CancelledContextSkipsJob(t *testing.T) {
	d := newTestDispatcher(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	err := d.Do(ctx, func(context.Context) error { ran.Store(true); return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ran.Load() {
		t.Error("job must not run with a cancelled context")
	}
}

func TestDispatcher_Do_DeadlineWhileRunning(t *testing.T) {
	d := newTestDispatcher(t, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	release := make(chan struct{})
	defer close(release)

	err := d.Do(ctx, func(context.Context) error { <-release; return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestDispatcher_BoundsConcurrency(t *testing.T) {
	const workers = 3
	d := newTestDispatcher(t, workers)

	var (
		current, peak atomic.Int32
		wg            sync.WaitGroup
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Do(context.Background(), func(context.Context) error {
				n := current.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				current.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	if got := peak.Load(); got > workers {
		t.Errorf("expected at most %d concurrent jobs, saw %d", workers, got)
	}
}

func TestDispatcher_Do_DeadlineWhileWaitingForWorker(t *testing.T) {
	d := newTestDispatcher(t, 1)

	release := make(chan struct{})
	busy := make(chan struct{})
	go func() {
		_ = d.Do(context.Background(), func(context.Context) error {
			close(busy)
			<-release
			return nil
		})
	}()
	<-busy

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var ran atomic.Bool
	start := time.Now()
	err := d.Do(ctx, func(context.Context) error { ran.Store(true); return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("waiting for a worker ignored the deadline, took %s", elapsed)
	}
	if d.Waiting() != 0 {
		t.Errorf("expected no waiters after the deadline, got %d", d.Waiting())
	}

	close(release)
	if err := d.Do(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("pool unusable after a timed-out wait: %v", err)
	}
	if ran.Load() {
		t.Error("job that timed out waiting must not run")
	}
}

func TestDispatcher_Waiting(t *testing.T) {
	d := newTestDispatcher(t, 1)

	release := make(chan struct{})
	busy := make(chan struct{})
	go func() {
		_ = d.Do(context.Background(), func(context.Context) error {
			close(busy)
			<-release
			return nil
		})
	}()
	<-busy

	queued := make(chan error, 1)
	go func() {
		queued <- d.Do(context.Background(), func(context.Context) error { return nil })
	}()

	deadline := time.Now().Add(time.Second)
	for d.Waiting() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("expected one waiter, got %d", d.Waiting())
		}
		time.Sleep(time.Millisecond)
	}

	close(release)
	if err := <-queued; err != nil {
		t.Fatalf("queued job: %v", err)
	}
	if d.Waiting() != 0 {
		t.Errorf("expected no waiters, got %d", d.Waiting())
	}
}

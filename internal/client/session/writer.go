package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/ridehail/internal/logging"
)

const writeTimeout = 5 * time.Second

// writeJob is either a persistence write (fn set) or a flush barrier
// (done set) that is closed once every earlier job has run.
type writeJob struct {
	op   string
	fn   func(ctx context.Context) error
	done chan struct{}
}

// writer applies persistence jobs one at a time, in submission order, on a
// background goroutine. Callers never wait for a job; failures are logged.
type writer struct {
	jobs chan writeJob
	log  logging.Logger

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func newWriter(log logging.Logger) *writer {
	w := &writer{
		jobs: make(chan writeJob, 64),
		log:  log,
		done: make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *writer) loop() {
	defer close(w.done)
	for job := range w.jobs {
		if job.done != nil {
			close(job.done)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := job.fn(ctx); err != nil {
			w.log.Warn(ctx, "session persistence failed", "op", job.op, "error", err)
		}
		cancel()
	}
}

func (w *writer) enqueue(op string, fn func(ctx context.Context) error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.log.Warn(context.Background(), "session persistence dropped after close", "op", op)
		return
	}
	w.jobs <- writeJob{op: op, fn: fn}
}

// flush blocks until every job submitted so far has run, or ctx is done.
// After close there is nothing left to wait for.
func (w *writer) flush(ctx context.Context) error {
	barrier := make(chan struct{})

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	select {
	case w.jobs <- writeJob{op: "flush", done: barrier}:
	case <-ctx.Done():
		w.mu.Unlock()
		return ctx.Err()
	}
	w.mu.Unlock()

	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *writer) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.jobs)
	w.mu.Unlock()
	<-w.done
}

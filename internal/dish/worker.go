package dish

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"menushot/internal/llm"
)

const DefaultQueueSize = 256

var (
	ErrWorkerRunning = errors.New("generation worker already running")
	ErrQueueFull     = errors.New("generation queue is full")
)

// Job asks the worker to photograph one dish.
type Job struct {
	SessionID string
	DishID    string
	Style     llm.Style

	batch *Batch
}

func (j Job) finish() {
	if j.batch != nil {
		j.batch.done()
	}
}

// Worker drains generation jobs one at a time, in enqueue order. A single
// worker is shared by every session so at most one image request is in
// flight process-wide.
type Worker struct {
	jobs    chan Job
	running atomic.Bool
}

func NewWorker(queueSize int) *Worker {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Worker{jobs: make(chan Job, queueSize)}
}

// Enqueue never waits for room. The queue is shared by every session, so a
// full queue is reported as ErrQueueFull instead of holding the caller.
func (w *Worker) Enqueue(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case w.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending is the number of queued jobs not yet picked up.
func (w *Worker) Pending() int {
	return len(w.jobs)
}

// Run processes jobs until ctx is cancelled. Jobs still queued at that
// point are abandoned.
func (w *Worker) Run(ctx context.Context, handle func(context.Context, Job)) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrWorkerRunning
	}
	defer w.running.Store(false)

	log.Println("GENERATION_WORKER started")
	for {
		select {
		case <-ctx.Done():
			log.Printf("GENERATION_WORKER stopped pending=%d", len(w.jobs))
			return nil
		case job := <-w.jobs:
			handle(ctx, job)
		}
	}
}

// Batch tracks the jobs started by one GenerateAll or RegenerateOne call.
type Batch struct {
	DishIDs []string

	mu        sync.Mutex
	remaining int
	finished  chan struct{}
}

func newBatch(dishIDs []string) *Batch {
	b := &Batch{
		DishIDs:   dishIDs,
		remaining: len(dishIDs),
		finished:  make(chan struct{}),
	}
	if b.remaining == 0 {
		close(b.finished)
	}
	return b
}

// done closes finished on the last outstanding job. Extra calls are ignored.
func (b *Batch) done() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.remaining == 0 {
		return
	}
	b.remaining--
	if b.remaining == 0 {
		close(b.finished)
	}
}

// Wait blocks until every dish in the batch reached a terminal status or
// ctx is done.
func (b *Batch) Wait(ctx context.Context) error {
	select {
	case <-b.finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

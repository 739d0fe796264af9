package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull is returned by Submit when the buffer has no room.
	ErrQueueFull = errors.New("jobs: queue full")
	// ErrNotRunning is returned by Submit before Start or after Stop.
	ErrNotRunning = errors.New("jobs: queue not running")
)

// Job is one unit of background work.
type Job struct {
	ID         string
	Kind       string
	Attempt    int
	EnqueuedAt time.Time
}

// Func processes a job. A non-nil error schedules a retry until MaxAttempts is reached.
type Func func(context.Context, Job) error

// Options configures the worker pool.
type Options struct {
	Workers     int
	Buffer      int
	MaxAttempts int
	Backoff     time.Duration
	Logger      *zap.Logger
}

// Stats counts finished jobs.
type Stats struct {
	Succeeded uint64
	Failed    uint64
	Retried   uint64
}

// Queue dispatches jobs to a fixed set of goroutines. Submission never blocks.
type Queue struct {
	name string
	fn   Func
	opts Options

	jobs chan Job

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup

	succeeded atomic.Uint64
	failed    atomic.Uint64
	retried   atomic.Uint64
}

// NewQueue builds a queue that runs fn for every submitted job.
func NewQueue(name string, fn Func, opts Options) *Queue {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Buffer <= 0 {
		opts.Buffer = opts.Workers * 4
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Queue{name: name, fn: fn, opts: opts, jobs: make(chan Job, opts.Buffer)}
}

// Start launches the workers. Calling it twice is a no-op.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return
	}
	ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.opts.Workers; i++ {
		q.wg.Add(1)
		go q.work(ctx)
	}
	q.running = true
	q.opts.Logger.Info("queue started", zap.String("queue", q.name), zap.Int("workers", q.opts.Workers))
}

// Stop cancels the workers and waits for in-flight jobs and scheduled retries to return.
// Pending jobs are dropped.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	q.cancel()
	q.mu.Unlock()

	q.wg.Wait()
	q.opts.Logger.Info("queue stopped", zap.String("queue", q.name))
}

// Submit enqueues a job without blocking.
func (q *Queue) Submit(job Job) error {
	q.mu.Lock()
	running := q.running
	q.mu.Unlock()
	if !running {
		return ErrNotRunning
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now().UTC()
	}

	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stats returns the finished job counters.
func (q *Queue) Stats() Stats {
	return Stats{Succeeded: q.succeeded.Load(), Failed: q.failed.Load(), Retried: q.retried.Load()}
}

func (q *Queue) work(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			q.run(ctx, job)
		}
	}
}

// run executes one attempt. ctx belongs to the Start call that launched the worker, so a
// retry never observes the context of a later restart.
func (q *Queue) run(ctx context.Context, job Job) {
	job.Attempt++
	err := q.fn(ctx, job)
	if err == nil {
		q.succeeded.Add(1)
		return
	}

	fields := []zap.Field{zap.String("queue", q.name), zap.String("job_id", job.ID), zap.String("kind", job.Kind), zap.Int("attempt", job.Attempt), zap.Error(err)}
	if job.Attempt >= q.opts.MaxAttempts || ctx.Err() != nil {
		q.failed.Add(1)
		q.opts.Logger.Error("job failed", fields...)
		return
	}

	q.retried.Add(1)
	q.opts.Logger.Warn("job failed, retrying", fields...)
	delay := time.Duration(job.Attempt) * q.opts.Backoff
	// The worker calling run is still counted, so Add cannot race with Stop's Wait.
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
			if err := q.Submit(job); err != nil {
				q.failed.Add(1)
				q.opts.Logger.Error("job dropped", zap.String("queue", q.name), zap.String("job_id", job.ID), zap.Error(err))
			}
		}
	}()
}

// Package queue runs submitted tasks one at a time, in submission order, on a
// single worker.
package queue

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/cybre/remo-light/internal/errors"
)

var ErrClosed = errors.New("queue is closed")

// Task is run by the worker. ctx is the worker's context.
type Task func(ctx context.Context, id string) error

// Result resolves when its task has finished or been discarded.
type Result struct {
	ID string

	done chan struct{}
	err  error
}

func newResult() *Result {
	return &Result{
		ID:   uuid.NewString(),
		done: make(chan struct{}),
	}
}

// Resolved returns a Result that is already complete with err.
func Resolved(err error) *Result {
	r := newResult()
	r.resolve(err)

	return r
}

func (r *Result) resolve(err error) {
	r.err = err
	close(r.done)
}

func (r *Result) Done() <-chan struct{} {
	return r.done
}

// Err returns the task error. It is only meaningful once Done is closed.
func (r *Result) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

// Wait blocks until the task completes or ctx is done. Giving up on the wait
// does not cancel the task.
func (r *Result) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	default:
	}

	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "wait for task %s", r.ID)
	}
}

type job struct {
	task   Task
	result *Result
}

type Queue struct {
	mu      sync.Mutex
	pending []job
	closed  bool

	wake chan struct{}
}

func New() *Queue {
	return &Queue{
		wake: make(chan struct{}, 1),
	}
}

// Enqueue never blocks. Tasks submitted after Run has returned resolve with
// ErrClosed.
func (q *Queue) Enqueue(task Task) *Result {
	r := newResult()

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		r.resolve(ErrClosed)
		return r
	}
	q.pending = append(q.pending, job{task: task, result: r})
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}

	return r
}

// Len returns the number of tasks waiting to start.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pending)
}

// Run drains the queue until ctx is done. A task that has started always runs
// to completion; tasks still waiting when ctx ends resolve with its error.
func (q *Queue) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			q.shutdown(ctx.Err())
			return nil
		}

		j, ok := q.next()
		if ok {
			q.execute(ctx, j)
			continue
		}

		select {
		case <-ctx.Done():
			q.shutdown(ctx.Err())
			return nil
		case <-q.wake:
		}
	}
}

func (q *Queue) next() (job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return job{}, false
	}

	j := q.pending[0]
	q.pending[0] = job{}
	q.pending = q.pending[1:]

	return j, true
}

func (q *Queue) execute(ctx context.Context, j job) {
	slog.Debug("task started", slog.String("task", j.result.ID))

	err := j.task(ctx, j.result.ID)
	if err != nil {
		slog.Debug("task failed", slog.String("task", j.result.ID), slog.Any("error", err))
	} else {
		slog.Debug("task finished", slog.String("task", j.result.ID))
	}

	j.result.resolve(err)
}

func (q *Queue) shutdown(cause error) {
	q.mu.Lock()
	q.closed = true
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, j := range pending {
		j.result.resolve(errors.Wrapf(cause, "task %s discarded", j.result.ID))
	}
}

package async

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrCancelled is the error of a task cancelled before it started.
var ErrCancelled = errors.New("task cancelled")

// Status is the lifecycle state of a Task.
type Status int32

const (
	StatusPending Status = iota
	StatusRunning
	StatusCompleted
	StatusFailed
	StatusCancelled
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Task is an operation running on its own goroutine.
type Task[T any] struct {
	id     string
	name   string
	status atomic.Int32
	done   chan struct{}

	// Set once, before done is closed.
	value T
	err   error

	// abort releases a task still waiting for a Runner slot.
	abort context.CancelFunc
}

// ID returns the unique identifier of the task. IDs of tasks started
// later sort after earlier ones.
func (t *Task[T]) ID() string {
	return t.id
}

// Name returns the operation the task performs, e.g. "file.copy_new".
func (t *Task[T]) Name() string {
	return t.name
}

func (t *Task[T]) Status() Status {
	return Status(t.status.Load())
}

// Done is closed once the task has finished, whatever the outcome.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx is done. Giving up on the wait
// does not stop the task.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cancel stops a task that has not started yet. It reports whether the task
// was cancelled; a running or finished task is left alone.
func (t *Task[T]) Cancel() bool {
	if !t.status.CompareAndSwap(int32(StatusPending), int32(StatusCancelled)) {
		return false
	}
	t.abort()
	return true
}

func (t *Task[T]) start() bool {
	return t.status.CompareAndSwap(int32(StatusPending), int32(StatusRunning))
}

func (t *Task[T]) finish(value T, err error) {
	t.value, t.err = value, err
	switch {
	case errors.Is(err, ErrCancelled) && t.Status() == StatusCancelled:
	case err != nil:
		t.status.Store(int32(StatusFailed))
	default:
		t.status.Store(int32(StatusCompleted))
	}
	close(t.done)
}

package async

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Runner starts tasks. A Runner with a limit runs at most that many tasks at
// once; the rest stay pending until a slot frees up.
type Runner struct {
	sem    *semaphore.Weighted
	logger *zap.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLimit bounds the number of tasks running at once. A limit of zero or
// less means unbounded.
func WithLimit(n int64) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.sem = semaphore.NewWeighted(n)
		} else {
			r.sem = nil
		}
	}
}

// WithLogger sets the logger for task lifecycle events.
func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a Runner. Without options it is unbounded and silent.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRunner = NewRunner()

// Default returns the unbounded Runner used by the package-level functions.
func Default() *Runner {
	return defaultRunner
}

// Run starts fn on its own goroutine and returns its task.
func Run[T any](r *Runner, name string, fn func() (T, error)) *Task[T] {
	if r == nil {
		r = defaultRunner
	}
	ctx, abort := context.WithCancel(context.Background())
	t := &Task[T]{
		id:    newTaskID(),
		name:  name,
		done:  make(chan struct{}),
		abort: abort,
	}

	go func() {
		defer abort()
		var zero T

		if r.sem != nil {
			if err := r.sem.Acquire(ctx, 1); err != nil {
				t.finish(zero, ErrCancelled)
				return
			}
			defer r.sem.Release(1)
		}
		if !t.start() {
			t.finish(zero, ErrCancelled)
			return
		}

		start := time.Now()
		value, err := fn()
		t.finish(value, err)

		fields := []zap.Field{
			zap.String("task", t.id),
			zap.String("op", name),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			r.logger.Debug("task failed", append(fields, zap.Error(err))...)
			return
		}
		r.logger.Debug("task completed", fields...)
	}()
	return t
}

// run adapts an operation without a result.
func run(r *Runner, name string, fn func() error) *Task[struct{}] {
	return Run(r, name, func() (struct{}, error) {
		return struct{}{}, fn()
	})
}

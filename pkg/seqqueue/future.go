package seqqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Future holds the eventual result of a task submitted with Submit.
type Future[T any] struct {
	result T
	err    error
	once   sync.Once
	done   chan struct{}
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.result = v
		f.err = err
		close(f.done)
	})
}

// Await waits for the task to finish and returns its result and error.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits at most d. It returns ErrAwaitTimeout when d elapsed
// first; the task itself keeps its place in the queue.
func (f *Future[T]) AwaitWithTimeout(d time.Duration) (T, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero T
		return zero, ErrAwaitTimeout
	}
}

// IsComplete reports whether the result is available without blocking.
func (f *Future[T]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Submit pushes fn as a task that completes itself when fn returns, and returns
// a Future for its result. The future resolves with ErrTaskTimeout when the task
// times out and with ErrQueueClosed when a forceful close aborts it. Submit
// returns ErrQueueClosed when the queue no longer admits tasks.
func Submit[T any](q *Queue, fn func(ctx context.Context) (T, error), opts ...PushOption) (*Future[T], error) {
	if fn == nil {
		return nil, ErrNilTask
	}

	f := newFuture[T]()
	t, ok := q.push(func(ctx context.Context, t *Task) (err error) {
		var v T
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
			}
			if t.Done() {
				f.resolve(v, err)
			}
		}()
		v, err = fn(ctx)
		return err
	}, opts...)
	if !ok {
		return nil, ErrQueueClosed
	}

	context.AfterFunc(t.ctx, func() {
		cause := context.Cause(t.ctx)
		if errors.Is(cause, ErrTaskTimeout) || errors.Is(cause, ErrQueueClosed) {
			var zero T
			f.resolve(zero, cause)
		}
	})

	return f, nil
}

// Do runs fn on the queue and waits for it. When ctx is done first Do returns
// ctx.Err() while the task keeps running to completion.
func Do(ctx context.Context, q *Queue, fn func(ctx context.Context) error, opts ...PushOption) error {
	if fn == nil {
		return ErrNilTask
	}

	f, err := Submit(q, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, opts...)
	if err != nil {
		return err
	}

	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

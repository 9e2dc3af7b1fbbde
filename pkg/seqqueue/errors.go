package seqqueue

import "errors"

var (
	// ErrTaskTimeout is the cancellation cause of a task that did not call Done in time.
	ErrTaskTimeout = errors.New("seqqueue: task timed out")

	// ErrQueueClosed is returned when work is submitted to a closed queue and is the
	// cancellation cause of tasks aborted by a forceful close.
	ErrQueueClosed = errors.New("seqqueue: queue is closed")

	// ErrTaskPanic wraps a value recovered from a panicking task.
	ErrTaskPanic = errors.New("seqqueue: task panicked")

	// ErrInvalidTransition is reported when the lifecycle table refuses a status change.
	ErrInvalidTransition = errors.New("seqqueue: invalid status transition")

	// ErrNilTask is returned when a nil function is submitted.
	ErrNilTask = errors.New("seqqueue: task function cannot be nil")

	// ErrAwaitTimeout is returned by Future.AwaitWithTimeout when the wait elapsed first.
	ErrAwaitTimeout = errors.New("seqqueue: timed out waiting for task result")
)

package seqqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/seqqueue/pkg/logger"
)

// TaskFunc is the work executed by the queue. It must eventually call t.Done,
// otherwise the task holds the queue until its timeout elapses. ctx is cancelled
// once the task completes, times out (cause ErrTaskTimeout) or the queue is
// closed forcefully (cause ErrQueueClosed).
//
// Returning an error or panicking emits an error notification and completes the
// task if it has not completed yet.
type TaskFunc func(ctx context.Context, t *Task) error

// TimeoutFunc is invoked when a task times out.
type TimeoutFunc func(t *Task)

// Task is a unit of work owned by a queue. Its Done method is the completion
// handle; a handle stays bound to its own task and is inert once the task completed.
type Task struct {
	id        uuid.UUID
	fn        TaskFunc
	onTimeout TimeoutFunc
	timeout   time.Duration
	createdAt time.Time

	queue  *Queue
	ctx    context.Context
	cancel context.CancelCauseFunc

	// guarded by queue.mu
	completed bool
	startedAt time.Time
}

type taskContextKey struct{}

func newTask(q *Queue, fn TaskFunc, o pushOptions) *Task {
	t := &Task{
		id:        uuid.New(),
		fn:        fn,
		onTimeout: o.onTimeout,
		timeout:   o.timeout,
		createdAt: time.Now(),
		queue:     q,
	}
	t.ctx, t.cancel = context.WithCancelCause(context.WithValue(context.Background(), taskContextKey{}, t))
	return t
}

// ID returns the identifier assigned at admission.
func (t *Task) ID() uuid.UUID { return t.id }

// Timeout returns the effective timeout of the task.
func (t *Task) Timeout() time.Duration { return t.timeout }

// CreatedAt returns the admission time.
func (t *Task) CreatedAt() time.Time { return t.createdAt }

// Queue returns the name of the owning queue.
func (t *Task) Queue() string { return t.queue.name }

// Completed reports whether the task has been completed by Done, a timeout or a forceful close.
func (t *Task) Completed() bool {
	t.queue.mu.Lock()
	defer t.queue.mu.Unlock()
	return t.completed
}

// Done signals that the task finished. Only the first call on a task that has
// neither timed out nor been aborted advances the queue and returns true; every
// other call returns false.
func (t *Task) Done() bool {
	return t.queue.finish(t)
}

func (t *Task) invoke() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
	}()
	return t.fn(t.ctx, t)
}

// TaskFromContext returns the task whose context ctx derives from.
func TaskFromContext(ctx context.Context) (*Task, bool) {
	if ctx == nil {
		return nil, false
	}
	t, ok := ctx.Value(taskContextKey{}).(*Task)
	return t, ok
}

// LogExtractor adds the queue name and task id to records logged with a task context.
// It matches logger.ContextExtractor.
func LogExtractor(ctx context.Context) (slog.Attr, bool) {
	t, ok := TaskFromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return logger.Group("task", logger.Queue(t.queue.name), logger.TaskID(t.id.String())), true
}

package seqqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/seqqueue/pkg/logger"
)

// Queue executes pushed tasks one at a time in submission order.
// All methods are safe for concurrent use.
type Queue struct {
	name           string
	defaultTimeout time.Duration
	logger         *slog.Logger
	metrics        Metrics
	lifecycle      *lifecycle

	mu      sync.Mutex
	backlog []*Task
	active  *Task
	timer   *time.Timer
	drained chan struct{}

	lmu       sync.RWMutex
	listeners map[Event][]Listener
}

// New creates an idle queue.
func New(opts ...Option) *Queue {
	o := &options{
		name:    DefaultName,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
		metrics: noopMetrics{},
	}
	for _, opt := range opts {
		opt(o)
	}

	q := &Queue{
		name:           o.name,
		defaultTimeout: o.timeout,
		logger:         o.logger,
		metrics:        o.metrics,
		drained:        make(chan struct{}),
		listeners:      make(map[Event][]Listener),
	}
	q.lifecycle = newLifecycle(func() bool { return len(q.backlog) > 0 })
	q.metrics.RecordStatus(q.name, StatusIdle)

	return q
}

// Name returns the queue name.
func (q *Queue) Name() string { return q.name }

// Timeout returns the default task timeout.
func (q *Queue) Timeout() time.Duration { return q.defaultTimeout }

// Status returns the current lifecycle status.
func (q *Queue) Status() Status { return q.lifecycle.Current() }

// Len returns the number of tasks waiting behind the active one.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}

// Drained returns a channel closed once the queue reaches StatusDrained.
func (q *Queue) Drained() <-chan struct{} { return q.drained }

// Wait blocks until the queue is drained or ctx is done.
func (q *Queue) Wait(ctx context.Context) error {
	select {
	case <-q.drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// On registers a listener for the event. Listeners of one event run in
// registration order.
func (q *Queue) On(e Event, l Listener) {
	if l == nil {
		return
	}
	q.lmu.Lock()
	defer q.lmu.Unlock()
	q.listeners[e] = append(q.listeners[e], l)
}

// Push admits a task. It returns false without side effects when the queue is
// closed or drained. An idle queue becomes busy and starts the task before Push
// returns; the task function itself runs on its own goroutine.
func (q *Queue) Push(fn TaskFunc, opts ...PushOption) bool {
	_, ok := q.push(fn, opts...)
	return ok
}

func (q *Queue) push(fn TaskFunc, opts ...PushOption) (*Task, bool) {
	if fn == nil {
		q.logger.Warn("task rejected", logger.Queue(q.name), logger.Error(ErrNilTask))
		q.metrics.RecordRejected(q.name)
		return nil, false
	}

	po := pushOptions{timeout: q.defaultTimeout}
	for _, opt := range opts {
		opt(&po)
	}

	q.mu.Lock()
	status := q.lifecycle.Current()
	if status == StatusClosed || status == StatusDrained {
		q.mu.Unlock()
		q.logger.Warn("task rejected", logger.Queue(q.name), logger.Status(status), logger.Error(ErrQueueClosed))
		q.metrics.RecordRejected(q.name)
		return nil, false
	}

	t := newTask(q, fn, po)
	q.backlog = append(q.backlog, t)

	var next *Task
	if status == StatusIdle && q.fireLocked(signalPush) {
		next = q.startNextLocked()
	}
	backlog := len(q.backlog)
	q.metrics.RecordBacklog(q.name, backlog)
	q.mu.Unlock()

	q.logger.Debug("task admitted",
		logger.Queue(q.name),
		logger.TaskID(t.id.String()),
		logger.Timeout(t.timeout),
		logger.Backlog(backlog))

	q.dispatch(next, nil)
	return t, true
}

// Close stops admission. A graceful close lets the active task and the backlog
// finish before the queue drains; a forceful close discards the backlog,
// suppresses the active task and drains immediately.
func (q *Queue) Close(force bool) {
	if force {
		q.abort()
		return
	}

	q.mu.Lock()
	if status := q.lifecycle.Current(); status == StatusClosed || status == StatusDrained {
		q.mu.Unlock()
		return
	}
	if !q.fireLocked(signalClose) {
		q.mu.Unlock()
		return
	}

	notes := []Notification{{Event: EventClosed, Queue: q.name}}
	if q.active == nil && len(q.backlog) == 0 && q.fireLocked(signalDrain) {
		notes = append(notes, q.drainLocked()...)
	}
	pending := len(q.backlog)
	q.mu.Unlock()

	q.logger.Info("queue closed", logger.Queue(q.name), logger.Backlog(pending))
	q.dispatch(nil, notes)
}

func (q *Queue) abort() {
	q.mu.Lock()
	if q.lifecycle.Current() == StatusDrained || !q.fireLocked(signalAbort) {
		q.mu.Unlock()
		return
	}

	if t := q.active; t != nil {
		if !t.completed {
			q.settleLocked(t, ErrQueueClosed)
		}
		q.active = nil
	}
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}

	discarded := q.backlog
	q.backlog = nil
	for _, t := range discarded {
		t.completed = true
		t.cancel(ErrQueueClosed)
	}

	q.metrics.RecordBacklog(q.name, 0)
	notes := q.drainLocked()
	q.mu.Unlock()

	q.logger.Warn("queue closed forcefully",
		logger.Queue(q.name),
		slog.Int("discarded", len(discarded)))

	q.dispatch(nil, notes)
}

// finish is the completion path shared by Done and failing tasks.
func (q *Queue) finish(t *Task) bool {
	q.mu.Lock()
	if t.completed || q.active != t {
		q.mu.Unlock()
		return false
	}

	elapsed := q.settleLocked(t, nil)
	next, notes := q.advanceLocked(t)
	q.mu.Unlock()

	q.metrics.RecordTaskDuration(q.name, elapsed)
	q.logger.Debug("task completed",
		logger.Queue(q.name),
		logger.TaskID(t.id.String()),
		logger.Duration(elapsed))

	q.dispatch(next, notes)
	return true
}

// expire runs on the timer goroutine of t.
func (q *Queue) expire(t *Task) {
	q.mu.Lock()
	if t.completed || q.active != t {
		q.mu.Unlock()
		return
	}
	elapsed := q.settleLocked(t, ErrTaskTimeout)
	q.mu.Unlock()

	q.metrics.RecordTimeout(q.name)
	q.metrics.RecordTaskDuration(q.name, elapsed)
	q.logger.Warn("task timed out",
		logger.Queue(q.name),
		logger.TaskID(t.id.String()),
		logger.Timeout(t.timeout))

	if t.onTimeout != nil {
		q.protect("timeout callback", func() { t.onTimeout(t) })
	}
	q.emit(Notification{Event: EventTimeout, Queue: q.name, Task: t})

	// A forceful close in the meantime has already released the slot.
	q.mu.Lock()
	next, notes := q.advanceLocked(t)
	q.mu.Unlock()

	q.dispatch(next, notes)
}

// run executes t on its own goroutine.
func (q *Queue) run(t *Task) {
	// A forceful close may have settled t before this goroutine was scheduled.
	q.mu.Lock()
	aborted := t.completed
	q.mu.Unlock()
	if aborted {
		return
	}

	q.logger.Debug("task started", logger.Queue(q.name), logger.TaskID(t.id.String()))

	err := t.invoke()
	if err == nil {
		return
	}

	// Returning the task's own cancellation is not a failure.
	if t.ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.Cause(t.ctx))) {
		return
	}

	q.metrics.RecordError(q.name)
	q.logger.Error("task failed",
		logger.Queue(q.name),
		logger.TaskID(t.id.String()),
		logger.Error(err))

	q.emit(Notification{Event: EventError, Queue: q.name, Task: t, Err: err})
	q.finish(t)
}

func (q *Queue) startNextLocked() *Task {
	t := q.backlog[0]
	q.backlog[0] = nil
	q.backlog = q.backlog[1:]

	q.active = t
	t.startedAt = time.Now()
	q.timer = time.AfterFunc(t.timeout, func() { q.expire(t) })
	q.metrics.RecordBacklog(q.name, len(q.backlog))

	return t
}

// settleLocked marks t completed, stops its timer and cancels its context.
func (q *Queue) settleLocked(t *Task, cause error) time.Duration {
	t.completed = true
	if q.active == t && q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	t.cancel(cause)
	return time.Since(t.startedAt)
}

// advanceLocked releases the slot held by t and starts the next task, goes idle
// or drains. It is a no-op when t no longer holds the slot.
func (q *Queue) advanceLocked(t *Task) (*Task, []Notification) {
	if q.active != t {
		return nil, nil
	}
	q.active = nil

	if !q.fireLocked(signalComplete) {
		return nil, nil
	}

	switch q.lifecycle.Current() {
	case StatusBusy, StatusClosed:
		return q.startNextLocked(), nil
	case StatusDrained:
		return nil, q.drainLocked()
	default:
		return nil, nil
	}
}

func (q *Queue) drainLocked() []Notification {
	close(q.drained)
	q.logger.Info("queue drained", logger.Queue(q.name))
	return []Notification{{Event: EventDrained, Queue: q.name}}
}

func (q *Queue) fireLocked(sig signal) bool {
	from := q.lifecycle.Current()
	to, err := q.lifecycle.Fire(sig)
	if err != nil {
		q.logger.Error("status transition refused",
			logger.Queue(q.name),
			logger.Status(from),
			logger.Error(fmt.Errorf("%w: %w", ErrInvalidTransition, err)))
		return false
	}
	if from != to {
		q.metrics.RecordStatus(q.name, to)
	}
	return true
}

// dispatch emits notifications and launches the next task. Never call it with q.mu held.
func (q *Queue) dispatch(next *Task, notes []Notification) {
	for _, n := range notes {
		q.emit(n)
	}
	if next != nil {
		go q.run(next)
	}
}

func (q *Queue) emit(n Notification) {
	q.lmu.RLock()
	listeners := q.listeners[n.Event]
	q.lmu.RUnlock()

	for _, l := range listeners {
		q.protect(string(n.Event)+" listener", func() { l(n) })
	}
}

func (q *Queue) protect(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("recovered panic",
				logger.Queue(q.name),
				slog.String("source", what),
				logger.Panic(r))
		}
	}()
	fn()
}

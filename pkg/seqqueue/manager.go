package seqqueue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/seqqueue/pkg/logger"
)

// ManagerOption configures a Manager.
type ManagerOption func(*managerOptions)

type managerOptions struct {
	timeout   time.Duration
	logger    *slog.Logger
	metrics   Metrics
	queueOpts []Option
	hooks     []func(*Queue)
}

// WithManagerTimeout sets the default task timeout of queues created by the manager.
func WithManagerTimeout(d time.Duration) ManagerOption {
	return func(o *managerOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithManagerLogger sets the logger shared by the manager and its queues.
func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(o *managerOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithManagerMetrics sets the metrics sink shared by all queues.
func WithManagerMetrics(m Metrics) ManagerOption {
	return func(o *managerOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithQueueOptions appends options applied to every queue the manager creates.
func WithQueueOptions(opts ...Option) ManagerOption {
	return func(o *managerOptions) {
		o.queueOpts = append(o.queueOpts, opts...)
	}
}

// WithQueueHook registers fn to run on every queue right after the manager
// creates it and before the first task is pushed. Use it to attach listeners.
func WithQueueHook(fn func(q *Queue)) ManagerOption {
	return func(o *managerOptions) {
		if fn != nil {
			o.hooks = append(o.hooks, fn)
		}
	}
}

// Manager keeps one queue per key so that work for the same key is serialized
// while different keys run concurrently.
type Manager struct {
	opts   managerOptions
	mu     sync.Mutex
	queues map[string]*Queue
}

// NewManager creates an empty manager.
func NewManager(opts ...ManagerOption) *Manager {
	o := managerOptions{
		timeout: DefaultTimeout,
		logger:  slog.Default(),
		metrics: noopMetrics{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager{opts: o, queues: make(map[string]*Queue)}
}

// Push forwards the task to the queue of key, creating the queue on first use.
func (m *Manager) Push(key string, fn TaskFunc, opts ...PushOption) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queues[key]
	if !ok {
		q = New(append([]Option{
			WithName(key),
			WithTimeout(m.opts.timeout),
			WithLogger(m.opts.logger),
			WithMetrics(m.opts.metrics),
		}, m.opts.queueOpts...)...)
		q.On(EventDrained, func(Notification) { m.forget(key, q) })
		for _, hook := range m.opts.hooks {
			hook(q)
		}
		m.queues[key] = q
	}
	return q.Push(fn, opts...)
}

// forget drops q once it drained, unless key already maps to a newer queue.
func (m *Manager) forget(key string, q *Queue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queues[key] == q {
		delete(m.queues, key)
	}
}

// Queue returns the live queue of key, if any. A queue closed directly stays
// registered until it drains; Push for its key is rejected in the meantime.
func (m *Manager) Queue(key string) (*Queue, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[key]
	return q, ok
}

// Close closes the queue of key and forgets it; the next Push for key starts a
// fresh queue.
func (m *Manager) Close(key string, force bool) {
	m.mu.Lock()
	q, ok := m.queues[key]
	delete(m.queues, key)
	m.mu.Unlock()

	if ok {
		q.Close(force)
	}
}

// Len returns the number of live queues.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues)
}

// Shutdown closes every queue and waits until all of them drained or ctx is done.
func (m *Manager) Shutdown(ctx context.Context, force bool) error {
	m.mu.Lock()
	queues := m.queues
	m.queues = make(map[string]*Queue)
	m.mu.Unlock()

	for _, q := range queues {
		q.Close(force)
	}

	var errs []error
	for key, q := range queues {
		if err := q.Wait(ctx); err != nil {
			m.opts.logger.Warn("queue did not drain before shutdown deadline",
				logger.Queue(key),
				logger.Backlog(q.Len()),
				logger.Error(err))
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

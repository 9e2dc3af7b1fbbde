package seqqueue

import (
	"log/slog"
	"time"
)

// Option configures a Queue.
type Option func(*options)

type options struct {
	name    string
	timeout time.Duration
	logger  *slog.Logger
	metrics Metrics
}

// WithName sets the name used in log records, notifications and metric labels.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithTimeout sets the default timeout for tasks pushed without their own.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger for the queue.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink for the queue.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// PushOption configures a single task.
type PushOption func(*pushOptions)

type pushOptions struct {
	timeout   time.Duration
	onTimeout TimeoutFunc
}

// WithTaskTimeout overrides the queue default timeout for one task.
func WithTaskTimeout(d time.Duration) PushOption {
	return func(o *pushOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// OnTimeout registers a callback invoked when the task times out, before the
// timeout notification is emitted.
func OnTimeout(fn TimeoutFunc) PushOption {
	return func(o *pushOptions) {
		o.onTimeout = fn
	}
}

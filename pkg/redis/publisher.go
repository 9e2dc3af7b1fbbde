package redis

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/seqqueue/pkg/logger"
	"github.com/dmitrymomot/seqqueue/pkg/seqqueue"
)

// DefaultEventStream is the stream queue notifications are appended to.
const DefaultEventStream = "seqqueue:events"

// StreamAdder is the subset of the go-redis client used by EventPublisher.
// *redis.Client, *redis.ClusterClient and redis.UniversalClient satisfy it.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// PublisherOption configures an EventPublisher.
type PublisherOption func(*EventPublisher)

// WithStream sets the target stream key.
func WithStream(stream string) PublisherOption {
	return func(p *EventPublisher) {
		if stream != "" {
			p.stream = stream
		}
	}
}

// WithMaxLen caps the stream at approximately n entries. Zero disables trimming.
func WithMaxLen(n int64) PublisherOption {
	return func(p *EventPublisher) {
		if n >= 0 {
			p.maxLen = n
		}
	}
}

// WithPublishTimeout bounds each XADD call.
func WithPublishTimeout(d time.Duration) PublisherOption {
	return func(p *EventPublisher) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithPublisherLogger sets the logger used to report failed publishes.
func WithPublisherLogger(l *slog.Logger) PublisherOption {
	return func(p *EventPublisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// EventPublisher appends queue notifications to a Redis stream so that other
// processes can observe queue lifecycles.
type EventPublisher struct {
	client  StreamAdder
	stream  string
	maxLen  int64
	timeout time.Duration
	logger  *slog.Logger
}

// NewEventPublisher creates a publisher writing through client.
func NewEventPublisher(client StreamAdder, opts ...PublisherOption) *EventPublisher {
	p := &EventPublisher{
		client:  client,
		stream:  DefaultEventStream,
		timeout: 2 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Listener returns a queue listener that publishes every notification it receives.
// Failures are logged and never reach the queue.
func (p *EventPublisher) Listener() seqqueue.Listener {
	return func(n seqqueue.Notification) {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()

		if err := p.Publish(ctx, n); err != nil {
			p.logger.ErrorContext(ctx, "queue event not published",
				logger.Queue(n.Queue),
				logger.Event(string(n.Event)),
				logger.Error(err))
		}
	}
}

// Attach subscribes the publisher to every event of q.
func (p *EventPublisher) Attach(q *seqqueue.Queue) {
	l := p.Listener()
	for _, e := range []seqqueue.Event{
		seqqueue.EventClosed,
		seqqueue.EventDrained,
		seqqueue.EventTimeout,
		seqqueue.EventError,
	} {
		q.On(e, l)
	}
}

// Publish appends n to the stream.
func (p *EventPublisher) Publish(ctx context.Context, n seqqueue.Notification) error {
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: Fields(n),
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}

// Fields flattens a notification into stream entry fields. Fields that do not
// apply to the event are written empty.
func Fields(n seqqueue.Notification) map[string]any {
	fields := map[string]any{
		"event":      string(n.Event),
		"queue":      n.Queue,
		"task_id":    "",
		"timeout_ms": "",
		"error":      "",
	}
	if n.Task != nil {
		fields["task_id"] = n.Task.ID().String()
		fields["timeout_ms"] = strconv.FormatInt(n.Task.Timeout().Milliseconds(), 10)
	}
	if n.Err != nil {
		fields["error"] = n.Err.Error()
	}
	return fields
}

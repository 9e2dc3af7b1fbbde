package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/seqqueue/pkg/logger"
	"github.com/dmitrymomot/seqqueue/pkg/redis"
	"github.com/dmitrymomot/seqqueue/pkg/seqqueue"
)

type mockStream struct {
	mock.Mock
}

func (m *mockStream) XAdd(ctx context.Context, a *goredis.XAddArgs) *goredis.StringCmd {
	args := m.Called(ctx, a)
	return goredis.NewStringResult(args.String(0), args.Error(1))
}

func TestEventPublisher_Publish(t *testing.T) {
	t.Parallel()

	t.Run("queue event", func(t *testing.T) {
		t.Parallel()

		stream := &mockStream{}
		stream.On("XAdd", mock.Anything, mock.MatchedBy(func(a *goredis.XAddArgs) bool {
			values, ok := a.Values.(map[string]any)
			return ok &&
				a.Stream == redis.DefaultEventStream &&
				a.MaxLen == 0 &&
				values["event"] == "drained" &&
				values["queue"] == "orders" &&
				values["task_id"] == ""
		})).Return("1-0", nil).Once()

		pub := redis.NewEventPublisher(stream)
		err := pub.Publish(context.Background(), seqqueue.Notification{Event: seqqueue.EventDrained, Queue: "orders"})
		require.NoError(t, err)
		stream.AssertExpectations(t)
	})

	t.Run("custom stream with trimming", func(t *testing.T) {
		t.Parallel()

		stream := &mockStream{}
		stream.On("XAdd", mock.Anything, mock.MatchedBy(func(a *goredis.XAddArgs) bool {
			return a.Stream == "events" && a.MaxLen == 100 && a.Approx
		})).Return("1-0", nil).Once()

		pub := redis.NewEventPublisher(stream, redis.WithStream("events"), redis.WithMaxLen(100))
		require.NoError(t, pub.Publish(context.Background(), seqqueue.Notification{Event: seqqueue.EventClosed}))
		stream.AssertExpectations(t)
	})

	t.Run("failure wrapped", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		stream := &mockStream{}
		stream.On("XAdd", mock.Anything, mock.Anything).Return("", cause).Once()

		pub := redis.NewEventPublisher(stream)
		err := pub.Publish(context.Background(), seqqueue.Notification{Event: seqqueue.EventClosed})
		assert.ErrorIs(t, err, redis.ErrPublishFailed)
		assert.ErrorIs(t, err, cause)
	})
}

func TestFields(t *testing.T) {
	t.Parallel()

	fields := redis.Fields(seqqueue.Notification{
		Event: seqqueue.EventError,
		Queue: "q",
		Err:   errors.New("boom"),
	})

	assert.Equal(t, map[string]any{
		"event":      "error",
		"queue":      "q",
		"task_id":    "",
		"timeout_ms": "",
		"error":      "boom",
	}, fields)
}

func TestEventPublisher_Attach(t *testing.T) {
	t.Parallel()

	stream := &mockStream{}
	published := make(chan map[string]any, 4)
	stream.On("XAdd", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		published <- args.Get(1).(*goredis.XAddArgs).Values.(map[string]any)
	}).Return("1-0", nil)

	q := seqqueue.New(seqqueue.WithLogger(logger.Discard()), seqqueue.WithName("jobs"))
	redis.NewEventPublisher(stream, redis.WithPublisherLogger(logger.Discard())).Attach(q)

	var id string
	require.True(t, q.Push(func(ctx context.Context, task *seqqueue.Task) error {
		return nil
	}, seqqueue.WithTaskTimeout(20*time.Millisecond)))

	timeout := next(t, published)
	assert.Equal(t, "timeout", timeout["event"])
	assert.Equal(t, "jobs", timeout["queue"])
	assert.Equal(t, "20", timeout["timeout_ms"])
	id, _ = timeout["task_id"].(string)
	assert.NotEmpty(t, id)

	q.Close(false)
	assert.Equal(t, "closed", next(t, published)["event"])
	assert.Equal(t, "drained", next(t, published)["event"])
}

func TestEventPublisher_FailureDoesNotAffectQueue(t *testing.T) {
	t.Parallel()

	stream := &mockStream{}
	stream.On("XAdd", mock.Anything, mock.Anything).Return("", errors.New("down"))

	q := seqqueue.New(seqqueue.WithLogger(logger.Discard()))
	redis.NewEventPublisher(stream, redis.WithPublisherLogger(logger.Discard())).Attach(q)

	q.Close(false)
	assert.Equal(t, seqqueue.StatusDrained, q.Status())
	stream.AssertNumberOfCalls(t, "XAdd", 2)
}

func next(t *testing.T, ch <-chan map[string]any) map[string]any {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("no event published")
		return nil
	}
}

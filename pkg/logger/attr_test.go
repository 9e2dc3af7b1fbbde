package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/seqqueue/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestQueueAttrs(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		key  string
		want any
	}{
		{name: "queue", attr: logger.Queue("orders"), key: "queue", want: "orders"},
		{name: "task id", attr: logger.TaskID("abc"), key: "task_id", want: "abc"},
		{name: "status", attr: logger.Status("busy"), key: "status", want: "busy"},
		{name: "backlog", attr: logger.Backlog(3), key: "backlog", want: int64(3)},
		{name: "duration", attr: logger.Duration(2 * time.Second), key: "duration", want: 2 * time.Second},
		{name: "timeout", attr: logger.Timeout(time.Second), key: "timeout", want: time.Second},
		{name: "panic", attr: logger.Panic("boom"), key: "panic", want: "boom"},
		{name: "event", attr: logger.Event("drained"), key: "event", want: "drained"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}
}

func TestTaskIDNil(t *testing.T) {
	assert.True(t, logger.TaskID(nil).Equal(slog.Attr{}))
}

package seqqueue_test

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/seqqueue/pkg/logger"
	"github.com/dmitrymomot/seqqueue/pkg/seqqueue"
)

func ExampleQueue() {
	q := seqqueue.New(seqqueue.WithName("printer"), seqqueue.WithLogger(logger.Discard()))

	for i := 1; i <= 3; i++ {
		q.Push(func(ctx context.Context, t *seqqueue.Task) error {
			fmt.Println("job", i)
			t.Done()
			return nil
		})
	}

	q.Close(false)
	_ = q.Wait(context.Background())
	fmt.Println(q.Status())

	// Output:
	// job 1
	// job 2
	// job 3
	// drained
}

func ExampleQueue_timeout() {
	q := seqqueue.New(seqqueue.WithLogger(logger.Discard()))
	timedOut := make(chan struct{})
	q.On(seqqueue.EventTimeout, func(n seqqueue.Notification) {
		fmt.Println("timeout on", n.Queue)
		close(timedOut)
	})

	causes := make(chan error, 1)
	q.Push(func(ctx context.Context, t *seqqueue.Task) error {
		<-ctx.Done()
		causes <- context.Cause(ctx)
		return nil
	}, seqqueue.WithTaskTimeout(10*time.Millisecond))

	<-timedOut
	fmt.Println(<-causes)
	q.Close(true)

	// Output:
	// timeout on default
	// seqqueue: task timed out
}

func ExampleSubmit() {
	q := seqqueue.New(seqqueue.WithLogger(logger.Discard()))
	defer q.Close(true)

	f, err := seqqueue.Submit(q, func(ctx context.Context) (int, error) {
		return 6 * 7, nil
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	v, err := f.Await()
	fmt.Println(v, err)

	// Output:
	// 42 <nil>
}

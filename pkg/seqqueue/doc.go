// Package seqqueue provides a sequential task queue: an in-process primitive that
// runs submitted work one task at a time, in submission order, with a per-task
// timeout and graceful or forceful shutdown.
//
// It is meant for serializing access to a resource that tolerates a single user
// at a time (a connection, a file, a device) while callers submit work
// concurrently.
//
// # Lifecycle
//
// A queue starts idle. Push on an idle queue makes it busy and starts the task
// before Push returns. When a task completes the next one starts, or the queue
// returns to idle. Close(false) stops admission and lets the remaining work run;
// the queue drains once the backlog is empty. Close(true) discards the backlog,
// suppresses the active task and drains immediately.
//
//	idle --push--> busy --complete--> idle
//	idle|busy --close--> closed --backlog empty--> drained
//	idle|busy|closed --close(force)--> drained
//
// # Completion
//
// A task finishes when its function calls t.Done. Done returns true only for the
// first call made before the task timed out or was aborted. A task that does not
// call Done within its timeout is completed by the queue: its OnTimeout callback
// runs, an EventTimeout notification is emitted and the queue moves on. A task
// function that returns an error or panics emits EventError and, unless Done was
// already called, completes the task.
//
// # Usage
//
//	q := seqqueue.New(seqqueue.WithTimeout(5 * time.Second))
//	q.On(seqqueue.EventTimeout, func(n seqqueue.Notification) {
//		log.Printf("task %s timed out", n.Task.ID())
//	})
//
//	q.Push(func(ctx context.Context, t *seqqueue.Task) error {
//		defer t.Done()
//		return conn.Write(ctx, payload)
//	})
//
//	// Or wait for a result:
//	n, err := seqqueue.Submit(q, func(ctx context.Context) (int, error) {
//		return conn.Count(ctx)
//	})
//
//	q.Close(false)
//	_ = q.Wait(ctx)
//
// Manager keeps one queue per key, which serializes work per key while different
// keys run concurrently.
//
// # Error Handling
//
// Push reports rejection by returning false. Submit and Do return ErrQueueClosed
// instead. Task contexts are cancelled with cause ErrTaskTimeout or
// ErrQueueClosed, which tasks can inspect with context.Cause. Panics are
// recovered and reported as errors wrapping ErrTaskPanic.
package seqqueue

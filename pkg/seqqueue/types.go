package seqqueue

import (
	"time"
)

// DefaultTimeout applies to tasks pushed without their own timeout.
const DefaultTimeout = 3 * time.Second

// DefaultName names queues created without WithName.
const DefaultName = "default"

// Status is the lifecycle state of a queue.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusBusy    Status = "busy"
	StatusClosed  Status = "closed"
	StatusDrained Status = "drained"
)

// Event names a queue notification.
type Event string

const (
	EventClosed  Event = "closed"
	EventDrained Event = "drained"
	EventTimeout Event = "timeout"
	EventError   Event = "error"
)

// Notification is delivered to listeners. Task is set for timeout and error
// notifications, Err for error notifications.
type Notification struct {
	Event Event
	Queue string
	Task  *Task
	Err   error
}

// Listener receives queue notifications synchronously, outside the queue lock.
type Listener func(n Notification)

// Metrics receives queue measurements. Implementations must be safe for concurrent use
// and must not call back into the queue.
type Metrics interface {
	RecordTaskDuration(queue string, d time.Duration)
	RecordTimeout(queue string)
	RecordError(queue string)
	RecordRejected(queue string)
	RecordBacklog(queue string, depth int)
	RecordStatus(queue string, status Status)
}

type noopMetrics struct{}

func (noopMetrics) RecordTaskDuration(string, time.Duration) {}
func (noopMetrics) RecordTimeout(string)                     {}
func (noopMetrics) RecordError(string)                       {}
func (noopMetrics) RecordRejected(string)                    {}
func (noopMetrics) RecordBacklog(string, int)                {}
func (noopMetrics) RecordStatus(string, Status)              {}

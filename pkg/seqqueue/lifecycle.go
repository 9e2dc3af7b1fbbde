package seqqueue

import (
	"github.com/dmitrymomot/seqqueue/pkg/statemachine"
)

// signal drives the queue lifecycle.
type signal string

const (
	signalPush     signal = "push"
	signalComplete signal = "complete"
	signalClose    signal = "close"
	signalDrain    signal = "drain"
	signalAbort    signal = "abort"
)

type lifecycle = statemachine.Machine[Status, signal]

type transition = statemachine.Transition[Status, signal]

// newLifecycle builds the status table. hasBacklog is consulted while the queue
// lock is held, so completing a task keeps the queue working (busy or closed)
// exactly when another task is waiting.
func newLifecycle(hasBacklog func() bool) *lifecycle {
	pending := []statemachine.Guard[Status, signal]{
		func(Status, signal) bool { return hasBacklog() },
	}

	return statemachine.New(StatusIdle,
		transition{From: StatusIdle, To: StatusBusy, Event: signalPush},

		transition{From: StatusBusy, To: StatusBusy, Event: signalComplete, Guards: pending},
		transition{From: StatusBusy, To: StatusIdle, Event: signalComplete},
		transition{From: StatusClosed, To: StatusClosed, Event: signalComplete, Guards: pending},
		transition{From: StatusClosed, To: StatusDrained, Event: signalComplete},

		transition{From: StatusIdle, To: StatusClosed, Event: signalClose},
		transition{From: StatusBusy, To: StatusClosed, Event: signalClose},
		transition{From: StatusClosed, To: StatusDrained, Event: signalDrain},

		transition{From: StatusIdle, To: StatusDrained, Event: signalAbort},
		transition{From: StatusBusy, To: StatusDrained, Event: signalAbort},
		transition{From: StatusClosed, To: StatusDrained, Event: signalAbort},
	)
}

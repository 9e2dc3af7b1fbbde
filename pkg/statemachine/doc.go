// Package statemachine provides a small, generic finite state machine.
//
// States and events are any comparable types, typically string enums:
//
//	type Status string
//	type Signal string
//
//	m := statemachine.New[Status, Signal]("idle",
//		statemachine.Transition[Status, Signal]{From: "idle", To: "busy", Event: "push"},
//		statemachine.Transition[Status, Signal]{From: "busy", To: "idle", Event: "complete"},
//	)
//	next, err := m.Fire("push")
//
// Several transitions may be registered for the same state and event. They are
// evaluated in registration order and the first one whose guards all pass is
// applied, which makes guard-based branching possible:
//
//	statemachine.Transition[Status, Signal]{
//		From: "busy", To: "busy", Event: "complete",
//		Guards: []statemachine.Guard[Status, Signal]{hasBacklog},
//	}
//
// # Error Handling
//
// Fire returns *ErrNoTransitionAvailable when nothing is registered for the
// current state and event, and *ErrTransitionRejected when every candidate was
// blocked by a guard. Use IsNoTransitionAvailableError and
// IsTransitionRejectedError to tell them apart.
//
// Machine is safe for concurrent use. Guards run under the machine's lock and
// must not call back into the same machine.
package statemachine

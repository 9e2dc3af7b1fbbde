package statemachine

import (
	"sync"
)

// Guard evaluates whether a transition should be allowed based on runtime conditions.
// Guards run while the machine holds its lock and must not call back into it.
type Guard[S, E comparable] func(from S, event E) bool

// Transition defines a state change triggered by an event, with optional guards.
type Transition[S, E comparable] struct {
	From   S
	To     S
	Event  E
	Guards []Guard[S, E] // All must pass for transition to proceed
}

// Machine is a thread-safe in-memory finite state machine over comparable state and event types.
// Transitions are indexed as [from][event][]Transition for O(1) lookups.
type Machine[S, E comparable] struct {
	initial     S
	current     S
	transitions map[S]map[E][]Transition[S, E]
	mu          sync.RWMutex
}

// New creates a machine in the initial state with the given transitions registered in order.
func New[S, E comparable](initial S, transitions ...Transition[S, E]) *Machine[S, E] {
	m := &Machine[S, E]{
		initial:     initial,
		current:     initial,
		transitions: make(map[S]map[E][]Transition[S, E]),
	}
	for _, t := range transitions {
		m.AddTransition(t)
	}
	return m
}

// AddTransition registers a transition. Several transitions may share the same
// from/event pair; the first one whose guards all pass wins.
func (m *Machine[S, E]) AddTransition(t Transition[S, E]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.transitions[t.From]; !ok {
		m.transitions[t.From] = make(map[E][]Transition[S, E])
	}
	m.transitions[t.From][t.Event] = append(m.transitions[t.From][t.Event], t)
}

// Current returns the current state.
func (m *Machine[S, E]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Fire applies the event and returns the state the machine moved to.
func (m *Machine[S, E]) Fire(event E) (S, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.match(event)
	if err != nil {
		return m.current, err
	}

	m.current = t.To
	return m.current, nil
}

// CanFire reports whether Fire would succeed for the event in the current state.
func (m *Machine[S, E]) CanFire(event E) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := m.match(event)
	return err == nil
}

// Reset moves the machine back to its initial state.
func (m *Machine[S, E]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

func (m *Machine[S, E]) match(event E) (*Transition[S, E], error) {
	candidates := m.transitions[m.current][event]
	if len(candidates) == 0 {
		return nil, NewErrNoTransitionAvailable(m.current, event)
	}

	for i, t := range candidates {
		allGuardsPassed := true
		for _, guard := range t.Guards {
			if guard != nil && !guard(m.current, event) {
				allGuardsPassed = false
				break
			}
		}
		if allGuardsPassed {
			return &candidates[i], nil
		}
	}

	return nil, NewErrTransitionRejected(m.current, event)
}

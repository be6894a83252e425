package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Machine is a thread-safe in-memory finite state machine.
// Transitions are indexed as [from][event] for O(1) lookups.
type Machine[S, E comparable] struct {
	mu          sync.RWMutex
	initial     S
	current     S
	transitions map[S]map[E][]Transition[S, E]
	listeners   []Listener[S, E]
}

// New creates a machine in the initial state and applies opts.
func New[S, E comparable](initial S, opts ...Option[S, E]) (*Machine[S, E], error) {
	m := &Machine[S, E]{
		initial:     initial,
		current:     initial,
		transitions: make(map[S]map[E][]Transition[S, E]),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is New that panics on a misconfigured machine.
func MustNew[S, E comparable](initial S, opts ...Option[S, E]) *Machine[S, E] {
	m, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// Current returns the current state.
func (m *Machine[S, E]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Is reports whether the machine is in state s.
func (m *Machine[S, E]) Is(s S) bool {
	return m.Current() == s
}

// AddTransition registers a transition. Several transitions may share the
// same from/event pair; the first whose guards pass wins.
func (m *Machine[S, E]) AddTransition(t Transition[S, E]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transitions[t.From]; !ok {
		m.transitions[t.From] = make(map[E][]Transition[S, E])
	}
	m.transitions[t.From][t.Event] = append(m.transitions[t.From][t.Event], t)
}

// Fire triggers event from the current state.
func (m *Machine[S, E]) Fire(ctx context.Context, event E) error {
	m.mu.Lock()
	from := m.current
	t, err := m.find(ctx, from, event)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	for _, action := range t.Actions {
		if action == nil {
			continue
		}
		if err := action(ctx, from, t.To, event); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("action failed: %w", err)
		}
	}

	m.current = t.To
	listeners := m.listeners
	m.mu.Unlock()

	// Listeners run outside the lock so they may read the machine.
	for _, l := range listeners {
		l(ctx, from, t.To, event)
	}
	return nil
}

// CanFire reports whether Fire(event) would find a permitted transition.
func (m *Machine[S, E]) CanFire(ctx context.Context, event E) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, err := m.find(ctx, m.current, event)
	return err == nil
}

// Reset returns the machine to its initial state without running actions.
func (m *Machine[S, E]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

// find must be called with the lock held.
func (m *Machine[S, E]) find(ctx context.Context, from S, event E) (*Transition[S, E], error) {
	candidates := m.transitions[from][event]
	if len(candidates) == 0 {
		return nil, &ErrNoTransitionAvailable{State: fmt.Sprint(from), Event: fmt.Sprint(event)}
	}

	for i := range candidates {
		if guardsPass(ctx, candidates[i], from, event) {
			return &candidates[i], nil
		}
	}
	return nil, &ErrTransitionRejected{State: fmt.Sprint(from), Event: fmt.Sprint(event)}
}

func guardsPass[S, E comparable](ctx context.Context, t Transition[S, E], from S, event E) bool {
	for _, guard := range t.Guards {
		if guard != nil && !guard(ctx, from, event) {
			return false
		}
	}
	return true
}

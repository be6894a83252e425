package statemachine

import "context"

// Action executes side effects during a transition. Returning an error
// aborts the transition and leaves the machine in its current state.
type Action[S, E comparable] func(ctx context.Context, from, to S, event E) error

// Guard decides whether a transition may proceed.
type Guard[S, E comparable] func(ctx context.Context, from S, event E) bool

// Listener observes completed transitions.
type Listener[S, E comparable] func(ctx context.Context, from, to S, event E)

// Transition defines a state change triggered by an event.
type Transition[S, E comparable] struct {
	From    S
	To      S
	Event   E
	Guards  []Guard[S, E]  // all must pass
	Actions []Action[S, E] // run in order before the state changes
}

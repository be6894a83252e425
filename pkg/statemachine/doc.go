// Package statemachine provides a small, generic finite-state machine.
//
// States and events are any comparable types, usually string-based named
// types:
//
//	type State string
//	type Event string
//
//	const (
//	    Uninitialized State = "uninitialized"
//	    Initializing  State = "initializing"
//	    Ready         State = "ready"
//	    Start         Event = "start"
//	    Finish        Event = "finish"
//	)
//
//	m := statemachine.MustNew(Uninitialized,
//	    statemachine.WithTransition[State, Event](Uninitialized, Initializing, Start),
//	    statemachine.WithTransition[State, Event](Initializing, Ready, Finish),
//	)
//	_ = m.Fire(ctx, Start)
//
// # Guards, Actions and Listeners
//
// Guards veto a transition, actions run before the state changes and can
// abort it by returning an error, listeners observe completed transitions
// and run outside the machine's lock.
//
// # Error Handling
//
//	if statemachine.IsNoTransitionAvailableError(err) { /* ... */ }
//	if statemachine.IsTransitionRejectedError(err)   { /* ... */ }
//
// # Concurrency
//
// Machine guards its state with a RWMutex: Current, Is and CanFire take the
// read lock, Fire, AddTransition and Reset the write lock.
package statemachine

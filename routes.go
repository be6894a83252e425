package trackkit

import (
	"maps"
	"slices"
	"sync"
)

// NavigationKind names what caused a navigation.
type NavigationKind string

const (
	NavigationLoad       NavigationKind = "load"
	NavigationPush       NavigationKind = "pushState"
	NavigationReplace    NavigationKind = "replaceState"
	NavigationPop        NavigationKind = "popstate"
	NavigationHashChange NavigationKind = "hashchange"
)

// Navigation is a notification that the host moved to another page.
// Empty page fields fall back to the session's page source.
type Navigation struct {
	Kind     NavigationKind
	URL      string
	Title    string
	Referrer string
}

// PageLoad reports whether the navigation is an initial page load.
func (n Navigation) PageLoad() bool { return n.Kind == NavigationLoad }

// NavigationSource is implemented by anything that can report navigations.
type NavigationSource interface {
	Subscribe(fn func(Navigation)) (unsubscribe func())
}

// Navigator is a host-driven NavigationSource. The host calls Notify
// whenever its router changes location.
type Navigator struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Navigation)
}

func NewNavigator() *Navigator {
	return &Navigator{subs: make(map[int]func(Navigation))}
}

// Subscribe registers fn. The returned function removes it and is safe to
// call more than once.
func (n *Navigator) Subscribe(fn func(Navigation)) func() {
	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

// Notify delivers nav to every subscriber synchronously, in subscription
// order.
func (n *Navigator) Notify(nav Navigation) {
	n.mu.RLock()
	ids := slices.Sorted(maps.Keys(n.subs))
	fns := make([]func(Navigation), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, n.subs[id])
	}
	n.mu.RUnlock()

	for _, fn := range fns {
		fn(nav)
	}
}

package trackkit

import (
	"context"
	"sync/atomic"
)

var defaultSession atomic.Pointer[Session]

// Init creates a session with New and makes it the default used by the
// package-level TrackEvent and PageVisited. A later Init replaces the
// default; the previous session is not closed.
func Init(ctx context.Context, cfg Config, opts ...Option) (*Session, error) {
	s, err := New(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	SetDefault(s)
	return s, nil
}

// Default returns the default session, or nil before Init.
func Default() *Session { return defaultSession.Load() }

// SetDefault replaces the default session. Nil clears it.
func SetDefault(s *Session) { defaultSession.Store(s) }

// TrackEvent tracks an event on the default session.
func TrackEvent(ctx context.Context, name string, data map[string]any, opts ...TrackOption) error {
	s := Default()
	if s == nil {
		return ErrNotInitialized
	}
	return s.TrackEvent(ctx, name, data, opts...)
}

// PageVisited reports a page visit on the default session.
func PageVisited(ctx context.Context, data map[string]any, opts ...TrackOption) error {
	s := Default()
	if s == nil {
		return ErrNotInitialized
	}
	return s.PageVisited(ctx, data, opts...)
}

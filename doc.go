// Package trackkit is a client-side analytics SDK. A Session establishes a
// durable client identity, performs a heartbeat handshake with a remote
// collector and ships page-view and custom events.
//
// # Initialization
//
// New (or Init, which also installs the session as the package default)
// validates the configuration, loads the persisted identity, resolves a
// fingerprint and performs the heartbeat:
//
//	s, err := trackkit.New(ctx, trackkit.Config{
//		ConsumerKey: "my-app",
//		AppVersion:  "2.3.0",
//	})
//	if err != nil {
//		return err // only a missing consumer key fails here
//	}
//	defer s.Close()
//
// Storage, fingerprint and heartbeat failures never fail initialization.
// They are logged and the session keeps tracking with whatever identity it
// has. A failed heartbeat means events are sent without a client id.
//
// # Tracking
//
//	err := s.TrackEvent(ctx, "checkout", map[string]any{"amount": 42})
//	err = s.PageVisited(ctx, map[string]any{
//		"meta": map[string]any{"pageTitle": "Cart"},
//	})
//
// Tracking errors wrap ErrTracking. A canceled context returns ErrCanceled.
// KindOf classifies any error returned by the SDK.
//
// # Persistence
//
// The identity is stored under the keys "uuId" and "signature" through
// pkg/persistence. In local-storage mode every write is mirrored to a
// cookie, and reads fall back to the cookie when local storage is empty or
// gone. WithStorage selects the local-storage backend (memory, JSON file,
// SQLite or Redis from pkg/storage) and WithCookieJar the cookie jar.
//
// # Route tracking
//
// With TrackAppRoutes set to AUTO and a NavigationSource supplied through
// WithNavigation, every navigation notification becomes a page visit:
//
//	nav := trackkit.NewNavigator()
//	s, _ := trackkit.New(ctx, cfg, trackkit.WithNavigation(nav))
//	nav.Notify(trackkit.Navigation{Kind: trackkit.NavigationLoad, URL: "https://example.com/"})
package trackkit

package trackkit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/trackkit/pkg/async"
	"github.com/dmitrymomot/trackkit/pkg/clientinfo"
	"github.com/dmitrymomot/trackkit/pkg/cookie"
	"github.com/dmitrymomot/trackkit/pkg/fingerprint"
	"github.com/dmitrymomot/trackkit/pkg/logger"
	"github.com/dmitrymomot/trackkit/pkg/persistence"
	"github.com/dmitrymomot/trackkit/pkg/statemachine"
	"github.com/dmitrymomot/trackkit/pkg/storage"
	"github.com/dmitrymomot/trackkit/pkg/transport"
)

// State is the lifecycle position of a session.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateReady         State = "ready"
)

type lifecycleEvent string

const (
	eventStart lifecycleEvent = "start"
	eventReady lifecycleEvent = "ready"
)

// Persisted keys, before the configured prefix is applied.
const (
	KeyUUID        = "uuId"
	KeySignature   = "signature"
	KeyAnonymousID = "anonymous_id"
)

// Identity is a snapshot of what the session knows about the client.
type Identity struct {
	// ClientID is assigned by the collector. Empty until a heartbeat
	// succeeds.
	ClientID  string
	Signature string
	// UUID is the legacy identifier kept for previously persisted clients.
	UUID        string
	Fingerprint string
}

// Session owns the configuration and identity of one tracked client and
// reports events on its behalf. Tracking methods are safe for concurrent
// use.
type Session struct {
	cfg        Config
	log        *slog.Logger
	store      *persistence.Store
	api        *transport.Client
	fp         fingerprint.Provider
	props      clientinfo.Provider
	page       PageSource
	metrics    *Metrics
	sdkVersion string
	lifecycle  *statemachine.Machine[State, lifecycleEvent]

	mu           sync.RWMutex
	identity     Identity
	handshakeErr error

	// ctx scopes work the session starts on its own, such as automatic
	// page visits. It is canceled by Close.
	ctx         context.Context
	cancel      context.CancelFunc
	closed      atomic.Bool
	closeOnce   sync.Once
	unsubscribe func()
}

// New validates cfg, loads any persisted identity, resolves the
// fingerprint and performs the heartbeat. Only a configuration error is
// returned: storage, fingerprint and heartbeat failures are logged and the
// session is still ready to track events.
func New(ctx context.Context, cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	o := &options{sdkVersion: Version}
	for _, opt := range opts {
		opt(o)
	}

	log := o.logger
	if log == nil {
		log = logger.New(logger.WithLevel(cfg.LogLevel), logger.WithPrefix(cfg.LogPrefix))
	}

	pageURL := ""
	if o.page != nil {
		if p, err := o.page.Page(ctx); err == nil {
			pageURL = p.URL
		}
	}

	s := &Session{
		cfg:        cfg,
		log:        log,
		fp:         o.fingerprint,
		props:      o.properties,
		page:       o.page,
		metrics:    o.metrics,
		sdkVersion: o.sdkVersion,
	}
	if !o.fpSet {
		s.fp = fingerprint.Host{}
	}
	if s.props == nil {
		s.props = clientinfo.Host{Product: LibName, Version: o.sdkVersion, CurrentURL: pageURL}
	}
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))

	s.store = newStore(ctx, cfg, o, pageURL, log)
	s.api = transport.New(cfg.Host,
		transport.WithHTTPClient(o.httpClient),
		transport.WithTimeout(cfg.Timeout),
		transport.WithUserAgent(LibName+"/"+o.sdkVersion),
		transport.WithOnResult(o.metrics.observe),
	)
	s.lifecycle = statemachine.MustNew[State, lifecycleEvent](StateUninitialized,
		statemachine.WithTransition[State, lifecycleEvent](StateUninitialized, StateInitializing, eventStart),
		statemachine.WithTransition[State, lifecycleEvent](StateInitializing, StateReady, eventReady),
		statemachine.WithListener[State, lifecycleEvent](func(ctx context.Context, from, to State, _ lifecycleEvent) {
			logger.Trace(ctx, s.log, "session state changed",
				slog.String("from", string(from)), slog.String("to", string(to)))
		}),
	)

	s.start(ctx)

	if cfg.TrackAppRoutes == RouteTrackingAuto && o.navigation != nil {
		s.unsubscribe = o.navigation.Subscribe(s.onNavigate)
	}
	return s, nil
}

// newStore builds the persistence store over the configured local
// storage and cookie jar.
func newStore(ctx context.Context, cfg Config, o *options, pageURL string, log *slog.Logger) *persistence.Store {
	local := o.storage
	if !o.storageSet {
		local = storage.NewMemory()
	}

	jar := o.jar
	if jar == nil {
		mj, err := cookie.NewMemoryJar(pageURL)
		if err != nil {
			mj, _ = cookie.NewMemoryJar("")
		}
		jar = mj
	}
	hostname := ""
	if h, ok := jar.(interface{ Hostname() string }); ok {
		hostname = h.Hostname()
	}

	return persistence.New(ctx, cfg.Persistence,
		persistence.WithPrefix(cfg.PersistenceKeyPrefix),
		persistence.WithLocalStorage(local),
		persistence.WithCookies(cookie.NewFromConfig(jar, cfg.cookieConfig(hostname))),
		persistence.WithLogger(log),
	)
}

// start runs the initialization sequence. The persisted identity and the
// fingerprint are loaded concurrently; the heartbeat waits for both.
func (s *Session) start(ctx context.Context) {
	if err := s.lifecycle.Fire(ctx, eventStart); err != nil {
		logger.Trace(ctx, s.log, "session already started", logger.Error(err))
		return
	}

	saved := async.Go(ctx, s.loadPersisted)
	clientFp := async.Go(ctx, func(ctx context.Context) (string, error) {
		return fingerprint.Resolve(ctx, s.fp, s.log), nil
	})

	id, err := saved.Await()
	if err != nil {
		s.log.InfoContext(ctx, "error loading saved data from local storage", logger.Error(err))
	}
	fp, err := clientFp.Await()
	if err != nil || (fp == "" && s.fp != nil) {
		s.log.ErrorContext(ctx, "error loading fingerprint", logger.Errors(ErrFingerprint, err))
	}

	s.mu.Lock()
	s.identity.UUID = id.UUID
	s.identity.Signature = id.Signature
	s.identity.Fingerprint = fp
	s.mu.Unlock()

	err = s.Heartbeat(ctx)
	s.mu.Lock()
	s.handshakeErr = err
	s.mu.Unlock()
	if err != nil {
		logger.Critical(ctx, s.log, "app initiation unsuccessful", logger.Error(err))
	} else {
		s.log.InfoContext(ctx, "app initiation successful", logger.ClientID(s.Identity().ClientID))
	}

	if err := s.lifecycle.Fire(ctx, eventReady); err != nil {
		logger.Trace(ctx, s.log, "session not marked ready", logger.Error(err))
	}
}

func (s *Session) loadPersisted(ctx context.Context) (Identity, error) {
	return Identity{
		UUID:      s.store.GetString(ctx, KeyUUID),
		Signature: s.store.GetString(ctx, KeySignature),
	}, nil
}

// Config returns the effective configuration, defaults applied.
func (s *Session) Config() Config { return s.cfg }

// State returns the lifecycle state. A session returned by New is Ready.
func (s *Session) State() State { return s.lifecycle.Current() }

// Backend returns the persistence backend in effect.
func (s *Session) Backend() persistence.Backend { return s.store.Backend() }

// Identity returns a copy of the current identity.
func (s *Session) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// HandshakeError returns the error of the heartbeat performed by New, or
// nil when it succeeded.
func (s *Session) HandshakeError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handshakeErr
}

// Close stops automatic route tracking and cancels automatic page visits
// in flight. Explicit tracking calls fail afterwards.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		s.cancel()
	})
	return nil
}

func (s *Session) onNavigate(nav Navigation) {
	ctx := s.ctx
	data := map[string]any{"meta": map[string]any{"pageLoad": nav.PageLoad()}}

	var opts []TrackOption
	if nav.URL != "" || nav.Title != "" || nav.Referrer != "" {
		opts = append(opts, WithPage(s.navigationPage(nav)))
	}
	if err := s.PageVisited(ctx, data, opts...); err != nil {
		s.log.DebugContext(ctx, "route change not tracked",
			slog.String("navigation", string(nav.Kind)), logger.Error(err))
	}
}

// navigationPage overlays the notification on the session's page source.
func (s *Session) navigationPage(nav Navigation) PageSource {
	return PageFunc(func(ctx context.Context) (Page, error) {
		var p Page
		if s.page != nil {
			if base, err := s.page.Page(ctx); err == nil {
				p = base
			}
		}
		if nav.URL != "" {
			p.URL = nav.URL
		}
		if nav.Title != "" {
			p.Title = nav.Title
		}
		if nav.Referrer != "" {
			p.Referrer = nav.Referrer
		}
		return p, nil
	})
}

package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/trackkit/pkg/cookie"
	"github.com/dmitrymomot/trackkit/pkg/logger"
	"github.com/dmitrymomot/trackkit/pkg/storage"
)

// Store reads and writes prefixed values through the selected backend.
// It never returns errors: failures are logged and degrade to nil reads
// and dropped writes.
type Store struct {
	requested Backend
	mode      Backend
	prefix    string
	local     storage.Storage
	cookies   *cookie.Manager
	log       *slog.Logger
}

type Option func(*Store)

// WithPrefix sets the key prefix applied before every backend access.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithLocalStorage sets the primary key/value backend.
func WithLocalStorage(st storage.Storage) Option {
	return func(s *Store) { s.local = st }
}

// WithCookies sets the cookie manager used in cookie mode and for shadow
// writes in local-storage mode.
func WithCookies(m *cookie.Manager) Option {
	return func(s *Store) { s.cookies = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New selects the effective backend once. Cookie mode is used when
// requested or when local storage is missing or unsupported. Unknown
// backends are logged at CRITICAL and treated as LocalStorage.
func New(ctx context.Context, backend Backend, opts ...Option) *Store {
	s := &Store{
		requested: backend,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("persistence"))

	if !backend.Valid() {
		logger.Critical(ctx, s.log, "unknown persistence type", logger.Backend(string(backend)))
		backend = LocalStorage
	}

	switch {
	case backend == None:
		s.mode = None
	case backend == Cookie:
		s.mode = Cookie
	case s.local == nil || !s.local.Supported():
		s.log.ErrorContext(ctx, "local storage unsupported; falling back to cookie store")
		s.mode = Cookie
	default:
		s.mode = LocalStorage
	}

	if s.mode == Cookie && s.cookies == nil {
		s.log.WarnContext(ctx, "no cookie jar configured; values will not persist")
	}
	return s
}

// Backend returns the effective backend.
func (s *Store) Backend() Backend { return s.mode }

// Prefix returns the key prefix.
func (s *Store) Prefix() string { return s.prefix }

// Set stores value under key. Nil and empty values are dropped. Structured
// values are stored as JSON in local storage and never written to cookies.
func (s *Store) Set(ctx context.Context, key string, value any) {
	if s.mode == None {
		return
	}
	key = s.prefix + key

	text, structured, ok, err := encode(value)
	if err != nil {
		s.fail(ctx, "encode value", key, err)
		return
	}
	if !ok {
		return
	}

	if s.mode == LocalStorage {
		if err := s.local.SetItem(ctx, key, text); err != nil {
			s.fail(ctx, "local storage set", key, err)
		}
	}

	// Local-storage mode mirrors every write into a cookie so the value is
	// still readable if local storage goes away.
	if structured {
		logger.Trace(ctx, s.log, "structured value not stored in cookie", logger.Key(key))
		return
	}
	s.setCookie(ctx, key, text)
}

// Get returns the stored value, or nil. Text starting with '{' or '[' is
// decoded as JSON.
func (s *Store) Get(ctx context.Context, key string) any {
	text := s.GetString(ctx, key)
	v, err := decode(text)
	if err != nil {
		s.fail(ctx, "decode value", s.prefix+key, err)
		return nil
	}
	return v
}

// GetString returns the stored text without decoding, or "".
func (s *Store) GetString(ctx context.Context, key string) string {
	if s.mode == None {
		return ""
	}
	key = s.prefix + key

	if s.mode == LocalStorage {
		if v, err := s.local.GetItem(ctx, key); err != nil {
			s.fail(ctx, "local storage get", key, err)
		} else if v != "" {
			return v
		}
	}
	return s.getCookie(ctx, key)
}

// Clear removes key. An empty key removes every entry under the prefix.
func (s *Store) Clear(ctx context.Context, key string) {
	if s.mode == None {
		return
	}
	if key == "" {
		s.clearAll(ctx)
		return
	}
	key = s.prefix + key

	if s.mode == LocalStorage {
		if err := s.local.RemoveItem(ctx, key); err != nil {
			s.fail(ctx, "local storage remove", key, err)
		}
	}
	if s.cookies != nil {
		if err := s.cookies.Delete(ctx, key); err != nil {
			s.fail(ctx, "cookie remove", key, err)
		}
	}
}

func (s *Store) clearAll(ctx context.Context) {
	if s.mode == LocalStorage {
		if err := s.clearLocal(ctx); err != nil {
			s.fail(ctx, "local storage clear", s.prefix, err)
		}
	}
	if s.cookies != nil {
		if err := s.cookies.Clear(ctx, s.prefix); err != nil {
			s.fail(ctx, "cookie clear", s.prefix, err)
		}
	}
}

func (s *Store) clearLocal(ctx context.Context) error {
	if s.prefix == "" {
		return s.local.Clear(ctx)
	}
	lister, ok := s.local.(storage.Lister)
	if !ok {
		return fmt.Errorf("backend cannot list keys for prefix %q", s.prefix)
	}
	keys, err := lister.Keys(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, k := range keys {
		if strings.HasPrefix(k, s.prefix) {
			errs = append(errs, s.local.RemoveItem(ctx, k))
		}
	}
	return errors.Join(errs...)
}

func (s *Store) setCookie(ctx context.Context, key, text string) {
	if s.cookies == nil {
		return
	}
	if err := s.cookies.Set(ctx, key, text); err != nil {
		s.fail(ctx, "cookie set", key, err)
	}
}

func (s *Store) getCookie(ctx context.Context, key string) string {
	if s.cookies == nil {
		return ""
	}
	v, err := s.cookies.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cookie.ErrCookieNotFound) {
			s.fail(ctx, "cookie get", key, err)
		}
		return ""
	}
	return v
}

func (s *Store) fail(ctx context.Context, op, key string, err error) {
	s.log.ErrorContext(ctx, op+" failed",
		logger.Key(key),
		logger.Backend(s.mode.String()),
		logger.Error(fmt.Errorf("%w: %w", ErrStorage, err)),
	)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dmitrymomot/trackkit"
	"github.com/dmitrymomot/trackkit/pkg/clientinfo"
	"github.com/dmitrymomot/trackkit/pkg/cookie"
	"github.com/dmitrymomot/trackkit/pkg/logger"
	"github.com/dmitrymomot/trackkit/pkg/redis"
	"github.com/dmitrymomot/trackkit/pkg/storage"
)

// Local storage backends selectable with --storage.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// runtime owns the resources a command opens.
type runtime struct {
	settings Settings
	log      *slog.Logger
	out      *OutputFormatter
	closers  []func() error
}

func newRuntime(opts *RootOptions, cmd *cobra.Command) (*runtime, error) {
	settings, err := loadSettings(opts, cmd, nil)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	rt := &runtime{
		settings: settings,
		out:      &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()},
	}
	rt.log = rt.newLogger(opts, cmd.ErrOrStderr(), settings.LogLevel)
	return rt, nil
}

// newLogger writes to w, or to a rotated file when --log-file is set.
func (rt *runtime) newLogger(opts *RootOptions, w io.Writer, level logger.Level) *slog.Logger {
	if opts.LogFile != "" {
		lj := &closeOnceWriter{w: &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    5, // MB
			MaxBackups: 1,
		}}
		rt.closers = append(rt.closers, lj.Close)
		w = lj
	}
	format := logger.FormatText
	if opts.Format == "json" {
		format = logger.FormatJSON
	}
	prefix := rt.settings.LogPrefix
	if prefix == "" {
		prefix = trackkit.DefaultLogPrefix
	}
	return logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(w),
		logger.WithPrefix(prefix),
	)
}

// Close releases every resource in reverse order of acquisition.
func (rt *runtime) Close() error {
	var errs []error
	for _, c := range slices.Backward(rt.closers) {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// openStorage opens the configured local storage backend.
func (rt *runtime) openStorage(ctx context.Context) (storage.Storage, error) {
	cfg := rt.settings.Storage
	switch cfg.Backend {
	case StorageFile, "":
		f, err := storage.NewFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		return f, nil
	case StorageSQLite:
		path := cfg.Path
		if path == "" {
			p, err := storage.DefaultFilePath("storage.db")
			if err != nil {
				return nil, err
			}
			path = p
		}
		db, err := storage.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, db.Close)
		return db, nil
	case StorageRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		st := storage.NewRedis(client, cfg.Redis.Namespace)
		rt.closers = append(rt.closers, st.Close)
		return st, nil
	case StorageMemory:
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// openCookieJar returns a file jar next to the local storage, or a memory
// jar when nothing is meant to outlive the process.
func (rt *runtime) openCookieJar() (cookie.Jar, error) {
	cfg := rt.settings.Storage
	if cfg.Backend == StorageMemory {
		jar, err := cookie.NewMemoryJar("")
		if err != nil {
			return nil, err
		}
		return jar, nil
	}
	path := cfg.CookieJar
	if path == "" {
		p, err := storage.DefaultFilePath("cookies.json")
		if err != nil {
			return nil, err
		}
		path = p
	}
	jar, err := cookie.NewFileJar(path)
	if err != nil {
		return nil, err
	}
	return jar, nil
}

// openSession initializes the SDK, which performs the heartbeat.
func (rt *runtime) openSession(ctx context.Context, opts ...trackkit.Option) (*trackkit.Session, error) {
	st, err := rt.openStorage(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open local storage", err)
	}
	jar, err := rt.openCookieJar()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open cookie jar", err)
	}

	base := []trackkit.Option{
		trackkit.WithLogger(rt.log),
		trackkit.WithStorage(st),
		trackkit.WithCookieJar(jar),
		trackkit.WithPropertiesProvider(clientinfo.Host{Product: trackkit.LibName + "-cli", Version: trackkit.Version}),
	}
	s, err := trackkit.New(ctx, rt.settings.Config, append(base, opts...)...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "initialize", err)
	}
	rt.closers = append(rt.closers, s.Close)
	return s, nil
}

// closeOnceWriter refuses writes after Close, since lumberjack reopens its
// file on every write.
type closeOnceWriter struct {
	mu     sync.Mutex
	w      io.WriteCloser
	closed bool
}

func (c *closeOnceWriter) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, io.ErrClosedPipe
	}
	return c.w.Write(p)
}

func (c *closeOnceWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.w.Close()
}

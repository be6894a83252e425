package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"
)

const lockRetryDelay = 50 * time.Millisecond

// DefaultFilePath returns $XDG_DATA_HOME/trackkit/<name>, creating the
// parent directory when needed.
func DefaultFilePath(name string) (string, error) {
	return xdg.DataFile(filepath.Join("trackkit", name))
}

// File persists items as a single JSON object. Every operation re-reads the
// file under an advisory lock, so several processes can share it. Writes
// replace the file atomically.
type File struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

// NewFile opens a file store at path. An empty path selects
// DefaultFilePath("storage.json").
func NewFile(path string) (*File, error) {
	if path == "" {
		p, err := DefaultFilePath("storage.json")
		if err != nil {
			return nil, fmt.Errorf("resolve default storage path: %w", err)
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &File{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the data file location.
func (f *File) Path() string { return f.path }

func (f *File) Supported() bool {
	dir := filepath.Dir(f.path)
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

func (f *File) GetItem(ctx context.Context, key string) (string, error) {
	var value string
	err := f.withLock(ctx, false, func(items map[string]string) (bool, error) {
		value = items[key]
		return false, nil
	})
	return value, err
}

func (f *File) SetItem(ctx context.Context, key, value string) error {
	return f.withLock(ctx, true, func(items map[string]string) (bool, error) {
		if cur, ok := items[key]; ok && cur == value {
			return false, nil
		}
		items[key] = value
		return true, nil
	})
}

func (f *File) RemoveItem(ctx context.Context, key string) error {
	return f.withLock(ctx, true, func(items map[string]string) (bool, error) {
		if _, ok := items[key]; !ok {
			return false, nil
		}
		delete(items, key)
		return true, nil
	})
}

func (f *File) Clear(ctx context.Context) error {
	return f.withLock(ctx, true, func(items map[string]string) (bool, error) {
		if len(items) == 0 {
			return false, nil
		}
		clear(items)
		return true, nil
	})
}

func (f *File) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := f.withLock(ctx, false, func(items map[string]string) (bool, error) {
		keys = slices.Sorted(maps.Keys(items))
		return false, nil
	})
	return keys, err
}

// withLock loads the document under the file lock, runs fn and writes the
// document back when fn reports a change.
func (f *File) withLock(ctx context.Context, exclusive bool, fn func(map[string]string) (bool, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = f.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		ok, err = f.lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return errors.Join(ErrLocked, err)
	}
	if !ok {
		return ErrLocked
	}
	defer func() { _ = f.lock.Unlock() }()

	items, err := f.read()
	if err != nil {
		return err
	}

	changed, err := fn(items)
	if err != nil || !changed {
		return err
	}
	return f.write(items)
}

func (f *File) read() (map[string]string, error) {
	items := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return items, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Join(ErrCorrupted, err)
	}
	return items, nil
}

func (f *File) write(items map[string]string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage file: %w", err)
	}
	if err := atomic.WriteFile(f.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}
	return nil
}

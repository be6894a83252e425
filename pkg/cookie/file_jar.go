package cookie

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"
)

type storedCookie struct {
	Name     string        `json:"name"`
	Value    string        `json:"value"`
	Domain   string        `json:"domain,omitempty"`
	Path     string        `json:"path,omitempty"`
	Expires  time.Time     `json:"expires,omitzero"`
	Secure   bool          `json:"secure,omitempty"`
	HttpOnly bool          `json:"http_only,omitempty"`
	SameSite http.SameSite `json:"same_site,omitempty"`
}

// FileJar keeps cookies in a JSON file so they outlive the process, the
// way a browser profile does. The file is shared safely between processes.
type FileJar struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
	now  func() time.Time
}

func NewFileJar(path string) (*FileJar, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty cookie jar path", ErrInvalidFormat)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create cookie jar directory: %w", err)
	}
	return &FileJar{
		path: path,
		lock: flock.New(path + ".lock"),
		now:  time.Now,
	}, nil
}

func (j *FileJar) Cookies(ctx context.Context) ([]*http.Cookie, error) {
	var out []*http.Cookie
	err := j.update(ctx, func(stored []storedCookie) ([]storedCookie, bool) {
		for _, s := range stored {
			out = append(out, &http.Cookie{Name: s.Name, Value: s.Value})
		}
		return stored, false
	})
	return out, err
}

func (j *FileJar) SetCookie(ctx context.Context, c *http.Cookie) error {
	if err := c.Valid(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return j.update(ctx, func(stored []storedCookie) ([]storedCookie, bool) {
		stored = slices.DeleteFunc(stored, func(s storedCookie) bool { return s.Name == c.Name })
		if !expired(c, j.now()) {
			stored = append(stored, storedCookie{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Expires:  c.Expires,
				Secure:   c.Secure,
				HttpOnly: c.HttpOnly,
				SameSite: c.SameSite,
			})
		}
		return stored, true
	})
}

// update loads the live cookies under the file lock, lets fn edit them and
// writes the result back when fn reports a change.
func (j *FileJar) update(ctx context.Context, fn func([]storedCookie) ([]storedCookie, bool)) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	ok, err := j.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return errors.Join(ErrJarLocked, err)
	}
	if !ok {
		return ErrJarLocked
	}
	defer func() { _ = j.lock.Unlock() }()

	stored, err := j.read()
	if err != nil {
		return err
	}

	now := j.now()
	live := slices.DeleteFunc(stored, func(s storedCookie) bool {
		return !s.Expires.IsZero() && !s.Expires.After(now)
	})
	pruned := len(live) != len(stored)

	next, changed := fn(live)
	if !changed && !pruned {
		return nil
	}
	return j.write(next)
}

func (j *FileJar) read() ([]storedCookie, error) {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cookie jar: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, errors.Join(ErrInvalidFormat, err)
	}
	return stored, nil
}

func (j *FileJar) write(stored []storedCookie) error {
	if stored == nil {
		stored = []storedCookie{}
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cookie jar: %w", err)
	}
	if err := atomic.WriteFile(j.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write cookie jar: %w", err)
	}
	return nil
}

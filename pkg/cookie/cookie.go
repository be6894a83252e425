package cookie

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

// Jar is where cookies live: a browser-like cookie store, a file, or an
// HTTP request/response pair.
type Jar interface {
	// Cookies returns the cookies currently visible. Expired cookies are
	// never returned.
	Cookies(ctx context.Context) ([]*http.Cookie, error)
	// SetCookie stores c. A cookie with MaxAge < 0 or an Expires in the past
	// removes the stored cookie with the same name.
	SetCookie(ctx context.Context, c *http.Cookie) error
}

type Manager struct {
	jar      Jar
	defaults Options
	now      func() time.Time
}

// New creates a manager writing to jar. Defaults: path "/", SameSite Lax,
// no expiration.
func New(jar Jar, opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{
		jar:      jar,
		defaults: applyOptions(defaults, opts),
		now:      time.Now,
	}
}

// Jar returns the underlying jar.
func (m *Manager) Jar() Jar { return m.jar }

// Set writes a cookie. Values are percent-encoded. An empty value is
// ignored, matching the browser SDK.
func (m *Manager) Set(ctx context.Context, name, value string, opts ...Option) error {
	if name == "" {
		return fmt.Errorf("%w: empty cookie name", ErrInvalidFormat)
	}
	if value == "" {
		return nil
	}
	return m.jar.SetCookie(ctx, m.build(name, url.PathEscape(value), applyOptions(m.defaults, opts)))
}

// Get returns the decoded value of the named cookie.
func (m *Manager) Get(ctx context.Context, name string) (string, error) {
	cookies, err := m.jar.Cookies(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range cookies {
		if c.Name != name {
			continue
		}
		if v, err := url.PathUnescape(c.Value); err == nil {
			return v, nil
		}
		return c.Value, nil
	}
	return "", ErrCookieNotFound
}

// Delete expires the named cookie using the same scoping rules as Set.
func (m *Manager) Delete(ctx context.Context, name string, opts ...Option) error {
	options := applyOptions(m.defaults, opts)
	c := m.build(name, "", options)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return m.jar.SetCookie(ctx, c)
}

// Names lists the visible cookie names in sorted order.
func (m *Manager) Names(ctx context.Context) ([]string, error) {
	cookies, err := m.jar.Cookies(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cookies))
	for _, c := range cookies {
		names = append(names, c.Name)
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// Clear deletes every visible cookie whose name starts with prefix.
func (m *Manager) Clear(ctx context.Context, prefix string, opts ...Option) error {
	names, err := m.Names(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			errs = append(errs, m.Delete(ctx, name, opts...))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) build(name, value string, o Options) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.domain(),
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	}
	if o.ExpirationDays != 0 {
		c.Expires = m.now().Add(time.Duration(o.ExpirationDays) * 24 * time.Hour).UTC()
	}
	if o.CrossSite {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

// expired reports whether c is a deletion or has run out.
func expired(c *http.Cookie, now time.Time) bool {
	if c.MaxAge < 0 {
		return true
	}
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

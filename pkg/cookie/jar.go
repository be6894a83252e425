package cookie

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

// DefaultPageURL is the page MemoryJar scopes cookies to when none is given.
const DefaultPageURL = "https://localhost/"

// MemoryJar behaves like a browser tab's cookie store: cookies are scoped to
// a page URL with domain, path, secure and expiry rules applied by
// net/http/cookiejar and the public suffix list.
type MemoryJar struct {
	mu   sync.RWMutex
	jar  *cookiejar.Jar
	page *url.URL
}

// NewMemoryJar creates an empty jar for pageURL ("" selects DefaultPageURL).
func NewMemoryJar(pageURL string) (*MemoryJar, error) {
	if pageURL == "" {
		pageURL = DefaultPageURL
	}
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, pageURL)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	return &MemoryJar{jar: jar, page: u}, nil
}

// Navigate moves the jar to another page, like following a link.
func (j *MemoryJar) Navigate(pageURL string) error {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, pageURL)
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.page = u
	return nil
}

// Hostname returns the current page's host without port.
func (j *MemoryJar) Hostname() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.page.Hostname()
}

func (j *MemoryJar) Cookies(context.Context) ([]*http.Cookie, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jar.Cookies(j.page), nil
}

func (j *MemoryJar) SetCookie(_ context.Context, c *http.Cookie) error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	j.jar.SetCookies(j.page, []*http.Cookie{c})
	return nil
}

// HTTPJar adapts a server request/response pair. Reads see the request's
// cookies overlaid with whatever has been written during this request.
type HTTPJar struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	r       *http.Request
	written map[string]*http.Cookie
	now     func() time.Time
}

func NewHTTPJar(w http.ResponseWriter, r *http.Request) *HTTPJar {
	return &HTTPJar{
		w:       w,
		r:       r,
		written: make(map[string]*http.Cookie),
		now:     time.Now,
	}
}

// Hostname returns the request host without port.
func (j *HTTPJar) Hostname() string {
	if j.r == nil {
		return ""
	}
	host := j.r.Host
	if u, err := url.Parse("//" + host); err == nil {
		return u.Hostname()
	}
	return host
}

func (j *HTTPJar) Cookies(context.Context) ([]*http.Cookie, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var out []*http.Cookie
	seen := make(map[string]bool)
	for name, c := range j.written {
		seen[name] = true
		if !expired(c, j.now()) {
			out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	if j.r != nil {
		for _, c := range j.r.Cookies() {
			if !seen[c.Name] {
				seen[c.Name] = true
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (j *HTTPJar) SetCookie(_ context.Context, c *http.Cookie) error {
	if err := c.Valid(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.w != nil {
		http.SetCookie(j.w, c)
	}
	j.written[c.Name] = c
	return nil
}

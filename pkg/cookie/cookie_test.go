package cookie_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trackkit/pkg/cookie"
)

// recordingJar keeps the raw cookies handed to SetCookie.
type recordingJar struct {
	set []*http.Cookie
}

func (j *recordingJar) Cookies(context.Context) ([]*http.Cookie, error) {
	var out []*http.Cookie
	for _, c := range j.set {
		if c.MaxAge >= 0 {
			out = append(out, c)
		}
	}
	return out, nil
}

func (j *recordingJar) SetCookie(_ context.Context, c *http.Cookie) error {
	j.set = append(j.set, c)
	return nil
}

func TestManager_Attributes(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		jar := &recordingJar{}
		m := cookie.New(jar)
		require.NoError(t, m.Set(ctx, "uuId", "abc-123"))

		require.Len(t, jar.set, 1)
		c := jar.set[0]
		assert.Equal(t, "/", c.Path)
		assert.Empty(t, c.Domain)
		assert.True(t, c.Expires.IsZero())
		assert.False(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	})

	t.Run("cross subdomain uses registrable domain", func(t *testing.T) {
		jar := &recordingJar{}
		m := cookie.New(jar, cookie.WithHostname("my.sub.example.co.uk"), cookie.WithCrossSubdomain(true))
		require.NoError(t, m.Set(ctx, "k", "v"))
		assert.Equal(t, ".example.co.uk", jar.set[0].Domain)
	})

	t.Run("domain override wins", func(t *testing.T) {
		jar := &recordingJar{}
		m := cookie.New(jar,
			cookie.WithHostname("app.example.com"),
			cookie.WithCrossSubdomain(true),
			cookie.WithDomain("tracking.example.com"),
		)
		require.NoError(t, m.Set(ctx, "k", "v"))
		assert.Equal(t, "tracking.example.com", jar.set[0].Domain)
	})

	t.Run("cross site forces secure and SameSite none", func(t *testing.T) {
		jar := &recordingJar{}
		m := cookie.New(jar, cookie.WithCrossSite(true))
		require.NoError(t, m.Set(ctx, "k", "v"))
		assert.True(t, jar.set[0].Secure)
		assert.Equal(t, http.SameSiteNoneMode, jar.set[0].SameSite)
	})

	t.Run("expiration in days", func(t *testing.T) {
		jar := &recordingJar{}
		m := cookie.New(jar, cookie.WithExpirationDays(365))
		before := time.Now()
		require.NoError(t, m.Set(ctx, "k", "v"))
		assert.WithinDuration(t, before.Add(365*24*time.Hour), jar.set[0].Expires, time.Minute)
	})

	t.Run("empty value is ignored", func(t *testing.T) {
		jar := &recordingJar{}
		m := cookie.New(jar)
		require.NoError(t, m.Set(ctx, "k", ""))
		assert.Empty(t, jar.set)
	})

	t.Run("values are percent encoded", func(t *testing.T) {
		jar := &recordingJar{}
		m := cookie.New(jar)
		require.NoError(t, m.Set(ctx, "k", "a b;c"))
		assert.Equal(t, "a%20b%3Bc", jar.set[0].Value)

		v, err := m.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "a b;c", v)
	})
}

func TestRegistrableDomain(t *testing.T) {
	tests := map[string]string{
		"my.sub.example.com":  "example.com",
		"example.org":         "example.org",
		"shop.example.co.uk":  "example.co.uk",
		"localhost":           "",
		"127.0.0.1":           "",
		"co.uk":               "",
		"":                    "",
		"Tracking.Example.IO": "example.io",
	}
	for host, want := range tests {
		t.Run(host, func(t *testing.T) {
			assert.Equal(t, want, cookie.RegistrableDomain(host))
		})
	}
}

func TestMemoryJar(t *testing.T) {
	ctx := context.Background()

	jar, err := cookie.NewMemoryJar("https://app.example.com/home")
	require.NoError(t, err)
	m := cookie.New(jar, cookie.WithHostname(jar.Hostname()), cookie.WithCrossSubdomain(true), cookie.WithExpirationDays(1))

	require.NoError(t, m.Set(ctx, "uuId", "abc-123"))
	require.NoError(t, m.Set(ctx, "signature", "s1"))

	v, err := m.Get(ctx, "uuId")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", v)

	// Domain cookies follow the visitor to sibling subdomains.
	require.NoError(t, jar.Navigate("https://www.example.com/"))
	v, err = m.Get(ctx, "uuId")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", v)

	names, err := m.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"signature", "uuId"}, names)

	require.NoError(t, m.Delete(ctx, "uuId"))
	_, err = m.Get(ctx, "uuId")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)

	require.NoError(t, m.Clear(ctx, ""))
	names, err = m.Names(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = cookie.NewMemoryJar("not a url")
	assert.ErrorIs(t, err, cookie.ErrInvalidURL)
}

func TestFileJar(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cookies.json")

	jar, err := cookie.NewFileJar(path)
	require.NoError(t, err)
	m := cookie.New(jar, cookie.WithExpirationDays(30))

	require.NoError(t, m.Set(ctx, "tk_uuId", "u1"))
	require.NoError(t, m.Set(ctx, "other", "x"))

	reopened, err := cookie.NewFileJar(path)
	require.NoError(t, err)
	m2 := cookie.New(reopened)

	v, err := m2.Get(ctx, "tk_uuId")
	require.NoError(t, err)
	assert.Equal(t, "u1", v)

	require.NoError(t, m2.Clear(ctx, "tk_"))
	names, err := m.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, names)

	// Cookies already past their expiry are dropped on write.
	require.NoError(t, m.Set(ctx, "stale", "x", cookie.WithExpirationDays(-1)))
	_, err = m.Get(ctx, "stale")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestHTTPJar(t *testing.T) {
	ctx := context.Background()

	r := httptest.NewRequest(http.MethodGet, "https://shop.example.com:8443/cart", nil)
	r.AddCookie(&http.Cookie{Name: "uuId", Value: "from-request"})
	r.AddCookie(&http.Cookie{Name: "signature", Value: "old"})
	w := httptest.NewRecorder()

	jar := cookie.NewHTTPJar(w, r)
	assert.Equal(t, "shop.example.com", jar.Hostname())

	m := cookie.New(jar, cookie.WithHostname(jar.Hostname()), cookie.WithCrossSubdomain(true))

	v, err := m.Get(ctx, "uuId")
	require.NoError(t, err)
	assert.Equal(t, "from-request", v)

	require.NoError(t, m.Set(ctx, "signature", "new"))
	v, err = m.Get(ctx, "signature")
	require.NoError(t, err)
	assert.Equal(t, "new", v)

	require.NoError(t, m.Delete(ctx, "uuId"))
	_, err = m.Get(ctx, "uuId")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)

	setCookies := w.Result().Cookies()
	require.Len(t, setCookies, 2)
	assert.Equal(t, "signature", setCookies[0].Name)
	assert.Equal(t, "example.com", setCookies[0].Domain)
	assert.Equal(t, "uuId", setCookies[1].Name)
	assert.Equal(t, -1, setCookies[1].MaxAge)
}

func TestNewFromConfig(t *testing.T) {
	jar := &recordingJar{}
	cfg := cookie.DefaultConfig()
	cfg.Hostname = "a.example.com"
	cfg.Secure = true

	m := cookie.NewFromConfig(jar, cfg)
	require.NoError(t, m.Set(context.Background(), "k", "v"))

	c := jar.set[0]
	assert.Equal(t, ".example.com", c.Domain)
	assert.True(t, c.Secure)
	assert.WithinDuration(t, time.Now().Add(365*24*time.Hour), c.Expires, time.Minute)
}

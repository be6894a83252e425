// Package cookie manages the cookies the tracker uses as its secondary
// persistence layer.
//
// A Manager writes and reads cookies through a Jar. The jar decides where
// cookies actually live:
//
//   - MemoryJar: a browser-like store scoped to a page URL, with domain,
//     path, secure and expiry rules from net/http/cookiejar.
//   - FileJar: a JSON file shared between processes, for CLIs and daemons
//     that need cookies to survive restarts.
//   - HTTPJar: the cookies of an incoming *http.Request, with writes sent
//     back as Set-Cookie headers on the response.
//
// # Usage
//
//	jar, _ := cookie.NewMemoryJar("https://app.example.com/")
//	m := cookie.New(jar,
//	    cookie.WithHostname(jar.Hostname()),
//	    cookie.WithCrossSubdomain(true), // Domain=.example.com
//	    cookie.WithExpirationDays(365),
//	)
//	_ = m.Set(ctx, "uuId", "abc-123")
//	v, err := m.Get(ctx, "uuId")
//
// Cross-site cookies are always Secure with SameSite=None. An explicit
// domain wins over cross-subdomain scoping. Values are percent-encoded on
// write and decoded on read; empty values are not written.
//
// # Errors
//
// Get returns ErrCookieNotFound for missing cookies. Jars report
// ErrInvalidFormat for cookies net/http would reject.
package cookie

package cookie

import (
	"net"
	"net/http"
	"strings"

	"golang.org/x/net/publicsuffix"
)

type Options struct {
	Path     string
	Hostname string // host the cookie is written for; used for cross-subdomain scoping
	Domain   string // explicit domain; wins over CrossSubdomain
	// CrossSubdomain scopes the cookie to ".<registrable domain>" of Hostname.
	CrossSubdomain bool
	ExpirationDays int // 0 means a session cookie
	Secure         bool
	// CrossSite sends the cookie with SameSite=None, which implies Secure.
	CrossSite bool
	HttpOnly  bool
	SameSite  http.SameSite
}

type Option func(*Options)

func WithPath(path string) Option {
	return func(o *Options) {
		o.Path = path
	}
}

func WithHostname(hostname string) Option {
	return func(o *Options) {
		o.Hostname = hostname
	}
}

func WithDomain(domain string) Option {
	return func(o *Options) {
		o.Domain = domain
	}
}

func WithCrossSubdomain(enabled bool) Option {
	return func(o *Options) {
		o.CrossSubdomain = enabled
	}
}

func WithExpirationDays(days int) Option {
	return func(o *Options) {
		o.ExpirationDays = days
	}
}

func WithSecure(secure bool) Option {
	return func(o *Options) {
		o.Secure = secure
	}
}

func WithCrossSite(enabled bool) Option {
	return func(o *Options) {
		o.CrossSite = enabled
	}
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) {
		o.HttpOnly = httpOnly
	}
}

func WithSameSite(sameSite http.SameSite) Option {
	return func(o *Options) {
		o.SameSite = sameSite
	}
}

// applyOptions copies base and applies opts to the copy.
func applyOptions(base Options, opts []Option) Options {
	result := base
	for _, opt := range opts {
		opt(&result)
	}
	return result
}

// domain returns the Domain attribute for the options, or "" for a
// host-only cookie.
func (o Options) domain() string {
	if o.Domain != "" {
		return o.Domain
	}
	if o.CrossSubdomain {
		if d := RegistrableDomain(o.Hostname); d != "" {
			return "." + d
		}
	}
	return ""
}

// RegistrableDomain returns the eTLD+1 of hostname ("my.sub.example.co.uk"
// -> "example.co.uk"). It returns "" for IPs, single-label hosts and
// public suffixes.
func RegistrableDomain(hostname string) string {
	hostname = strings.TrimSuffix(strings.ToLower(hostname), ".")
	if hostname == "" || !strings.Contains(hostname, ".") || net.ParseIP(hostname) != nil {
		return ""
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(hostname)
	if err != nil {
		return ""
	}
	return d
}

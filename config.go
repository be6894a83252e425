package trackkit

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/trackkit/pkg/config"
	"github.com/dmitrymomot/trackkit/pkg/cookie"
	"github.com/dmitrymomot/trackkit/pkg/logger"
	"github.com/dmitrymomot/trackkit/pkg/persistence"
)

const (
	// DefaultBaseURL is the collector used when Config.Host is empty.
	DefaultBaseURL = "https://apib-kwt.almullaexchange.com"
	// ServletPath is appended to DefaultBaseURL.
	ServletPath = "/xms/api/v1"
	// DefaultHost is the full collector prefix used when Config.Host is empty.
	DefaultHost = DefaultBaseURL + ServletPath

	DefaultCookieExpirationDays = 365
	DefaultTimeout              = 30 * time.Second

	// EnvPrefix prefixes every environment variable read by ConfigFromEnv.
	EnvPrefix = "TRACKKIT_"
)

// RouteTrackingMode controls whether navigation notifications are turned
// into page-visit events automatically.
type RouteTrackingMode string

const (
	RouteTrackingAuto   RouteTrackingMode = "AUTO"
	RouteTrackingManual RouteTrackingMode = "MANUAL"
)

// ParseRouteTrackingMode is case-insensitive. Anything other than AUTO
// yields MANUAL.
func ParseRouteTrackingMode(s string) RouteTrackingMode {
	if RouteTrackingMode(strings.ToUpper(strings.TrimSpace(s))) == RouteTrackingAuto {
		return RouteTrackingAuto
	}
	return RouteTrackingManual
}

func (m RouteTrackingMode) String() string { return string(m) }

// UnmarshalText never fails: invalid values coerce to MANUAL.
func (m *RouteTrackingMode) UnmarshalText(text []byte) error {
	*m = ParseRouteTrackingMode(string(text))
	return nil
}

// Config is the immutable configuration of a session.
type Config struct {
	ConsumerKey     string `env:"CONSUMER_KEY" yaml:"consumer_key"`
	AppVersion      string `env:"APP_VERSION" yaml:"app_version"`
	Host            string `env:"HOST" yaml:"host"`
	DisableReferrer bool   `env:"DISABLE_REFERRER" yaml:"disable_referrer"`

	Persistence          persistence.Backend `env:"PERSISTENCE" yaml:"persistence"`
	PersistenceKeyPrefix string              `env:"PERSISTENCE_KEY_PREFIX" yaml:"persistence_key_prefix"`

	CrossSiteCookie bool `env:"CROSS_SITE_COOKIE" yaml:"cross_site_cookie"`
	// CrossSubdomainCookie defaults to true when nil.
	CrossSubdomainCookie *bool  `env:"CROSS_SUBDOMAIN_COOKIE" yaml:"cross_subdomain_cookie"`
	CookieExpirationDays int    `env:"COOKIE_EXPIRATION_DAYS" yaml:"cookie_expiration_days"`
	SecureCookie         bool   `env:"SECURE_COOKIE" yaml:"secure_cookie"`
	CookieDomain         string `env:"COOKIE_DOMAIN" yaml:"cookie_domain"`
	// CookieHostname is the host cross-subdomain cookies are scoped from.
	// Defaults to the host of the page source or cookie jar.
	CookieHostname string `env:"COOKIE_HOSTNAME" yaml:"cookie_hostname"`

	TrackAppRoutes RouteTrackingMode `env:"TRACK_APP_ROUTES" yaml:"track_app_routes"`

	LogLevel  logger.Level `env:"LOG_LEVEL" yaml:"log_level"`
	LogPrefix string       `env:"LOG_PREFIX" yaml:"log_prefix"`

	// Timeout bounds every collector request.
	Timeout time.Duration `env:"TIMEOUT" yaml:"timeout"`
}

// ConfigFromEnv loads a Config from TRACKKIT_* environment variables and
// .env files. Later options override earlier ones.
func ConfigFromEnv(opts ...config.Option) (Config, error) {
	var cfg Config
	opts = append([]config.Option{config.WithPrefix(EnvPrefix)}, opts...)
	if err := config.Load(&cfg, opts...); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return cfg, nil
}

// Validate reports a configuration error when the consumer key is missing.
func (c Config) Validate() error {
	if c.ConsumerKey == "" {
		return fmt.Errorf("%w: consumer key is required", ErrConfiguration)
	}
	return nil
}

// withDefaults fills unset fields. Unknown persistence names are kept so
// the store can report them.
func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	c.Host = strings.TrimRight(c.Host, "/")

	switch {
	case c.Persistence == "":
		c.Persistence = persistence.LocalStorage
	default:
		if b, ok := persistence.ParseBackend(string(c.Persistence)); ok {
			c.Persistence = b
		}
	}

	if c.CrossSubdomainCookie == nil {
		v := true
		c.CrossSubdomainCookie = &v
	}
	if c.CookieExpirationDays == 0 {
		c.CookieExpirationDays = DefaultCookieExpirationDays
	}

	c.TrackAppRoutes = ParseRouteTrackingMode(string(c.TrackAppRoutes))

	if c.LogPrefix == "" {
		c.LogPrefix = DefaultLogPrefix
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// cookieConfig projects the cookie knobs for the cookie manager.
func (c Config) cookieConfig(hostname string) cookie.Config {
	cc := cookie.DefaultConfig()
	cc.Hostname = hostname
	if c.CookieHostname != "" {
		cc.Hostname = c.CookieHostname
	}
	cc.Domain = c.CookieDomain
	if c.CrossSubdomainCookie != nil {
		cc.CrossSubdomain = *c.CrossSubdomainCookie
	}
	cc.CrossSite = c.CrossSiteCookie
	cc.Secure = c.SecureCookie
	if c.CookieExpirationDays > 0 {
		cc.ExpirationDays = c.CookieExpirationDays
	}
	return cc
}

package cookie

// Config holds the cookie knobs of the tracking configuration.
type Config struct {
	Hostname       string `env:"COOKIE_HOSTNAME" yaml:"hostname"`
	Domain         string `env:"COOKIE_DOMAIN" yaml:"domain"`
	CrossSubdomain bool   `env:"CROSS_SUBDOMAIN_COOKIE" envDefault:"true" yaml:"cross_subdomain"`
	CrossSite      bool   `env:"CROSS_SITE_COOKIE" yaml:"cross_site"`
	Secure         bool   `env:"SECURE_COOKIE" yaml:"secure"`
	ExpirationDays int    `env:"COOKIE_EXPIRATION_DAYS" envDefault:"365" yaml:"expiration_days"`
}

// DefaultConfig returns a cross-subdomain, one-year cookie configuration.
func DefaultConfig() Config {
	return Config{
		CrossSubdomain: true,
		ExpirationDays: 365,
	}
}

// Options converts the config into manager options.
func (c Config) Options() []Option {
	return []Option{
		WithHostname(c.Hostname),
		WithDomain(c.Domain),
		WithCrossSubdomain(c.CrossSubdomain),
		WithCrossSite(c.CrossSite),
		WithSecure(c.Secure),
		WithExpirationDays(c.ExpirationDays),
	}
}

// NewFromConfig creates a manager for jar configured from cfg. Extra opts
// are applied last.
func NewFromConfig(jar Jar, cfg Config, opts ...Option) *Manager {
	return New(jar, append(cfg.Options(), opts...)...)
}

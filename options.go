package trackkit

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/trackkit/pkg/clientinfo"
	"github.com/dmitrymomot/trackkit/pkg/cookie"
	"github.com/dmitrymomot/trackkit/pkg/fingerprint"
	"github.com/dmitrymomot/trackkit/pkg/storage"
)

// Option configures the collaborators of a session.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	httpClient  *http.Client
	storage     storage.Storage
	storageSet  bool
	jar         cookie.Jar
	fingerprint fingerprint.Provider
	fpSet       bool
	properties  clientinfo.Provider
	page        PageSource
	metrics     *Metrics
	navigation  NavigationSource
	sdkVersion  string
}

// WithLogger replaces the logger built from Config.LogLevel and
// Config.LogPrefix.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHTTPClient sets the HTTP client used to reach the collector.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithStorage sets the local storage backend. Passing nil makes local
// storage unavailable, which selects the cookie store. Defaults to an
// in-memory storage.
func WithStorage(s storage.Storage) Option {
	return func(o *options) {
		o.storage = s
		o.storageSet = true
	}
}

// WithCookieJar sets the cookie jar. Defaults to an in-memory jar scoped to
// the page source's URL.
func WithCookieJar(j cookie.Jar) Option {
	return func(o *options) { o.jar = j }
}

// WithFingerprintProvider sets the fingerprint provider. Passing nil
// disables fingerprinting. Defaults to fingerprint.Host.
func WithFingerprintProvider(p fingerprint.Provider) Option {
	return func(o *options) {
		o.fingerprint = p
		o.fpSet = true
	}
}

// WithPropertiesProvider sets the source of heartbeat client properties.
// Defaults to clientinfo.Host.
func WithPropertiesProvider(p clientinfo.Provider) Option {
	return func(o *options) { o.properties = p }
}

// WithPageSource sets the default page for page-visit metadata.
func WithPageSource(p PageSource) Option {
	return func(o *options) { o.page = p }
}

// WithMetrics records heartbeats, events and request latency on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithNavigation subscribes the session to src when route tracking is
// AUTO. It is ignored in MANUAL mode.
func WithNavigation(src NavigationSource) Option {
	return func(o *options) { o.navigation = src }
}

// WithSDKVersion overrides the version reported in heartbeats.
func WithSDKVersion(v string) Option {
	return func(o *options) {
		if v != "" {
			o.sdkVersion = v
		}
	}
}

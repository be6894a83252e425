package transport

import (
	"net/http"
	"strings"
	"time"
)

// URLType selects how a request path is resolved.
type URLType string

const (
	// Relative appends the path to the client prefix. It is the default.
	Relative URLType = "relative"
	// Absolute uses the path verbatim.
	Absolute URLType = "absolute"
)

// Result describes one finished request. It is handed to observers
// registered with WithOnResult.
type Result struct {
	Method     string
	URL        string
	Path       string
	StatusCode int
	Duration   time.Duration
	Err        error
}

// ResultHook is called after every request.
type ResultHook func(Result)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTimeout bounds each request. Zero disables the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d >= 0 {
			cl.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header for every request.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithDefaultHeader adds a header to every request. Empty values are ignored.
func WithDefaultHeader(key, value string) Option {
	return func(cl *Client) {
		if key != "" && value != "" {
			cl.headers[key] = value
		}
	}
}

// WithOnResult registers an observer for finished requests.
func WithOnResult(hook ResultHook) Option {
	return func(cl *Client) {
		if hook != nil {
			cl.hooks = append(cl.hooks, hook)
		}
	}
}

type requestOptions struct {
	urlType     URLType
	headers     map[string]string
	params      any
	contentType string
}

// RequestOption configures a single request.
type RequestOption func(*requestOptions)

// WithURLType selects absolute or relative resolution. Matching is
// case-insensitive; unknown values behave as Relative.
func WithURLType(t URLType) RequestOption {
	return func(o *requestOptions) {
		o.urlType = URLType(strings.ToLower(string(t)))
	}
}

// WithHeader sets a request header. Empty values are omitted so that an
// unset identifier never reaches the wire as an empty header.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if key != "" && value != "" {
			o.headers[key] = value
		}
	}
}

// WithHeaders sets several request headers. Empty values are omitted.
func WithHeaders(headers map[string]string) RequestOption {
	return func(o *requestOptions) {
		for k, v := range headers {
			if k != "" && v != "" {
				o.headers[k] = v
			}
		}
	}
}

// WithParams adds query parameters to a request that carries a body. The
// value is encoded like a GET body.
func WithParams(params any) RequestOption {
	return func(o *requestOptions) {
		o.params = params
	}
}

// WithContentType overrides the Content-Type header.
func WithContentType(ct string) RequestOption {
	return func(o *requestOptions) {
		o.contentType = ct
	}
}

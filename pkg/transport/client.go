package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseBody = 1 << 20

// Client is a thin JSON-over-HTTP client. Every call is a single attempt.
// Zero value is not usable; use New.
type Client struct {
	prefix    string
	http      *http.Client
	timeout   time.Duration
	userAgent string
	headers   map[string]string
	hooks     []ResultHook
}

// New creates a client resolving relative paths against prefix.
func New(prefix string, opts ...Option) *Client {
	c := &Client{
		prefix:  strings.TrimRight(prefix, "/"),
		timeout: 30 * time.Second,
		headers: make(map[string]string),
		http: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prefix returns the base URL used for relative paths.
func (c *Client) Prefix() string { return c.prefix }

// Get sends query as the query string and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, query, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, query, out, opts...)
}

// Post sends body as JSON (or raw for Blob, Form and io.Reader) and decodes
// the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

// Delete sends query as the query string.
func (c *Client) Delete(ctx context.Context, path string, query, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, query, out, opts...)
}

// PostForm sends data as an application/x-www-form-urlencoded body.
// data is encoded like a GET query.
func (c *Client) PostForm(ctx context.Context, path string, data, out any, opts ...RequestOption) error {
	encoded, err := encodeQuery(data)
	if err != nil {
		return err
	}
	opts = append([]RequestOption{WithContentType(ContentTypeForm)}, opts...)
	return c.Do(ctx, http.MethodPost, path, Form(encoded), out, opts...)
}

// ResolveURL applies the URL type to path.
func (c *Client) ResolveURL(path string, t URLType) string {
	if t == Absolute {
		return path
	}
	return c.prefix + path
}

// Do performs one request. On a 2xx response the JSON body is decoded into
// out (when out is non-nil and the body is not empty). Failures are
// returned as *APIError, except for cancellation, which returns
// ErrCanceled.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) (err error) {
	ro := &requestOptions{urlType: Relative, headers: make(map[string]string)}
	for _, opt := range opts {
		opt(ro)
	}

	target := c.ResolveURL(path, ro.urlType)
	start := time.Now()
	status := 0
	defer func() {
		c.notify(Result{
			Method:     method,
			URL:        target,
			Path:       path,
			StatusCode: status,
			Duration:   time.Since(start),
			Err:        err,
		})
	}()

	if _, perr := url.Parse(target); perr != nil || target == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, target)
	}

	var (
		reader      io.Reader
		contentType = ContentTypeJSON
	)
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		q, qerr := encodeQuery(body)
		if qerr != nil {
			return qerr
		}
		target = appendQuery(target, q)
	default:
		r, ct, berr := encodeBody(body)
		if berr != nil {
			return berr
		}
		reader = r
		if ct != "" {
			contentType = ct
		}
		if ro.params != nil {
			q, qerr := encodeQuery(ro.params)
			if qerr != nil {
				return qerr
			}
			target = appendQuery(target, q)
		}
	}
	if ro.contentType != "" {
		contentType = ro.contentType
	}

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, rerr := http.NewRequestWithContext(reqCtx, method, target, reader)
	if rerr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, rerr)
	}
	req.Header.Set("Accept", ContentTypeJSON)
	req.Header.Set("Content-Type", contentType)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range ro.headers {
		req.Header.Set(k, v)
	}

	resp, derr := c.http.Do(req)
	if derr != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return ErrCanceled
		}
		return newRequestFailedError(derr)
	}
	defer func() { _ = resp.Body.Close() }()
	status = resp.StatusCode

	data, rerr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if rerr != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return ErrCanceled
		}
		return newRequestFailedError(rerr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(resp.StatusCode, data)
	}

	if out == nil || len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if jerr := json.Unmarshal(data, out); jerr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, jerr)
	}
	return nil
}

func (c *Client) notify(r Result) {
	for _, hook := range c.hooks {
		hook(r)
	}
}

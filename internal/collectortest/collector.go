package collectortest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Paths served by the collector.
const (
	ServletPath    = "/xms/api/v1"
	HeartbeatPath  = "/client/heartbeat"
	TrackEventPath = "/client/track/event"
)

// Request is a request received by the collector.
type Request struct {
	Path   string
	Header http.Header
	Body   map[string]any
	Raw    []byte
}

// HeartbeatResult is the identity returned by the heartbeat endpoint.
type HeartbeatResult struct {
	ClientID  string `json:"clientId,omitempty"`
	Signature string `json:"signature,omitempty"`
	UUID      string `json:"uuId,omitempty"`
}

// Collector records heartbeats and events and answers them with
// configurable results.
type Collector struct {
	mu              sync.Mutex
	heartbeats      []Request
	events          []Request
	result          *HeartbeatResult
	heartbeatStatus int
	eventStatus     int
	hold            chan struct{}
	log             *slog.Logger
	hooks           []func(Request)

	srv *httptest.Server
}

// Option configures a Collector.
type Option func(*Collector)

// WithHeartbeatResult sets the first result of heartbeat responses.
func WithHeartbeatResult(r HeartbeatResult) Option {
	return func(c *Collector) { c.result = &r }
}

// WithEmptyResults answers heartbeats with an empty results array.
func WithEmptyResults() Option {
	return func(c *Collector) { c.result = nil }
}

// WithHeartbeatStatus answers heartbeats with status code.
func WithHeartbeatStatus(code int) Option {
	return func(c *Collector) { c.heartbeatStatus = code }
}

// WithEventStatus answers events with status code.
func WithEventStatus(code int) Option {
	return func(c *Collector) { c.eventStatus = code }
}

// WithLogger logs every received request at INFO.
func WithLogger(l *slog.Logger) Option {
	return func(c *Collector) { c.log = l }
}

// WithRequestHook calls fn for every received request.
func WithRequestHook(fn func(Request)) Option {
	return func(c *Collector) {
		if fn != nil {
			c.hooks = append(c.hooks, fn)
		}
	}
}

// New creates a collector answering heartbeats with clientId "c1",
// signature "s1" and uuId "u1".
func New(opts ...Option) *Collector {
	c := &Collector{
		result:          &HeartbeatResult{ClientID: "c1", Signature: "s1", UUID: "u1"},
		heartbeatStatus: http.StatusOK,
		eventStatus:     http.StatusOK,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start serves a new collector on a local httptest server that is closed
// when the test ends.
func Start(t testing.TB, opts ...Option) *Collector {
	t.Helper()
	c := New(opts...)
	c.srv = httptest.NewServer(c.Handler())
	t.Cleanup(c.Close)
	return c
}

// URL returns the collector prefix to use as the SDK host.
func (c *Collector) URL() string {
	return c.srv.URL + ServletPath
}

// Close stops the server. Requests sent afterwards fail at the network
// level.
func (c *Collector) Close() {
	c.Release()
	if c.srv != nil {
		c.srv.Close()
	}
}

// Handler returns the collector's routes.
func (c *Collector) Handler() http.Handler {
	r := chi.NewRouter()
	r.Route(ServletPath, func(r chi.Router) {
		r.Post(HeartbeatPath, c.handleHeartbeat)
		r.Post(TrackEventPath, c.handleTrackEvent)
	})
	return r
}

// SetHeartbeatResult changes the identity returned by later heartbeats.
func (c *Collector) SetHeartbeatResult(r HeartbeatResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = &r
}

// SetHeartbeatStatus changes the status of later heartbeats.
func (c *Collector) SetHeartbeatStatus(code int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.heartbeatStatus = code
}

// SetEventStatus changes the status of later events.
func (c *Collector) SetEventStatus(code int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventStatus = code
}

// HoldEvents makes the event endpoint block until Release is called or
// the request is canceled.
func (c *Collector) HoldEvents() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hold == nil {
		c.hold = make(chan struct{})
	}
}

// Release unblocks held events.
func (c *Collector) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hold != nil {
		close(c.hold)
		c.hold = nil
	}
}

// Heartbeats returns the heartbeats received so far.
func (c *Collector) Heartbeats() []Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.heartbeats)
}

// Events returns the events received so far.
func (c *Collector) Events() []Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.events)
}

// LastEvent returns the most recent event.
func (c *Collector) LastEvent() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) == 0 {
		return Request{}, false
	}
	return c.events[len(c.events)-1], true
}

// Reset forgets every recorded request.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.heartbeats, c.events = nil, nil
}

func (c *Collector) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	req := c.record(r)

	c.mu.Lock()
	c.heartbeats = append(c.heartbeats, req)
	status, result := c.heartbeatStatus, c.result
	c.mu.Unlock()

	if status < 200 || status >= 300 {
		writeJSON(w, status, map[string]any{"message": http.StatusText(status)})
		return
	}
	results := []HeartbeatResult{}
	if result != nil {
		results = append(results, *result)
	}
	writeJSON(w, status, map[string]any{"results": results})
}

func (c *Collector) handleTrackEvent(w http.ResponseWriter, r *http.Request) {
	req := c.record(r)

	c.mu.Lock()
	hold := c.hold
	c.mu.Unlock()
	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}

	c.mu.Lock()
	c.events = append(c.events, req)
	status := c.eventStatus
	c.mu.Unlock()

	if status < 200 || status >= 300 {
		writeJSON(w, status, map[string]any{"message": http.StatusText(status)})
		return
	}
	writeJSON(w, status, map[string]any{"success": true})
}

func (c *Collector) record(r *http.Request) Request {
	raw, _ := io.ReadAll(r.Body)
	req := Request{Path: r.URL.Path, Header: r.Header.Clone(), Raw: raw}
	_ = json.Unmarshal(raw, &req.Body)

	if c.log != nil {
		c.log.InfoContext(r.Context(), "request received",
			slog.String("path", req.Path),
			slog.String("consumer_key", r.Header.Get("consumerKey")),
			slog.String("client_id", r.Header.Get("clientId")),
			slog.Any("body", req.Body),
		)
	}
	for _, hook := range c.hooks {
		hook(req)
	}
	return req
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

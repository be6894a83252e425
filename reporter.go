package trackkit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/trackkit/pkg/logger"
	"github.com/dmitrymomot/trackkit/pkg/transport"
)

// Reporter is the tracking surface of a session.
type Reporter interface {
	TrackEvent(ctx context.Context, name string, data map[string]any, opts ...TrackOption) error
	PageVisited(ctx context.Context, data map[string]any, opts ...TrackOption) error
}

var _ Reporter = (*Session)(nil)

// TrackOption configures a single tracking call.
type TrackOption func(*trackOptions)

type trackOptions struct {
	meta map[string]any
	page PageSource
}

// WithEventMeta attaches eventMeta to the payload. A nil map is ignored.
func WithEventMeta(meta map[string]any) TrackOption {
	return func(o *trackOptions) { o.meta = meta }
}

// WithPage sets the page PageVisited derives metadata from, overriding the
// session's page source for this call.
func WithPage(p PageSource) TrackOption {
	return func(o *trackOptions) { o.page = p }
}

func applyTrackOptions(opts []TrackOption) trackOptions {
	var o trackOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type trackEventRequest struct {
	EventName string         `json:"eventName"`
	EventData map[string]any `json:"eventData"`
	EventMeta any            `json:"eventMeta,omitempty"`
}

// TrackEvent sends a custom event with the current identity. It never
// triggers a heartbeat. An empty name fails before any request is made.
// Transport failures are returned wrapped in ErrTracking; a canceled
// context yields ErrCanceled.
func (s *Session) TrackEvent(ctx context.Context, name string, data map[string]any, opts ...TrackOption) error {
	if s == nil {
		return ErrNotInitialized
	}
	if name == "" {
		return fmt.Errorf("%w: %w", ErrTracking, ErrEmptyEventName)
	}
	if s.closed.Load() {
		return fmt.Errorf("%w: %w", ErrTracking, ErrSessionClosed)
	}

	o := applyTrackOptions(opts)
	if data == nil {
		data = map[string]any{}
	}
	body := trackEventRequest{EventName: name, EventData: data}
	if o.meta != nil {
		body.EventMeta = o.meta
	}

	id := s.Identity()
	err := s.api.Post(ctx, EndpointTrackEvent, body, nil, transport.WithHeaders(map[string]string{
		HeaderConsumerKey: s.cfg.ConsumerKey,
		HeaderClientID:    id.ClientID,
	}))
	s.metrics.event(err)

	switch {
	case err == nil:
		logger.Trace(ctx, s.log, "event tracked", logger.Event(name))
		return nil
	case errors.Is(err, ErrCanceled):
		return err
	}

	s.log.DebugContext(ctx, "error while tracking",
		logger.Event(name),
		logger.Data(data),
		slog.Any("event_meta", o.meta),
		logger.Error(err),
	)
	return fmt.Errorf("%w: %w", ErrTracking, err)
}

// PageVisited sends EVENT_PAGE_VISITED. Page metadata is derived from the
// page source; any non-empty field of data["meta"] overrides the derived
// value. data["meta"] may be a map[string]any or a PageMeta.
func (s *Session) PageVisited(ctx context.Context, data map[string]any, opts ...TrackOption) error {
	if s == nil {
		return ErrNotInitialized
	}

	o := applyTrackOptions(opts)
	src := o.page
	if src == nil {
		src = s.page
	}
	var page Page
	if src != nil {
		p, err := src.Page(ctx)
		if err != nil {
			s.log.WarnContext(ctx, "page source unavailable", logger.Error(err))
		} else {
			page = p
		}
	}

	meta := defaultPageMeta(page, s.cfg.DisableReferrer).merge(metaMap(data["meta"]))

	eventData := make(map[string]any, len(data)+1)
	for k, v := range data {
		if k != "meta" {
			eventData[k] = v
		}
	}
	eventData["meta"] = meta

	return s.TrackEvent(ctx, EventPageVisited, eventData, opts...)
}

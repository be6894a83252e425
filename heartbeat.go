package trackkit

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/trackkit/pkg/logger"
	"github.com/dmitrymomot/trackkit/pkg/transport"
)

// Collector endpoints, relative to Config.Host.
const (
	EndpointHeartbeat  = "/client/heartbeat"
	EndpointTrackEvent = "/client/track/event"
)

// Header names sent to the collector.
const (
	HeaderConsumerKey = "consumerKey"
	HeaderClientID    = "clientId"
)

var errNoResults = errors.New("heartbeat response has no results")

type heartbeatRequest struct {
	SDKVersion       string         `json:"sdkVersion"`
	ClientFp         *string        `json:"clientFp"`
	Signature        *string        `json:"signature"`
	ClientProperties map[string]any `json:"clientProperties"`
	// UUID is the persisted string or {"value": null}.
	UUID any `json:"uuId"`
}

type heartbeatResponse struct {
	Results []heartbeatResult `json:"results"`
}

type heartbeatResult struct {
	ClientID  string `json:"clientId"`
	Signature string `json:"signature"`
	UUID      string `json:"uuId"`
}

// Heartbeat exchanges the current fingerprint, signature and legacy uuid
// for a client id and a fresh signature. New calls it once; calling it
// again refreshes the identity. On success the signature and uuid are
// persisted before the in-memory identity is replaced. On failure the
// identity is left untouched.
func (s *Session) Heartbeat(ctx context.Context) error {
	if s.closed.Load() {
		return fmt.Errorf("%w: %w", ErrHandshake, ErrSessionClosed)
	}

	id := s.Identity()
	req := heartbeatRequest{
		SDKVersion:       s.sdkVersion,
		ClientFp:         optional(id.Fingerprint),
		Signature:        optional(id.Signature),
		ClientProperties: s.clientProperties(ctx),
		UUID:             map[string]any{"value": nil},
	}
	if id.UUID != "" {
		req.UUID = id.UUID
	}

	var resp heartbeatResponse
	err := s.api.Post(ctx, EndpointHeartbeat, req, &resp,
		transport.WithHeader(HeaderConsumerKey, s.cfg.ConsumerKey))
	if err == nil && len(resp.Results) == 0 {
		err = fmt.Errorf("%w: %w", transport.ErrInvalidResponse, errNoResults)
	}
	s.metrics.heartbeat(err)
	if err != nil {
		if errors.Is(err, ErrCanceled) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrHandshake, err)
	}

	r := resp.Results[0]
	s.store.Set(ctx, KeySignature, r.Signature)
	s.store.Set(ctx, KeyUUID, r.UUID)

	s.mu.Lock()
	s.identity.ClientID = r.ClientID
	s.identity.Signature = r.Signature
	s.identity.UUID = r.UUID
	s.mu.Unlock()

	logger.Trace(ctx, s.log, "heartbeat completed", logger.ClientID(r.ClientID))
	return nil
}

// clientProperties merges the app version with the provider's properties.
// Provider failures leave only the app version.
func (s *Session) clientProperties(ctx context.Context) map[string]any {
	props := map[string]any{}
	if s.cfg.AppVersion != "" {
		props["appVersion"] = s.cfg.AppVersion
	}
	if s.props == nil {
		return props
	}
	p, err := s.props.Properties(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "client properties unavailable", logger.Error(err))
		return props
	}
	for k, v := range p.Map() {
		props[k] = v
	}
	return props
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package trackkit

import (
	"context"
	"errors"

	"github.com/dmitrymomot/trackkit/pkg/persistence"
	"github.com/dmitrymomot/trackkit/pkg/transport"
)

var (
	ErrConfiguration  = errors.New("trackkit: invalid configuration")
	ErrFingerprint    = errors.New("trackkit: fingerprint unavailable")
	ErrHandshake      = errors.New("trackkit: heartbeat failed")
	ErrTracking       = errors.New("trackkit: failed to track event")
	ErrNotInitialized = errors.New("trackkit: session is not initialized")
	ErrEmptyEventName = errors.New("trackkit: event name is required")
	ErrSessionClosed  = errors.New("trackkit: session is closed")

	// ErrCanceled is returned when the caller's context ends while a request
	// is in flight. It is an outcome, not a tracking failure.
	ErrCanceled = transport.ErrCanceled
)

// ErrorKind is the closed set of failure categories surfaced by the SDK.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindConfiguration
	KindStorage
	KindFingerprint
	KindHandshake
	KindTracking
	KindTransport
	KindCanceled
	KindUnknown
)

var kindNames = [...]string{
	KindNone:          "none",
	KindConfiguration: "configuration",
	KindStorage:       "storage",
	KindFingerprint:   "fingerprint",
	KindHandshake:     "handshake",
	KindTracking:      "tracking",
	KindTransport:     "transport",
	KindCanceled:      "canceled",
	KindUnknown:       "unknown",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// KindOf classifies err. Cancellation wins over every other kind, then the
// outermost SDK sentinel decides.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, transport.ErrCanceled), errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrTracking):
		return KindTracking
	case errors.Is(err, ErrHandshake):
		return KindHandshake
	case errors.Is(err, ErrFingerprint):
		return KindFingerprint
	case errors.Is(err, persistence.ErrStorage):
		return KindStorage
	}
	if _, ok := transport.AsAPIError(err); ok {
		return KindTransport
	}
	if errors.Is(err, transport.ErrRequestFailed) || errors.Is(err, transport.ErrHTTPStatus) {
		return KindTransport
	}
	return KindUnknown
}

package trackkit

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/trackkit/pkg/transport"
)

const (
	resultSuccess  = "success"
	resultFailure  = "failure"
	resultCanceled = "canceled"
)

// Metrics are optional prometheus collectors for SDK activity. A nil
// *Metrics records nothing.
type Metrics struct {
	heartbeats      *prometheus.CounterVec
	events          *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg when it is
// not nil. Collectors already registered by another session are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	heartbeats := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackkit",
		Name:      "heartbeats_total",
		Help:      "Heartbeat handshakes by result.",
	}, []string{"result"})

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackkit",
		Name:      "events_total",
		Help:      "Tracked events by result.",
	}, []string{"result"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trackkit",
		Name:      "request_duration_seconds",
		Help:      "Collector request latency by endpoint.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	m := &Metrics{}
	if reg == nil {
		m.heartbeats, m.events, m.requestDuration = heartbeats, events, requestDuration
		return m, nil
	}

	var err error
	if m.heartbeats, err = register(reg, heartbeats); err != nil {
		return nil, err
	}
	if m.events, err = register(reg, events); err != nil {
		return nil, err
	}
	if m.requestDuration, err = register(reg, requestDuration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) heartbeat(err error) {
	if m == nil {
		return
	}
	m.heartbeats.WithLabelValues(resultLabel(err)).Inc()
}

func (m *Metrics) event(err error) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(resultLabel(err)).Inc()
}

// observe is a transport.ResultHook.
func (m *Metrics) observe(r transport.Result) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(r.Path).Observe(r.Duration.Seconds())
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case errors.Is(err, ErrCanceled):
		return resultCanceled
	default:
		return resultFailure
	}
}

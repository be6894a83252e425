package trackkit_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trackkit"
	"github.com/dmitrymomot/trackkit/internal/collectortest"
	"github.com/dmitrymomot/trackkit/pkg/clientinfo"
	"github.com/dmitrymomot/trackkit/pkg/cookie"
	"github.com/dmitrymomot/trackkit/pkg/fingerprint"
	"github.com/dmitrymomot/trackkit/pkg/persistence"
	"github.com/dmitrymomot/trackkit/pkg/storage"
	"github.com/dmitrymomot/trackkit/pkg/transport"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func newSession(t *testing.T, c *collectortest.Collector, cfg trackkit.Config, opts ...trackkit.Option) (*trackkit.Session, *storage.Memory) {
	t.Helper()
	st := storage.NewMemory()
	if cfg.ConsumerKey == "" {
		cfg.ConsumerKey = "test-key"
	}
	if cfg.Host == "" {
		cfg.Host = c.URL()
	}
	base := []trackkit.Option{
		trackkit.WithStorage(st),
		trackkit.WithFingerprintProvider(fingerprint.Static("fp-1")),
		trackkit.WithPropertiesProvider(clientinfo.Static{UserAgent: chromeUA}),
	}
	s, err := trackkit.New(context.Background(), cfg, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, st
}

// failingHeartbeat drops heartbeat requests at the network level.
type failingHeartbeat struct{}

func (failingHeartbeat) RoundTrip(r *http.Request) (*http.Response, error) {
	if strings.HasSuffix(r.URL.Path, collectortest.HeartbeatPath) {
		return nil, errors.New("connection refused")
	}
	return http.DefaultTransport.RoundTrip(r)
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("missing consumer key fails before any request", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)

		s, err := trackkit.New(context.Background(), trackkit.Config{Host: c.URL()})
		require.Error(t, err)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, trackkit.ErrConfiguration)
		assert.Equal(t, trackkit.KindConfiguration, trackkit.KindOf(err))
		assert.Empty(t, c.Heartbeats())
	})

	t.Run("successful heartbeat sets and persists identity", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		s, st := newSession(t, c, trackkit.Config{AppVersion: "2.0.0"})

		assert.Equal(t, trackkit.StateReady, s.State())
		assert.NoError(t, s.HandshakeError())
		assert.Equal(t, trackkit.Identity{
			ClientID:    "c1",
			Signature:   "s1",
			UUID:        "u1",
			Fingerprint: "fp-1",
		}, s.Identity())

		sig, err := st.GetItem(context.Background(), trackkit.KeySignature)
		require.NoError(t, err)
		assert.Equal(t, "s1", sig)
		id, err := st.GetItem(context.Background(), trackkit.KeyUUID)
		require.NoError(t, err)
		assert.Equal(t, "u1", id)

		hbs := c.Heartbeats()
		require.Len(t, hbs, 1)
		hb := hbs[0]
		assert.Equal(t, "test-key", hb.Header.Get("consumerKey"))
		assert.Equal(t, trackkit.Version, hb.Body["sdkVersion"])
		assert.Equal(t, "fp-1", hb.Body["clientFp"])
		assert.Nil(t, hb.Body["signature"])
		assert.Equal(t, map[string]any{"value": nil}, hb.Body["uuId"])

		props, ok := hb.Body["clientProperties"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "2.0.0", props["appVersion"])
		assert.Equal(t, clientinfo.BrowserChrome, props["browser"])
		assert.Equal(t, clientinfo.ChannelWeb, props["channel"])
	})

	t.Run("persisted identity is sent with the heartbeat", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		st := storage.NewMemory()
		ctx := context.Background()
		require.NoError(t, st.SetItem(ctx, "app_uuId", "old-uuid"))
		require.NoError(t, st.SetItem(ctx, "app_signature", "old-sig"))

		newSession(t, c, trackkit.Config{PersistenceKeyPrefix: "app_"}, trackkit.WithStorage(st))

		hbs := c.Heartbeats()
		require.Len(t, hbs, 1)
		assert.Equal(t, "old-uuid", hbs[0].Body["uuId"])
		assert.Equal(t, "old-sig", hbs[0].Body["signature"])

		sig, err := st.GetItem(ctx, "app_signature")
		require.NoError(t, err)
		assert.Equal(t, "s1", sig)
	})

	t.Run("heartbeat status failure leaves session ready without client id", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t, collectortest.WithHeartbeatStatus(http.StatusInternalServerError))
		s, _ := newSession(t, c, trackkit.Config{})

		assert.Equal(t, trackkit.StateReady, s.State())
		assert.Empty(t, s.Identity().ClientID)
		assert.Equal(t, "fp-1", s.Identity().Fingerprint)
		assert.ErrorIs(t, s.HandshakeError(), trackkit.ErrHandshake)
	})

	t.Run("empty results count as a failed heartbeat", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t, collectortest.WithEmptyResults())
		s, _ := newSession(t, c, trackkit.Config{})

		assert.Empty(t, s.Identity().ClientID)
		err := s.Heartbeat(context.Background())
		assert.ErrorIs(t, err, trackkit.ErrHandshake)
		assert.ErrorIs(t, err, transport.ErrInvalidResponse)
	})

	t.Run("network failure on heartbeat still allows tracking", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		s, _ := newSession(t, c, trackkit.Config{},
			trackkit.WithHTTPClient(&http.Client{Transport: failingHeartbeat{}}))

		assert.Equal(t, trackkit.StateReady, s.State())
		assert.Empty(t, c.Heartbeats())

		require.NoError(t, s.TrackEvent(context.Background(), "x", nil))
		ev, ok := c.LastEvent()
		require.True(t, ok)
		assert.Empty(t, ev.Header.Get("clientId"))
		assert.Equal(t, "test-key", ev.Header.Get("consumerKey"))
	})

	t.Run("every collaborator failing does not fail initialization", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		st := storage.NewMemory()
		st.SetAvailable(false)

		s, err := trackkit.New(context.Background(),
			trackkit.Config{ConsumerKey: "k", Host: c.URL()},
			trackkit.WithStorage(st),
			trackkit.WithFingerprintProvider(fingerprint.Func(func(context.Context) (string, error) {
				return "", errors.New("no canvas")
			})),
			trackkit.WithPropertiesProvider(clientinfo.Static{}),
			trackkit.WithHTTPClient(&http.Client{Transport: failingHeartbeat{}}),
		)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })

		assert.Equal(t, trackkit.StateReady, s.State())
		assert.Equal(t, trackkit.Identity{}, s.Identity())
		assert.Equal(t, persistence.Cookie, s.Backend())
	})

	t.Run("cookie mirror survives local storage loss", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		ctx := context.Background()
		jar, err := cookie.NewMemoryJar("https://app.example.com/")
		require.NoError(t, err)
		st := storage.NewMemory()

		newSession(t, c, trackkit.Config{}, trackkit.WithStorage(st), trackkit.WithCookieJar(jar))

		cookies, err := jar.Cookies(ctx)
		require.NoError(t, err)
		values := map[string]string{}
		for _, ck := range cookies {
			values[ck.Name] = ck.Value
		}
		assert.Equal(t, "u1", values[trackkit.KeyUUID])
		assert.Equal(t, "s1", values[trackkit.KeySignature])

		st.SetAvailable(false)
		c.Reset()
		newSession(t, c, trackkit.Config{}, trackkit.WithStorage(st), trackkit.WithCookieJar(jar))

		hbs := c.Heartbeats()
		require.Len(t, hbs, 1)
		assert.Equal(t, "u1", hbs[0].Body["uuId"])
		assert.Equal(t, "s1", hbs[0].Body["signature"])
	})

	t.Run("persistence none keeps identity in memory only", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		s, st := newSession(t, c, trackkit.Config{Persistence: "none"})

		assert.Equal(t, persistence.None, s.Backend())
		assert.Equal(t, "c1", s.Identity().ClientID)
		keys, err := st.Keys(context.Background())
		require.NoError(t, err)
		assert.Empty(t, keys)
	})
}

func TestSession_Heartbeat(t *testing.T) {
	t.Parallel()

	c := collectortest.Start(t)
	s, st := newSession(t, c, trackkit.Config{})
	ctx := context.Background()

	c.SetHeartbeatResult(collectortest.HeartbeatResult{ClientID: "c2", Signature: "s2", UUID: "u2"})
	require.NoError(t, s.Heartbeat(ctx))
	require.NoError(t, s.Heartbeat(ctx))

	assert.Equal(t, "c2", s.Identity().ClientID)
	assert.Equal(t, "s2", s.Identity().Signature)
	assert.Equal(t, "u2", s.Identity().UUID)

	sig, err := st.GetItem(ctx, trackkit.KeySignature)
	require.NoError(t, err)
	assert.Equal(t, "s2", sig)

	hbs := c.Heartbeats()
	require.Len(t, hbs, 3)
	assert.Equal(t, "s1", hbs[1].Body["signature"])
	assert.Equal(t, "u1", hbs[1].Body["uuId"])
	assert.Equal(t, "s2", hbs[2].Body["signature"])

	t.Run("failure keeps the previous identity", func(t *testing.T) {
		c.SetHeartbeatStatus(http.StatusBadGateway)
		err := s.Heartbeat(ctx)
		require.Error(t, err)
		assert.Equal(t, trackkit.KindHandshake, trackkit.KindOf(err))

		apiErr, ok := transport.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Equal(t, "c2", s.Identity().ClientID)
	})
}

func TestSession_TrackEvent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("sends payload with identity headers", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		s, _ := newSession(t, c, trackkit.Config{})

		err := s.TrackEvent(ctx, "checkout", map[string]any{"amount": 42},
			trackkit.WithEventMeta(map[string]any{"source": "cart"}))
		require.NoError(t, err)

		ev, ok := c.LastEvent()
		require.True(t, ok)
		assert.Equal(t, collectortest.ServletPath+collectortest.TrackEventPath, ev.Path)
		assert.Equal(t, "c1", ev.Header.Get("clientId"))
		assert.Equal(t, "test-key", ev.Header.Get("consumerKey"))
		assert.Equal(t, "checkout", ev.Body["eventName"])
		assert.Equal(t, map[string]any{"amount": float64(42)}, ev.Body["eventData"])
		assert.Equal(t, map[string]any{"source": "cart"}, ev.Body["eventMeta"])
	})

	t.Run("nil data becomes an empty object and meta is omitted", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		s, _ := newSession(t, c, trackkit.Config{})

		require.NoError(t, s.TrackEvent(ctx, "x", nil))

		ev, ok := c.LastEvent()
		require.True(t, ok)
		assert.Equal(t, map[string]any{}, ev.Body["eventData"])
		assert.NotContains(t, ev.Body, "eventMeta")
	})

	t.Run("empty name fails before any request", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		s, _ := newSession(t, c, trackkit.Config{})

		err := s.TrackEvent(ctx, "", map[string]any{"a": 1})
		assert.ErrorIs(t, err, trackkit.ErrEmptyEventName)
		assert.ErrorIs(t, err, trackkit.ErrTracking)
		assert.Empty(t, c.Events())
	})

	t.Run("collector failure is a tracking error", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t, collectortest.WithEventStatus(http.StatusServiceUnavailable))
		s, _ := newSession(t, c, trackkit.Config{})

		err := s.TrackEvent(ctx, "x", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, trackkit.ErrTracking)
		assert.Equal(t, trackkit.KindTracking, trackkit.KindOf(err))

		apiErr, ok := transport.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
		assert.Equal(t, "Request failed with status 503.", apiErr.Message)
	})

	t.Run("unreachable collector reports request failed", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		s, _ := newSession(t, c, trackkit.Config{})
		c.Close()

		err := s.TrackEvent(ctx, "x", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, trackkit.ErrTracking)
		assert.True(t, transport.IsRequestFailed(err))
	})

	t.Run("cancellation is a distinct outcome", func(t *testing.T) {
		t.Parallel()
		received := make(chan struct{}, 1)
		c := collectortest.Start(t, collectortest.WithRequestHook(func(r collectortest.Request) {
			if strings.HasSuffix(r.Path, collectortest.TrackEventPath) {
				select {
				case received <- struct{}{}:
				default:
				}
			}
		}))
		s, _ := newSession(t, c, trackkit.Config{})
		c.HoldEvents()

		reqCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		errCh := make(chan error, 1)
		go func() { errCh <- s.TrackEvent(reqCtx, "x", nil) }()

		select {
		case <-received:
		case <-time.After(5 * time.Second):
			t.Fatal("event never reached the collector")
		}
		cancel()

		err := <-errCh
		assert.ErrorIs(t, err, trackkit.ErrCanceled)
		assert.NotErrorIs(t, err, trackkit.ErrTracking)
		assert.Equal(t, trackkit.KindCanceled, trackkit.KindOf(err))
		assert.Equal(t, "c1", s.Identity().ClientID)
	})

	t.Run("closed session refuses to track", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		s, _ := newSession(t, c, trackkit.Config{})
		require.NoError(t, s.Close())
		require.NoError(t, s.Close())

		err := s.TrackEvent(ctx, "x", nil)
		assert.ErrorIs(t, err, trackkit.ErrSessionClosed)
		assert.Empty(t, c.Events())
	})

	t.Run("nil session is not initialized", func(t *testing.T) {
		t.Parallel()
		var s *trackkit.Session
		assert.ErrorIs(t, s.TrackEvent(ctx, "x", nil), trackkit.ErrNotInitialized)
		assert.ErrorIs(t, s.PageVisited(ctx, nil), trackkit.ErrNotInitialized)
	})
}

func TestSession_AnonymousID(t *testing.T) {
	t.Parallel()
	c := collectortest.Start(t)
	s, st := newSession(t, c, trackkit.Config{})
	ctx := context.Background()

	first := s.AnonymousID(ctx)
	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, first, s.AnonymousID(ctx))

	stored, err := st.GetItem(ctx, trackkit.KeyAnonymousID)
	require.NoError(t, err)
	assert.Equal(t, first, stored)

	second := s.RegenerateAnonymousID(ctx)
	assert.NotEqual(t, first, second)
	assert.Equal(t, second, s.AnonymousID(ctx))

	s.ClearIdentity(ctx)
	for _, key := range []string{trackkit.KeyUUID, trackkit.KeySignature, trackkit.KeyAnonymousID} {
		v, err := st.GetItem(ctx, key)
		require.NoError(t, err)
		assert.Empty(t, v, key)
	}
	assert.Equal(t, trackkit.Identity{Fingerprint: "fp-1"}, s.Identity())
}

func TestDefaultSession(t *testing.T) {
	ctx := context.Background()
	trackkit.SetDefault(nil)
	t.Cleanup(func() { trackkit.SetDefault(nil) })

	assert.Nil(t, trackkit.Default())
	assert.ErrorIs(t, trackkit.TrackEvent(ctx, "x", nil), trackkit.ErrNotInitialized)
	assert.ErrorIs(t, trackkit.PageVisited(ctx, nil), trackkit.ErrNotInitialized)

	_, err := trackkit.Init(ctx, trackkit.Config{})
	require.ErrorIs(t, err, trackkit.ErrConfiguration)
	assert.Nil(t, trackkit.Default())

	c := collectortest.Start(t)
	s, err := trackkit.Init(ctx, trackkit.Config{ConsumerKey: "k", Host: c.URL()},
		trackkit.WithStorage(storage.NewMemory()),
		trackkit.WithFingerprintProvider(fingerprint.Static("fp")),
		trackkit.WithPropertiesProvider(clientinfo.Static{}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	assert.Same(t, s, trackkit.Default())

	require.NoError(t, trackkit.TrackEvent(ctx, "x", nil))
	require.NoError(t, trackkit.PageVisited(ctx, nil))
	assert.Len(t, c.Events(), 2)
}

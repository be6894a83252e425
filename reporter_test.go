package trackkit_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trackkit"
	"github.com/dmitrymomot/trackkit/internal/collectortest"
)

func lastMeta(t *testing.T, c *collectortest.Collector) (map[string]any, map[string]any) {
	t.Helper()
	ev, ok := c.LastEvent()
	require.True(t, ok)
	assert.Equal(t, trackkit.EventPageVisited, ev.Body["eventName"])
	data, ok := ev.Body["eventData"].(map[string]any)
	require.True(t, ok)
	meta, ok := data["meta"].(map[string]any)
	require.True(t, ok)
	return data, meta
}

func TestSession_PageVisited(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	page := trackkit.StaticPage{
		URL:      "https://shop.example.com/cart?step=2#summary",
		Title:    "Real Title",
		Referrer: "https://www.google.com/search?q=shoes",
	}

	t.Run("derives metadata from the page", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		s, _ := newSession(t, c, trackkit.Config{}, trackkit.WithPageSource(page))

		require.NoError(t, s.PageVisited(ctx, nil))

		_, meta := lastMeta(t, c)
		assert.Equal(t, map[string]any{
			"pageLoad":           false,
			"pageTitle":          "Real Title",
			"pageReferrer":       "https://www.google.com/search?q=shoes",
			"pageReferrerDomain": "www.google.com",
			"pageOrigin":         "https://shop.example.com",
			"pagePathname":       "/cart",
			"pageSearch":         "?step=2",
			"pageHash":           "#summary",
		}, meta)
	})

	t.Run("explicit values win over the page", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		s, _ := newSession(t, c, trackkit.Config{}, trackkit.WithPageSource(page))

		err := s.PageVisited(ctx, map[string]any{
			"meta":    map[string]any{"pageTitle": "Custom", "pageLoad": true, "pageHash": ""},
			"section": "cart",
		})
		require.NoError(t, err)

		data, meta := lastMeta(t, c)
		assert.Equal(t, "cart", data["section"])
		assert.Equal(t, "Custom", meta["pageTitle"])
		assert.Equal(t, true, meta["pageLoad"])
		assert.Equal(t, "#summary", meta["pageHash"])
		assert.Equal(t, "/cart", meta["pagePathname"])
	})

	t.Run("typed meta is accepted", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		s, _ := newSession(t, c, trackkit.Config{}, trackkit.WithPageSource(page))

		require.NoError(t, s.PageVisited(ctx, map[string]any{
			"meta": trackkit.PageMeta{PagePathname: "/virtual"},
		}))

		_, meta := lastMeta(t, c)
		assert.Equal(t, "/virtual", meta["pagePathname"])
		assert.Equal(t, "Real Title", meta["pageTitle"])
	})

	t.Run("disabled referrer blanks referrer defaults", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		s, _ := newSession(t, c, trackkit.Config{DisableReferrer: true}, trackkit.WithPageSource(page))

		require.NoError(t, s.PageVisited(ctx, nil))

		_, meta := lastMeta(t, c)
		assert.Empty(t, meta["pageReferrer"])
		assert.Empty(t, meta["pageReferrerDomain"])
		assert.Equal(t, "Real Title", meta["pageTitle"])
	})

	t.Run("per-call page from an HTTP request", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		s, _ := newSession(t, c, trackkit.Config{}, trackkit.WithPageSource(page))

		r := httptest.NewRequest("GET", "https://blog.example.org/posts/1?ref=rss", nil)
		r.Header.Set("Referer", "https://news.example.net/")

		require.NoError(t, s.PageVisited(ctx, nil, trackkit.WithPage(trackkit.RequestPage{R: r, Title: "Post"})))

		_, meta := lastMeta(t, c)
		assert.Equal(t, "Post", meta["pageTitle"])
		assert.Equal(t, "https://blog.example.org", meta["pageOrigin"])
		assert.Equal(t, "/posts/1", meta["pagePathname"])
		assert.Equal(t, "?ref=rss", meta["pageSearch"])
		assert.Equal(t, "news.example.net", meta["pageReferrerDomain"])
	})
}

func TestRouteTracking(t *testing.T) {
	t.Parallel()

	t.Run("auto mode turns navigations into page visits", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		nav := trackkit.NewNavigator()
		s, _ := newSession(t, c, trackkit.Config{TrackAppRoutes: "auto"},
			trackkit.WithNavigation(nav),
			trackkit.WithPageSource(trackkit.StaticPage{Title: "App"}),
		)
		assert.Equal(t, trackkit.RouteTrackingAuto, s.Config().TrackAppRoutes)

		nav.Notify(trackkit.Navigation{Kind: trackkit.NavigationLoad, URL: "https://app.example.com/home"})
		_, meta := lastMeta(t, c)
		assert.Equal(t, true, meta["pageLoad"])
		assert.Equal(t, "/home", meta["pagePathname"])
		assert.Equal(t, "App", meta["pageTitle"])

		nav.Notify(trackkit.Navigation{Kind: trackkit.NavigationPush, URL: "https://app.example.com/settings#tab"})
		_, meta = lastMeta(t, c)
		assert.Equal(t, false, meta["pageLoad"])
		assert.Equal(t, "/settings", meta["pagePathname"])
		assert.Equal(t, "#tab", meta["pageHash"])

		require.NoError(t, s.Close())
		nav.Notify(trackkit.Navigation{Kind: trackkit.NavigationPop})
		assert.Len(t, c.Events(), 2)
	})

	t.Run("manual mode ignores navigations", func(t *testing.T) {
		t.Parallel()
		c := collectortest.Start(t)
		nav := trackkit.NewNavigator()
		s, _ := newSession(t, c, trackkit.Config{TrackAppRoutes: "sometimes"}, trackkit.WithNavigation(nav))
		assert.Equal(t, trackkit.RouteTrackingManual, s.Config().TrackAppRoutes)

		nav.Notify(trackkit.Navigation{Kind: trackkit.NavigationLoad})
		assert.Empty(t, c.Events())
	})
}

func TestNavigator(t *testing.T) {
	t.Parallel()
	nav := trackkit.NewNavigator()

	var got []string
	unsubA := nav.Subscribe(func(n trackkit.Navigation) { got = append(got, "a:"+n.URL) })
	unsubB := nav.Subscribe(func(n trackkit.Navigation) { got = append(got, "b:"+n.URL) })

	nav.Notify(trackkit.Navigation{URL: "/1"})
	unsubA()
	unsubA()
	nav.Notify(trackkit.Navigation{URL: "/2"})
	unsubB()
	nav.Notify(trackkit.Navigation{URL: "/3"})

	assert.Equal(t, []string{"a:/1", "b:/1", "b:/2"}, got)
}

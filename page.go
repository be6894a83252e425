package trackkit

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/trackkit/pkg/clientinfo"
)

// EventPageVisited is the event name sent by PageVisited.
const EventPageVisited = "EVENT_PAGE_VISITED"

// Page is the state of the document a visit is reported for.
type Page struct {
	URL      string
	Title    string
	Referrer string
}

// PageSource supplies the current page. It plays the role of the
// browser's document and location objects.
type PageSource interface {
	Page(ctx context.Context) (Page, error)
}

// PageFunc adapts a function to PageSource.
type PageFunc func(ctx context.Context) (Page, error)

func (f PageFunc) Page(ctx context.Context) (Page, error) { return f(ctx) }

// StaticPage always reports the same page.
type StaticPage Page

func (p StaticPage) Page(context.Context) (Page, error) { return Page(p), nil }

// RequestPage describes the page an incoming HTTP request is for. The
// referrer comes from the Referer header.
type RequestPage struct {
	R     *http.Request
	Title string
}

func (p RequestPage) Page(context.Context) (Page, error) {
	if p.R == nil {
		return Page{Title: p.Title}, nil
	}
	return Page{
		URL:      clientinfo.RequestURL(p.R),
		Title:    p.Title,
		Referrer: p.R.Referer(),
	}, nil
}

// PageMeta is the metadata attached to page-visit events under "meta".
type PageMeta struct {
	PageLoad           bool   `json:"pageLoad"`
	PageTitle          string `json:"pageTitle"`
	PageReferrer       string `json:"pageReferrer"`
	PageReferrerDomain string `json:"pageReferrerDomain"`
	PageOrigin         string `json:"pageOrigin"`
	PagePathname       string `json:"pagePathname"`
	PageSearch         string `json:"pageSearch"`
	PageHash           string `json:"pageHash"`
}

// defaultPageMeta derives metadata from p. The referrer fields stay empty
// when disableReferrer is set.
func defaultPageMeta(p Page, disableReferrer bool) PageMeta {
	meta := PageMeta{PageTitle: p.Title}
	if !disableReferrer {
		meta.PageReferrer = p.Referrer
		meta.PageReferrerDomain = referrerDomain(p.Referrer)
	}
	if u, err := url.Parse(p.URL); err == nil && p.URL != "" {
		if u.Scheme != "" && u.Host != "" {
			meta.PageOrigin = u.Scheme + "://" + u.Host
		}
		meta.PagePathname = u.EscapedPath()
		if meta.PagePathname == "" && u.Host != "" {
			meta.PagePathname = "/"
		}
		if u.RawQuery != "" {
			meta.PageSearch = "?" + u.RawQuery
		}
		if frag := u.EscapedFragment(); frag != "" {
			meta.PageHash = "#" + frag
		}
	}
	return meta
}

// referrerDomain returns the authority of a referrer URL: the third
// slash-separated part, so "https://a.example.com/x" yields "a.example.com".
func referrerDomain(referrer string) string {
	parts := strings.Split(referrer, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

// merge overlays explicit values on defaults. Empty explicit values keep
// the default; PageLoad is taken as given.
func (m PageMeta) merge(explicit map[string]any) PageMeta {
	if v, ok := explicit["pageLoad"].(bool); ok {
		m.PageLoad = v
	}
	override := func(dst *string, key string) {
		if v, ok := explicit[key].(string); ok && v != "" {
			*dst = v
		}
	}
	override(&m.PageTitle, "pageTitle")
	override(&m.PageReferrer, "pageReferrer")
	override(&m.PageReferrerDomain, "pageReferrerDomain")
	override(&m.PageOrigin, "pageOrigin")
	override(&m.PagePathname, "pagePathname")
	override(&m.PageSearch, "pageSearch")
	override(&m.PageHash, "pageHash")
	return m
}

// metaMap normalizes the "meta" entry of page-visit data. It accepts a map
// or a PageMeta value.
func metaMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case PageMeta:
		return m.explicit()
	case *PageMeta:
		if m != nil {
			return m.explicit()
		}
	}
	return nil
}

func (m PageMeta) explicit() map[string]any {
	return map[string]any{
		"pageLoad":           m.PageLoad,
		"pageTitle":          m.PageTitle,
		"pageReferrer":       m.PageReferrer,
		"pageReferrerDomain": m.PageReferrerDomain,
		"pageOrigin":         m.PageOrigin,
		"pagePathname":       m.PagePathname,
		"pageSearch":         m.PageSearch,
		"pageHash":           m.PageHash,
	}
}

package clientinfo

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// Request describes the browser behind an incoming HTTP request.
type Request struct {
	R *http.Request
}

func (p Request) Properties(context.Context) (Properties, error) {
	if p.R == nil {
		return Properties{Channel: ChannelWeb, DeviceType: DeviceTypeDesktop}, nil
	}
	ua := p.R.UserAgent()
	props := Parse(ua, InferVendor(ua))
	props.ScreenWidth = headerInt(p.R, "Sec-CH-Viewport-Width", "Viewport-Width")
	props.ScreenHeight = headerInt(p.R, "Sec-CH-Viewport-Height")
	props.CurrentURL = RequestURL(p.R)
	return props, nil
}

// InferVendor guesses navigator.vendor from a user agent. Only Apple's
// WebKit browsers matter for detection.
func InferVendor(ua string) string {
	if strings.Contains(ua, "AppleWebKit") && strings.Contains(ua, "Version/") &&
		!strings.Contains(ua, "Chrome") && !strings.Contains(ua, "Android") {
		return AppleVendor
	}
	return ""
}

// RequestURL reconstructs the absolute URL the client requested, honoring
// X-Forwarded-Proto and X-Forwarded-Host.
func RequestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = strings.TrimSpace(strings.Split(p, ",")[0])
	}
	host := r.Host
	if h := r.Header.Get("X-Forwarded-Host"); h != "" {
		host = strings.TrimSpace(strings.Split(h, ",")[0])
	}
	return scheme + "://" + host + r.URL.RequestURI()
}

func headerInt(r *http.Request, names ...string) int {
	for _, name := range names {
		if v, err := strconv.Atoi(strings.TrimSpace(r.Header.Get(name))); err == nil && v > 0 {
			return v
		}
	}
	return 0
}

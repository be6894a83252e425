package fingerprint

import (
	"context"
	"net"
	"net/http"
	"sort"
	"strings"
)

// Generate fingerprints an HTTP client from its User-Agent, Accept
// headers, IP and the set of stable headers it sends.
func Generate(r *http.Request) string {
	return hash(
		r.UserAgent(),
		r.Header.Get("Accept-Language"),
		r.Header.Get("Accept-Encoding"),
		r.Header.Get("Accept"),
		clientIP(r),
		headerOrder(r),
	)
}

// Request fingerprints the visitor behind an incoming HTTP request.
type Request struct {
	R *http.Request
}

func (p Request) Fingerprint(context.Context) (string, error) {
	if p.R == nil {
		return "", ErrNoComponents
	}
	return Generate(p.R), nil
}

// headerOrder lists which stable headers are present. Different clients
// send different sets.
func headerOrder(r *http.Request) string {
	var names []string
	for name := range r.Header {
		switch n := strings.ToLower(name); n {
		case "user-agent", "accept", "accept-language", "accept-encoding",
			"connection", "upgrade-insecure-requests", "sec-fetch-dest",
			"sec-fetch-mode", "sec-fetch-site", "cache-control":
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// clientIP prefers proxy headers (Cloudflare, X-Forwarded-For, X-Real-IP)
// over RemoteAddr. Invalid addresses are skipped.
func clientIP(r *http.Request) string {
	if ip := parseIP(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	for ip := range strings.SplitSeq(r.Header.Get("X-Forwarded-For"), ",") {
		if parsed := parseIP(ip); parsed != "" {
			return parsed
		}
	}
	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}

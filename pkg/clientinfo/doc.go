// Package clientinfo derives the client properties reported with the
// heartbeat: user agent, OS, browser and version, device, device type,
// screen size, current URL and channel.
//
// Detection follows a fixed order of substring and regexp checks. The
// order matters: most user agents mention other browsers, so Edge is
// checked before Chrome and Chrome before Safari.
//
//	props := clientinfo.Parse(ua, vendor)
//	props.Browser        // "Chrome"
//	*props.BrowserVersion // 91.0
//
// Providers build Properties for different hosts: Static for a known
// browser, Request for an incoming *http.Request and Host for programs
// that are not browsers at all.
package clientinfo

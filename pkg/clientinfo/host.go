package clientinfo

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/elastic/go-sysinfo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Host describes the machine a non-browser program runs on. The user
// agent is synthesized as "<Product>/<Version> (<OS>; <arch>)".
type Host struct {
	Product    string // defaults to "trackkit"
	Version    string
	CurrentURL string
}

func (h Host) Properties(context.Context) (Properties, error) {
	osName := hostOSName(runtime.GOOS, "")
	arch := runtime.GOARCH
	if host, err := sysinfo.Host(); err == nil {
		info := host.Info()
		arch = info.Architecture
		if info.OS != nil {
			osName = hostOSName(runtime.GOOS, info.OS.Name)
		}
	}

	product := h.Product
	if product == "" {
		product = "trackkit"
	}
	ua := product
	if h.Version != "" {
		ua += "/" + h.Version
	}
	ua = fmt.Sprintf("%s (%s; %s)", ua, osName, arch)

	return Properties{
		UA:         ua,
		OS:         osFamily(runtime.GOOS, osName),
		DeviceType: DeviceTypeDesktop,
		CurrentURL: h.CurrentURL,
		Channel:    ChannelWeb,
	}, nil
}

// hostOSName prefers the distribution name reported by the host.
func hostOSName(goos, reported string) string {
	if reported = strings.TrimSpace(reported); reported != "" {
		return cases.Title(language.English).String(reported)
	}
	return cases.Title(language.English).String(goos)
}

// osFamily maps GOOS onto the same names user-agent detection produces.
func osFamily(goos, fallback string) string {
	switch goos {
	case "windows":
		return OSWindows
	case "darwin":
		return OSMacOS
	case "ios":
		return OSiOS
	case "android":
		return OSAndroid
	case "linux":
		return OSLinux
	default:
		return fallback
	}
}

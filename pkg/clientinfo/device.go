package clientinfo

import (
	"regexp"
	"strings"
)

var (
	windowsPhoneRe = regexp.MustCompile(`(?i)Windows Phone`)
	mobiRe         = regexp.MustCompile(`(?i)Mobi`)
)

// Device detects the handheld device family, or "" for anything else.
func Device(ua string) string {
	switch {
	case windowsPhoneRe.MatchString(ua), strings.Contains(ua, "WPDesktop"):
		return DeviceWindowsPhone
	case strings.Contains(ua, "iPad"):
		return DeviceIPad
	case strings.Contains(ua, "iPod"):
		return DeviceIPod
	case strings.Contains(ua, "iPhone"):
		return DeviceIPhone
	case blackBerryRe.MatchString(ua):
		return DeviceBlackBerry
	case strings.Contains(ua, "Android"):
		return DeviceAndroid
	default:
		return ""
	}
}

// DeviceType is MOBILE when the user agent mentions "Mobi", else DESKTOP.
func DeviceType(ua string) string {
	if mobiRe.MatchString(ua) {
		return DeviceTypeMobile
	}
	return DeviceTypeDesktop
}

package clientinfo

import (
	"regexp"
	"strings"
)

var (
	windowsRe = regexp.MustCompile(`(?i)Windows`)
	appleRe   = regexp.MustCompile(`(iPhone|iPad|iPod)`)
	macRe     = regexp.MustCompile(`(?i)Mac`)
)

// OS detects the operating system from a user agent.
func OS(ua string) string {
	switch {
	case windowsRe.MatchString(ua):
		if strings.Contains(ua, "Phone") || strings.Contains(ua, "WPDesktop") {
			return OSWindowsPhone
		}
		return OSWindows
	case appleRe.MatchString(ua):
		return OSiOS
	case strings.Contains(ua, "Android"):
		return OSAndroid
	case blackBerryRe.MatchString(ua):
		return OSBlackBerry
	case macRe.MatchString(ua):
		return OSMacOS
	case strings.Contains(ua, "Linux"):
		return OSLinux
	default:
		return ""
	}
}

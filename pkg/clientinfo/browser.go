package clientinfo

import (
	"regexp"
	"strconv"
	"strings"
)

var blackBerryRe = regexp.MustCompile(`(?i)(BlackBerry|PlayBook|BB10)`)

// Browser detects the browser from a user agent and navigator vendor.
// Checks run in a fixed order because many user agents carry tokens of
// other browsers (every Chrome claims to be Safari).
func Browser(ua, vendor string) string {
	switch {
	case strings.Contains(ua, " OPR/"):
		if strings.Contains(ua, "Mini") {
			return BrowserOperaMini
		}
		return BrowserOpera
	case blackBerryRe.MatchString(ua):
		return BrowserBlackBerry
	case strings.Contains(ua, "IEMobile"), strings.Contains(ua, "WPDesktop"):
		return BrowserIEMobile
	case strings.Contains(ua, "Edge"):
		return BrowserEdge
	case strings.Contains(ua, "FBIOS"):
		return BrowserFacebookMobile
	case strings.Contains(ua, "Chrome"):
		return BrowserChrome
	case strings.Contains(ua, "CriOS"):
		return BrowserChromeIOS
	case strings.Contains(ua, "UCWEB"), strings.Contains(ua, "UCBrowser"):
		return BrowserUC
	case strings.Contains(ua, "FxiOS"):
		return BrowserFirefoxIOS
	case strings.Contains(vendor, "Apple"):
		if strings.Contains(ua, "Mobile") {
			return BrowserMobileSafari
		}
		return BrowserSafari
	case strings.Contains(ua, "Android"):
		return BrowserAndroidMobile
	case strings.Contains(ua, "Konqueror"):
		return BrowserKonqueror
	case strings.Contains(ua, "Firefox"):
		return BrowserFirefox
	case strings.Contains(ua, "MSIE"), strings.Contains(ua, "Trident/"):
		return BrowserIE
	case strings.Contains(ua, "Gecko"):
		return BrowserMozilla
	default:
		return ""
	}
}

// The version is always the last-but-one capture group: (major(.minor)).
var versionPatterns = map[string]*regexp.Regexp{
	BrowserIEMobile:      regexp.MustCompile(`rv:(\d+(\.\d+)?)`),
	BrowserEdge:          regexp.MustCompile(`Edge/(\d+(\.\d+)?)`),
	BrowserChrome:        regexp.MustCompile(`Chrome/(\d+(\.\d+)?)`),
	BrowserChromeIOS:     regexp.MustCompile(`CriOS/(\d+(\.\d+)?)`),
	BrowserUC:            regexp.MustCompile(`(UCBrowser|UCWEB)/(\d+(\.\d+)?)`),
	BrowserSafari:        regexp.MustCompile(`Version/(\d+(\.\d+)?)`),
	BrowserMobileSafari:  regexp.MustCompile(`Version/(\d+(\.\d+)?)`),
	BrowserOpera:         regexp.MustCompile(`(Opera|OPR)/(\d+(\.\d+)?)`),
	BrowserFirefox:       regexp.MustCompile(`Firefox/(\d+(\.\d+)?)`),
	BrowserFirefoxIOS:    regexp.MustCompile(`FxiOS/(\d+(\.\d+)?)`),
	BrowserKonqueror:     regexp.MustCompile(`Konqueror:(\d+(\.\d+)?)`),
	BrowserBlackBerry:    regexp.MustCompile(`BlackBerry (\d+(\.\d+)?)`),
	BrowserAndroidMobile: regexp.MustCompile(`(?i)android\s(\d+(\.\d+)?)`),
	BrowserIE:            regexp.MustCompile(`(rv:|MSIE )(\d+(\.\d+)?)`),
	BrowserMozilla:       regexp.MustCompile(`rv:(\d+(\.\d+)?)`),
}

// BrowserVersion returns the detected browser's major.minor version, or
// nil when the browser or its version is unknown.
func BrowserVersion(ua, vendor string) *float64 {
	re, ok := versionPatterns[Browser(ua, vendor)]
	if !ok {
		return nil
	}
	m := re.FindStringSubmatch(ua)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[len(m)-2], 64)
	if err != nil {
		return nil
	}
	return &v
}

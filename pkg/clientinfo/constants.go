package clientinfo

// Operating systems
const (
	OSWindows      = "Windows"
	OSWindowsPhone = "Windows Phone"
	OSiOS          = "iOS"
	OSAndroid      = "Android"
	OSBlackBerry   = "BlackBerry"
	OSMacOS        = "Mac OS X"
	OSLinux        = "Linux"
)

// Browsers
const (
	BrowserOperaMini      = "Opera Mini"
	BrowserOpera          = "Opera"
	BrowserBlackBerry     = "BlackBerry"
	BrowserIEMobile       = "Internet Explorer Mobile"
	BrowserEdge           = "Microsoft Edge"
	BrowserFacebookMobile = "Facebook Mobile"
	BrowserChrome         = "Chrome"
	BrowserChromeIOS      = "Chrome iOS"
	BrowserUC             = "UC Browser"
	BrowserFirefoxIOS     = "Firefox iOS"
	BrowserMobileSafari   = "Mobile Safari"
	BrowserSafari         = "Safari"
	BrowserAndroidMobile  = "Android Mobile"
	BrowserKonqueror      = "Konqueror"
	BrowserFirefox        = "Firefox"
	BrowserIE             = "Internet Explorer"
	BrowserMozilla        = "Mozilla"
)

// Devices
const (
	DeviceWindowsPhone = "Windows Phone"
	DeviceIPad         = "iPad"
	DeviceIPod         = "iPod Touch"
	DeviceIPhone       = "iPhone"
	DeviceBlackBerry   = "BlackBerry"
	DeviceAndroid      = "Android"
)

// Device types
const (
	DeviceTypeMobile  = "MOBILE"
	DeviceTypeDesktop = "DESKTOP"
)

// ChannelWeb is the channel reported for every client.
const ChannelWeb = "WEB"

// AppleVendor is what Apple browsers report as navigator.vendor.
const AppleVendor = "Apple Computer, Inc."

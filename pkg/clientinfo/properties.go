package clientinfo

import "context"

// Properties describe the client environment sent with every heartbeat.
type Properties struct {
	UA             string   `json:"ua"`
	OS             string   `json:"os"`
	Browser        string   `json:"browser"`
	BrowserVersion *float64 `json:"browser_version"`
	Device         string   `json:"device"`
	DeviceType     string   `json:"deviceType"`
	ScreenHeight   int      `json:"screen_height"`
	ScreenWidth    int      `json:"screen_width"`
	CurrentURL     string   `json:"current_url"`
	Channel        string   `json:"channel"`
}

// Map returns the properties keyed by their wire names, ready to be merged
// with other client properties.
func (p Properties) Map() map[string]any {
	var version any
	if p.BrowserVersion != nil {
		version = *p.BrowserVersion
	}
	return map[string]any{
		"ua":              p.UA,
		"os":              p.OS,
		"browser":         p.Browser,
		"browser_version": version,
		"device":          p.Device,
		"deviceType":      p.DeviceType,
		"screen_height":   p.ScreenHeight,
		"screen_width":    p.ScreenWidth,
		"current_url":     p.CurrentURL,
		"channel":         p.Channel,
	}
}

// Provider supplies client properties.
type Provider interface {
	Properties(ctx context.Context) (Properties, error)
}

// Screen is a display size in CSS pixels.
type Screen struct {
	Width  int
	Height int
}

// Parse derives properties from a user agent and navigator vendor.
func Parse(ua, vendor string) Properties {
	return Properties{
		UA:             ua,
		OS:             OS(ua),
		Browser:        Browser(ua, vendor),
		BrowserVersion: BrowserVersion(ua, vendor),
		Device:         Device(ua),
		DeviceType:     DeviceType(ua),
		Channel:        ChannelWeb,
	}
}

// Static describes a fixed client, such as a browser the host application
// already knows about.
type Static struct {
	UserAgent  string
	Vendor     string
	Screen     Screen
	CurrentURL string
}

func (s Static) Properties(context.Context) (Properties, error) {
	p := Parse(s.UserAgent, s.Vendor)
	p.ScreenWidth, p.ScreenHeight = s.Screen.Width, s.Screen.Height
	p.CurrentURL = s.CurrentURL
	return p, nil
}

package persistence

import "strings"

// Backend selects where values are persisted.
type Backend string

const (
	LocalStorage Backend = "localStorage"
	Cookie       Backend = "cookie"
	None         Backend = "none"
)

// ParseBackend matches s case-insensitively. Unknown values report false.
func ParseBackend(s string) (Backend, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "localstorage", "local_storage", "local":
		return LocalStorage, true
	case "cookie", "cookies":
		return Cookie, true
	case "none", "memory":
		return None, true
	default:
		return Backend(s), false
	}
}

func (b Backend) String() string { return string(b) }

// Valid reports whether b is a known backend.
func (b Backend) Valid() bool {
	switch b {
	case LocalStorage, Cookie, None:
		return true
	}
	return false
}

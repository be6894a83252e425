package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under the key "error". Nil yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records a tracked event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Key records a persistence key under the key "key".
func Key(key string) slog.Attr {
	return slog.String("key", key)
}

// Backend records a persistence backend under the key "backend".
func Backend(name string) slog.Attr {
	return slog.String("backend", name)
}

// ClientID records the server-assigned client id. Empty yields an empty Attr.
func ClientID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("client_id", id)
}

// URL records a request URL under the key "url".
func URL(u string) slog.Attr {
	return slog.String("url", u)
}

// Status records a response status under the key "status".
func Status(status string) slog.Attr {
	return slog.String("status", status)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Data records an arbitrary payload under the key "data".
func Data(v any) slog.Attr {
	return slog.Any("data", v)
}

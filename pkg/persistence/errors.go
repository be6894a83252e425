package persistence

import "errors"

// ErrStorage wraps every backend failure. Store never returns it; it is
// attached to log records so they can be matched with errors.Is.
var ErrStorage = errors.New("persistence: storage error")

package storage

import "errors"

var (
	ErrUnavailable = errors.New("storage: backend unavailable")
	ErrCorrupted   = errors.New("storage: corrupted data file")
	ErrLocked      = errors.New("storage: could not acquire lock")
	ErrClosed      = errors.New("storage: closed")
)

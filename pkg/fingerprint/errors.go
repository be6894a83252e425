package fingerprint

import "errors"

var (
	ErrNoComponents  = errors.New("fingerprint: no identifying components")
	ErrProviderPanic = errors.New("fingerprint: provider panicked")
	ErrHostInfo      = errors.New("fingerprint: host information unavailable")
)

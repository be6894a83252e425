package cookie

import "errors"

var (
	ErrCookieNotFound = errors.New("cookie.not_found")
	ErrInvalidFormat  = errors.New("cookie.invalid_format")
	ErrInvalidURL     = errors.New("cookie.invalid_url")
	ErrJarLocked      = errors.New("cookie.jar_locked")
)

package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrRequestFailed matches an *APIError for a request that got no response.
	ErrRequestFailed = errors.New("transport: request failed")
	// ErrHTTPStatus matches an *APIError for a non-2xx response.
	ErrHTTPStatus = errors.New("transport: unexpected HTTP status")
	// ErrCanceled is returned when the caller's context is canceled. It is
	// not an *APIError: a canceled call neither succeeded nor failed.
	ErrCanceled = errors.New("transport: request canceled")

	ErrInvalidURL      = errors.New("transport: invalid URL")
	ErrInvalidBody     = errors.New("transport: invalid request body")
	ErrInvalidResponse = errors.New("transport: invalid response body")
)

// StatusRequestFailed is the APIError status for network-level failures.
const StatusRequestFailed = "REQUEST_FAILED"

// APIError is the normalized failure of a request.
type APIError struct {
	Message string
	// Response is the decoded JSON body when it parses, the raw text
	// otherwise, and nil when there was no response.
	Response any
	// Status is the numeric HTTP status as text, or StatusRequestFailed.
	Status     string
	StatusCode int
	Err        error
}

func newStatusError(code int, body []byte) *APIError {
	e := &APIError{
		Message:    fmt.Sprintf("Request failed with status %d.", code),
		Status:     strconv.Itoa(code),
		StatusCode: code,
		Err:        ErrHTTPStatus,
	}
	if len(body) > 0 {
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			e.Response = v
		} else {
			e.Response = string(body)
		}
	}
	return e
}

func newRequestFailedError(err error) *APIError {
	return &APIError{
		Message: err.Error(),
		Status:  StatusRequestFailed,
		Err:     errors.Join(ErrRequestFailed, err),
	}
}

func (e *APIError) Error() string {
	if e.Response == nil {
		return e.Message
	}
	if s, ok := e.Response.(string); ok {
		return e.Message + "\nResponse:\n" + s
	}
	data, err := json.MarshalIndent(e.Response, "", "  ")
	if err != nil {
		return e.Message
	}
	return e.Message + "\nResponse:\n" + string(data)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsRequestFailed reports whether err is a network-level failure.
func IsRequestFailed(err error) bool {
	return errors.Is(err, ErrRequestFailed)
}

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var e *APIError
	ok := errors.As(err, &e)
	return e, ok
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrymomot/trackkit"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // command completed
	ExitFailure      = 1 // the collector rejected or never received a request
	ExitCommandError = 2 // invalid flags, configuration or storage
)

// ExitError carries the exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// WrapExitError wraps err with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Errors that are not an
// ExitError map to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// textWriter is implemented by results that have a human-readable form.
type textWriter interface {
	WriteText(w io.Writer)
}

// OutputFormatter renders results as text or JSON.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Response is the JSON envelope of every command.
type Response struct {
	Status string         `json:"status"`
	Data   any            `json:"data,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

// ResponseError describes a failed command in JSON output.
type ResponseError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Success renders data.
func (f *OutputFormatter) Success(data textWriter) error {
	if f.Format == "json" {
		return f.encode(Response{Status: "ok", Data: data})
	}
	data.WriteText(f.Writer)
	return nil
}

// Failure renders err, and data when there is partial output, and returns
// an ExitError with code.
func (f *OutputFormatter) Failure(code int, message string, err error, data textWriter) error {
	if f.Format == "json" {
		resp := Response{
			Status: "error",
			Error:  &ResponseError{Kind: trackkit.KindOf(err).String(), Message: err.Error()},
		}
		if data != nil {
			resp.Data = data
		}
		if encErr := f.encode(resp); encErr != nil {
			return encErr
		}
	} else if data != nil {
		data.WriteText(f.Writer)
	}
	return WrapExitError(code, message, err)
}

func (f *OutputFormatter) encode(v any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups for GUIDs the repository does not know about.
// Verbs wrap it so callers can distinguish "missing" from other failures with
// errors.Is.
var ErrNotFound = errors.New("not found")

// Error is a reportable failure: a short human-readable message plus optional
// raw detail from the underlying automation call. Verbs return *Error (never
// nil-as-failure), and the tool layer is the only place that converts one into
// a response envelope.
type Error struct {
	Message string
	Detail  string

	wrapped error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.wrapped }

// Errf builds a reportable error with a formatted message and no detail.
func Errf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a reportable error that also matches ErrNotFound.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), wrapped: ErrNotFound}
}

// Wrap attaches a message to an underlying failure, keeping the original
// error text as detail.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		// Already reportable: keep its message, prepend context.
		return &Error{Message: message + ": " + e.Message, Detail: e.Detail, wrapped: err}
	}
	return &Error{Message: message, Detail: err.Error(), wrapped: err}
}

// AsError normalizes any error into a reportable *Error. Errors that were not
// constructed through this package get a generic message with the raw error
// text preserved as detail.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Message: "unexpected error", Detail: err.Error(), wrapped: err}
}

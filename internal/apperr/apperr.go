package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a request-level failure carrying the HTTP status it maps to.
// Handlers translate any other error into a 500 without leaking detail.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validation reports malformed or missing input (400).
func Validation(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Forbidden reports a caller lacking ownership or role (403).
func Forbidden(format string, args ...any) *Error {
	return &Error{Status: http.StatusForbidden, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports an absent class or resource (404).
func NotFound(format string, args ...any) *Error {
	return &Error{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// StatusOf maps an error to its HTTP status. Unknown errors are opaque 500s.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-facing message for an error. Storage and other
// unexpected failures surface as a generic message; the detail is logged at
// the call site, never echoed back.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

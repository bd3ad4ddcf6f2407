// internal/app/system/apperr/apperr.go

// Package apperr classifies domain errors so the request boundary can
// translate them to HTTP statuses uniformly. Handlers wrap or construct
// these; httpjson renders them as {"message": "..."} bodies.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies the class of a domain error.
type Kind int

const (
	// Validation: malformed, missing, or out-of-range input.
	Validation Kind = iota
	// Auth: missing or invalid credentials or token.
	Auth
	// Forbidden: authenticated but not permitted.
	Forbidden
	// NotFound: a referenced entity is absent.
	NotFound
	// State: the operation is invalid for the record's current lifecycle
	// state (e.g. finishing an already-finished match).
	State
	// Internal: unexpected failure; logged, generic message to the caller.
	Internal
)

// Error is a classified domain error with a caller-safe message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Validationf builds a Validation error with a formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: Validation, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a NotFound error with a formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: NotFound, Msg: fmt.Sprintf(format, args...)}
}

// Statef builds a State error with a formatted message.
func Statef(format string, args ...any) *Error {
	return &Error{Kind: State, Msg: fmt.Sprintf(format, args...)}
}

// Forbiddenf builds a Forbidden error with a formatted message.
func Forbiddenf(format string, args ...any) *Error {
	return &Error{Kind: Forbidden, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error while keeping it unwrappable.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the Kind of err, or Internal for unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// Status maps an error to its HTTP status code. Validation and State
// errors both map to 400 per the API contract.
func Status(err error) int {
	switch KindOf(err) {
	case Validation, State:
		return http.StatusBadRequest
	case Auth:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-safe message for err. Unclassified errors
// get a generic message so internals never leak to clients.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != Internal {
		return ae.Msg
	}
	return "Internal server error"
}

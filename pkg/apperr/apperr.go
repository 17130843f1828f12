// Package apperr is the closed error taxonomy handlers map to HTTP.
//
//	InvalidInput → 400   the request could not be parsed
//	NotFound     → 404   an id-targeted operation found nothing
//	Unhandled    → 500   everything else (store outages, constraint errors…)
//
// Only the public message of InvalidInput and NotFound errors is ever shown
// to clients; Unhandled errors always surface as "Internal Server Error".
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an Error.
type Kind uint8

const (
	Unhandled Kind = iota
	InvalidInput
	NotFound
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case NotFound:
		return "not_found"
	default:
		return "unhandled"
	}
}

// InternalMessage is the only message an Unhandled error ever exposes.
const InternalMessage = "Internal Server Error"

// Error carries a kind, the message safe to return to clients, and the
// underlying cause (never returned to clients).
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Invalid builds an InvalidInput error.
func Invalid(message string, cause error) *Error {
	return &Error{Kind: InvalidInput, Message: message, Err: cause}
}

// Missing builds a NotFound error.
func Missing(message string, cause error) *Error {
	return &Error{Kind: NotFound, Message: message, Err: cause}
}

// Internal wraps cause as Unhandled.
func Internal(cause error) *Error {
	return &Error{Kind: Unhandled, Message: InternalMessage, Err: cause}
}

// KindOf reports the kind of err; anything that is not an *Error is Unhandled.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unhandled
}

// StatusCode maps err to its HTTP status.
func StatusCode(err error) int {
	switch KindOf(err) {
	case InvalidInput:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the client-facing message for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Unhandled && e.Message != "" {
		return e.Message
	}
	return InternalMessage
}

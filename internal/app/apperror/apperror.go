// Package apperror carries business-rule violations from the services to the
// HTTP boundary with their response status attached. Anything that is not an
// *Error is treated as an internal failure by the boundary.
package apperror

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindInvalidDate      Kind = "invalid_date"
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindConflict         Kind = "conflict"
	KindForbidden        Kind = "forbidden"
	KindUnauthorized     Kind = "unauthorized"
	KindBadRequest       Kind = "bad_request"
)

type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

func InvalidDate(message string) *Error {
	return &Error{Kind: KindInvalidDate, Status: http.StatusBadRequest, Message: message}
}

func CapacityExceeded(message string) *Error {
	return &Error{Kind: KindCapacityExceeded, Status: http.StatusBadRequest, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusConflict, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Status: http.StatusForbidden, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Status: http.StatusBadRequest, Message: message}
}

// StatusOf resolves the HTTP status an error maps to, defaulting to 500.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

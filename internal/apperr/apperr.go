// Package apperr defines the error kinds surfaced to RPC callers. Services wrap
// one of the sentinels with context; transports classify with Code / HTTPStatus.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrUserNotFound      = errors.New("user not found")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid status transition")
)

const CodeInternal = "INTERNAL"

var kinds = []struct {
	err    error
	code   string
	status int
}{
	{ErrUnauthenticated, "UNAUTHENTICATED", http.StatusUnauthorized},
	{ErrUserNotFound, "USER_NOT_FOUND", http.StatusConflict},
	{ErrForbidden, "FORBIDDEN", http.StatusForbidden},
	{ErrNotFound, "NOT_FOUND", http.StatusNotFound},
	{ErrInvalidArgument, "INVALID_ARGUMENT", http.StatusBadRequest},
	{ErrInvalidTransition, "INVALID_TRANSITION", http.StatusBadRequest},
}

// Code returns the wire code for err, or CodeInternal when err carries no known kind.
func Code(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.code
		}
	}
	return CodeInternal
}

// HTTPStatus maps err to a response status; unlabeled errors are 500.
func HTTPStatus(err error) int {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

// IsLabeled reports whether err carries one of the kinds above.
func IsLabeled(err error) bool {
	return Code(err) != CodeInternal
}

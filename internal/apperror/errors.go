package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so the HTTP layer can pick a status code without
// inspecting error strings or relying on a type hierarchy.
type Kind int

const (
	KindInternal Kind = iota
	KindAuthentication
	KindTokenExpired
	KindTokenInvalid
	KindUserNotFound
	KindNotFound
	KindForbidden
	KindPermissionDenied
	KindConflict
	KindBadRequest
)

var kindStatus = map[Kind]int{
	KindInternal:         http.StatusInternalServerError,
	KindAuthentication:   http.StatusUnauthorized,
	KindTokenExpired:     http.StatusUnauthorized,
	KindTokenInvalid:     http.StatusUnauthorized,
	KindUserNotFound:     http.StatusNotFound,
	KindNotFound:         http.StatusNotFound,
	KindForbidden:        http.StatusForbidden,
	KindPermissionDenied: http.StatusForbidden,
	KindConflict:         http.StatusConflict,
	KindBadRequest:       http.StatusBadRequest,
}

// Error carries a kind, a client-safe message and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause to a new error. The cause is preserved for logging but
// never reaches the client response.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind of err, defaulting to KindInternal for errors that
// did not originate in this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusOf maps err to the HTTP status code for its kind.
func StatusOf(err error) int {
	if status, ok := kindStatus[KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-safe message for err. Internal errors are
// masked so the underlying detail stays in the logs only.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

package api

import (
	"errors"
	"fmt"
)

// ErrorKind identifies one variant of the closed client error set.
type ErrorKind string

const (
	// KindUnreachable means the request never produced a server response.
	KindUnreachable ErrorKind = "unreachable"
	// KindRejected means the server responded with a non-2xx status.
	KindRejected ErrorKind = "rejected"
	// KindValidationFailed means a local precondition was violated before
	// any network call was made.
	KindValidationFailed ErrorKind = "validation_failed"
	// KindNotFound means a local operation referenced a resource id that
	// is absent from the current collection.
	KindNotFound ErrorKind = "not_found"
)

// Error is the uniform error type surfaced by the API client and the
// resource controllers. Every consumer handles the same closed set of kinds.
type Error struct {
	// Kind selects the variant.
	Kind ErrorKind
	// Status is the HTTP status code, set only for KindRejected.
	Status int
	// Message is a human-readable description suitable for display.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == KindRejected {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unreachable wraps a transport failure that produced no server response.
func Unreachable(err error) *Error {
	return &Error{Kind: KindUnreachable, Message: err.Error()}
}

// Rejected reports a server error response with the given status and detail.
func Rejected(status int, message string) *Error {
	return &Error{Kind: KindRejected, Status: status, Message: message}
}

// ValidationFailed reports a client-side precondition violation.
func ValidationFailed(message string) *Error {
	return &Error{Kind: KindValidationFailed, Message: message}
}

// NotFound reports a reference to a locally unknown resource.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// AsError extracts the *Error from err's chain, or nil if there is none.
func AsError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

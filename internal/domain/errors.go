package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface keeps the handler layer free of per-error switch growth.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrInvalidTransition is returned when a moderation operation is applied
	// to a material whose current visibility does not permit it (for example
	// approving an already-published material). A losing concurrent writer on
	// the same material resolves to this error as well.
	ErrInvalidTransition = errors.New("invalid visibility transition")

	// ErrAuth is returned when the storage provider rejects the refresh-token
	// exchange. It is fatal for the calling operation and never retried inline.
	ErrAuth = errors.New("storage authentication failed")

	// ErrStorage is returned for storage provider failures other than
	// authentication and not-found (network errors, 5xx responses).
	ErrStorage = errors.New("storage operation failed")
)

// InvalidTransitionError carries the state detail of a refused moderation
// operation. Matches ErrInvalidTransition via errors.Is().
type InvalidTransitionError struct {
	MaterialID string
	From       string
	Operation  string
}

// Error implements the error interface
func (e *InvalidTransitionError) Error() string {
	return "cannot " + e.Operation + " material " + e.MaterialID + " in state " + e.From
}

// StatusCode implements the HTTPError interface
func (e *InvalidTransitionError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrInvalidTransition
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

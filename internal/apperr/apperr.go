// Package apperr defines the error kinds shared by every service layer and
// their mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed caller input (negative amount, bad date,
	// empty required field). Always caller-correctable.
	ErrValidation = errors.New("validation failed")

	// ErrAuth covers bad credentials and missing/invalid/expired tokens.
	// Callers see one uniform message regardless of which check failed.
	ErrAuth = errors.New("authentication failed")

	// ErrNotFound is returned for records that do not exist and, identically,
	// for records owned by someone else.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks uniqueness violations such as a duplicate email.
	ErrConflict = errors.New("conflict")
)

// Validationf wraps ErrValidation with caller-facing detail.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// NotFoundf wraps ErrNotFound with the record kind that was requested.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

// Conflictf wraps ErrConflict with caller-facing detail.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConflict}, args...)...)
}

// StatusCode translates an error kind into an HTTP status. Unknown errors
// map to 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return 400
	case errors.Is(err, ErrAuth):
		return 401
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrConflict):
		return 409
	default:
		return 500
	}
}

// Message returns the body to render for an error. Auth failures collapse to
// a single message so the response never reveals which check rejected the
// caller; internal errors are masked entirely.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrAuth):
		return "authentication failed"
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		return err.Error()
	default:
		return "internal error"
	}
}

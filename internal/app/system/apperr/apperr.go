// Package apperr defines the error kinds surfaced by roster operations.
//
// Stores return their own sentinel errors; services translate them into one
// of the kinds below, wrapping with context:
//
//	return fmt.Errorf("%w: worker %s", apperr.ErrNotFound, id.Hex())
//
// Callers test with errors.Is and transports map kinds to status codes via Status.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound means a referenced entity id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAuth means the supplied credentials did not match.
	ErrAuth = errors.New("incorrect credentials")
	// ErrForbidden means the actor's scope does not cover the target.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation means input was malformed or missing a required field.
	ErrValidation = errors.New("invalid input")
	// ErrConflict means a uniqueness invariant would be violated.
	ErrConflict = errors.New("conflict")
)

// Status maps an error to an HTTP status code. Unknown errors map to 500.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsKnown reports whether err carries one of the kinds defined here.
func IsKnown(err error) bool {
	return Status(err) != http.StatusInternalServerError && err != nil
}

package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// RespondError maps domain errors to failure envelopes. Unexpected errors
// collapse to a generic internal failure so internals never leak.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Fail(w, r, http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrDuplicate):
		Fail(w, r, http.StatusConflict, err.Error(), "DUPLICATE")
	case errors.Is(err, ErrValidation):
		Fail(w, r, http.StatusBadRequest, err.Error(), "VALIDATION")
	case errors.Is(err, ErrForbidden):
		Fail(w, r, http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUnauthorized):
		Fail(w, r, http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	default:
		Fail(w, r, http.StatusInternalServerError, "internal error", "INTERNAL")
	}
}

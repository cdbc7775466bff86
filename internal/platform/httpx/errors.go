// Package httpx provides JSON response helpers following RFC7807 problem details.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors shared by the domain services.
var (
	// ErrNotFound indicates a referenced id that does not resolve.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates a uniqueness conflict, e.g. a second valuation for a repair.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("validation failed")
)

// RespondError maps domain errors to HTTP problem responses. Anything that is
// not a recognised sentinel is treated as a server-side persistence failure
// and its message is withheld from the client.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

package httpapi

import (
	"errors"
	"net/http"

	"tableorder/api-service/internal/store"
)

// One mapping from error kind to transport status, referenced by every
// handler. Unauthorized and not-found messages stay generic so responses
// leak neither which credential failed nor whether a foreign record exists.
func statusForError(err error) (int, string, string) {
	switch {
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, "conflict", "already exists"
	case errors.Is(err, store.ErrInvalidCredentials):
		return http.StatusUnauthorized, "unauthorized", "invalid credentials"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found", "resource not found"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, code, message := statusForError(err)
	writeError(w, status, code, message)
}

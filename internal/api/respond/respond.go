// Package respond centralizes JSON responses and the mapping from the closed
// set of service error kinds to HTTP statuses. Raw internal errors are never
// echoed to clients.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/OmerBikec/Enid-Beauty/internal/identity"
	"github.com/OmerBikec/Enid-Beauty/internal/store"
	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Fail writes a client-safe error body.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Error maps known error kinds to statuses; anything unrecognized becomes a
// generic 500 so transport details never leak to the client.
func Error(w http.ResponseWriter, logger *logging.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		Fail(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		Fail(w, http.StatusConflict, "version conflict")
	case errors.Is(err, store.ErrDuplicateID):
		Fail(w, http.StatusConflict, "already exists")
	case errors.Is(err, identity.ErrForbidden):
		Fail(w, http.StatusForbidden, "forbidden")
	default:
		if logger != nil {
			logger.Error("request failed", "error", err)
		}
		Fail(w, http.StatusInternalServerError, "internal error")
	}
}

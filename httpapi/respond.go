package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	membergate "github.com/batdigest/membergate"
)

// Client-facing error texts. The site frontend matches on these strings,
// so they are contract, not copy.
const (
	msgInvalidRequest     = "Invalid request"
	msgInvalidCredentials = "Invalid credentials"
	msgNotAuthenticated   = "Not authenticated"
	msgSessionExpired     = "Session expired"
	msgAccessDenied       = "Access denied"
	msgUnknownResource    = "Unknown resource"
	msgTooManyAttempts    = "Too many attempts"
	msgServiceUnavailable = "Service unavailable"
	msgInternalError      = "Internal error"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// writeEngineError maps engine sentinel errors onto the HTTP contract.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, membergate.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, membergate.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, msgSessionExpired)
	case errors.Is(err, membergate.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, msgAccessDenied)
	case errors.Is(err, membergate.ErrUnknownResource):
		writeError(w, http.StatusNotFound, msgUnknownResource)
	case errors.Is(err, membergate.ErrLoginRateLimited):
		writeError(w, http.StatusTooManyRequests, msgTooManyAttempts)
	case errors.Is(err, membergate.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, msgServiceUnavailable)
	default:
		writeError(w, http.StatusInternalServerError, msgInternalError)
	}
}

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"seleniumd/internal/fetch"
	"seleniumd/internal/supervisor"
	"seleniumd/internal/workflow"
	"seleniumd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var he HTTPError
	switch {
	case errors.As(err, &he):
		return he.StatusCode()
	case workflow.IsUnknownTarget(err), supervisor.IsNotRunning(err):
		return http.StatusNotFound
	case supervisor.IsStartupFailed(err):
		return http.StatusConflict
	case supervisor.IsStartupTimeout(err):
		return http.StatusGatewayTimeout
	case supervisor.IsSpawnError(err), fetch.IsFetchError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

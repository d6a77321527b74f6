// Package handlers contains HTTP request handlers
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/randytsao24/fuelfinder/internal/shared"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

// writeEngineError maps the typed error kinds to HTTP statuses. Upstream
// failures surface as a driver-safe message, never as upstream bodies.
func writeEngineError(w http.ResponseWriter, err error) {
	var status int
	var message string

	switch {
	case errors.Is(err, shared.ErrNoPriorSearch):
		status, message = http.StatusConflict, "Run a station search before asking about amenities."
	case errors.Is(err, shared.ErrMissingCode):
		status, message = http.StatusUnprocessableEntity, "Real-time amenity data is unavailable for this station."
	case errors.Is(err, shared.ErrNotFound):
		status, message = http.StatusNotFound, "Location not found."
	case errors.Is(err, shared.ErrAuth):
		status, message = http.StatusBadGateway, "Upstream authorization failed."
	case errors.Is(err, shared.ErrNetwork):
		status, message = http.StatusGatewayTimeout, "Upstream request timed out."
	case errors.Is(err, shared.ErrUpstream):
		status, message = http.StatusBadGateway, "Real-time system offline."
	default:
		status, message = http.StatusInternalServerError, "Internal error."
	}

	slog.Warn("request failed", "error", err, "status", status)
	writeJSON(w, status, map[string]any{
		"error":   message,
		"message": err.Error(),
	})
}

func parseIntParam(r *http.Request, name string, defaultVal, min, max int) int {
	str := r.URL.Query().Get(name)
	if str == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return defaultVal
	}

	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

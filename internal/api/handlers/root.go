package handlers

import (
	"net/http"
)

type RootHandler struct{}

func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

func (h *RootHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "fuelfinder",
		"description": "Fuel stop finder with real-time parking, shower, and food availability",
		"version":     "1.0.0",
		"endpoints": map[string]string{
			"GET /":                             "API information",
			"GET /health":                       "Health check",
			"POST /fuel/query":                  "Resolve a driver query (search or amenity follow-up)",
			"GET /fuel/stations/near":           "Ranked stations near coordinates",
			"GET /fuel/stations/amenities":      "Real-time amenity detail for one station",
			"GET /fuel/geocode":                 "Resolve a place name to coordinates",
			"POST /fuel/session/{userId}/reset": "Forget a user's conversation context",
		},
	})
}

func (h *RootHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":   "Route not found",
		"message": "Check the root endpoint (/) for available routes",
	})
}

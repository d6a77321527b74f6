package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/randytsao24/fuelfinder/internal/config"
	"github.com/randytsao24/fuelfinder/internal/engine"
	"github.com/randytsao24/fuelfinder/internal/models"
	"github.com/randytsao24/fuelfinder/internal/stations"
)

const (
	minRadius = 1000
	maxRadius = 500000
	maxLimit  = 5
)

// FuelHandler serves the stop resolution endpoints.
type FuelHandler struct {
	resolver QueryResolver
	searcher StationSearcher
	details  AmenityFetcher
	geocoder PlaceResolver
	sessions SessionResetter

	defaultRadius int
}

func NewFuelHandler(resolver QueryResolver, searcher StationSearcher, details AmenityFetcher, geocoder PlaceResolver, sessions SessionResetter, defaultRadius int) *FuelHandler {
	return &FuelHandler{
		resolver:      resolver,
		searcher:      searcher,
		details:       details,
		geocoder:      geocoder,
		sessions:      sessions,
		defaultRadius: defaultRadiusOr(defaultRadius),
	}
}

type queryRequest struct {
	UserID            string   `json:"user_id"`
	Text              string   `json:"text"`
	Place             string   `json:"place"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	RadiusMeters      int      `json:"radius_meters"`
	AmenitiesRequired bool     `json:"amenities_required"`
}

// ResolveQuery is the conversational entry point: a text query with optional
// place name and/or coordinates, resolved as a new search or a follow-up.
func (h *FuelHandler) ResolveQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Invalid JSON body",
		})
		return
	}

	if req.Text == "" && req.Place == "" && req.Latitude == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Provide text, a place, or coordinates",
		})
		return
	}

	// Anonymous callers get a minted id so their follow-ups still work.
	userID := req.UserID
	if userID == "" {
		userID = uuid.NewString()
	}

	q := engine.Query{
		UserID:       userID,
		Text:         req.Text,
		Place:        req.Place,
		RadiusMeters: req.RadiusMeters,
		Mode:         stations.ModeNearest,
	}
	if req.AmenitiesRequired {
		q.Mode = stations.ModeAmenityPriority
	}
	if req.Latitude != nil && req.Longitude != nil {
		q.Coord = &models.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	result, err := h.resolver.Resolve(r.Context(), q)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user_id": userID,
		"result":  result,
	})
}

// GetStationsNear returns ranked stations around lat/lng coordinates.
func (h *FuelHandler) GetStationsNear(w http.ResponseWriter, r *http.Request) {
	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")

	if latStr == "" || lngStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "lat and lng query parameters are required",
		})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Invalid lat parameter",
		})
		return
	}

	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Invalid lng parameter",
		})
		return
	}

	radius := parseIntParam(r, "radius", h.defaultRadius, minRadius, maxRadius)

	mode := stations.ModeNearest
	if r.URL.Query().Get("mode") == string(stations.ModeAmenityPriority) {
		mode = stations.ModeAmenityPriority
	}

	ranked, err := h.searcher.Search(r.Context(), models.Coordinate{Latitude: lat, Longitude: lng}, radius, mode)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"lat":           lat,
		"lng":           lng,
		"radius_meters": radius,
		"mode":          mode,
		"stations":      ranked,
		"count":         len(ranked),
	})
}

// GetAmenityDetail returns real-time amenity availability for one station.
func (h *FuelHandler) GetAmenityDetail(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("id")
	code := r.URL.Query().Get("code")

	id, err := strconv.ParseInt(idStr, 10, 64)
	if idStr == "" || err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "id query parameter is required and must be numeric",
		})
		return
	}

	detail, err := h.details.Fetch(r.Context(), id, code)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"detail":  detail,
	})
}

// Geocode resolves a place name to coordinates.
func (h *FuelHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "q query parameter is required",
		})
		return
	}

	place, err := h.geocoder.Resolve(r.Context(), q)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"place":   place,
	})
}

// ResetSession forgets a user's conversation context.
func (h *FuelHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "userId is required",
		})
		return
	}

	existed := h.sessions.Reset(userID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user_id": userID,
		"existed": existed,
	})
}

// defaultRadiusOr returns cfg default when the handler was built without one.
func defaultRadiusOr(radius int) int {
	if radius > 0 {
		return radius
	}
	return config.DefaultRadiusMeters
}

// Package geo resolves place names to coordinates and computes distances.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/randytsao24/fuelfinder/internal/models"
	"github.com/randytsao24/fuelfinder/internal/shared"
)

const geocodeUserAgent = "FuelFinder/4.0"

// Resolver converts place names to coordinates via a Nominatim-style
// geocoding endpoint. Lookups are not cached: repeated calls re-query.
type Resolver struct {
	client  *http.Client
	baseURL string
}

// NewResolver creates a resolver against the given geocoding endpoint.
func NewResolver(baseURL string, timeout time.Duration) *Resolver {
	return &Resolver{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type geocodeResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Resolve looks up a place name and returns the best match.
func (r *Resolver) Resolve(ctx context.Context, place string) (models.Place, error) {
	params := url.Values{}
	params.Set("q", place)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return models.Place{}, fmt.Errorf("%w: building geocode request: %v", shared.ErrNetwork, err)
	}
	req.Header.Set("User-Agent", geocodeUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return models.Place{}, fmt.Errorf("%w: geocoding %q: %v", shared.ErrNetwork, place, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Place{}, fmt.Errorf("%w: place %q (geocoder status %d)", shared.ErrNotFound, place, resp.StatusCode)
	}

	var results []geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.Place{}, fmt.Errorf("%w: place %q (malformed geocoder response)", shared.ErrNotFound, place)
	}
	if len(results) == 0 {
		return models.Place{}, fmt.Errorf("%w: place %q", shared.ErrNotFound, place)
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return models.Place{}, fmt.Errorf("%w: place %q (bad coordinates in geocoder response)", shared.ErrNotFound, place)
	}

	return models.Place{
		Coordinate:  models.Coordinate{Latitude: lat, Longitude: lon},
		DisplayName: results[0].DisplayName,
	}, nil
}

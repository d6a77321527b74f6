// Package stations queries, normalizes, and ranks fuel stop candidates, and
// fetches real-time amenity detail for a chosen stop.
package stations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/randytsao24/fuelfinder/internal/cache"
	"github.com/randytsao24/fuelfinder/internal/geo"
	"github.com/randytsao24/fuelfinder/internal/models"
	"github.com/randytsao24/fuelfinder/internal/shared"
)

// Mode selects how candidates are ordered.
type Mode string

const (
	// ModeNearest orders purely by distance.
	ModeNearest Mode = "nearest"
	// ModeAmenityPriority orders real-time-capable stations first, each
	// group nearest-first.
	ModeAmenityPriority Mode = "priority"
)

// HeaderSource supplies authenticated headers for amenity API calls.
type HeaderSource interface {
	Headers(ctx context.Context) (http.Header, error)
}

// SearchService queries the amenity-search API and ranks the results.
type SearchService struct {
	client  *http.Client
	baseURL string
	headers HeaderSource
	limit   int
	results *cache.Cache[[]models.RankedStation]
}

// NewSearchService creates a search service. limit caps how many ranked
// stations a search returns (applied after sorting).
func NewSearchService(baseURL string, headers HeaderSource, limit int, timeout, cacheTTL time.Duration) *SearchService {
	return &SearchService{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		headers: headers,
		limit:   limit,
		results: cache.New[[]models.RankedStation](cacheTTL),
	}
}

// rawStation is one candidate record from the amenity-search API.
type rawStation struct {
	Name          string   `json:"name"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	LocationGeo   string   `json:"locationGeo"`
	LocationID    int64    `json:"locationId"`
	LocationCd    string   `json:"locationCd"`
	CustomerPrice *float64 `json:"customerPrice"`
	Savings       *float64 `json:"savings"`
}

// Search queries stations around center and returns them ranked per mode.
func (s *SearchService) Search(ctx context.Context, center models.Coordinate, radiusMeters int, mode Mode) ([]models.RankedStation, error) {
	key := fmt.Sprintf("%.4f,%.4f,%d,%s", center.Latitude, center.Longitude, radiusMeters, mode)
	if cached, ok := s.results.Get(key); ok {
		return cached, nil
	}

	headers, err := s.headers.Headers(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(center.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(center.Longitude, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(radiusMeters))
	params.Set("amenitiesType", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building search request: %v", shared.ErrNetwork, err)
	}
	req.Header = headers

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: station search: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: amenity search returned status %d", shared.ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading search response: %v", shared.ErrNetwork, err)
	}

	raw, err := decodeCandidates(body)
	if err != nil {
		return nil, err
	}

	ranked := make([]models.RankedStation, 0, len(raw))
	for _, item := range raw {
		ranked = append(ranked, normalize(item, center, mode))
	}

	rank(ranked, mode)

	// Truncate only after the full candidate set has been ordered.
	if len(ranked) > s.limit {
		ranked = ranked[:s.limit]
	}

	s.results.Set(key, ranked)
	return ranked, nil
}

// Close releases the result cache.
func (s *SearchService) Close() {
	s.results.Close()
}

// decodeCandidates accepts either a bare JSON array or a {data: [...]}
// envelope, both of which the upstream has been seen to return.
func decodeCandidates(body []byte) ([]rawStation, error) {
	var envelope struct {
		Data []rawStation `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, nil
	}

	var list []rawStation
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: malformed amenity search payload", shared.ErrUpstream)
	}
	return list, nil
}

// parseGeo splits a "lat,lon" string. A malformed or missing value degrades
// that one candidate to the sentinel distance instead of failing the batch.
func parseGeo(s string) (models.Coordinate, bool) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return models.Coordinate{}, false
	}
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lonErr != nil {
		return models.Coordinate{}, false
	}
	return models.Coordinate{Latitude: lat, Longitude: lon}, true
}

func normalize(item rawStation, center models.Coordinate, mode Mode) models.RankedStation {
	dist := geo.UnknownDistance
	mapsURL := ""
	if coord, ok := parseGeo(item.LocationGeo); ok {
		dist = geo.Haversine(center.Latitude, center.Longitude, coord.Latitude, coord.Longitude)
		mapsURL = fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%v,%v", coord.Latitude, coord.Longitude)
	}

	hasRealtime := item.LocationCd != ""

	st := models.RankedStation{
		Name:          item.Name,
		DistanceMiles: dist,
		Location:      item.City + ", " + item.State,
		Financials: models.Financials{
			DriverPrice: formatPrice(item.CustomerPrice),
			Savings:     formatPrice(item.Savings),
		},
		HasRealtime:  hasRealtime,
		StationID:    item.LocationID,
		RealtimeCode: item.LocationCd,
		MapsURL:      mapsURL,
	}

	switch {
	case mode == ModeAmenityPriority && hasRealtime:
		st.DetailRecommended = true
		st.RecommendationNote = fmt.Sprintf(
			"RECOMMENDED: fetch amenity detail (stationId=%d, code=%q)",
			item.LocationID, item.LocationCd)
	case mode == ModeAmenityPriority:
		st.RecommendationNote = "No real-time amenity data available for this station."
	case hasRealtime:
		st.RecommendationNote = "Optional: real-time amenity detail available on request."
	default:
		st.RecommendationNote = "Basic fuel station."
	}

	return st
}

// rank orders candidates in place. Sorting is stable so candidates at equal
// distance keep their upstream order.
func rank(stations []models.RankedStation, mode Mode) {
	if mode == ModeAmenityPriority {
		sort.SliceStable(stations, func(i, j int) bool {
			if stations[i].HasRealtime != stations[j].HasRealtime {
				return stations[i].HasRealtime
			}
			return stations[i].DistanceMiles < stations[j].DistanceMiles
		})
		return
	}
	sort.SliceStable(stations, func(i, j int) bool {
		return stations[i].DistanceMiles < stations[j].DistanceMiles
	})
}

func formatPrice(v *float64) string {
	if v == nil {
		return "$0.00"
	}
	return fmt.Sprintf("$%.2f", *v)
}

package stations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/randytsao24/fuelfinder/internal/models"
	"github.com/randytsao24/fuelfinder/internal/shared"
)

// DetailService fetches real-time amenity detail for one station.
type DetailService struct {
	client  *http.Client
	baseURL string
	headers HeaderSource
}

// NewDetailService creates a detail service.
func NewDetailService(baseURL string, headers HeaderSource, timeout time.Duration) *DetailService {
	return &DetailService{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		headers: headers,
	}
}

// normalizeDetailCode converts a station's realtime location code into the
// key the detail API expects: codes longer than 3 characters are sent
// without their leading character. This mirrors an undocumented upstream
// convention observed in production traffic.
// TODO: confirm the >3 threshold against the upstream location-code format.
func normalizeDetailCode(code string) string {
	if len(code) > 3 {
		return code[1:]
	}
	return code
}

type detailResponse struct {
	Data *struct {
		Site    string `json:"site"`
		Parking *struct {
			TotalSpaces     *int `json:"total_spaces"`
			AvailableSpaces *int `json:"available_spaces"`
		} `json:"parking"`
		ReserveIt *struct {
			AvailableSpaces *int `json:"available_spaces"`
		} `json:"reserve_it"`
		Shower *struct {
			AvailableShowers *int `json:"available_showers"`
		} `json:"shower"`
	} `json:"data"`
}

// Fetch returns shaped amenity detail for the station identified by
// stationID and its realtime code. A blank code fails immediately: detail is
// fundamentally unavailable without one.
func (s *DetailService) Fetch(ctx context.Context, stationID int64, code string) (models.AmenityDetail, error) {
	if strings.TrimSpace(code) == "" {
		return models.AmenityDetail{}, fmt.Errorf("%w: station %d has no realtime code", shared.ErrMissingCode, stationID)
	}

	headers, err := s.headers.Headers(ctx)
	if err != nil {
		return models.AmenityDetail{}, err
	}

	params := url.Values{}
	params.Set("locationId", normalizeDetailCode(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return models.AmenityDetail{}, fmt.Errorf("%w: building detail request: %v", shared.ErrNetwork, err)
	}
	req.Header = headers

	resp, err := s.client.Do(req)
	if err != nil {
		return models.AmenityDetail{}, fmt.Errorf("%w: amenity detail: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	// Upstream error bodies are never surfaced to callers.
	if resp.StatusCode != http.StatusOK {
		return models.AmenityDetail{}, fmt.Errorf("%w: real-time system offline", shared.ErrUpstream)
	}

	var payload detailResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Data == nil {
		return models.AmenityDetail{}, fmt.Errorf("%w: real-time system offline", shared.ErrUpstream)
	}

	data := payload.Data

	detail := models.AmenityDetail{
		StationID:   stationID,
		FoodOptions: data.Site,
	}
	if detail.FoodOptions == "" {
		detail.FoodOptions = "No food info listed."
	}
	if data.Parking != nil {
		detail.Parking.Total = models.KnownCount(data.Parking.TotalSpaces)
		detail.Parking.Available = models.KnownCount(data.Parking.AvailableSpaces)
	}
	if data.ReserveIt != nil {
		detail.Parking.ReservedAvailable = models.KnownCount(data.ReserveIt.AvailableSpaces)
	}
	if data.Shower != nil {
		detail.Showers.Available = models.KnownCount(data.Shower.AvailableShowers)
	}

	return detail, nil
}

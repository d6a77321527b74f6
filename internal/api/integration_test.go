package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/randytsao24/fuelfinder/internal/api"
	"github.com/randytsao24/fuelfinder/internal/config"
	"github.com/randytsao24/fuelfinder/internal/engine"
	"github.com/randytsao24/fuelfinder/internal/models"
	"github.com/randytsao24/fuelfinder/internal/shared"
	"github.com/randytsao24/fuelfinder/internal/stations"
)

// ---------------------------------------------------------------------------
// Mock providers
// ---------------------------------------------------------------------------

type mockResolver struct {
	result engine.Result
	err    error
	lastQ  engine.Query
}

func (m *mockResolver) Resolve(ctx context.Context, q engine.Query) (engine.Result, error) {
	m.lastQ = q
	if m.err != nil {
		return engine.Result{}, m.err
	}
	return m.result, nil
}

type mockSearcher struct {
	stations []models.RankedStation
	err      error

	lastRadius int
	lastMode   stations.Mode
}

func (m *mockSearcher) Search(ctx context.Context, center models.Coordinate, radiusMeters int, mode stations.Mode) ([]models.RankedStation, error) {
	m.lastRadius = radiusMeters
	m.lastMode = mode
	return m.stations, m.err
}

type mockDetails struct {
	detail models.AmenityDetail
	err    error

	lastID   int64
	lastCode string
}

func (m *mockDetails) Fetch(ctx context.Context, stationID int64, code string) (models.AmenityDetail, error) {
	m.lastID = stationID
	m.lastCode = code
	if m.err != nil {
		return models.AmenityDetail{}, m.err
	}
	return m.detail, nil
}

type mockGeocoder struct {
	place models.Place
	err   error
}

func (m *mockGeocoder) Resolve(ctx context.Context, place string) (models.Place, error) {
	if m.err != nil {
		return models.Place{}, m.err
	}
	return m.place, nil
}

type mockSessions struct {
	existed bool
	lastID  string
}

func (m *mockSessions) Reset(userID string) bool {
	m.lastID = userID
	return m.existed
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

type deps struct {
	resolver *mockResolver
	searcher *mockSearcher
	details  *mockDetails
	geocoder *mockGeocoder
	sessions *mockSessions
}

func defaultDeps() *deps {
	return &deps{
		resolver: &mockResolver{result: engine.Result{
			Kind:     engine.KindStations,
			Stations: []models.RankedStation{{Name: "Gary TA", StationID: 102, RealtimeCode: "TA123"}},
		}},
		searcher: &mockSearcher{stations: []models.RankedStation{
			{Name: "Plainfield Stop", DistanceMiles: 12.4, StationID: 101},
		}},
		details: &mockDetails{detail: models.AmenityDetail{
			StationID:   102,
			FoodOptions: "Subway",
			Parking: models.ParkingDetail{
				Total:     models.Count{Known: true, Value: 80},
				Available: models.Count{Known: true, Value: 23},
			},
			Showers: models.ShowerDetail{Available: models.Count{Known: true, Value: 3}},
		}},
		geocoder: &mockGeocoder{place: models.Place{
			Coordinate:  models.Coordinate{Latitude: 41.8781, Longitude: -87.6298},
			DisplayName: "Chicago, Cook County, Illinois",
		}},
		sessions: &mockSessions{existed: true},
	}
}

func newTestServer(t *testing.T, d *deps) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		RadiusMeters:  config.DefaultRadiusMeters,
		SearchTimeout: 5 * time.Second,
	}
	router := api.NewRouter(cfg, d.resolver, d.searcher, d.details, d.geocoder, d.sessions)
	return httptest.NewServer(router)
}

func get(t *testing.T, server *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func post(t *testing.T, server *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(server.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return m
}

func assertStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Errorf("status = %d, want %d", resp.StatusCode, want)
	}
}

func assertSuccess(t *testing.T, body map[string]any) {
	t.Helper()
	if body["success"] != true {
		t.Errorf("expected success=true, body: %v", body)
	}
}

func assertField(t *testing.T, body map[string]any, field string) {
	t.Helper()
	if _, ok := body[field]; !ok {
		t.Errorf("missing field %q in response: %v", field, body)
	}
}

// ---------------------------------------------------------------------------
// Health & root
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	srv := newTestServer(t, defaultDeps())
	defer srv.Close()

	resp := get(t, srv, "/health")
	assertStatus(t, resp, http.StatusOK)

	body := decodeBody(t, resp)
	assertField(t, body, "status")
	assertField(t, body, "uptime")

	if body["status"] != "OK" {
		t.Errorf("status = %v, want OK", body["status"])
	}
}

func TestAPIRoot(t *testing.T) {
	srv := newTestServer(t, defaultDeps())
	defer srv.Close()

	resp := get(t, srv, "/api")
	assertStatus(t, resp, http.StatusOK)

	body := decodeBody(t, resp)
	assertField(t, body, "endpoints")
}

// ---------------------------------------------------------------------------
// Query endpoint
// ---------------------------------------------------------------------------

func TestQuery(t *testing.T) {
	d := defaultDeps()
	srv := newTestServer(t, d)
	defer srv.Close()

	resp := post(t, srv, "/fuel/query", `{"user_id":"driver-1","text":"fuel near Chicago"}`)
	assertStatus(t, resp, http.StatusOK)

	body := decodeBody(t, resp)
	assertSuccess(t, body)
	assertField(t, body, "result")

	if body["user_id"] != "driver-1" {
		t.Errorf("user_id = %v, want driver-1", body["user_id"])
	}
	if d.resolver.lastQ.Mode != stations.ModeNearest {
		t.Errorf("mode = %v, want nearest by default", d.resolver.lastQ.Mode)
	}
}

func TestQueryMintsUserID(t *testing.T) {
	srv := newTestServer(t, defaultDeps())
	defer srv.Close()

	resp := post(t, srv, "/fuel/query", `{"text":"fuel near Chicago"}`)
	assertStatus(t, resp, http.StatusOK)

	body := decodeBody(t, resp)
	id, _ := body["user_id"].(string)
	if id == "" {
		t.Error("anonymous query should be assigned a user id")
	}
}

func TestQueryAmenitiesRequired(t *testing.T) {
	d := defaultDeps()
	srv := newTestServer(t, d)
	defer srv.Close()

	resp := post(t, srv, "/fuel/query", `{"text":"fuel near Chicago","amenities_required":true}`)
	assertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	if d.resolver.lastQ.Mode != stations.ModeAmenityPriority {
		t.Errorf("mode = %v, want priority", d.resolver.lastQ.Mode)
	}
}

func TestQueryCoordinates(t *testing.T) {
	d := defaultDeps()
	srv := newTestServer(t, d)
	defer srv.Close()

	resp := post(t, srv, "/fuel/query", `{"latitude":41.5,"longitude":-88.1}`)
	assertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	if d.resolver.lastQ.Coord == nil || d.resolver.lastQ.Coord.Latitude != 41.5 {
		t.Errorf("coord = %v, want lat 41.5", d.resolver.lastQ.Coord)
	}
}

func TestQueryValidation(t *testing.T) {
	srv := newTestServer(t, defaultDeps())
	defer srv.Close()

	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"invalid json", `{not json`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := post(t, srv, "/fuel/query", tc.body)
			assertStatus(t, resp, http.StatusBadRequest)
			resp.Body.Close()
		})
	}
}

func TestQueryErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no prior search", shared.ErrNoPriorSearch, http.StatusConflict},
		{"missing code", shared.ErrMissingCode, http.StatusUnprocessableEntity},
		{"not found", shared.ErrNotFound, http.StatusNotFound},
		{"auth", shared.ErrAuth, http.StatusBadGateway},
		{"network", shared.ErrNetwork, http.StatusGatewayTimeout},
		{"upstream", shared.ErrUpstream, http.StatusBadGateway},
		{"unclassified", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := defaultDeps()
			d.resolver.err = fmt.Errorf("wrapped: %w", tc.err)
			srv := newTestServer(t, d)
			defer srv.Close()

			resp := post(t, srv, "/fuel/query", `{"text":"is there parking?"}`)
			assertStatus(t, resp, tc.status)

			body := decodeBody(t, resp)
			if body["error"] == nil {
				t.Errorf("expected error field, body: %v", body)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Stations near
// ---------------------------------------------------------------------------

func TestStationsNear(t *testing.T) {
	d := defaultDeps()
	srv := newTestServer(t, d)
	defer srv.Close()

	resp := get(t, srv, "/fuel/stations/near?lat=41.8781&lng=-87.6298")
	assertStatus(t, resp, http.StatusOK)

	body := decodeBody(t, resp)
	assertSuccess(t, body)
	assertField(t, body, "stations")
	assertField(t, body, "count")

	if d.searcher.lastRadius != config.DefaultRadiusMeters {
		t.Errorf("radius = %d, want default %d", d.searcher.lastRadius, config.DefaultRadiusMeters)
	}
	if d.searcher.lastMode != stations.ModeNearest {
		t.Errorf("mode = %v, want nearest", d.searcher.lastMode)
	}
}

func TestStationsNearPriorityMode(t *testing.T) {
	d := defaultDeps()
	srv := newTestServer(t, d)
	defer srv.Close()

	resp := get(t, srv, "/fuel/stations/near?lat=41.8781&lng=-87.6298&mode=priority&radius=50000")
	assertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	if d.searcher.lastMode != stations.ModeAmenityPriority {
		t.Errorf("mode = %v, want priority", d.searcher.lastMode)
	}
	if d.searcher.lastRadius != 50000 {
		t.Errorf("radius = %d, want 50000", d.searcher.lastRadius)
	}
}

func TestStationsNearValidation(t *testing.T) {
	srv := newTestServer(t, defaultDeps())
	defer srv.Close()

	tests := []struct {
		name string
		path string
	}{
		{"missing lat", "/fuel/stations/near?lng=-87.6298"},
		{"missing lng", "/fuel/stations/near?lat=41.8781"},
		{"non-numeric lat", "/fuel/stations/near?lat=north&lng=-87.6298"},
		{"non-numeric lng", "/fuel/stations/near?lat=41.8781&lng=west"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := get(t, srv, tc.path)
			assertStatus(t, resp, http.StatusBadRequest)
			resp.Body.Close()
		})
	}
}

func TestStationsNearRadiusClamped(t *testing.T) {
	d := defaultDeps()
	srv := newTestServer(t, d)
	defer srv.Close()

	resp := get(t, srv, "/fuel/stations/near?lat=41.8781&lng=-87.6298&radius=99999999")
	assertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	if d.searcher.lastRadius != 500000 {
		t.Errorf("oversized radius should clamp to 500000, got %d", d.searcher.lastRadius)
	}
}

// ---------------------------------------------------------------------------
// Amenity detail
// ---------------------------------------------------------------------------

func TestAmenityDetail(t *testing.T) {
	d := defaultDeps()
	srv := newTestServer(t, d)
	defer srv.Close()

	resp := get(t, srv, "/fuel/stations/amenities?id=102&code=TA123")
	assertStatus(t, resp, http.StatusOK)

	body := decodeBody(t, resp)
	assertSuccess(t, body)
	assertField(t, body, "detail")

	if d.details.lastID != 102 {
		t.Errorf("station id = %d, want 102", d.details.lastID)
	}
	if d.details.lastCode != "TA123" {
		t.Errorf("code = %q, want TA123", d.details.lastCode)
	}
}

func TestAmenityDetailUnknownCountsMarshal(t *testing.T) {
	d := defaultDeps()
	d.details.detail = models.AmenityDetail{StationID: 102, FoodOptions: "No food info listed."}
	srv := newTestServer(t, d)
	defer srv.Close()

	resp := get(t, srv, "/fuel/stations/amenities?id=102&code=TA123")
	assertStatus(t, resp, http.StatusOK)

	body := decodeBody(t, resp)
	detail, ok := body["detail"].(map[string]any)
	if !ok {
		t.Fatal("detail should be an object")
	}
	parking, ok := detail["parking"].(map[string]any)
	if !ok {
		t.Fatal("parking should be an object")
	}
	if parking["available"] != "unknown" {
		t.Errorf(`unknown count marshals as %v, want "unknown"`, parking["available"])
	}
}

func TestAmenityDetailValidation(t *testing.T) {
	srv := newTestServer(t, defaultDeps())
	defer srv.Close()

	for _, path := range []string{
		"/fuel/stations/amenities",
		"/fuel/stations/amenities?id=not-a-number",
	} {
		resp := get(t, srv, path)
		assertStatus(t, resp, http.StatusBadRequest)
		resp.Body.Close()
	}
}

func TestAmenityDetailMissingCode(t *testing.T) {
	d := defaultDeps()
	d.details.err = fmt.Errorf("%w: station has no real-time code", shared.ErrMissingCode)
	srv := newTestServer(t, d)
	defer srv.Close()

	resp := get(t, srv, "/fuel/stations/amenities?id=102")
	assertStatus(t, resp, http.StatusUnprocessableEntity)
	resp.Body.Close()
}

// ---------------------------------------------------------------------------
// Geocode
// ---------------------------------------------------------------------------

func TestGeocode(t *testing.T) {
	srv := newTestServer(t, defaultDeps())
	defer srv.Close()

	resp := get(t, srv, "/fuel/geocode?q=Chicago")
	assertStatus(t, resp, http.StatusOK)

	body := decodeBody(t, resp)
	assertSuccess(t, body)
	assertField(t, body, "place")
}

func TestGeocodeMissingQuery(t *testing.T) {
	srv := newTestServer(t, defaultDeps())
	defer srv.Close()

	resp := get(t, srv, "/fuel/geocode")
	assertStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestGeocodeNotFound(t *testing.T) {
	d := defaultDeps()
	d.geocoder.err = fmt.Errorf("%w: no geocoding match", shared.ErrNotFound)
	srv := newTestServer(t, d)
	defer srv.Close()

	resp := get(t, srv, "/fuel/geocode?q=Nowheresville")
	assertStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

// ---------------------------------------------------------------------------
// Session reset
// ---------------------------------------------------------------------------

func TestSessionReset(t *testing.T) {
	d := defaultDeps()
	srv := newTestServer(t, d)
	defer srv.Close()

	resp := post(t, srv, "/fuel/session/driver-1/reset", "")
	assertStatus(t, resp, http.StatusOK)

	body := decodeBody(t, resp)
	assertSuccess(t, body)
	if body["existed"] != true {
		t.Errorf("existed = %v, want true", body["existed"])
	}
	if d.sessions.lastID != "driver-1" {
		t.Errorf("reset user = %q, want driver-1", d.sessions.lastID)
	}
}

func TestSessionResetUnknownUser(t *testing.T) {
	d := defaultDeps()
	d.sessions.existed = false
	srv := newTestServer(t, d)
	defer srv.Close()

	resp := post(t, srv, "/fuel/session/ghost/reset", "")
	assertStatus(t, resp, http.StatusOK)

	body := decodeBody(t, resp)
	if body["existed"] != false {
		t.Errorf("existed = %v, want false", body["existed"])
	}
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, defaultDeps())
	defer srv.Close()

	resp := get(t, srv, "/health")
	defer resp.Body.Close()

	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS allow-origin header")
	}
}

func TestOptionsPreflight(t *testing.T) {
	srv := newTestServer(t, defaultDeps())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/fuel/query", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("preflight status = %d, want 200", resp.StatusCode)
	}
}

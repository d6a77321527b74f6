package api

import (
	"net/http"
	"time"

	"github.com/randytsao24/fuelfinder/internal/api/handlers"
	"github.com/randytsao24/fuelfinder/internal/config"
)

// NewRouter creates and configures the HTTP router with all routes and middleware
func NewRouter(
	cfg *config.Config,
	resolver handlers.QueryResolver,
	searcher handlers.StationSearcher,
	details handlers.AmenityFetcher,
	geocoder handlers.PlaceResolver,
	sessions handlers.SessionResetter,
) http.Handler {
	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler()
	rootHandler := handlers.NewRootHandler()
	fuelHandler := handlers.NewFuelHandler(resolver, searcher, details, geocoder, sessions, cfg.RadiusMeters)

	// Core routes
	mux.HandleFunc("GET /", rootHandler.Index)
	mux.HandleFunc("GET /api", rootHandler.Index)
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Stop resolution routes
	mux.HandleFunc("POST /fuel/query", fuelHandler.ResolveQuery)
	mux.HandleFunc("GET /fuel/stations/near", fuelHandler.GetStationsNear)
	mux.HandleFunc("GET /fuel/stations/amenities", fuelHandler.GetAmenityDetail)
	mux.HandleFunc("GET /fuel/geocode", fuelHandler.Geocode)
	mux.HandleFunc("POST /fuel/session/{userId}/reset", fuelHandler.ResetSession)

	// Apply middleware stack
	handler := Chain(mux,
		Recovery,
		Logging,
		CORS,
		Timeout(cfg.SearchTimeout+5*time.Second),
	)

	return handler
}

// Package main is the entry point for the fuelfinder server.
package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/randytsao24/fuelfinder/internal/api"
	"github.com/randytsao24/fuelfinder/internal/auth"
	"github.com/randytsao24/fuelfinder/internal/config"
	"github.com/randytsao24/fuelfinder/internal/engine"
	"github.com/randytsao24/fuelfinder/internal/geo"
	"github.com/randytsao24/fuelfinder/internal/session"
	"github.com/randytsao24/fuelfinder/internal/stations"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: no .env file loaded: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration error: ", err)
	}

	broker := auth.NewBroker(auth.Options{
		TokenURL:      cfg.TokenURL,
		ClientID:      cfg.TokenClientID,
		ClientSecret:  cfg.TokenClientSecret,
		Scope:         cfg.TokenScope,
		GrantType:     cfg.TokenGrantType,
		TokenAPIKey:   cfg.TokenAPIKey,
		AmenityAPIKey: cfg.AmenitiesAPIKey,
		Timeout:       cfg.HTTPTimeout,
	})

	geocoder := geo.NewResolver(cfg.GeocodeAPI, cfg.HTTPTimeout)
	searcher := stations.NewSearchService(cfg.AmenitiesAPI, broker, cfg.ResultLimit, cfg.SearchTimeout, cfg.CacheTTL)
	defer searcher.Close()
	details := stations.NewDetailService(cfg.AmenitiesInfoAPI, broker, cfg.HTTPTimeout)
	sessions := session.NewStore(cfg.SessionTTL)

	eng := engine.New(geocoder, searcher, details, sessions, cfg.RadiusMeters)

	router := api.NewRouter(cfg, eng, searcher, details, geocoder, sessions)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("fuelfinder server starting",
		"port", cfg.Port,
		"env", cfg.Env,
		"result_limit", cfg.ResultLimit,
	)

	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}

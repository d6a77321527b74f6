// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default search radius in meters (~200 miles).
const DefaultRadiusMeters = 321869

// Config holds all application configuration.
type Config struct {
	Port string
	Env  string

	// Token endpoint (OAuth client-credentials style).
	TokenURL          string
	TokenClientID     string
	TokenClientSecret string
	TokenScope        string
	TokenGrantType    string
	TokenAPIKey       string

	// Amenity APIs.
	AmenitiesAPI     string
	AmenitiesInfoAPI string
	AmenitiesAPIKey  string

	// Geocoding provider.
	GeocodeAPI string

	RadiusMeters int
	ResultLimit  int

	HTTPTimeout   time.Duration
	SearchTimeout time.Duration
	CacheTTL      time.Duration
	SessionTTL    time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "3000"),
		Env:  getEnv("ENV", "development"),

		TokenURL:          getEnv("TOKEN_URL", ""),
		TokenClientID:     getEnv("TOKEN_CLIENT_ID", ""),
		TokenClientSecret: getEnv("TOKEN_CLIENT_SECRET", ""),
		TokenScope:        getEnv("TOKEN_SCOPE", ""),
		TokenGrantType:    getEnv("TOKEN_GRANT_TYPE", "client_credentials"),
		TokenAPIKey:       getEnv("TOKEN_X_API_KEY", ""),

		AmenitiesAPI:     getEnv("AMENITIES_API", "https://apiconnectdev.rxo.com/Xpo.DriverMobile.Apiv2/Amenities"),
		AmenitiesInfoAPI: getEnv("AMENITIES_INFO_API", "https://apiconnectdev.rxo.com/Xpo.DriverMobile.Apiv2/taAmenitiesInfo"),
		AmenitiesAPIKey:  getEnv("RXO_API_KEY", ""),

		GeocodeAPI: getEnv("GEOCODE_API", "https://nominatim.openstreetmap.org/search"),

		RadiusMeters: getIntEnv("SEARCH_RADIUS_METERS", DefaultRadiusMeters),
		ResultLimit:  getIntEnv("RESULT_LIMIT", 5),

		HTTPTimeout:   getDurationEnv("HTTP_TIMEOUT_SECONDS", 10) * time.Second,
		SearchTimeout: getDurationEnv("SEARCH_TIMEOUT_SECONDS", 15) * time.Second,
		CacheTTL:      getDurationEnv("CACHE_TTL_SECONDS", 120) * time.Second,
		SessionTTL:    getDurationEnv("SESSION_TTL_SECONDS", 1800) * time.Second,
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks structural configuration. Missing upstream credentials are
// deliberately not fatal here: the credential broker reports them as auth
// errors at call time so the rest of the service still serves.
func (c *Config) Validate() error {
	if c.ResultLimit < 1 || c.ResultLimit > 5 {
		return fmt.Errorf("RESULT_LIMIT must be between 1 and 5, got %d", c.ResultLimit)
	}
	if c.RadiusMeters <= 0 {
		return fmt.Errorf("SEARCH_RADIUS_METERS must be positive, got %d", c.RadiusMeters)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds)
		}
	}
	return time.Duration(defaultSeconds)
}

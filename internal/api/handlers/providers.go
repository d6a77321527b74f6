package handlers

import (
	"context"

	"github.com/randytsao24/fuelfinder/internal/engine"
	"github.com/randytsao24/fuelfinder/internal/models"
	"github.com/randytsao24/fuelfinder/internal/stations"
)

// QueryResolver abstracts the resolution engine for testability.
type QueryResolver interface {
	Resolve(ctx context.Context, q engine.Query) (engine.Result, error)
}

// StationSearcher abstracts the station search service.
type StationSearcher interface {
	Search(ctx context.Context, center models.Coordinate, radiusMeters int, mode stations.Mode) ([]models.RankedStation, error)
}

// AmenityFetcher abstracts the amenity detail service.
type AmenityFetcher interface {
	Fetch(ctx context.Context, stationID int64, code string) (models.AmenityDetail, error)
}

// PlaceResolver abstracts the geocoding service.
type PlaceResolver interface {
	Resolve(ctx context.Context, place string) (models.Place, error)
}

// SessionResetter abstracts session teardown.
type SessionResetter interface {
	Reset(userID string) bool
}

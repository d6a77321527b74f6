// Package engine implements the stop resolution flow: geocode a place,
// search and rank stations, remember the results per user, and answer
// amenity follow-ups from memory without a fresh search.
package engine

import (
	"context"
	"fmt"

	"github.com/randytsao24/fuelfinder/internal/models"
	"github.com/randytsao24/fuelfinder/internal/session"
	"github.com/randytsao24/fuelfinder/internal/shared"
	"github.com/randytsao24/fuelfinder/internal/stations"
)

// Geocoder resolves a place name to a coordinate.
type Geocoder interface {
	Resolve(ctx context.Context, place string) (models.Place, error)
}

// Searcher returns ranked stations around a coordinate.
type Searcher interface {
	Search(ctx context.Context, center models.Coordinate, radiusMeters int, mode stations.Mode) ([]models.RankedStation, error)
}

// DetailFetcher returns real-time amenity detail for one station.
type DetailFetcher interface {
	Fetch(ctx context.Context, stationID int64, code string) (models.AmenityDetail, error)
}

// Query is one incoming user request.
type Query struct {
	UserID string
	Text   string

	// Place overrides any place phrase found in Text.
	Place string
	// Coord, when set, skips geocoding entirely.
	Coord *models.Coordinate

	RadiusMeters int
	Mode         stations.Mode
}

// Kind says which shape a Result carries.
type Kind string

const (
	KindStations Kind = "stations"
	KindFollowUp Kind = "followup"
)

// FollowUpAnswer is a targeted amenity answer about the remembered station.
type FollowUpAnswer struct {
	StationName string                `json:"station_name"`
	Answer      string                `json:"answer"`
	Detail      *models.AmenityDetail `json:"detail,omitempty"`
}

// Result is the outcome of resolving one query.
type Result struct {
	Kind     Kind                   `json:"kind"`
	Place    *models.Place          `json:"place,omitempty"`
	Stations []models.RankedStation `json:"stations,omitempty"`
	FollowUp *FollowUpAnswer        `json:"follow_up,omitempty"`
}

// Engine wires the resolver components together.
type Engine struct {
	geocoder Geocoder
	searcher Searcher
	details  DetailFetcher
	sessions *session.Store

	defaultRadius int
}

// New creates an engine.
func New(geocoder Geocoder, searcher Searcher, details DetailFetcher, sessions *session.Store, defaultRadiusMeters int) *Engine {
	return &Engine{
		geocoder:      geocoder,
		searcher:      searcher,
		details:       details,
		sessions:      sessions,
		defaultRadius: defaultRadiusMeters,
	}
}

// Sessions exposes the session store for reset endpoints.
func (e *Engine) Sessions() *session.Store {
	return e.sessions
}

// Resolve classifies and executes one query. Follow-up utterances are
// answered from the remembered station list; everything else runs the
// geocode -> search -> remember pipeline in that order.
func (e *Engine) Resolve(ctx context.Context, q Query) (Result, error) {
	if q.Text != "" && session.IsFollowUp(q.Text) {
		answer, err := e.resolveFollowUp(ctx, q.UserID, q.Text)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: KindFollowUp, FollowUp: answer}, nil
	}

	result := Result{Kind: KindStations}

	center := q.Coord
	if center == nil {
		placeName := q.Place
		if placeName == "" {
			placeName = extractPlace(q.Text)
		}
		if placeName == "" {
			return Result{}, fmt.Errorf("%w: query has neither coordinates nor a place name", shared.ErrNotFound)
		}
		place, err := e.geocoder.Resolve(ctx, placeName)
		if err != nil {
			return Result{}, err
		}
		result.Place = &place
		center = &place.Coordinate
	}

	radius := q.RadiusMeters
	if radius <= 0 {
		radius = e.defaultRadius
	}
	mode := q.Mode
	if mode == "" {
		mode = stations.ModeNearest
	}

	ranked, err := e.searcher.Search(ctx, *center, radius, mode)
	if err != nil {
		return Result{}, err
	}

	// The session write happens strictly after the search succeeds, so a
	// failed search never clobbers the remembered list.
	if q.UserID != "" {
		e.sessions.Remember(q.UserID, ranked)
	}

	result.Stations = ranked
	return result, nil
}

func (e *Engine) resolveFollowUp(ctx context.Context, userID, text string) (*FollowUpAnswer, error) {
	sess := e.sessions.Get(userID)
	if len(sess.LastStations) == 0 {
		return nil, fmt.Errorf("%w: run a station search first", shared.ErrNoPriorSearch)
	}

	top := sess.LastStations[0]
	if top.RealtimeCode == "" {
		return &FollowUpAnswer{
			StationName: top.Name,
			Answer:      fmt.Sprintf("Real-time amenity data isn't available for %s.", top.Name),
		}, nil
	}

	detail, err := e.details.Fetch(ctx, top.StationID, top.RealtimeCode)
	if err != nil {
		return nil, err
	}

	return &FollowUpAnswer{
		StationName: top.Name,
		Answer:      composeAnswer(top.Name, text, detail),
		Detail:      &detail,
	}, nil
}

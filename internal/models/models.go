// Package models defines shared data types
package models

import (
	"encoding/json"
	"strconv"
)

// Coordinate is a latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place is a geocoded location.
type Place struct {
	Coordinate
	DisplayName string `json:"display_name"`
}

// Financials holds driver-facing pricing for a station, pre-formatted.
type Financials struct {
	DriverPrice string `json:"driver_price"`
	Savings     string `json:"savings"`
}

// RankedStation is a normalized, distance-annotated station candidate.
type RankedStation struct {
	Name          string     `json:"name"`
	DistanceMiles float64    `json:"distance_miles"`
	Location      string     `json:"location"`
	Financials    Financials `json:"financials"`

	// HasRealtime reports whether the upstream system can serve live
	// parking/shower/food counts for this station.
	HasRealtime  bool   `json:"has_realtime"`
	StationID    int64  `json:"station_id"`
	RealtimeCode string `json:"realtime_code,omitempty"`

	DetailRecommended  bool   `json:"detail_recommended"`
	RecommendationNote string `json:"recommendation_note"`
	MapsURL            string `json:"maps_url,omitempty"`
}

// Count is an availability count that distinguishes "zero" from "data
// missing". An unknown count marshals as the string "unknown", never as 0,
// so a driver is not told a lot is full when the feed simply had no data.
type Count struct {
	Known bool
	Value int
}

// KnownCount wraps an upstream numeric field that may be absent.
func KnownCount(v *int) Count {
	if v == nil {
		return Count{}
	}
	return Count{Known: true, Value: *v}
}

func (c Count) String() string {
	if !c.Known {
		return "unknown"
	}
	return strconv.Itoa(c.Value)
}

func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Known {
		return json.Marshal("unknown")
	}
	return json.Marshal(c.Value)
}

// ParkingDetail is real-time parking availability for one station.
type ParkingDetail struct {
	Total             Count `json:"total"`
	Available         Count `json:"available"`
	ReservedAvailable Count `json:"reserved_available"`
}

// ShowerDetail is real-time shower availability for one station.
type ShowerDetail struct {
	Available Count `json:"available"`
}

// AmenityDetail is the shaped real-time amenity report for one station.
type AmenityDetail struct {
	StationID   int64         `json:"station_id"`
	FoodOptions string        `json:"food_options"`
	Parking     ParkingDetail `json:"parking"`
	Showers     ShowerDetail  `json:"showers"`
}

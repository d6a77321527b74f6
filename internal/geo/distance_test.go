package geo

import (
	"math"
	"testing"
)

func TestHaversineIdentity(t *testing.T) {
	if d := Haversine(41.8781, -87.6298, 41.8781, -87.6298); d != 0 {
		t.Errorf("distance from a point to itself = %v, want 0", d)
	}
}

func TestHaversineSymmetry(t *testing.T) {
	a := Haversine(41.8781, -87.6298, 40.7128, -74.0060)
	b := Haversine(40.7128, -74.0060, 41.8781, -87.6298)
	if a != b {
		t.Errorf("haversine not symmetric: %v vs %v", a, b)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Chicago to New York is roughly 711 miles great-circle.
	d := Haversine(41.8781, -87.6298, 40.7128, -74.0060)
	if math.Abs(d-711) > 5 {
		t.Errorf("Chicago-NYC distance = %v, want ~711", d)
	}
}

func TestHaversineRounding(t *testing.T) {
	d := Haversine(0, 0, 0.1, 0.1)
	if d != math.Round(d*100)/100 {
		t.Errorf("distance %v not rounded to two decimals", d)
	}
}

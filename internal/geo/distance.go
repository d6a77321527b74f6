package geo

import "math"

const earthRadiusMiles = 3958.8

// UnknownDistance marks a candidate whose coordinates were missing or
// malformed. It must sort after every real distance in both ranking modes.
const UnknownDistance = 9999.0

// Haversine returns the great-circle distance in miles between two points,
// rounded to two decimals.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return round2(earthRadiusMiles * c)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Package geo computes great-circle distances and maps them onto normalized
// proximity scores for the recommendation engine.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	// meanEarthRadiusKm is the mean Earth radius used by the haversine
	// formula. orb's DistanceHaversine uses the equatorial radius
	// (6378.137 km); scoring uses the mean radius, so the distance is
	// computed here over orb points directly.
	meanEarthRadiusKm = 6371.0

	// DefaultMaxDistanceKm is the proximity-score ceiling for ranking
	// candidates against the customer's address.
	DefaultMaxDistanceKm = 10.0

	// RouteMaxDistanceKm is the wider ceiling used for route clustering,
	// where deliveries further apart can still share a route.
	RouteMaxDistanceKm = 20.0

	// NeutralScore is substituted whenever a distance cannot be computed.
	// Unknown must never be treated as zero distance.
	NeutralScore = 0.5
)

// DistanceKm returns the great-circle distance in kilometers between two
// points using the haversine formula.
func DistanceKm(from, to orb.Point) float64 {
	lat1 := from.Lat() * math.Pi / 180
	lat2 := to.Lat() * math.Pi / 180
	dLat := (to.Lat() - from.Lat()) * math.Pi / 180
	dLon := (to.Lon() - from.Lon()) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * meanEarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// ProximityScore maps a distance onto [0,1]: 0 km scores 1.0, falling
// linearly to 0.0 at maxDistanceKm, clamped beyond it. A non-positive
// ceiling yields the neutral score.
func ProximityScore(distanceKm, maxDistanceKm float64) float64 {
	if maxDistanceKm <= 0 {
		return NeutralScore
	}

	score := 1.0 - distanceKm/maxDistanceKm
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}

	return score
}

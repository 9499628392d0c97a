package geo

import (
	"math"

	"github.com/citywalk/go-walk-suggestions/internal/types"
)

const (
	earthRadiusKm = 6371.0

	walkSpeedKmh    = 4.5
	transitSpeedKmh = 15.0

	// Flat boarding/waiting overhead added to every transit leg.
	transitOverheadMin = 10
	transitCapMin      = 60

	// Anything farther than this inside one city means the provider
	// returned corrupt coordinates.
	maxPlausibleKm = 100.0

	walkThresholdKm = 2.0
)

// DistanceKm returns the great-circle distance between two points.
func DistanceKm(a, b types.GeoPoint) float64 {
	phi1 := radians(a.Lat)
	phi2 := radians(b.Lat)
	dPhi := radians(b.Lat - a.Lat)
	dLambda := radians(b.Lon - a.Lon)

	x := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(x))
}

// TravelEstimate returns the travel minutes, mode and distance between
// two points. Distances above maxPlausibleKm yield ModeError; the caller
// must skip the candidate rather than fail the pipeline.
func TravelEstimate(a, b types.GeoPoint) (minutes int, mode types.TravelMode, km float64) {
	km = DistanceKm(a, b)

	if km > maxPlausibleKm {
		return 0, types.ModeError, 0.0
	}

	if km > walkThresholdKm {
		minutes = int(math.Round(km/transitSpeedKmh*60)) + transitOverheadMin
		if minutes > transitCapMin {
			minutes = transitCapMin
		}
		return minutes, types.ModeTransit, km
	}

	minutes = int(math.Round(km / walkSpeedKmh * 60))
	return minutes, types.ModeWalk, km
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Package geo provides great-circle distances and walking-time estimates.
package geo

import (
	"math"

	"github.com/okian/barhop/internal/domain/model"
)

// Distance and speed constants.
const (
	// EarthRadiusMeters is the IUGG mean Earth radius.
	EarthRadiusMeters = 6_371_008.8

	// DefaultWalkingSpeedKmh is a relaxed evening walking pace.
	DefaultWalkingSpeedKmh = 4.5

	metersPerKm      = 1000
	minutesPerHour   = 60
	degreesToRadians = math.Pi / 180
)

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b model.Coordinate) float64 {
	lat1 := a.Lat * degreesToRadians
	lat2 := b.Lat * degreesToRadians
	dLat := (b.Lat - a.Lat) * degreesToRadians
	dLng := (b.Lng - a.Lng) * degreesToRadians

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// Rounding can push h a hair past 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// MetersPerMinute converts a walking speed in km/h to meters per minute.
func MetersPerMinute(speedKmh float64) float64 {
	return speedKmh * metersPerKm / minutesPerHour
}

// MinutesForDistance returns the walking time for meters at speedKmh,
// rounded up to whole minutes. Non-positive distances or speeds yield 0.
func MinutesForDistance(meters, speedKmh float64) int {
	if meters <= 0 || speedKmh <= 0 {
		return 0
	}
	return int(math.Ceil(meters / MetersPerMinute(speedKmh)))
}

// WalkingMinutes returns the rounded-up walking time between a and b.
func WalkingMinutes(a, b model.Coordinate, speedKmh float64) int {
	return MinutesForDistance(Distance(a, b), speedKmh)
}

package spatial

import (
	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers

	// AverageSpeedKmh is the assumed travel speed for time estimates
	AverageSpeedKmh = 50.0
)

// HaversineDistance calculates the great-circle distance between two points in meters
// using the Haversine formula
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Interpolate returns the point at the given fraction (0..1) along the
// great-circle segment from point 1 to point 2
func Interpolate(fraction, lat1, lon1, lat2, lon2 float64) (float64, float64) {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)

	p := s2.Interpolate(fraction, s2.PointFromLatLng(p1), s2.PointFromLatLng(p2))
	ll := s2.LatLngFromPoint(p)

	return ll.Lat.Degrees(), ll.Lng.Degrees()
}

// EstimateTravelHours estimates travel time in hours for a distance in
// kilometers, assuming the average speed
func EstimateTravelHours(distanceKm float64) float64 {
	return distanceKm / AverageSpeedKmh
}

package spatial

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/meetfair/meetpoint-backend-go/internal/models"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers

	// DegreesPerKm converts kilometers to latitude degrees. Longitude uses
	// the same factor with no cos(latitude) correction, so grid footprints
	// stretch east-west at mid latitudes.
	DegreesPerKm = 1.0 / 111.0
)

// HaversineDistance calculates the great-circle distance between two points
// in meters
func HaversineDistance(a, b models.Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	p2 := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// EquirectangularDistance approximates the distance between two nearby
// points in meters. Within deduplication ranges (well under 10 km) the
// error versus haversine is negligible and it is much cheaper per pair.
func EquirectangularDistance(a, b models.Coordinate) float64 {
	latRad := (a.Latitude + b.Latitude) / 2 * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180 * math.Cos(latRad)
	return math.Sqrt(dLat*dLat+dLon*dLon) * EarthRadiusMeters
}

// Midpoint calculates the spherical midpoint between two points
func Midpoint(a, b models.Coordinate) models.Coordinate {
	p1 := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	p2 := s2.LatLngFromDegrees(b.Latitude, b.Longitude)

	mid := s2.Interpolate(0.5, s2.PointFromLatLng(p1), s2.PointFromLatLng(p2))
	midLatLng := s2.LatLngFromPoint(mid)

	return models.Coordinate{
		Latitude:  midLatLng.Lat.Degrees(),
		Longitude: midLatLng.Lng.Degrees(),
	}
}

// Package travel defines the contracts for the external, cost-constrained
// travel capabilities the optimization core consumes, plus an HTTP client
// for an openrouteservice-compatible API.
package travel

import (
	"context"

	"github.com/meetfair/meetpoint-backend-go/internal/models"
)

// ReachabilityClient computes the area reachable from a center within a
// travel-time budget. Invoked only on demand for a chosen candidate, never
// automatically per hypothesis point.
type ReachabilityClient interface {
	Reachability(ctx context.Context, center models.Coordinate, travelTimeMinutes int, mode models.TravelMode) (*models.Polygon, error)
}

// Geocoder resolves a free-form address to a coordinate. Consumed upstream
// of optimization; the core never geocodes.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinate, error)
}

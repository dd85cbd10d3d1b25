// README: Routing and geocoding contracts plus the straight-line fallback.
package maps

import (
	"context"
	"errors"

	"javai/internal/geo"
	"javai/internal/types"
)

var (
	// ErrNoRoute means the provider answered but found no drivable path.
	ErrNoRoute = errors.New("maps: no route between points")
	// ErrNotFound means the geocoder had no match for the query.
	ErrNotFound = errors.New("maps: address not found")
)

// Route is a drivable path between two points. Points always starts at the
// origin and ends at the destination.
type Route struct {
	Points      []types.Point `json:"points"`
	DistanceKm  float64       `json:"distanceKm"`
	DurationMin int           `json:"durationMin"`
}

// RouteProvider resolves a drivable route between two coordinates.
type RouteProvider interface {
	Directions(ctx context.Context, from, to types.Point) (Route, error)
}

// Geocoder turns a free-text address into a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (types.Location, error)
}

// FallbackRoute is the two-point straight line used when every provider
// fails. The ride still animates, just not along real streets.
func FallbackRoute(from, to types.Point) Route {
	distKm := geo.HaversineKm(from, to)
	return Route{
		Points:      []types.Point{from, to},
		DistanceKm:  distKm,
		DurationMin: estimateMinutes(distKm),
	}
}

// estimateMinutes assumes ~30 km/h urban average, minimum one minute.
func estimateMinutes(distKm float64) int {
	min := int(distKm * 2)
	if min < 1 {
		min = 1
	}
	return min
}

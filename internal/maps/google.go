// README: Google Maps adapter for routing and geocoding.
package maps

import (
	"context"
	"fmt"

	gmaps "googlemaps.github.io/maps"

	"javai/internal/types"
)

// GoogleClient adapts the Google Maps Platform to the RouteProvider and
// Geocoder contracts. Selected with JAVAI_ROUTE_PROVIDER=google.
type GoogleClient struct {
	client *gmaps.Client
}

func NewGoogleClient(apiKey string) (*GoogleClient, error) {
	c, err := gmaps.NewClient(gmaps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("google maps: new client: %w", err)
	}
	return &GoogleClient{client: c}, nil
}

func (g *GoogleClient) Directions(ctx context.Context, from, to types.Point) (Route, error) {
	req := &gmaps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", from.Lat, from.Lng),
		Destination: fmt.Sprintf("%f,%f", to.Lat, to.Lng),
		Mode:        gmaps.TravelModeDriving,
	}

	routes, _, err := g.client.Directions(ctx, req)
	if err != nil {
		return Route{}, fmt.Errorf("google maps: directions: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Route{}, ErrNoRoute
	}

	best := routes[0]
	decoded, err := best.OverviewPolyline.Decode()
	if err != nil {
		return Route{}, fmt.Errorf("google maps: decode polyline: %w", err)
	}
	points := make([]types.Point, 0, len(decoded))
	for _, ll := range decoded {
		points = append(points, types.Point{Lat: ll.Lat, Lng: ll.Lng})
	}
	if len(points) < 2 {
		return Route{}, ErrNoRoute
	}

	var meters int
	var seconds float64
	for _, leg := range best.Legs {
		meters += leg.Distance.Meters
		seconds += leg.Duration.Seconds()
	}

	return Route{
		Points:      points,
		DistanceKm:  float64(meters) / 1000.0,
		DurationMin: int(seconds / 60.0),
	}, nil
}

func (g *GoogleClient) Geocode(ctx context.Context, query string) (types.Location, error) {
	results, err := g.client.Geocode(ctx, &gmaps.GeocodingRequest{Address: query})
	if err != nil {
		return types.Location{}, fmt.Errorf("google maps: geocode: %w", err)
	}
	if len(results) == 0 {
		return types.Location{}, ErrNotFound
	}

	loc := results[0].Geometry.Location
	return types.Location{
		Point:   types.Point{Lat: loc.Lat, Lng: loc.Lng},
		Address: results[0].FormattedAddress,
	}, nil
}

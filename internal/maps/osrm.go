// README: OSRM routing adapter over the public HTTP API.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"javai/internal/types"
)

// OSRMClient talks to an OSRM "route" service. The zero value is not usable;
// construct with NewOSRMClient.
type OSRMClient struct {
	baseURL string
	http    *http.Client
}

func NewOSRMClient(baseURL string) *OSRMClient {
	return &OSRMClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // metres
		Duration float64 `json:"duration"` // seconds
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"` // [lng, lat]
		} `json:"geometry"`
	} `json:"routes"`
}

// Directions fetches the full route geometry as GeoJSON. OSRM coordinates
// are [lng, lat] pairs.
func (c *OSRMClient) Directions(ctx context.Context, from, to types.Point) (Route, error) {
	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f",
		c.baseURL, from.Lng, from.Lat, to.Lng, to.Lat)

	q := url.Values{}
	q.Set("overview", "full")
	q.Set("geometries", "geojson")
	q.Set("alternatives", "false")
	q.Set("steps", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Route{}, fmt.Errorf("osrm: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("osrm: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Route{}, fmt.Errorf("osrm: unexpected status %d", resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Route{}, fmt.Errorf("osrm: decode response: %w", err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return Route{}, ErrNoRoute
	}

	best := body.Routes[0]
	points := make([]types.Point, 0, len(best.Geometry.Coordinates))
	for _, c := range best.Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		points = append(points, types.Point{Lat: c[1], Lng: c[0]})
	}
	if len(points) < 2 {
		return Route{}, ErrNoRoute
	}

	return Route{
		Points:      points,
		DistanceKm:  best.Distance / 1000.0,
		DurationMin: int(best.Duration / 60.0),
	}, nil
}

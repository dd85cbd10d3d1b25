// README: Nominatim geocoding adapter.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"javai/internal/types"
)

// NominatimClient geocodes free-text addresses against a Nominatim instance.
type NominatimClient struct {
	baseURL string
	http    *http.Client
}

func NewNominatimClient(baseURL string) *NominatimClient {
	return &NominatimClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves the best match for the query. ErrNotFound when Nominatim
// has nothing.
func (c *NominatimClient) Geocode(ctx context.Context, query string) (types.Location, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return types.Location{}, fmt.Errorf("nominatim: build request: %w", err)
	}
	// Nominatim's usage policy requires an identifying UA.
	req.Header.Set("User-Agent", "javai/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return types.Location{}, fmt.Errorf("nominatim: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Location{}, fmt.Errorf("nominatim: unexpected status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return types.Location{}, fmt.Errorf("nominatim: decode response: %w", err)
	}
	if len(results) == 0 {
		return types.Location{}, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return types.Location{}, fmt.Errorf("nominatim: bad latitude %q", results[0].Lat)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return types.Location{}, fmt.Errorf("nominatim: bad longitude %q", results[0].Lon)
	}

	return types.Location{
		Point:   types.Point{Lat: lat, Lng: lng},
		Address: results[0].DisplayName,
	}, nil
}

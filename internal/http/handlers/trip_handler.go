// README: Trip planning handlers: geocoding and per-tier fare preview.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"javai/internal/maps"
	"javai/internal/modules/pricing"
	"javai/internal/types"
)

type TripHandler struct {
	geocoder maps.Geocoder
	provider maps.RouteProvider
	pricing  *pricing.Service
}

func NewTripHandler(geocoder maps.Geocoder, provider maps.RouteProvider, pricingSvc *pricing.Service) *TripHandler {
	return &TripHandler{geocoder: geocoder, provider: provider, pricing: pricingSvc}
}

// Geocode handles GET /api/geocode?q=...
func (h *TripHandler) Geocode(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		writeError(c, http.StatusBadRequest, "missing query")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), routeTimeout)
	defer cancel()
	loc, err := h.geocoder.Geocode(ctx, q)
	if err != nil {
		if errors.Is(err, maps.ErrNotFound) {
			writeError(c, http.StatusNotFound, "address not found")
			return
		}
		writeError(c, http.StatusBadGateway, "geocoding unavailable")
		return
	}
	writeJSON(c, http.StatusOK, loc)
}

type previewReq struct {
	Pickup  locationReq `json:"pickup"`
	Dropoff locationReq `json:"dropoff"`
}

type previewResp struct {
	Route  maps.Route          `json:"route"`
	Quotes []pricing.TierQuote `json:"quotes"`
}

// Preview handles POST /api/trips/preview: route geometry plus a fare for
// every vehicle tier.
func (h *TripHandler) Preview(c *gin.Context) {
	var req previewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	from := types.Point{Lat: req.Pickup.Lat, Lng: req.Pickup.Lng}
	to := types.Point{Lat: req.Dropoff.Lat, Lng: req.Dropoff.Lng}

	ctx, cancel := context.WithTimeout(c.Request.Context(), routeTimeout)
	defer cancel()
	route, err := h.provider.Directions(ctx, from, to)
	if err != nil {
		route = maps.FallbackRoute(from, to)
	}

	writeJSON(c, http.StatusOK, previewResp{
		Route:  route,
		Quotes: h.pricing.QuoteAll(route.DistanceKm),
	})
}

// Tiers handles GET /api/tiers.
func (h *TripHandler) Tiers(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.pricing.Tiers())
}

// README: Driver availability and earnings handlers.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"javai/internal/modules/earnings"
	"javai/internal/modules/location"
	"javai/internal/types"
)

type DriverHandler struct {
	location *location.Service
	earnings *earnings.Service
}

func NewDriverHandler(locationSvc *location.Service, earningsSvc *earnings.Service) *DriverHandler {
	return &DriverHandler{location: locationSvc, earnings: earningsSvc}
}

type positionReq struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Online handles POST /api/drivers/:id/online.
func (h *DriverHandler) Online(c *gin.Context) {
	id, ok := driverID(c)
	if !ok {
		return
	}
	var req positionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.location.Online(c.Request.Context(), id, types.Point{Lat: req.Lat, Lng: req.Lng}); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"online": true})
}

// Offline handles POST /api/drivers/:id/offline.
func (h *DriverHandler) Offline(c *gin.Context) {
	id, ok := driverID(c)
	if !ok {
		return
	}
	if err := h.location.Offline(c.Request.Context(), id); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"online": false})
}

// UpdateLocation handles PUT /api/drivers/:id/location.
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	id, ok := driverID(c)
	if !ok {
		return
	}
	var req positionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.location.Update(c.Request.Context(), id, types.Point{Lat: req.Lat, Lng: req.Lng}); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"updated": true})
}

// Nearby handles GET /api/drivers/nearby?lat=&lng=&radius_km=.
func (h *DriverHandler) Nearby(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
	if err1 != nil || err2 != nil {
		writeError(c, http.StatusBadRequest, "invalid coordinates")
		return
	}
	radiusKm := 5.0
	if v := c.Query("radius_km"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 {
			writeError(c, http.StatusBadRequest, "invalid radius")
			return
		}
		radiusKm = r
	}

	ids, err := h.location.Nearby(c.Request.Context(), types.Point{Lat: lat, Lng: lng}, radiusKm)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"drivers": ids})
}

// Earnings handles GET /api/drivers/:id/earnings?days=.
func (h *DriverHandler) Earnings(c *gin.Context) {
	id, ok := driverID(c)
	if !ok {
		return
	}
	days := 7
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(c, http.StatusBadRequest, "invalid days")
			return
		}
		days = n
	}

	daily, err := h.earnings.Daily(c.Request.Context(), id, days)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	total, rides, err := h.earnings.Total(c.Request.Context(), id)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{
		"daily": daily,
		"total": total,
		"rides": rides,
	})
}

func driverID(c *gin.Context) (types.ID, bool) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing driver id")
		return "", false
	}
	return types.ID(id), true
}

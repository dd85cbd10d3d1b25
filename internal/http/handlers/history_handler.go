// README: Ride history handlers.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"javai/internal/modules/ride"
	"javai/internal/types"
)

type HistoryHandler struct {
	store *ride.Store
}

func NewHistoryHandler(store *ride.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// List handles GET /api/history?passenger_id=&limit=.
func (h *HistoryHandler) List(c *gin.Context) {
	passengerID := c.Query("passenger_id")
	if passengerID == "" {
		writeError(c, http.StatusBadRequest, "missing passenger_id")
		return
	}
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	rides, err := h.store.HistoryByPassenger(c.Request.Context(), types.ID(passengerID), limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if rides == nil {
		rides = []ride.Ride{}
	}
	writeJSON(c, http.StatusOK, map[string]any{"rides": rides})
}

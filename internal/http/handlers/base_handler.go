// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"javai/internal/modules/ride"
	"javai/internal/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID ensures IDs are hex and at most 32 chars (matches the ID generator).
func isValidID(v string) bool {
	if v == "" || len(v) > 32 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeRideError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ride.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ride.ErrNotFound), errors.Is(err, ride.ErrNoRide), errors.Is(err, session.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ride.ErrInvalidTransition), errors.Is(err, ride.ErrActiveRide):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// README: Ride lifecycle command handlers.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"javai/internal/maps"
	"javai/internal/modules/ride"
	"javai/internal/session"
	"javai/internal/types"
)

const routeTimeout = 8 * time.Second

type RideHandler struct {
	sessions *session.Manager
	provider maps.RouteProvider
}

func NewRideHandler(sessions *session.Manager, provider maps.RouteProvider) *RideHandler {
	return &RideHandler{sessions: sessions, provider: provider}
}

type locationReq struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

func (l locationReq) toLocation() types.Location {
	return types.Location{Point: types.Point{Lat: l.Lat, Lng: l.Lng}, Address: l.Address}
}

type requestRideReq struct {
	PassengerID   string      `json:"passenger_id"`
	Pickup        locationReq `json:"pickup"`
	Dropoff       locationReq `json:"dropoff"`
	VehicleType   string      `json:"vehicle_type"`
	PaymentMethod string      `json:"payment_method"`
}

// Request handles POST /api/sessions/:id/ride/request.
func (h *RideHandler) Request(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	var req requestRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.PassengerID == "" || req.VehicleType == "" {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}

	pickup := req.Pickup.toLocation()
	dropoff := req.Dropoff.toLocation()

	ctx, cancel := context.WithTimeout(c.Request.Context(), routeTimeout)
	defer cancel()
	route, err := h.provider.Directions(ctx, pickup.Point, dropoff.Point)
	if err != nil {
		route = maps.FallbackRoute(pickup.Point, dropoff.Point)
	}

	r, err := s.Machine.Request(c.Request.Context(), ride.RequestCommand{
		PassengerID:   types.ID(req.PassengerID),
		Pickup:        pickup,
		Dropoff:       dropoff,
		VehicleType:   ride.VehicleType(req.VehicleType),
		PaymentMethod: ride.PaymentMethod(req.PaymentMethod),
		DistanceKm:    route.DistanceKm,
		DurationMin:   route.DurationMin,
	})
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, r)
}

type acceptRideReq struct {
	DriverID string `json:"driver_id"`
	Vehicle  string `json:"vehicle"`
	Plate    string `json:"plate"`
}

// Accept handles POST /api/sessions/:id/ride/accept.
func (h *RideHandler) Accept(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	var req acceptRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := s.Machine.Accept(c.Request.Context(), ride.AcceptCommand{
		DriverID: types.ID(req.DriverID),
		Vehicle:  req.Vehicle,
		Plate:    req.Plate,
	})
	if err != nil {
		writeRideError(c, err)
		return
	}
	h.writeCurrent(c, s)
}

// Arrive handles POST /api/sessions/:id/ride/arrive.
func (h *RideHandler) Arrive(c *gin.Context) {
	h.command(c, func(s *session.Session) error {
		return s.Machine.Arrive(c.Request.Context())
	})
}

// Start handles POST /api/sessions/:id/ride/start.
func (h *RideHandler) Start(c *gin.Context) {
	h.command(c, func(s *session.Session) error {
		return s.Machine.Start(c.Request.Context())
	})
}

// Complete handles POST /api/sessions/:id/ride/complete.
func (h *RideHandler) Complete(c *gin.Context) {
	h.command(c, func(s *session.Session) error {
		return s.Machine.Complete(c.Request.Context())
	})
}

// Cancel handles POST /api/sessions/:id/ride/cancel.
func (h *RideHandler) Cancel(c *gin.Context) {
	h.command(c, func(s *session.Session) error {
		return s.Machine.Cancel(c.Request.Context())
	})
}

type rateRideReq struct {
	Stars int `json:"stars"`
}

// Rate handles POST /api/sessions/:id/ride/rate.
func (h *RideHandler) Rate(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	var req rateRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := s.Machine.Rate(c.Request.Context(), req.Stars); err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"rated": true})
}

// Current handles GET /api/sessions/:id/ride.
func (h *RideHandler) Current(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	h.writeCurrent(c, s)
}

func (h *RideHandler) command(c *gin.Context, f func(*session.Session) error) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	if err := f(s); err != nil {
		writeRideError(c, err)
		return
	}
	h.writeCurrent(c, s)
}

func (h *RideHandler) writeCurrent(c *gin.Context, s *session.Session) {
	if r, ok := s.Machine.Current(); ok {
		writeJSON(c, http.StatusOK, r)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": ride.StatusIdle})
}

func (h *RideHandler) lookup(c *gin.Context) (*session.Session, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return nil, false
	}
	s, ok := h.sessions.Get(types.ID(id))
	if !ok {
		writeError(c, http.StatusNotFound, session.ErrNotFound.Error())
		return nil, false
	}
	return s, true
}

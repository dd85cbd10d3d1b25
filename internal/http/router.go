// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"javai/internal/assist"
	"javai/internal/http/handlers"
	"javai/internal/http/middleware"
	"javai/internal/maps"
	"javai/internal/modules/earnings"
	"javai/internal/modules/location"
	"javai/internal/modules/pricing"
	"javai/internal/modules/ride"
	"javai/internal/session"
)

type RouterDeps struct {
	Sessions *session.Manager
	Provider maps.RouteProvider
	Geocoder maps.Geocoder
	Pricing  *pricing.Service
	History  *ride.Store
	Earnings *earnings.Service
	Location *location.Service
	Assist   *assist.Service
	Log      *logrus.Entry
}

func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.Logging(log))

	sessionHandler := handlers.NewSessionHandler(deps.Sessions)
	r.POST("/api/sessions", sessionHandler.Open)
	r.DELETE("/api/sessions/:id", sessionHandler.Close)
	r.GET("/api/sessions/:id/frame", sessionHandler.Frame)

	rideHandler := handlers.NewRideHandler(deps.Sessions, deps.Provider)
	r.POST("/api/sessions/:id/ride/request", rideHandler.Request)
	r.POST("/api/sessions/:id/ride/accept", rideHandler.Accept)
	r.POST("/api/sessions/:id/ride/arrive", rideHandler.Arrive)
	r.POST("/api/sessions/:id/ride/start", rideHandler.Start)
	r.POST("/api/sessions/:id/ride/complete", rideHandler.Complete)
	r.POST("/api/sessions/:id/ride/cancel", rideHandler.Cancel)
	r.POST("/api/sessions/:id/ride/rate", rideHandler.Rate)
	r.GET("/api/sessions/:id/ride", rideHandler.Current)

	streamHandler := handlers.NewStreamHandler(deps.Sessions, log)
	r.GET("/api/sessions/:id/stream", streamHandler.Serve)

	tripHandler := handlers.NewTripHandler(deps.Geocoder, deps.Provider, deps.Pricing)
	r.GET("/api/geocode", tripHandler.Geocode)
	r.POST("/api/trips/preview", tripHandler.Preview)
	r.GET("/api/tiers", tripHandler.Tiers)

	if deps.History != nil {
		historyHandler := handlers.NewHistoryHandler(deps.History)
		r.GET("/api/history", historyHandler.List)
	}

	if deps.Location != nil && deps.Earnings != nil {
		driverHandler := handlers.NewDriverHandler(deps.Location, deps.Earnings)
		r.POST("/api/drivers/:id/online", driverHandler.Online)
		r.POST("/api/drivers/:id/offline", driverHandler.Offline)
		r.PUT("/api/drivers/:id/location", driverHandler.UpdateLocation)
		r.GET("/api/drivers/nearby", driverHandler.Nearby)
		r.GET("/api/drivers/:id/earnings", driverHandler.Earnings)
	}

	assistHandler := handlers.NewAssistHandler(deps.Assist)
	r.POST("/api/assist/chat", assistHandler.Chat)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}

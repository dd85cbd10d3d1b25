// README: Entry point; loads config, wires services and starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"javai/internal/assist"
	"javai/internal/config"
	httptransport "javai/internal/http"
	"javai/internal/infra"
	"javai/internal/maps"
	"javai/internal/modules/earnings"
	"javai/internal/modules/location"
	"javai/internal/modules/pricing"
	"javai/internal/modules/ride"
	"javai/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := infra.NewLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.WithError(err).Fatal("postgres init")
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	provider, geocoder, err := buildRouting(cfg)
	if err != nil {
		log.WithError(err).Fatal("routing init")
	}

	pricingSvc := pricing.NewService()
	rideStore := ride.NewStore(dbPool)
	earningsSvc := earnings.NewService(earnings.NewStore(dbPool))
	locationSvc := location.NewService(location.NewStore(dbPool, redisClient), log)

	var responder assist.Responder
	if cfg.AI.GeminiKey != "" {
		gemini, err := assist.NewGeminiResponder(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.WithError(err).Fatal("gemini init")
		}
		defer gemini.Close()
		responder = gemini
	} else {
		log.Warn("GEMINI_API_KEY not set; support chat will reply as unavailable")
	}
	assistSvc := assist.NewService(responder, log)

	sessions := session.NewManager(cfg, pricingSvc, provider, earningsSvc, rideStore, log)
	defer sessions.CloseAll()

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Sessions: sessions,
		Provider: provider,
		Geocoder: geocoder,
		Pricing:  pricingSvc,
		History:  rideStore,
		Earnings: earningsSvc,
		Location: locationSvc,
		Assist:   assistSvc,
		Log:      log,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", cfg.HTTP.Addr).Info("listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server")
	}
}

func buildRouting(cfg config.Config) (maps.RouteProvider, maps.Geocoder, error) {
	if cfg.Routing.Provider == "google" && cfg.Routing.GoogleAPIKey != "" {
		g, err := maps.NewGoogleClient(cfg.Routing.GoogleAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return g, g, nil
	}
	return maps.NewOSRMClient(cfg.Routing.OSRMBaseURL),
		maps.NewNominatimClient(cfg.Routing.NominatimURL),
		nil
}

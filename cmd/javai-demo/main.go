// README: Headless demo driving one full trip through the state machine and map engine.
package main

import (
	"context"
	"time"

	"javai/internal/config"
	"javai/internal/infra"
	"javai/internal/maps"
	"javai/internal/modules/location"
	"javai/internal/modules/pricing"
	"javai/internal/modules/ride"
	"javai/internal/session"
	"javai/internal/types"
)

// The demo needs no database, no Redis and no API key. Without network the
// route degrades to a straight line and the trip still completes.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := infra.NewLogger(cfg.Log.Level)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	provider := maps.NewOSRMClient(cfg.Routing.OSRMBaseURL)
	sessions := session.NewManager(cfg, pricing.NewService(), provider, nil, nil, log)
	defer sessions.CloseAll()

	s := sessions.Open(session.RoleFor("admin"))
	events, unsubscribe := s.Machine.Subscribe()
	defer unsubscribe()

	// The demo plays the driver too: issue the complete command once the
	// car reaches the destination.
	s.Engine.OnArrived(func() {
		if err := s.Machine.Complete(context.Background()); err != nil {
			log.WithError(err).Warn("complete ride")
		}
	})

	// Stand in for the device GPS: a fixed position feed, degraded to the
	// city centre if it ever errors.
	feed := location.FallbackFeed{
		Primary: location.FixedFeed{Position: cfg.FallbackCenter.Point, Interval: time.Second},
		Center:  cfg.FallbackCenter.Point,
		Log:     log,
	}
	points, _ := feed.Watch(ctx)
	go func() {
		for p := range points {
			s.Engine.SetLivePosition(p)
		}
	}()

	pickup := types.Location{Point: cfg.FallbackCenter.Point, Address: cfg.FallbackCenter.Address}
	dropoff := types.Location{Point: types.Point{Lat: -18.5601, Lng: -46.5102}, Address: "UNIPAM"}

	r, err := s.Machine.Request(ctx, ride.RequestCommand{
		PassengerID:   "demo-passenger",
		Pickup:        pickup,
		Dropoff:       dropoff,
		VehicleType:   ride.VehicleComfort,
		PaymentMethod: ride.PaymentPix,
		DistanceKm:    0, // quoted as a short hop; the engine fetches the real route
	})
	if err != nil {
		log.WithError(err).Fatal("request ride")
	}
	log.WithField("price", r.Price.Units()).Info("ride requested")

	if err := s.Machine.Accept(ctx, ride.AcceptCommand{
		DriverID: "demo-driver",
		Vehicle:  "Honda Civic",
		Plate:    "JAV-2024",
	}); err != nil {
		log.WithError(err).Fatal("accept ride")
	}

	// The trip auto-starts, the engine animates the car, arrival completes
	// the ride and the machine drains back to idle.
	for {
		select {
		case <-ctx.Done():
			log.Fatal("demo timed out")
		case t, ok := <-events:
			if !ok {
				return
			}
			log.WithField("from", t.From).WithField("to", t.To).Info("transition")
			if t.To == ride.StatusIdle {
				frame := s.Engine.Snapshot()
				log.WithField("route_points", len(frame.Route)).Info("trip finished")
				return
			}
		}
	}
}

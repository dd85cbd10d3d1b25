package sim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"javai/internal/config"
	"javai/internal/maps"
	"javai/internal/modules/ride"
	"javai/internal/types"
)

var (
	fallbackCenter = types.Point{Lat: -18.5789, Lng: -46.5181}
	pickupA        = types.Point{Lat: -18.58, Lng: -46.52}
	dropoffA       = types.Point{Lat: -18.56, Lng: -46.51}
	pickupB        = types.Point{Lat: -18.60, Lng: -46.53}
	dropoffB       = types.Point{Lat: -18.55, Lng: -46.50}
)

type stubProvider struct {
	mu    sync.Mutex
	err   error
	block chan struct{}
}

// Directions returns a three point route starting at from, or the
// configured error. If block is set it waits for release first.
func (p *stubProvider) Directions(ctx context.Context, from, to types.Point) (maps.Route, error) {
	p.mu.Lock()
	block := p.block
	err := p.err
	p.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return maps.Route{}, ctx.Err()
		}
	}
	if err != nil {
		return maps.Route{}, err
	}
	mid := types.Point{Lat: (from.Lat + to.Lat) / 2, Lng: (from.Lng + to.Lng) / 2}
	return maps.Route{
		Points:      []types.Point{from, mid, to},
		DistanceKm:  3.0,
		DurationMin: 6,
	}, nil
}

func newTestEngine(role ViewerRole, provider maps.RouteProvider) *Engine {
	cfg := config.SimConfig{FrameInterval: 50 * time.Millisecond, StepPerFrame: 2}
	return NewEngine(cfg, role, provider, fallbackCenter, nil)
}

func waitForRouteStart(t *testing.T, e *Engine, want types.Point) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f := e.Snapshot()
		if len(f.Route) > 0 && f.Route[0] == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("route never started at %v, last frame: %+v", want, e.Snapshot())
}

func TestAdvanceIndex(t *testing.T) {
	tests := []struct {
		name     string
		status   ride.Status
		index    int
		step     int
		last     int
		wantNext int
		wantDone bool
	}{
		{"accepted advances", ride.StatusAccepted, 0, 2, 10, 2, false},
		{"accepted wraps at end", ride.StatusAccepted, 10, 2, 10, 0, false},
		{"arrived behaves like accepted", ride.StatusArrived, 9, 2, 10, 0, false},
		{"in_progress advances", ride.StatusInProgress, 0, 2, 10, 2, false},
		{"in_progress clamps at end", ride.StatusInProgress, 9, 2, 10, 10, true},
		{"in_progress exactly at end", ride.StatusInProgress, 8, 2, 10, 10, true},
		{"idle pins to start", ride.StatusIdle, 7, 2, 10, 0, false},
		{"searching pins to start", ride.StatusSearching, 7, 2, 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, done := advanceIndex(tt.status, tt.index, tt.step, tt.last)
			if next != tt.wantNext || done != tt.wantDone {
				t.Errorf("advanceIndex() = (%d, %v), want (%d, %v)", next, done, tt.wantNext, tt.wantDone)
			}
		})
	}
}

func TestEngine_LoopsWhileAccepted(t *testing.T) {
	e := newTestEngine(Passenger{}, &stubProvider{})
	e.SetTrip(pickupA, dropoffA)
	waitForRouteStart(t, e, pickupA)
	e.SetStatus(ride.StatusAccepted)

	// Route has 3 points (last index 2), step 2: 2, 0, 2, 0...
	wantIdx := []int{2, 0, 2, 0}
	for i, want := range wantIdx {
		f, fire := e.step()
		if fire != nil {
			t.Fatal("looping toward the pickup must never arrive")
		}
		if f.RouteIndex != want {
			t.Fatalf("tick %d index = %d, want %d", i, f.RouteIndex, want)
		}
	}
}

func TestEngine_ClampsAndArrivesInProgress(t *testing.T) {
	e := newTestEngine(Passenger{}, &stubProvider{})
	e.SetTrip(pickupA, dropoffA)
	waitForRouteStart(t, e, pickupA)
	e.SetStatus(ride.StatusInProgress)

	var arrivals int
	e.OnArrived(func() { arrivals++ })

	f, fire := e.step()
	if f.RouteIndex != 2 || !f.Arrived {
		t.Fatalf("expected clamp at last index with arrival, got index %d arrived %v", f.RouteIndex, f.Arrived)
	}
	if fire == nil {
		t.Fatal("expected arrival callback on first tick reaching the end")
	}
	fire()

	// Further ticks stay clamped and never re-fire.
	for i := 0; i < 3; i++ {
		f, fire = e.step()
		if f.RouteIndex != 2 {
			t.Fatalf("index moved past the end: %d", f.RouteIndex)
		}
		if fire != nil {
			t.Fatal("arrival fired twice")
		}
	}
	if arrivals != 1 {
		t.Fatalf("arrivals = %d, want 1", arrivals)
	}
}

func TestEngine_PassengerRidesInCar(t *testing.T) {
	e := newTestEngine(Passenger{}, &stubProvider{})
	e.SetTrip(pickupA, dropoffA)
	waitForRouteStart(t, e, pickupA)
	e.SetStatus(ride.StatusInProgress)

	f, _ := e.step()
	if f.VehiclePos == nil || f.PassengerPos == nil {
		t.Fatalf("expected both markers, got %+v", f)
	}
	if *f.PassengerPos != *f.VehiclePos {
		t.Errorf("passenger %v not pinned to vehicle %v", *f.PassengerPos, *f.VehiclePos)
	}
}

func TestEngine_FallbackOnProviderError(t *testing.T) {
	e := newTestEngine(Passenger{}, &stubProvider{err: errors.New("osrm down")})
	e.SetTrip(pickupA, dropoffA)
	waitForRouteStart(t, e, pickupA)

	f := e.Snapshot()
	if len(f.Route) != 2 {
		t.Fatalf("expected straight line fallback, got %d points", len(f.Route))
	}
	if f.Route[0] != pickupA || f.Route[1] != dropoffA {
		t.Errorf("fallback endpoints mismatch: %v", f.Route)
	}
}

func TestEngine_SupersededFetchDiscarded(t *testing.T) {
	block := make(chan struct{})
	p := &stubProvider{block: block}
	e := newTestEngine(Passenger{}, p)

	e.SetTrip(pickupA, dropoffA)

	p.mu.Lock()
	p.block = nil
	p.mu.Unlock()
	e.SetTrip(pickupB, dropoffB)
	waitForRouteStart(t, e, pickupB)

	// Release the first fetch; its result must not clobber the newer one.
	close(block)
	time.Sleep(20 * time.Millisecond)

	f := e.Snapshot()
	if f.Route[0] != pickupB {
		t.Errorf("stale fetch overwrote the route: starts at %v", f.Route[0])
	}
}

func TestEngine_EndpointChangeResetsIndex(t *testing.T) {
	e := newTestEngine(Passenger{}, &stubProvider{})
	e.SetTrip(pickupA, dropoffA)
	waitForRouteStart(t, e, pickupA)
	e.SetStatus(ride.StatusAccepted)

	f, _ := e.step()
	if f.RouteIndex == 0 {
		t.Fatal("expected progress before the change")
	}

	e.SetTrip(pickupB, dropoffB)
	if got := e.Snapshot().RouteIndex; got != 0 {
		t.Errorf("index after endpoint change = %d, want 0", got)
	}
	waitForRouteStart(t, e, pickupB)
}

func TestEngine_Viewport(t *testing.T) {
	t.Run("no route, no live position: fallback center", func(t *testing.T) {
		e := newTestEngine(Passenger{}, &stubProvider{})
		f := e.Snapshot()
		if f.Viewport.Center != fallbackCenter {
			t.Errorf("center = %v, want fallback", f.Viewport.Center)
		}
		if f.Viewport.FitBounds != nil {
			t.Error("no bounds expected without a route")
		}
	})

	t.Run("driver follows live position while idle", func(t *testing.T) {
		e := newTestEngine(Driver{}, &stubProvider{})
		live := types.Point{Lat: -18.59, Lng: -46.52}
		e.SetLivePosition(live)
		if got := e.Snapshot().Viewport.Center; got != live {
			t.Errorf("center = %v, want live position", got)
		}
	})

	t.Run("passenger does not follow live position", func(t *testing.T) {
		e := newTestEngine(Passenger{}, &stubProvider{})
		e.SetLivePosition(types.Point{Lat: -18.59, Lng: -46.52})
		if got := e.Snapshot().Viewport.Center; got != fallbackCenter {
			t.Errorf("center = %v, want fallback", got)
		}
	})

	t.Run("route fits bounds", func(t *testing.T) {
		e := newTestEngine(Passenger{}, &stubProvider{})
		e.SetTrip(pickupA, dropoffA)
		waitForRouteStart(t, e, pickupA)
		f := e.Snapshot()
		if f.Viewport.FitBounds == nil {
			t.Fatal("expected bounds once a route exists")
		}
	})
}

// The simulated car belongs to the passenger view. Drivers see their own
// live position instead and admins only observe the live marker.
func TestEngine_OnlyPassengerSeesSimulatedCar(t *testing.T) {
	live := types.Point{Lat: -18.59, Lng: -46.52}

	t.Run("driver", func(t *testing.T) {
		e := newTestEngine(Driver{}, &stubProvider{})
		e.SetTrip(pickupA, dropoffA)
		waitForRouteStart(t, e, pickupA)
		e.SetStatus(ride.StatusAccepted)
		e.SetLivePosition(live)

		f, _ := e.step()
		if f.VehiclePos != nil {
			t.Fatalf("driver view rendered a simulated vehicle at %v", *f.VehiclePos)
		}
		if f.LivePos == nil || *f.LivePos != live {
			t.Fatalf("driver view lost the live position: %+v", f.LivePos)
		}
	})

	t.Run("admin", func(t *testing.T) {
		e := newTestEngine(Admin{}, &stubProvider{})
		e.SetTrip(pickupA, dropoffA)
		waitForRouteStart(t, e, pickupA)
		e.SetStatus(ride.StatusInProgress)
		e.SetLivePosition(live)

		f, _ := e.step()
		if f.VehiclePos != nil {
			t.Fatalf("admin view rendered a simulated vehicle at %v", *f.VehiclePos)
		}
		if f.LivePos == nil || *f.LivePos != live {
			t.Fatalf("admin view lost the live position: %+v", f.LivePos)
		}
	})
}

func TestRoles(t *testing.T) {
	tests := []struct {
		role        ViewerRole
		status      ride.Status
		wantVehicle bool
	}{
		{Passenger{}, ride.StatusIdle, false},
		{Passenger{}, ride.StatusSearching, false},
		{Passenger{}, ride.StatusAccepted, true},
		{Passenger{}, ride.StatusInProgress, true},
		{Driver{}, ride.StatusSearching, false},
		{Driver{}, ride.StatusArrived, false},
		{Driver{}, ride.StatusInProgress, false},
		{Admin{}, ride.StatusIdle, false},
		{Admin{}, ride.StatusInProgress, false},
	}
	for _, tt := range tests {
		if got := tt.role.WantsVehicleMarker(tt.status); got != tt.wantVehicle {
			t.Errorf("%s.WantsVehicleMarker(%s) = %v, want %v", tt.role.Name(), tt.status, got, tt.wantVehicle)
		}
	}
}

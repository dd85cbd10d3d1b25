// README: Position animation engine stepping a marker along a fetched route.
package sim

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"javai/internal/config"
	"javai/internal/geo"
	"javai/internal/maps"
	"javai/internal/modules/ride"
	"javai/internal/types"
)

// Viewport tells the renderer where to look.
type Viewport struct {
	Center    types.Point `json:"center"`
	FitBounds *geo.Bounds `json:"fitBounds,omitempty"`
}

// FrameState is the complete render state for one tick. It is a value,
// recomputed every frame, never mutated in place.
type FrameState struct {
	Role         string        `json:"role"`
	Status       ride.Status   `json:"status"`
	Route        []types.Point `json:"route,omitempty"`
	RouteIndex   int           `json:"routeIndex"`
	VehiclePos   *types.Point  `json:"vehiclePos,omitempty"`
	PassengerPos *types.Point  `json:"passengerPos,omitempty"`
	LivePos      *types.Point  `json:"livePos,omitempty"`
	Viewport     Viewport      `json:"viewport"`
	Arrived      bool          `json:"arrived"`
}

// Engine animates one session's map. It owns the route geometry, the
// position index and the live device position; the ride status is pushed
// in from the state machine.
type Engine struct {
	mu       sync.Mutex
	cfg      config.SimConfig
	role     ViewerRole
	provider maps.RouteProvider
	fallback types.Point
	log      *logrus.Entry

	status      ride.Status
	from, to    types.Point
	hasTrip     bool
	route       maps.Route
	index       int
	live        *types.Point
	arrived     bool
	generation  uint64
	fetchCancel context.CancelFunc

	frames    chan FrameState
	onArrived func()
}

func NewEngine(cfg config.SimConfig, role ViewerRole, provider maps.RouteProvider, fallbackCenter types.Point, log *logrus.Entry) *Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if cfg.StepPerFrame <= 0 {
		cfg.StepPerFrame = 1
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = 50 * time.Millisecond
	}
	return &Engine{
		cfg:      cfg,
		role:     role,
		provider: provider,
		fallback: fallbackCenter,
		log:      log,
		status:   ride.StatusIdle,
		frames:   make(chan FrameState, 4),
	}
}

// OnArrived registers a callback fired once when the vehicle reaches the
// destination during the trip. Display-level only; it never drives the
// ride status by itself.
func (e *Engine) OnArrived(f func()) {
	e.mu.Lock()
	e.onArrived = f
	e.mu.Unlock()
}

// Frames streams one state per tick. Slow readers miss frames rather than
// stall the loop.
func (e *Engine) Frames() <-chan FrameState { return e.frames }

// Run drives the tick loop until the context ends.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.mu.Lock()
			if e.fetchCancel != nil {
				e.fetchCancel()
				e.fetchCancel = nil
			}
			e.mu.Unlock()
			return
		case <-ticker.C:
			frame, justArrived := e.step()
			select {
			case e.frames <- frame:
			default:
			}
			if justArrived != nil {
				justArrived()
			}
		}
	}
}

// SetStatus pushes the ride status in. Leaving the en-route statuses
// resets the animation.
func (e *Engine) SetStatus(s ride.Status) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == s {
		return
	}
	e.status = s
	if !vehicleVisible(s) {
		e.index = 0
		e.arrived = false
	}
}

// SetTrip points the engine at new endpoints and fetches the route
// asynchronously. A newer call supersedes any in-flight fetch; stale
// results are discarded.
func (e *Engine) SetTrip(from, to types.Point) {
	e.mu.Lock()
	if e.hasTrip && e.from == from && e.to == to {
		e.mu.Unlock()
		return
	}
	e.from, e.to = from, to
	e.hasTrip = true
	e.route = maps.Route{}
	e.index = 0
	e.arrived = false
	e.generation++
	gen := e.generation
	if e.fetchCancel != nil {
		e.fetchCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.fetchCancel = cancel
	e.mu.Unlock()

	go e.fetchRoute(ctx, gen, from, to)
}

// ClearTrip drops the route, for when the ride drains back to Idle.
func (e *Engine) ClearTrip() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hasTrip = false
	e.route = maps.Route{}
	e.index = 0
	e.arrived = false
	e.generation++
	if e.fetchCancel != nil {
		e.fetchCancel()
		e.fetchCancel = nil
	}
}

// SetLivePosition feeds the device GPS in.
func (e *Engine) SetLivePosition(p types.Point) {
	e.mu.Lock()
	e.live = &p
	e.mu.Unlock()
}

// Snapshot composes the current frame without advancing.
func (e *Engine) Snapshot() FrameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.composeLocked()
}

func (e *Engine) fetchRoute(ctx context.Context, gen uint64, from, to types.Point) {
	route, err := e.provider.Directions(ctx, from, to)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		e.log.WithError(err).Warn("route fetch failed, falling back to straight line")
		route = maps.FallbackRoute(from, to)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		return
	}
	e.route = route
	e.index = 0
	e.arrived = false
}

// step advances the animation one tick and composes the frame. The second
// return value is the arrival callback to fire outside the lock, or nil.
func (e *Engine) step() (FrameState, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var fire func()
	if last := len(e.route.Points) - 1; last > 0 {
		next, done := advanceIndex(e.status, e.index, e.cfg.StepPerFrame, last)
		e.index = next
		if done && !e.arrived {
			e.arrived = true
			fire = e.onArrived
		}
	}
	return e.composeLocked(), fire
}

// advanceIndex is the pure stepping rule. En route to the pickup the car
// loops the route; during the trip it clamps at the destination.
func advanceIndex(status ride.Status, index, step, last int) (next int, done bool) {
	switch status {
	case ride.StatusAccepted, ride.StatusArrived:
		next = index + step
		if next > last {
			next = 0
		}
		return next, false
	case ride.StatusInProgress:
		next = index + step
		if next >= last {
			return last, true
		}
		return next, false
	default:
		return 0, false
	}
}

func (e *Engine) composeLocked() FrameState {
	f := FrameState{
		Role:       e.role.Name(),
		Status:     e.status,
		RouteIndex: e.index,
		Arrived:    e.arrived,
	}
	if len(e.route.Points) > 0 {
		f.Route = e.route.Points
	}
	if e.live != nil && e.role.WantsLiveMarker(e.status) {
		p := *e.live
		f.LivePos = &p
	}

	if e.role.WantsVehicleMarker(e.status) && len(e.route.Points) > 0 {
		idx := e.index
		if idx > len(e.route.Points)-1 {
			idx = len(e.route.Points) - 1
		}
		p := e.route.Points[idx]
		f.VehiclePos = &p
	}

	switch e.status {
	case ride.StatusInProgress:
		// The passenger rides in the car.
		f.PassengerPos = f.VehiclePos
	case ride.StatusSearching, ride.StatusAccepted, ride.StatusArrived:
		if e.hasTrip {
			p := e.from
			f.PassengerPos = &p
		}
	}

	f.Viewport = e.viewportLocked(f)
	return f
}

func (e *Engine) viewportLocked(f FrameState) Viewport {
	if b, ok := geo.BoundsOf(f.Route); ok {
		return Viewport{Center: b.Center(), FitBounds: &b}
	}
	if f.LivePos != nil && e.role.FollowsLive() {
		return Viewport{Center: *f.LivePos}
	}
	return Viewport{Center: e.fallback}
}

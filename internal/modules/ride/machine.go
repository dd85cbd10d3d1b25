// README: Session-scoped ride state machine with timed auto-advance.
package ride

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"javai/internal/config"
	"javai/internal/types"
)

var (
	ErrInvalidTransition = errors.New("invalid ride transition")
	ErrNoRide            = errors.New("no active ride")
	ErrActiveRide        = errors.New("session already has an active ride")
	ErrBadRequest        = errors.New("bad request")
	ErrNotFound          = errors.New("ride not found")
)

// Pricing quotes a fare for a distance and vehicle tier.
type Pricing interface {
	Quote(distanceKm float64, vehicle VehicleType) types.Money
}

// EarningsSink is credited exactly once per completed ride.
type EarningsSink interface {
	Credit(ctx context.Context, driverID types.ID, amount types.Money, at time.Time) error
}

// Archive persists finished rides for the history screen.
type Archive interface {
	SaveRide(ctx context.Context, r *Ride) error
	RateRide(ctx context.Context, id types.ID, stars int) error
}

// Machine owns the ride lifecycle of one session. All mutation goes
// through its commands; the zero value is not usable.
type Machine struct {
	mu       sync.Mutex
	clock    Clock
	timing   config.RideTiming
	pricing  Pricing
	earnings EarningsSink
	archive  Archive
	log      *logrus.Entry

	current       *Ride
	lastCompleted *Ride
	timer         Timer
	subs          []chan Transition
	closed        bool
}

// NewMachine wires a session machine. earnings and archive may be nil for
// ephemeral sessions; clock nil means the wall clock.
func NewMachine(timing config.RideTiming, pricing Pricing, clock Clock, earnings EarningsSink, archive Archive, log *logrus.Entry) *Machine {
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Machine{
		clock:    clock,
		timing:   timing,
		pricing:  pricing,
		earnings: earnings,
		archive:  archive,
		log:      log,
	}
}

type RequestCommand struct {
	PassengerID   types.ID
	Pickup        types.Location
	Dropoff       types.Location
	VehicleType   VehicleType
	PaymentMethod PaymentMethod
	DistanceKm    float64 // <= 0 means unknown
	DurationMin   int
}

type AcceptCommand struct {
	DriverID types.ID
	Vehicle  string
	Plate    string
}

// Request creates the ride and starts searching. The fare is quoted here
// and never recomputed afterwards.
func (m *Machine) Request(ctx context.Context, cmd RequestCommand) (*Ride, error) {
	if cmd.PassengerID == "" || cmd.VehicleType == "" {
		return nil, ErrBadRequest
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && !Terminal(m.current.Status) {
		return nil, ErrActiveRide
	}

	now := m.clock.Now()
	r := &Ride{
		ID:               newID(),
		PassengerID:      cmd.PassengerID,
		Pickup:           cmd.Pickup,
		Dropoff:          cmd.Dropoff,
		VehicleType:      cmd.VehicleType,
		PaymentMethod:    cmd.PaymentMethod,
		Price:            m.pricing.Quote(cmd.DistanceKm, cmd.VehicleType),
		DistanceKm:       cmd.DistanceKm,
		EstimatedTimeMin: cmd.DurationMin,
		Status:           StatusIdle,
		RequestedAt:      now,
	}
	m.stopTimerLocked()
	m.current = r
	m.transitionLocked(StatusSearching, now)

	snapshot := *r
	return &snapshot, nil
}

// Accept assigns the driver. Only legal while searching; anything else is
// a hard ErrInvalidTransition, never a silent no-op.
func (m *Machine) Accept(ctx context.Context, cmd AcceptCommand) error {
	if cmd.DriverID == "" {
		return ErrBadRequest
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || !CanTransition(m.current.Status, StatusAccepted) {
		return ErrInvalidTransition
	}

	d := cmd.DriverID
	m.current.DriverID = &d
	m.current.DriverVehicle = cmd.Vehicle
	m.current.DriverPlate = cmd.Plate
	m.transitionLocked(StatusAccepted, m.clock.Now())

	// The trip starts on its own shortly after acceptance unless the
	// driver starts it first.
	m.armTimerLocked(m.timing.AutoStart, m.autoStart)
	return nil
}

// Arrive marks the driver at the pickup point. The auto-start timer keeps
// running; it handles Arrived the same way.
func (m *Machine) Arrive(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || !CanTransition(m.current.Status, StatusArrived) {
		return ErrInvalidTransition
	}
	m.transitionLocked(StatusArrived, m.clock.Now())
	return nil
}

// Start begins the trip explicitly, pre-empting the auto-start timer.
func (m *Machine) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startLocked()
}

func (m *Machine) startLocked() error {
	if m.current == nil || !CanTransition(m.current.Status, StatusInProgress) {
		return ErrInvalidTransition
	}
	m.stopTimerLocked()
	m.transitionLocked(StatusInProgress, m.clock.Now())
	return nil
}

// Complete finishes the trip, credits the driver once, archives the ride
// and schedules the reset back to Idle.
func (m *Machine) Complete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || !CanTransition(m.current.Status, StatusCompleted) {
		return ErrInvalidTransition
	}

	now := m.clock.Now()
	r := m.current
	r.CompletedAt = &now
	m.transitionLocked(StatusCompleted, now)
	m.lastCompleted = r

	if m.earnings != nil && r.DriverID != nil {
		if err := m.earnings.Credit(ctx, *r.DriverID, r.Price, now); err != nil {
			m.log.WithError(err).WithField("ride_id", r.ID).Warn("earnings credit failed")
		}
	}
	if m.archive != nil {
		if err := m.archive.SaveRide(ctx, r); err != nil {
			m.log.WithError(err).WithField("ride_id", r.ID).Warn("ride archive failed")
		}
	}

	m.armTimerLocked(m.timing.AutoReset, m.autoReset)
	return nil
}

// Cancel abandons the ride before it starts. The record is discarded, not
// archived, and nothing is credited.
func (m *Machine) Cancel(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || !CanTransition(m.current.Status, StatusCancelled) {
		return ErrInvalidTransition
	}
	m.stopTimerLocked()
	m.transitionLocked(StatusCancelled, m.clock.Now())
	m.armTimerLocked(m.timing.AutoReset, m.autoReset)
	return nil
}

// Rate stars the most recently completed ride. Rating while still in
// Completed drains the machine to Idle without waiting for the reset
// timer.
func (m *Machine) Rate(ctx context.Context, stars int) error {
	if stars < 1 || stars > 5 {
		return ErrBadRequest
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastCompleted == nil {
		return ErrNoRide
	}
	s := stars
	m.lastCompleted.Rating = &s
	if m.archive != nil {
		if err := m.archive.RateRide(ctx, m.lastCompleted.ID, stars); err != nil {
			return err
		}
	}

	if m.current != nil && m.current.Status == StatusCompleted {
		m.stopTimerLocked()
		at := m.clock.Now()
		id := m.current.ID
		m.current = nil
		m.emitLocked(Transition{RideID: id, From: StatusCompleted, To: StatusIdle, At: at})
	}
	return nil
}

// Current returns a snapshot of the active ride.
func (m *Machine) Current() (Ride, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Ride{}, false
	}
	return *m.current, true
}

// Status returns Idle when no ride is active.
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return StatusIdle
	}
	return m.current.Status
}

// Subscribe registers a transition listener. The returned cancel func must
// be called to release it. Slow listeners miss events rather than block
// the machine.
func (m *Machine) Subscribe() (<-chan Transition, func()) {
	ch := make(chan Transition, 16)

	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s == ch {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// Close stops pending timers and drops subscribers. Idempotent.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.stopTimerLocked()
	for _, ch := range m.subs {
		close(ch)
	}
	m.subs = nil
}

func (m *Machine) autoStart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	if err := m.startLocked(); err != nil {
		// The driver beat the timer or the ride was cancelled.
		return
	}
}

func (m *Machine) autoReset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.current == nil || !CanTransition(m.current.Status, StatusIdle) {
		return
	}
	at := m.clock.Now()
	from := m.current.Status
	id := m.current.ID
	m.current = nil
	m.emitLocked(Transition{RideID: id, From: from, To: StatusIdle, At: at})
}

func (m *Machine) transitionLocked(to Status, at time.Time) {
	from := m.current.Status
	m.current.Status = to
	m.emitLocked(Transition{RideID: m.current.ID, From: from, To: to, At: at})
}

func (m *Machine) emitLocked(t Transition) {
	m.log.WithFields(logrus.Fields{
		"ride_id": t.RideID,
		"from":    t.From,
		"to":      t.To,
	}).Info("ride transition")
	for _, ch := range m.subs {
		select {
		case ch <- t:
		default:
		}
	}
}

func (m *Machine) armTimerLocked(d time.Duration, f func()) {
	m.stopTimerLocked()
	m.timer = m.clock.AfterFunc(d, f)
}

func (m *Machine) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}

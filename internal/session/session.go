// README: Session container wiring one viewer's state machine to its map engine.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"javai/internal/config"
	"javai/internal/maps"
	"javai/internal/modules/ride"
	"javai/internal/modules/sim"
	"javai/internal/types"
)

var ErrNotFound = errors.New("session not found")

// Session owns the ride machine and the animation engine of one connected
// viewer. All state lives here; nothing is global.
type Session struct {
	ID      types.ID
	Role    sim.ViewerRole
	Machine *ride.Machine
	Engine  *sim.Engine

	cancel context.CancelFunc
}

// Manager creates and tracks sessions.
type Manager struct {
	cfg      config.Config
	pricing  ride.Pricing
	provider maps.RouteProvider
	earnings ride.EarningsSink
	archive  ride.Archive
	log      *logrus.Entry

	mu       sync.Mutex
	sessions map[types.ID]*Session
}

func NewManager(cfg config.Config, pricing ride.Pricing, provider maps.RouteProvider, earnings ride.EarningsSink, archive ride.Archive, log *logrus.Entry) *Manager {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Manager{
		cfg:      cfg,
		pricing:  pricing,
		provider: provider,
		earnings: earnings,
		archive:  archive,
		log:      log,
		sessions: make(map[types.ID]*Session),
	}
}

// RoleFor maps the wire name to a viewer role. Unknown names get the
// passenger view.
func RoleFor(name string) sim.ViewerRole {
	switch name {
	case "driver":
		return sim.Driver{}
	case "admin":
		return sim.Admin{}
	default:
		return sim.Passenger{}
	}
}

// Open builds a session and starts its engine loop.
func (m *Manager) Open(role sim.ViewerRole) *Session {
	id := newID()
	log := m.log.WithFields(logrus.Fields{"session_id": id, "role": role.Name()})

	machine := ride.NewMachine(m.cfg.Ride, m.pricing, nil, m.earnings, m.archive, log)
	engine := sim.NewEngine(m.cfg.Sim, role, m.provider, m.cfg.FallbackCenter.Point, log)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{ID: id, Role: role, Machine: machine, Engine: engine, cancel: cancel}

	// Subscribe before the first command can run so the engine never
	// misses the opening transition.
	events, unsubscribe := machine.Subscribe()

	go engine.Run(ctx)
	go s.pumpTransitions(ctx, events, unsubscribe)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	log.Info("session opened")
	return s
}

// pumpTransitions feeds machine status changes into the engine.
func (s *Session) pumpTransitions(ctx context.Context, events <-chan ride.Transition, unsubscribe func()) {
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-events:
			if !ok {
				return
			}
			s.Engine.SetStatus(t.To)
			switch t.To {
			case ride.StatusSearching:
				if r, ok := s.Machine.Current(); ok {
					s.Engine.SetTrip(r.Pickup.Point, r.Dropoff.Point)
				}
			case ride.StatusIdle:
				s.Engine.ClearTrip()
			}
		}
	}
}

func (m *Manager) Get(id types.ID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close tears the session down. Safe to call twice.
func (m *Manager) Close(id types.ID) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return
	}
	s.cancel()
	s.Machine.Close()
	m.log.WithField("session_id", id).Info("session closed")
}

// CloseAll tears every session down, for shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	ids := make([]types.ID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		m.Close(id)
	}
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}

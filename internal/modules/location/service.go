// README: Driver availability service with throttled snapshot flushing.
package location

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"javai/internal/types"
)

// Positions arrive at frame rate; snapshots go to Postgres far less often.
const snapshotEvery = 10 * time.Second

type Service struct {
	store *Store
	log   *logrus.Entry

	mu        sync.Mutex
	lastFlush map[types.ID]time.Time
}

func NewService(store *Store, log *logrus.Entry) *Service {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		store:     store,
		log:       log,
		lastFlush: make(map[types.ID]time.Time),
	}
}

// Online puts the driver into the availability pool.
func (s *Service) Online(ctx context.Context, id types.ID, pos types.Point) error {
	if err := s.store.SetPosition(ctx, id, pos); err != nil {
		return err
	}
	s.flushSnapshot(ctx, id, pos, true)
	return nil
}

// Offline removes the driver from the pool.
func (s *Service) Offline(ctx context.Context, id types.ID) error {
	s.mu.Lock()
	delete(s.lastFlush, id)
	s.mu.Unlock()
	return s.store.Remove(ctx, id)
}

// Update refreshes the live position. Snapshot persistence is throttled
// and best-effort.
func (s *Service) Update(ctx context.Context, id types.ID, pos types.Point) error {
	if err := s.store.SetPosition(ctx, id, pos); err != nil {
		return err
	}
	s.flushSnapshot(ctx, id, pos, false)
	return nil
}

// Nearby lists online drivers around a point, nearest first.
func (s *Service) Nearby(ctx context.Context, p types.Point, radiusKm float64) ([]types.ID, error) {
	return s.store.Nearby(ctx, p, radiusKm)
}

// Position returns the last known position for one driver.
func (s *Service) Position(ctx context.Context, id types.ID) (types.Point, bool, error) {
	return s.store.Position(ctx, id)
}

func (s *Service) flushSnapshot(ctx context.Context, id types.ID, pos types.Point, force bool) {
	now := time.Now()

	s.mu.Lock()
	last, seen := s.lastFlush[id]
	if !force && seen && now.Sub(last) < snapshotEvery {
		s.mu.Unlock()
		return
	}
	s.lastFlush[id] = now
	s.mu.Unlock()

	snap := Snapshot{DriverID: id, Position: pos, RecordedAt: now}
	if err := s.store.AppendSnapshot(ctx, snap); err != nil {
		s.log.WithError(err).WithField("driver_id", id).Warn("snapshot flush failed")
	}
}

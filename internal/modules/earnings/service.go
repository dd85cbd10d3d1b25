// README: Driver earnings ledger with daily aggregates.
package earnings

import (
	"context"
	"time"

	"javai/internal/types"
)

// DaySummary is one row of the driver earnings screen.
type DaySummary struct {
	Day    string      `json:"day"` // 2006-01-02
	Amount types.Money `json:"amount"`
	Rides  int         `json:"rides"`
}

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Credit appends one ledger entry. Called once per completed ride.
func (s *Service) Credit(ctx context.Context, driverID types.ID, amount types.Money, at time.Time) error {
	return s.store.Append(ctx, driverID, amount, at)
}

// Daily aggregates the last N days, newest first.
func (s *Service) Daily(ctx context.Context, driverID types.ID, days int) ([]DaySummary, error) {
	if days <= 0 {
		days = 7
	}
	return s.store.Daily(ctx, driverID, days)
}

// Total sums the whole ledger for a driver.
func (s *Service) Total(ctx context.Context, driverID types.ID) (types.Money, int, error) {
	return s.store.Total(ctx, driverID)
}

// README: Earnings store backed by PostgreSQL.
package earnings

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"javai/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, driverID types.ID, amount types.Money, at time.Time) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO earnings (driver_id, amount, currency, credited_at)
		VALUES ($1, $2, $3, $4)`,
		string(driverID),
		amount.Amount,
		amount.Currency,
		at,
	)
	return err
}

func (s *Store) Daily(ctx context.Context, driverID types.ID, days int) ([]DaySummary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT to_char(credited_at::date, 'YYYY-MM-DD') AS day,
		       SUM(amount) AS amount,
		       MAX(currency) AS currency,
		       COUNT(*) AS rides
		FROM earnings
		WHERE driver_id = $1
		  AND credited_at >= NOW() - ($2 || ' days')::interval
		GROUP BY credited_at::date
		ORDER BY credited_at::date DESC`,
		string(driverID), days,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DaySummary
	for rows.Next() {
		var d DaySummary
		if err := rows.Scan(&d.Day, &d.Amount.Amount, &d.Amount.Currency, &d.Rides); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) Total(ctx context.Context, driverID types.ID) (types.Money, int, error) {
	row := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0),
		       COALESCE(MAX(currency), 'BRL'),
		       COUNT(*)
		FROM earnings
		WHERE driver_id = $1`,
		string(driverID),
	)
	var m types.Money
	var rides int
	if err := row.Scan(&m.Amount, &m.Currency, &rides); err != nil {
		return types.Money{}, 0, err
	}
	return m, rides, nil
}

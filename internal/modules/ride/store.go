// README: Ride history store backed by PostgreSQL.
package ride

import (
	"context"
	"database/sql"
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

// SaveRide archives a completed ride for the history screen.
func (s *Store) SaveRide(ctx context.Context, r *Ride) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ride_history (
			id, passenger_id, driver_id, driver_vehicle, driver_plate,
			pickup_lat, pickup_lng, pickup_address,
			dropoff_lat, dropoff_lng, dropoff_address,
			vehicle_type, payment_method, price, currency,
			distance_km, estimated_time_min, requested_at, completed_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11,
			$12, $13, $14, $15,
			$16, $17, $18, $19
		)`,
		string(r.ID),
		string(r.PassengerID),
		toStringPtr(r.DriverID),
		r.DriverVehicle,
		r.DriverPlate,
		r.Pickup.Lat, r.Pickup.Lng, r.Pickup.Address,
		r.Dropoff.Lat, r.Dropoff.Lng, r.Dropoff.Address,
		string(r.VehicleType),
		string(r.PaymentMethod),
		r.Price.Amount,
		r.Price.Currency,
		r.DistanceKm,
		r.EstimatedTimeMin,
		r.RequestedAt,
		r.CompletedAt,
	)
	return err
}

// RateRide stars an archived ride.
func (s *Store) RateRide(ctx context.Context, id types.ID, stars int) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE ride_history SET rating = $1 WHERE id = $2`,
		stars, string(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// HistoryByPassenger lists archived rides, newest first.
func (s *Store) HistoryByPassenger(ctx context.Context, passengerID types.ID, limit int) ([]Ride, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, passenger_id, driver_id, driver_vehicle, driver_plate,
		       pickup_lat, pickup_lng, pickup_address,
		       dropoff_lat, dropoff_lng, dropoff_address,
		       vehicle_type, payment_method, price, currency,
		       distance_km, estimated_time_min, rating, requested_at, completed_at
		FROM ride_history
		WHERE passenger_id = $1
		ORDER BY completed_at DESC
		LIMIT $2`, string(passengerID), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ride
	for rows.Next() {
		var r Ride
		var driverID sql.NullString
		var rating sql.NullInt64
		var completedAt sql.NullTime
		err := rows.Scan(
			&r.ID, &r.PassengerID, &driverID, &r.DriverVehicle, &r.DriverPlate,
			&r.Pickup.Lat, &r.Pickup.Lng, &r.Pickup.Address,
			&r.Dropoff.Lat, &r.Dropoff.Lng, &r.Dropoff.Address,
			&r.VehicleType, &r.PaymentMethod, &r.Price.Amount, &r.Price.Currency,
			&r.DistanceKm, &r.EstimatedTimeMin, &rating, &r.RequestedAt, &completedAt,
		)
		if err != nil {
			return nil, err
		}
		r.Status = StatusCompleted
		if driverID.Valid {
			d := types.ID(driverID.String)
			r.DriverID = &d
		}
		if rating.Valid {
			v := int(rating.Int64)
			r.Rating = &v
		}
		r.CompletedAt = toTimePtr(completedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetArchived loads one archived ride.
func (s *Store) GetArchived(ctx context.Context, id types.ID) (*Ride, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, passenger_id, driver_id, driver_vehicle, driver_plate,
		       pickup_lat, pickup_lng, pickup_address,
		       dropoff_lat, dropoff_lng, dropoff_address,
		       vehicle_type, payment_method, price, currency,
		       distance_km, estimated_time_min, rating, requested_at, completed_at
		FROM ride_history
		WHERE id = $1`, string(id),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	var r Ride
	var driverID sql.NullString
	var rating sql.NullInt64
	var completedAt sql.NullTime
	err = rows.Scan(
		&r.ID, &r.PassengerID, &driverID, &r.DriverVehicle, &r.DriverPlate,
		&r.Pickup.Lat, &r.Pickup.Lng, &r.Pickup.Address,
		&r.Dropoff.Lat, &r.Dropoff.Lng, &r.Dropoff.Address,
		&r.VehicleType, &r.PaymentMethod, &r.Price.Amount, &r.Price.Currency,
		&r.DistanceKm, &r.EstimatedTimeMin, &rating, &r.RequestedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Status = StatusCompleted
	if driverID.Valid {
		d := types.ID(driverID.String)
		r.DriverID = &d
	}
	if rating.Valid {
		v := int(rating.Int64)
		r.Rating = &v
	}
	r.CompletedAt = toTimePtr(completedAt)
	return &r, nil
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func toTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

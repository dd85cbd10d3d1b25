// README: Driver position store backed by Redis GEO and Postgres snapshots.
package location

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"javai/internal/types"
)

const driverGeoKey = "location:drivers:online"

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func NewStore(db *pgxpool.Pool, redis *redis.Client) *Store {
	return &Store{db: db, redis: redis}
}

func (s *Store) SetPosition(ctx context.Context, id types.ID, pos types.Point) error {
	return s.redis.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
		Name:      string(id),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

func (s *Store) Remove(ctx context.Context, id types.ID) error {
	return s.redis.ZRem(ctx, driverGeoKey, string(id)).Err()
}

// Nearby lists online drivers within radiusKm, nearest first.
func (s *Store) Nearby(ctx context.Context, p types.Point, radiusKm float64) ([]types.ID, error) {
	results, err := s.redis.GeoSearch(ctx, driverGeoKey, &redis.GeoSearchQuery{
		Longitude:  p.Lng,
		Latitude:   p.Lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]types.ID, len(results))
	for i, r := range results {
		ids[i] = types.ID(r)
	}
	return ids, nil
}

// Position returns the last known position, and whether the driver is
// online at all.
func (s *Store) Position(ctx context.Context, id types.ID) (types.Point, bool, error) {
	pos, err := s.redis.GeoPos(ctx, driverGeoKey, string(id)).Result()
	if err != nil {
		return types.Point{}, false, err
	}
	if len(pos) == 0 || pos[0] == nil {
		return types.Point{}, false, nil
	}
	return types.Point{Lat: pos[0].Latitude, Lng: pos[0].Longitude}, true, nil
}

func (s *Store) AppendSnapshot(ctx context.Context, snap Snapshot) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO location_snapshots (driver_id, lat, lng, recorded_at)
		VALUES ($1, $2, $3, $4)`,
		string(snap.DriverID),
		snap.Position.Lat,
		snap.Position.Lng,
		snap.RecordedAt,
	)
	return err
}

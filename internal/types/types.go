// README: Common value types shared across modules.
package types

// ID identifies passengers, drivers and rides.
type ID string

// Point is a bare WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is a point with a display label. The address is for rendering
// only, never a key.
type Location struct {
	Point
	Address string `json:"address"`
}

// Money holds an amount in cents to keep fare arithmetic exact.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Units returns the amount in currency units (e.g. 1550 -> 15.50).
func (m Money) Units() float64 {
	return float64(m.Amount) / 100.0
}

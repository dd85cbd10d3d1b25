// Package geo contains pure geographic computation helpers.
package geo

import (
	"math"

	"javai/internal/types"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// Lerp interpolates linearly between two points. t is clamped to [0, 1].
func Lerp(a, b types.Point, t float64) types.Point {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return types.Point{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lng: a.Lng + (b.Lng-a.Lng)*t,
	}
}

// PathLengthKm sums the segment distances of a polyline.
func PathLengthKm(points []types.Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += HaversineKm(points[i-1], points[i])
	}
	return total
}

// Bounds is a rectangle fitted around a set of points, for viewport fitting.
type Bounds struct {
	SouthWest types.Point
	NorthEast types.Point
}

// BoundsOf returns the bounding box of the polyline. ok is false for an
// empty input.
func BoundsOf(points []types.Point) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b.SouthWest = points[0]
	b.NorthEast = points[0]
	for _, p := range points[1:] {
		b.SouthWest.Lat = math.Min(b.SouthWest.Lat, p.Lat)
		b.SouthWest.Lng = math.Min(b.SouthWest.Lng, p.Lng)
		b.NorthEast.Lat = math.Max(b.NorthEast.Lat, p.Lat)
		b.NorthEast.Lng = math.Max(b.NorthEast.Lng, p.Lng)
	}
	return b, true
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() types.Point {
	return types.Point{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
	}
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

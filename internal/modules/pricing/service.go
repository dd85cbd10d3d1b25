// README: Fare table and fare quoting per vehicle tier.
package pricing

import (
	"math"

	"javai/internal/modules/ride"
	"javai/internal/types"
)

const (
	baseFareCents = 450
	perKmCents    = 220
	currency      = "BRL"

	// Quotes for an unknown distance assume a short hop instead of a
	// zero fare.
	fallbackDistanceKm = 1.0
)

// Tier describes a bookable vehicle class.
type Tier struct {
	Vehicle     ride.VehicleType `json:"vehicle"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Multiplier  float64          `json:"multiplier"`
}

// TierQuote pairs a tier with its fare for a given trip.
type TierQuote struct {
	Tier
	Price types.Money `json:"price"`
}

type Service struct {
	tiers []Tier
}

func NewService() *Service {
	return &Service{
		tiers: []Tier{
			{Vehicle: ride.VehicleStandard, Name: "Standard", Description: "Viagens econômicas do dia a dia", Multiplier: 1.0},
			{Vehicle: ride.VehicleComfort, Name: "Comfort", Description: "Carros espaçosos e bem avaliados", Multiplier: 1.4},
			{Vehicle: ride.VehicleBlack, Name: "Black", Description: "Luxo e estilo para ocasiões especiais", Multiplier: 2.2},
		},
	}
}

// Tiers returns the catalogue in display order.
func (s *Service) Tiers() []Tier {
	out := make([]Tier, len(s.tiers))
	copy(out, s.tiers)
	return out
}

// Quote computes the fare for one tier. Unknown tiers price as Standard.
func (s *Service) Quote(distanceKm float64, vehicle ride.VehicleType) types.Money {
	multiplier := 1.0
	for _, t := range s.tiers {
		if t.Vehicle == vehicle {
			multiplier = t.Multiplier
			break
		}
	}
	return quote(distanceKm, multiplier)
}

// QuoteAll prices every tier for the trip, for the vehicle picker.
func (s *Service) QuoteAll(distanceKm float64) []TierQuote {
	out := make([]TierQuote, 0, len(s.tiers))
	for _, t := range s.tiers {
		out = append(out, TierQuote{Tier: t, Price: quote(distanceKm, t.Multiplier)})
	}
	return out
}

func quote(distanceKm float64, multiplier float64) types.Money {
	if distanceKm <= 0 {
		distanceKm = fallbackDistanceKm
	}
	cents := (baseFareCents + distanceKm*perKmCents) * multiplier
	return types.Money{
		Amount:   int64(math.Round(cents)),
		Currency: currency,
	}
}

package pricing

import (
	"testing"

	"javai/internal/modules/ride"
)

func TestQuote_FareTable(t *testing.T) {
	s := NewService()

	tests := []struct {
		name       string
		distanceKm float64
		vehicle    ride.VehicleType
		wantCents  int64
	}{
		{"standard 5km", 5.0, ride.VehicleStandard, 1550},
		{"comfort 5km", 5.0, ride.VehicleComfort, 2170},
		{"black 5km", 5.0, ride.VehicleBlack, 3410},
		{"standard 1km", 1.0, ride.VehicleStandard, 670},
		{"unknown distance prices as 1km", 0, ride.VehicleStandard, 670},
		{"negative distance prices as 1km", -3, ride.VehicleStandard, 670},
		{"unknown tier prices as standard", 5.0, ride.VehicleType("rickshaw"), 1550},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Quote(tt.distanceKm, tt.vehicle)
			if got.Amount != tt.wantCents {
				t.Errorf("Quote(%f, %s) = %d cents, want %d", tt.distanceKm, tt.vehicle, got.Amount, tt.wantCents)
			}
			if got.Currency != "BRL" {
				t.Errorf("currency = %q, want BRL", got.Currency)
			}
		})
	}
}

func TestQuoteAll(t *testing.T) {
	s := NewService()

	quotes := s.QuoteAll(5.0)
	if len(quotes) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(quotes))
	}
	wantOrder := []ride.VehicleType{ride.VehicleStandard, ride.VehicleComfort, ride.VehicleBlack}
	wantCents := []int64{1550, 2170, 3410}
	for i, q := range quotes {
		if q.Vehicle != wantOrder[i] {
			t.Errorf("tier %d = %s, want %s", i, q.Vehicle, wantOrder[i])
		}
		if q.Price.Amount != wantCents[i] {
			t.Errorf("tier %s = %d cents, want %d", q.Vehicle, q.Price.Amount, wantCents[i])
		}
	}
}

func TestQuote_CheaperTierStaysCheaper(t *testing.T) {
	s := NewService()
	for _, d := range []float64{0.5, 1, 3, 12, 40} {
		std := s.Quote(d, ride.VehicleStandard).Amount
		comfort := s.Quote(d, ride.VehicleComfort).Amount
		black := s.Quote(d, ride.VehicleBlack).Amount
		if !(std < comfort && comfort < black) {
			t.Errorf("tier ordering broken at %fkm: %d %d %d", d, std, comfort, black)
		}
	}
}

package tests

import (
	"math"
	"testing"
	"time"

	"driveus/internal/service"
)

// ──────────────────────────────────────────────
// 1. FARE COMPUTATION
// ──────────────────────────────────────────────

func parisTime(t *testing.T, value string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	ts, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return ts
}

func approxEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFare_Scenarios(t *testing.T) {
	t.Parallel()

	pricing := service.NewPricingService(service.DefaultPricingConfig())

	testCases := []struct {
		name       string
		distanceKm float64
		pickup     string // Europe/Paris wall clock
		want       float64
	}{
		// 2025-03-12 is a Wednesday, 2025-03-16 a Sunday.
		{"weekday daytime", 10, "2025-03-12 14:00", 30},
		{"weekday night", 10, "2025-03-12 22:00", 36},
		{"sunday daytime", 10, "2025-03-16 14:00", 36},
		{"sunday night no double surcharge", 10, "2025-03-16 22:00", 36},
		{"short trip hits minimum", 1, "2025-03-12 14:00", 25},
		{"zero distance hits minimum", 0, "2025-03-12 14:00", 25},
		{"night surcharge above minimum", 7, "2025-03-12 23:00", 25.2},
		{"night surcharge still below minimum", 6, "2025-03-12 23:00", 25},
		{"half rounds away from zero", 12.345, "2025-03-12 14:00", 37.04},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := pricing.FareAt(tc.distanceKm, parisTime(t, tc.pickup))
			if !approxEq(got, tc.want) {
				t.Errorf("FareAt(%v, %s) = %v, want %v", tc.distanceKm, tc.pickup, got, tc.want)
			}
		})
	}
}

func TestFare_SurchargeWindowBoundaries(t *testing.T) {
	t.Parallel()

	pricing := service.NewPricingService(service.DefaultPricingConfig())

	testCases := []struct {
		name   string
		pickup string
		want   float64
	}{
		{"just before window opens", "2025-03-12 19:59", 30},
		{"window opens inclusive", "2025-03-12 20:00", 36},
		{"just before window closes", "2025-03-13 06:59", 36},
		{"window closes exclusive", "2025-03-13 07:00", 30},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := pricing.FareAt(10, parisTime(t, tc.pickup))
			if !approxEq(got, tc.want) {
				t.Errorf("FareAt(10, %s) = %v, want %v", tc.pickup, got, tc.want)
			}
		})
	}
}

func TestFare_TimezoneDecidesWindow(t *testing.T) {
	t.Parallel()

	// 18:30 UTC in winter is 19:30 in Paris: still daytime there even
	// though an hour later it would not be.
	pricing := service.NewPricingService(service.DefaultPricingConfig())

	pickup := time.Date(2025, 3, 12, 18, 30, 0, 0, time.UTC)
	if got := pricing.FareAt(10, pickup); !approxEq(got, 30) {
		t.Errorf("FareAt(10, 18:30 UTC) = %v, want 30", got)
	}

	pickup = time.Date(2025, 3, 12, 19, 30, 0, 0, time.UTC) // 20:30 Paris
	if got := pricing.FareAt(10, pickup); !approxEq(got, 36) {
		t.Errorf("FareAt(10, 19:30 UTC) = %v, want 36", got)
	}
}

func TestFare_DegenerateDistances(t *testing.T) {
	t.Parallel()

	pricing := service.NewPricingService(service.DefaultPricingConfig())
	pickup := parisTime(t, "2025-03-12 14:00")

	for _, d := range []float64{-5, 0, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := pricing.FareAt(d, pickup); !approxEq(got, 25) {
			t.Errorf("FareAt(%v) = %v, want minimum fare 25", d, got)
		}
	}
}

func TestFare_UnparseablePickupSkipsSurcharge(t *testing.T) {
	t.Parallel()

	pricing := service.NewPricingService(service.DefaultPricingConfig())

	// A quote with a broken timestamp still prices the trip, just
	// without the surcharge.
	if got := pricing.Fare(10, "not-a-timestamp"); !approxEq(got, 30) {
		t.Errorf("Fare(10, garbage) = %v, want 30", got)
	}
	if got := pricing.Fare(1, "also garbage"); !approxEq(got, 25) {
		t.Errorf("Fare(1, garbage) = %v, want 25", got)
	}
}

func TestFare_Pure(t *testing.T) {
	t.Parallel()

	pricing := service.NewPricingService(service.DefaultPricingConfig())
	pickup := parisTime(t, "2025-03-16 22:15")

	first := pricing.FareAt(42.7, pickup)
	for i := 0; i < 100; i++ {
		if got := pricing.FareAt(42.7, pickup); got != first {
			t.Fatalf("FareAt not deterministic: %v then %v", first, got)
		}
	}
}

func TestFare_ConfigurableRates(t *testing.T) {
	t.Parallel()

	cfg := service.DefaultPricingConfig()
	cfg.PerKmRate = 2
	cfg.MinimumFare = 10
	cfg.SurchargeRate = 1.5

	pricing := service.NewPricingService(cfg)

	if got := pricing.FareAt(10, parisTime(t, "2025-03-12 14:00")); !approxEq(got, 20) {
		t.Errorf("FareAt with custom rate = %v, want 20", got)
	}
	if got := pricing.FareAt(10, parisTime(t, "2025-03-12 22:00")); !approxEq(got, 30) {
		t.Errorf("FareAt with custom surcharge = %v, want 30", got)
	}
}

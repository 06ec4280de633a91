package service

import (
	"math"
	"time"
)

// PricingConfig contains the fare policy.
type PricingConfig struct {
	PerKmRate     float64        // currency units per kilometer
	MinimumFare   float64        // floor applied to every fare
	SurchargeRate float64        // multiplier inside the surcharge window
	NightStart    int            // surcharge window start hour, inclusive
	NightEnd      int            // surcharge window end hour, exclusive
	Location      *time.Location // reference timezone for the window
}

// DefaultPricingConfig returns the standard tariff: 3/km, 25 minimum,
// +20% at night (20:00-07:00) or on Sundays, evaluated in Europe/Paris.
func DefaultPricingConfig() PricingConfig {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		loc = time.UTC
	}
	return PricingConfig{
		PerKmRate:     3,
		MinimumFare:   25,
		SurchargeRate: 1.2,
		NightStart:    20,
		NightEnd:      7,
		Location:      loc,
	}
}

// PricingService computes fares. It is pure: identical inputs always
// yield identical output, which keeps historical fares auditable.
type PricingService struct {
	cfg PricingConfig
}

// NewPricingService creates a new PricingService.
func NewPricingService(cfg PricingConfig) *PricingService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &PricingService{cfg: cfg}
}

// FareAt computes the fare for a distance and pickup instant.
// A non-finite or non-positive distance yields the minimum fare: a
// quote never hard-errors on a pricing anomaly the caller cannot fix.
func (s *PricingService) FareAt(distanceKm float64, pickupAt time.Time) float64 {
	if !validDistance(distanceKm) {
		return s.cfg.MinimumFare
	}

	base := distanceKm * s.cfg.PerKmRate

	factor := 1.0
	if s.inSurchargeWindow(pickupAt) {
		factor = s.cfg.SurchargeRate
	}

	return math.Max(s.cfg.MinimumFare, round2(base*factor))
}

// Fare computes the fare from a raw RFC3339 pickup timestamp. An empty
// timestamp means "now"; an unparseable one degrades to the base fare
// with no surcharge determination.
func (s *PricingService) Fare(distanceKm float64, pickupRaw string) float64 {
	if pickupRaw == "" {
		return s.FareAt(distanceKm, time.Now())
	}

	pickupAt, err := time.Parse(time.RFC3339, pickupRaw)
	if err != nil {
		if !validDistance(distanceKm) {
			return s.cfg.MinimumFare
		}
		return math.Max(s.cfg.MinimumFare, round2(distanceKm*s.cfg.PerKmRate))
	}

	return s.FareAt(distanceKm, pickupAt)
}

// inSurchargeWindow reports whether the instant falls in the night
// window or on a Sunday, in the reference timezone.
func (s *PricingService) inSurchargeWindow(t time.Time) bool {
	local := t.In(s.cfg.Location)
	if local.Weekday() == time.Sunday {
		return true
	}
	hour := local.Hour()
	return hour >= s.cfg.NightStart || hour < s.cfg.NightEnd
}

func validDistance(km float64) bool {
	return !math.IsNaN(km) && !math.IsInf(km, 0) && km > 0
}

// round2 rounds to 2 decimal places, half up.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

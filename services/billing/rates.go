package billing

import (
	"fmt"

	"parkwise/models"
)

// ResolveRate picks the active rate of exactly the requested type.
// When several qualify the most recently updated one wins.
func ResolveRate(rates []models.ParkingRate, rateType models.RateType) (models.ParkingRate, error) {
	var (
		best  models.ParkingRate
		found bool
	)
	for _, r := range rates {
		if !r.IsActive || r.RateType != rateType {
			continue
		}
		if !found || r.UpdatedAt.After(best.UpdatedAt) {
			best = r
			found = true
		}
	}
	if !found {
		return models.ParkingRate{}, fmt.Errorf("rate type %s: %w", rateType, ErrNoApplicableRate)
	}
	return best, nil
}

// ValidateRate checks a rate for values ComputeCharge cannot price.
func ValidateRate(r models.ParkingRate) error {
	if !r.RateType.Valid() {
		return fmt.Errorf("unknown rate type %q: %w", r.RateType, ErrInvalidRate)
	}
	if r.PricePerHour < 0 || r.PricePerDay < 0 || r.OvernightPrice < 0 ||
		r.MinChargeAmount < 0 || r.MaxChargePerDay < 0 {
		return fmt.Errorf("prices must not be negative: %w", ErrInvalidRate)
	}
	if r.RateType == models.RateVIP && r.VIPMultiplier <= 0 {
		return fmt.Errorf("vip multiplier must be positive: %w", ErrInvalidRate)
	}
	if r.VIPMultiplier < 0 {
		return fmt.Errorf("vip multiplier must not be negative: %w", ErrInvalidRate)
	}
	if r.MaxChargePerDay > 0 && r.MinChargeAmount > r.MaxChargePerDay {
		return fmt.Errorf("minimum charge exceeds daily maximum: %w", ErrInvalidRate)
	}
	return nil
}

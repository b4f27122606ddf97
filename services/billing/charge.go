package billing

import (
	"time"

	"parkwise/models"
)

const day = 24 * time.Hour

// Charge is the priced outcome of one parking interval.
type Charge struct {
	Amount        float64       `json:"amount"`
	BaseAmount    float64       `json:"baseAmount"` // Before the VIP multiplier.
	Duration      time.Duration `json:"duration"`
	BillableHours int           `json:"billableHours"`
	Nights        int           `json:"nights"`
	Currency      string        `json:"currency"`
}

// ComputeCharge prices the interval [entry, exit] against rate under the overnight policy.
func ComputeCharge(entry, exit time.Time, rate models.ParkingRate, policy Policy) (Charge, error) {
	if entry.IsZero() || exit.IsZero() || exit.Before(entry) {
		return Charge{}, ErrInvalidDuration
	}
	if err := ValidateRate(rate); err != nil {
		return Charge{}, err
	}

	d := exit.Sub(entry)
	accrual, hours := hourlyAccrual(d, rate)
	base := accrual

	nights := 0
	if rate.OvernightPrice > 0 && rate.RateType != models.RateHourly {
		nights = policy.Nights(entry, exit)
		if nights > 0 {
			overnight := rate.OvernightPrice * float64(nights)
			if policy.Mode == ModeAdd {
				base = accrual + overnight
			} else {
				base = overnight
			}
		}
	}

	if rate.MaxChargePerDay > 0 {
		if ceiling := rate.MaxChargePerDay * float64(billableDays(d)); base > ceiling {
			base = ceiling
		}
	}
	if base < rate.MinChargeAmount {
		base = rate.MinChargeAmount
	}
	if base < 0 {
		base = 0
	}

	amount := base
	if rate.RateType == models.RateVIP {
		amount = base * rate.VIPMultiplier
	}

	return Charge{
		Amount:        RoundMoney(amount),
		BaseAmount:    RoundMoney(base),
		Duration:      d,
		BillableHours: hours,
		Nights:        nights,
		Currency:      rate.Currency,
	}, nil
}

// hourlyAccrual splits d into 24h blocks from entry, prices each by started hour and applies the per-block caps.
func hourlyAccrual(d time.Duration, rate models.ParkingRate) (float64, int) {
	var (
		total float64
		hours int
	)
	for d > 0 {
		block := d
		if block > day {
			block = day
		}
		h := ceilHours(block)
		hours += h

		amount := rate.PricePerHour * float64(h)
		if rate.PricePerDay > 0 && amount > rate.PricePerDay {
			amount = rate.PricePerDay
		}
		if rate.MaxChargePerDay > 0 && amount > rate.MaxChargePerDay {
			amount = rate.MaxChargePerDay
		}
		total += amount
		d -= block
	}
	return total, hours
}

func ceilHours(d time.Duration) int {
	return int((d + time.Hour - 1) / time.Hour)
}

// billableDays is ceil(d / 24h) with a minimum of one.
func billableDays(d time.Duration) int {
	n := int((d + day - 1) / day)
	if n < 1 {
		return 1
	}
	return n
}

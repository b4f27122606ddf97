package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwise/models"
)

func TestResolveRate(t *testing.T) {
	now := time.Now()
	rates := []models.ParkingRate{
		{ID: "r1", RateType: models.RateNormal, IsActive: false, UpdatedAt: now},
		{ID: "r2", RateType: models.RateNormal, IsActive: true, UpdatedAt: now.Add(-time.Hour)},
		{ID: "r3", RateType: models.RateNormal, IsActive: true, UpdatedAt: now},
		{ID: "r4", RateType: models.RateVIP, IsActive: true, UpdatedAt: now},
	}

	r, err := ResolveRate(rates, models.RateNormal)
	require.NoError(t, err)
	assert.Equal(t, "r3", r.ID)

	r, err = ResolveRate(rates, models.RateVIP)
	require.NoError(t, err)
	assert.Equal(t, "r4", r.ID)
}

func TestResolveRate_NoDefaulting(t *testing.T) {
	rates := []models.ParkingRate{
		{ID: "r1", RateType: models.RateNormal, IsActive: true},
		{ID: "r2", RateType: models.RateOvernight, IsActive: false},
	}

	_, err := ResolveRate(rates, models.RateOvernight)
	require.ErrorIs(t, err, ErrNoApplicableRate)

	var rej *models.Rejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, "noApplicableRate", rej.Code)

	_, err = ResolveRate(nil, models.RateNormal)
	assert.ErrorIs(t, err, ErrNoApplicableRate)
}

func TestValidateRate(t *testing.T) {
	cases := []struct {
		name string
		rate models.ParkingRate
		ok   bool
	}{
		{"plain", models.ParkingRate{RateType: models.RateNormal, PricePerHour: 2}, true},
		{"unknown type", models.ParkingRate{RateType: "WEEKLY"}, false},
		{"negative price", models.ParkingRate{RateType: models.RateNormal, PricePerHour: -1}, false},
		{"vip without multiplier", models.ParkingRate{RateType: models.RateVIP, PricePerHour: 2}, false},
		{"vip", models.ParkingRate{RateType: models.RateVIP, PricePerHour: 2, VIPMultiplier: 2}, true},
		{"min above max", models.ParkingRate{RateType: models.RateNormal, MinChargeAmount: 10, MaxChargePerDay: 5}, false},
		{"min without max", models.ParkingRate{RateType: models.RateNormal, MinChargeAmount: 10}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRate(tc.rate)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidRate)
			}
		})
	}
}

package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwise/models"
)

var base = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func hourly(price float64) models.ParkingRate {
	return models.ParkingRate{
		RateType:     models.RateHourly,
		PricePerHour: price,
		Currency:     "usd",
		IsActive:     true,
	}
}

func TestComputeCharge_HourlyExample(t *testing.T) {
	rate := hourly(5)
	rate.PricePerDay = 40

	exit := base.Add(3*time.Hour + 12*time.Minute)
	c, err := ComputeCharge(base, exit, rate, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 20.0, c.Amount)
	assert.Equal(t, 4, c.BillableHours)
	assert.Equal(t, "usd", c.Currency)
}

func TestComputeCharge_PricePerDayCapsBlock(t *testing.T) {
	rate := hourly(5)
	rate.PricePerDay = 40

	c, err := ComputeCharge(base, base.Add(10*time.Hour), rate, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 40.0, c.Amount)

	// 30h is one capped block plus six started hours.
	c, err = ComputeCharge(base, base.Add(30*time.Hour), rate, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 70.0, c.Amount)
}

func TestComputeCharge_MaxChargePerDay(t *testing.T) {
	rate := hourly(5)
	rate.PricePerDay = 40
	rate.MaxChargePerDay = 30

	c, err := ComputeCharge(base, base.Add(10*time.Hour), rate, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 30.0, c.Amount)
}

func TestComputeCharge_InvalidDuration(t *testing.T) {
	rate := hourly(5)

	_, err := ComputeCharge(base, base.Add(-time.Minute), rate, DefaultPolicy())
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = ComputeCharge(time.Time{}, base, rate, DefaultPolicy())
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = ComputeCharge(base, time.Time{}, rate, DefaultPolicy())
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestComputeCharge_ZeroDurationGetsMinimum(t *testing.T) {
	rate := hourly(5)
	rate.MinChargeAmount = 2.5

	c, err := ComputeCharge(base, base, rate, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 2.5, c.Amount)
	assert.Equal(t, 0, c.BillableHours)
}

func TestComputeCharge_MinimumFloorUnderAnHour(t *testing.T) {
	rate := models.ParkingRate{
		RateType:        models.RateNormal,
		PricePerHour:    1,
		MinChargeAmount: 3,
	}
	for _, d := range []time.Duration{time.Second, 10 * time.Minute, 59 * time.Minute, time.Hour} {
		c, err := ComputeCharge(base, base.Add(d), rate, DefaultPolicy())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, c.Amount, rate.MinChargeAmount, "duration %s", d)
	}
}

func TestComputeCharge_NeverExceedsDailyCeiling(t *testing.T) {
	rate := models.ParkingRate{
		RateType:        models.RateNormal,
		PricePerHour:    7,
		OvernightPrice:  90,
		MinChargeAmount: 5,
		MaxChargePerDay: 50,
	}
	policy := DefaultPolicy()
	policy.Mode = ModeAdd

	for h := 0; h <= 24*5; h += 5 {
		d := time.Duration(h)*time.Hour + 17*time.Minute
		c, err := ComputeCharge(base, base.Add(d), rate, policy)
		require.NoError(t, err)
		ceiling := rate.MaxChargePerDay * float64(billableDays(d))
		assert.LessOrEqual(t, c.Amount, ceiling, "duration %s", d)
	}
}

func TestComputeCharge_VIPIsNormalTimesMultiplier(t *testing.T) {
	normal := models.ParkingRate{
		RateType:        models.RateNormal,
		PricePerHour:    3.35,
		PricePerDay:     25,
		MinChargeAmount: 2,
	}
	vip := normal
	vip.RateType = models.RateVIP
	vip.VIPMultiplier = 1.5

	for _, d := range []time.Duration{20 * time.Minute, 2 * time.Hour, 9 * time.Hour, 50 * time.Hour} {
		n, err := ComputeCharge(base, base.Add(d), normal, DefaultPolicy())
		require.NoError(t, err)
		v, err := ComputeCharge(base, base.Add(d), vip, DefaultPolicy())
		require.NoError(t, err)
		assert.InDelta(t, n.Amount*vip.VIPMultiplier, v.Amount, 0.01, "duration %s", d)
		assert.Equal(t, n.BaseAmount, v.BaseAmount)
	}
}

func TestComputeCharge_OvernightFlat(t *testing.T) {
	rate := models.ParkingRate{
		RateType:       models.RateOvernight,
		PricePerHour:   4,
		OvernightPrice: 20,
	}
	entry := time.Date(2024, 3, 4, 21, 30, 0, 0, time.UTC)
	exit := time.Date(2024, 3, 5, 7, 15, 0, 0, time.UTC)

	c, err := ComputeCharge(entry, exit, rate, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 20.0, c.Amount)
	assert.Equal(t, 1, c.Nights)
}

func TestComputeCharge_OvernightWithoutNightFallsBack(t *testing.T) {
	rate := models.ParkingRate{
		RateType:       models.RateOvernight,
		PricePerHour:   4,
		OvernightPrice: 20,
	}
	c, err := ComputeCharge(base, base.Add(2*time.Hour), rate, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 8.0, c.Amount)
	assert.Equal(t, 0, c.Nights)
}

func TestComputeCharge_OvernightAddMode(t *testing.T) {
	rate := models.ParkingRate{
		RateType:       models.RateNormal,
		PricePerHour:   1,
		OvernightPrice: 10,
	}
	policy := DefaultPolicy()
	policy.Mode = ModeAdd

	entry := time.Date(2024, 3, 4, 21, 0, 0, 0, time.UTC)
	exit := time.Date(2024, 3, 5, 7, 0, 0, 0, time.UTC)
	c, err := ComputeCharge(entry, exit, rate, policy)
	require.NoError(t, err)
	assert.Equal(t, 20.0, c.Amount)
}

func TestComputeCharge_HourlyIgnoresOvernight(t *testing.T) {
	rate := hourly(2)
	rate.OvernightPrice = 15

	entry := time.Date(2024, 3, 4, 21, 0, 0, 0, time.UTC)
	exit := time.Date(2024, 3, 5, 7, 0, 0, 0, time.UTC)
	c, err := ComputeCharge(entry, exit, rate, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 20.0, c.Amount)
	assert.Equal(t, 0, c.Nights)
}

func TestComputeCharge_Rounding(t *testing.T) {
	rate := models.ParkingRate{
		RateType:      models.RateVIP,
		PricePerHour:  1.111,
		VIPMultiplier: 1.3,
	}
	c, err := ComputeCharge(base, base.Add(3*time.Hour), rate, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 4.33, c.Amount)
}

func TestComputeCharge_RejectsInvalidRate(t *testing.T) {
	rate := models.ParkingRate{RateType: models.RateVIP, PricePerHour: 2}
	_, err := ComputeCharge(base, base.Add(time.Hour), rate, DefaultPolicy())
	assert.ErrorIs(t, err, ErrInvalidRate)
}

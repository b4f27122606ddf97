package vehicle

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwise/database/repository/memory"
	"parkwise/models"
	"parkwise/services/qr"
)

func newService() (*DefaultVehicleService, *memory.Store, *qr.SignedService) {
	store := memory.NewStore()
	codes := qr.NewSignedService("secret", 0)
	return &DefaultVehicleService{
		Vehicles: store.Vehicles(),
		Sessions: store.Sessions(),
		QR:       codes,
	}, store, codes
}

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "KDA123A", NormalizePlate("  kda 123a "))
	assert.Equal(t, "", NormalizePlate("   "))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	v, err := svc.Register(ctx, "user-1", models.VehicleInput{PlateNumber: "kda 123a", Make: "Toyota"})
	require.NoError(t, err)
	assert.Equal(t, "KDA123A", v.PlateNumber)
	assert.Equal(t, models.RateNormal, v.RateType)
	assert.Equal(t, "user-1", v.OwnerID)

	_, err = svc.Register(ctx, "user-2", models.VehicleInput{PlateNumber: "KDA123A"})
	assert.ErrorIs(t, err, models.ErrPlateTaken)

	_, err = svc.Register(ctx, "user-2", models.VehicleInput{PlateNumber: " "})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	list, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()
	v, err := svc.Register(ctx, "user-1", models.VehicleInput{PlateNumber: "KDA123A"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "user-2", v.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	got, err := svc.Get(ctx, "", v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)

	_, err = svc.Get(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, models.ErrVehicleNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "user-2", v.ID), models.ErrForbidden)
}

func TestDeleteWhileParked(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService()
	require.NoError(t, store.Lots().Create(ctx, &models.ParkingLot{ID: "lot-1", TotalSpots: 1, AvailableSpots: 1}))
	v, err := svc.Register(ctx, "user-1", models.VehicleInput{PlateNumber: "KDA123A"})
	require.NoError(t, err)
	require.NoError(t, store.Sessions().OpenTransactionally(ctx, &models.ParkingSession{
		ID: "s-1", VehicleID: v.ID, LotID: "lot-1", Status: models.SessionCheckedIn,
	}))

	assert.ErrorIs(t, svc.Delete(ctx, "user-1", v.ID), models.ErrVehicleAlreadyParked)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()
	v, err := svc.Register(ctx, "user-1", models.VehicleInput{PlateNumber: "KDA123A"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "user-1", v.ID))
	_, err = svc.Get(ctx, "user-1", v.ID)
	assert.ErrorIs(t, err, models.ErrVehicleNotFound)
}

func TestQRCode(t *testing.T) {
	ctx := context.Background()
	svc, _, codes := newService()
	v, err := svc.Register(ctx, "user-1", models.VehicleInput{PlateNumber: "KDA123A"})
	require.NoError(t, err)

	code, err := svc.QRCode(ctx, "user-1", v.ID)
	require.NoError(t, err)
	claims, err := codes.Verify(code.Payload)
	require.NoError(t, err)
	assert.Equal(t, v.ID, claims.VehicleID)
	assert.Equal(t, "KDA123A", claims.Plate)

	img, err := svc.QRImage(ctx, "user-1", v.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))

	_, err = svc.QRCode(ctx, "user-2", v.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestSetRateType(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()
	v, err := svc.Register(ctx, "user-1", models.VehicleInput{PlateNumber: "KDA123A"})
	require.NoError(t, err)

	updated, err := svc.SetRateType(ctx, v.ID, models.RateVIP)
	require.NoError(t, err)
	assert.Equal(t, models.RateVIP, updated.RateType)

	_, err = svc.SetRateType(ctx, v.ID, "GOLD")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.SetRateType(ctx, "missing", models.RateVIP)
	assert.ErrorIs(t, err, models.ErrVehicleNotFound)
}

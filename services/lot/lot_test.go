package lot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwise/database/repository/memory"
	"parkwise/models"
	"parkwise/services/billing"
	"parkwise/services/storage"
)

type fakeGeocoder struct {
	calls int
	err   error
}

func (g *fakeGeocoder) Geocode(_ context.Context, _ string) (float64, float64, error) {
	g.calls++
	if g.err != nil {
		return 0, 0, g.err
	}
	return -1.2841, 36.8233, nil
}

type fakeStorage struct {
	uploaded []string
}

func (f *fakeStorage) UploadFile(_ context.Context, localFilePath, destFolder string) (*storage.UploadedObject, error) {
	f.uploaded = append(f.uploaded, localFilePath)
	return &storage.UploadedObject{PublicID: destFolder + "/photo", URL: "https://cdn.example/" + destFolder + "/photo.jpg"}, nil
}

func (f *fakeStorage) DeleteFile(_ context.Context, _ string) error { return nil }

func newService() (*DefaultLotService, *memory.Store, *fakeGeocoder, *fakeStorage) {
	store := memory.NewStore()
	geo := &fakeGeocoder{}
	st := &fakeStorage{}
	svc := &DefaultLotService{
		Lots:            store.Lots(),
		Rates:           store.Rates(),
		Sessions:        store.Sessions(),
		Geocoder:        geo,
		Storage:         st,
		DefaultCurrency: "usd",
		Clock:           func() time.Time { return time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC) },
	}
	return svc, store, geo, st
}

func ptr(f float64) *float64 { return &f }

func TestCreateLot(t *testing.T) {
	ctx := context.Background()
	svc, _, geo, _ := newService()

	t.Run("explicit coordinates", func(t *testing.T) {
		lot, err := svc.CreateLot(ctx, models.LotInput{Name: " Central ", Latitude: ptr(-1.3), Longitude: ptr(36.8), TotalSpots: 10})
		require.NoError(t, err)
		assert.Equal(t, "Central", lot.Name)
		assert.Equal(t, 10, lot.AvailableSpots)
		assert.Equal(t, []float64{36.8, -1.3}, lot.Location.Coordinates)
		assert.Equal(t, 0, geo.calls)
	})

	t.Run("geocoded address", func(t *testing.T) {
		lot, err := svc.CreateLot(ctx, models.LotInput{Name: "Kenyatta", Address: "Kenyatta Ave", TotalSpots: 4})
		require.NoError(t, err)
		assert.Equal(t, 1, geo.calls)
		assert.Equal(t, []float64{36.8233, -1.2841}, lot.Location.Coordinates)
	})

	t.Run("no location", func(t *testing.T) {
		_, err := svc.CreateLot(ctx, models.LotInput{Name: "Nowhere", TotalSpots: 4})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("zero capacity", func(t *testing.T) {
		_, err := svc.CreateLot(ctx, models.LotInput{Name: "Empty", Latitude: ptr(0), Longitude: ptr(0)})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("geocoder failure", func(t *testing.T) {
		geo.err = errors.New("quota")
		defer func() { geo.err = nil }()
		_, err := svc.CreateLot(ctx, models.LotInput{Name: "X", Address: "somewhere", TotalSpots: 1})
		assert.ErrorContains(t, err, "quota")
	})
}

func occupy(t *testing.T, store *memory.Store, lotID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, store.Sessions().OpenTransactionally(context.Background(), &models.ParkingSession{
			ID:        lotID + "-s" + string(rune('a'+i)),
			VehicleID: lotID + "-v" + string(rune('a'+i)),
			LotID:     lotID,
			Status:    models.SessionCheckedIn,
		}))
	}
}

func TestUpdateLotCapacity(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newService()
	lot, err := svc.CreateLot(ctx, models.LotInput{Name: "Central", Latitude: ptr(1), Longitude: ptr(1), TotalSpots: 5})
	require.NoError(t, err)
	occupy(t, store, lot.ID, 3)

	input := models.LotInput{Name: "Central", Latitude: ptr(1), Longitude: ptr(1), TotalSpots: 8}
	updated, err := svc.UpdateLot(ctx, lot.ID, input)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.TotalSpots)
	assert.Equal(t, 5, updated.AvailableSpots)

	input.TotalSpots = 2
	_, err = svc.UpdateLot(ctx, lot.ID, input)
	assert.ErrorIs(t, err, models.ErrCapacityConflict)

	input.TotalSpots = 3
	updated, err = svc.UpdateLot(ctx, lot.ID, input)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.AvailableSpots)

	_, err = svc.UpdateLot(ctx, "missing", input)
	assert.ErrorIs(t, err, models.ErrLotNotFound)
}

func TestDeleteLot(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newService()
	lot, err := svc.CreateLot(ctx, models.LotInput{Name: "Central", Latitude: ptr(1), Longitude: ptr(1), TotalSpots: 5})
	require.NoError(t, err)
	_, err = svc.CreateRate(ctx, lot.ID, models.RateInput{RateType: models.RateNormal, PricePerHour: 2, IsActive: true})
	require.NoError(t, err)

	occupy(t, store, lot.ID, 1)
	assert.ErrorIs(t, svc.DeleteLot(ctx, lot.ID), models.ErrLotHasActiveSessions)

	empty, err := svc.CreateLot(ctx, models.LotInput{Name: "Side", Latitude: ptr(1), Longitude: ptr(1), TotalSpots: 2})
	require.NoError(t, err)
	_, err = svc.CreateRate(ctx, empty.ID, models.RateInput{RateType: models.RateNormal, PricePerHour: 2})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteLot(ctx, empty.ID))

	_, err = svc.GetLot(ctx, empty.ID)
	assert.ErrorIs(t, err, models.ErrLotNotFound)
	rates, err := store.Rates().ListByLot(ctx, empty.ID, false)
	require.NoError(t, err)
	assert.Empty(t, rates)
}

func TestNearbyLots(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newService()
	_, err := svc.CreateLot(ctx, models.LotInput{Name: "Near", Latitude: ptr(-1.2841), Longitude: ptr(36.8233), TotalSpots: 5})
	require.NoError(t, err)
	_, err = svc.CreateLot(ctx, models.LotInput{Name: "Far", Latitude: ptr(-4.04), Longitude: ptr(39.66), TotalSpots: 5})
	require.NoError(t, err)

	lots, err := svc.NearbyLots(ctx, models.NearbyQuery{Latitude: -1.285, Longitude: 36.82})
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, "Near", lots[0].Name)

	_, err = svc.NearbyLots(ctx, models.NearbyQuery{Latitude: 120, Longitude: 0})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestUploadPhoto(t *testing.T) {
	ctx := context.Background()
	svc, store, _, st := newService()
	lot, err := svc.CreateLot(ctx, models.LotInput{Name: "Central", Latitude: ptr(1), Longitude: ptr(1), TotalSpots: 5})
	require.NoError(t, err)

	updated, err := svc.UploadPhoto(ctx, lot.ID, "/tmp/lot.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/parkwise/lots/photo.jpg", updated.PhotoURL)
	assert.Equal(t, []string{"/tmp/lot.jpg"}, st.uploaded)

	stored, _ := store.Lot(lot.ID)
	assert.Equal(t, updated.PhotoURL, stored.PhotoURL)
}

func TestScannerKey(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newService()
	lot, err := svc.CreateLot(ctx, models.LotInput{Name: "Central", Latitude: ptr(1), Longitude: ptr(1), TotalSpots: 5})
	require.NoError(t, err)

	ok, err := svc.VerifyScannerKey(ctx, lot.ID, "anything")
	require.NoError(t, err)
	assert.False(t, ok, "lots without a key reject every scanner")

	key, err := svc.RotateScannerKey(ctx, lot.ID)
	require.NoError(t, err)
	assert.Len(t, key, scannerKeyBytes*2)

	stored, _ := store.Lot(lot.ID)
	assert.NotEqual(t, key, stored.ScannerKeyHash)

	ok, err = svc.VerifyScannerKey(ctx, lot.ID, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.VerifyScannerKey(ctx, lot.ID, key+"x")
	require.NoError(t, err)
	assert.False(t, ok)

	rotated, err := svc.RotateScannerKey(ctx, lot.ID)
	require.NoError(t, err)
	ok, _ = svc.VerifyScannerKey(ctx, lot.ID, key)
	assert.False(t, ok, "old key stops working after rotation")
	ok, _ = svc.VerifyScannerKey(ctx, lot.ID, rotated)
	assert.True(t, ok)

	_, err = svc.RotateScannerKey(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrLotNotFound)
}

func TestRates(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newService()
	lot, err := svc.CreateLot(ctx, models.LotInput{Name: "Central", Latitude: ptr(1), Longitude: ptr(1), TotalSpots: 5})
	require.NoError(t, err)

	first, err := svc.CreateRate(ctx, lot.ID, models.RateInput{RateType: models.RateNormal, PricePerHour: 5, IsActive: true})
	require.NoError(t, err)
	assert.True(t, first.IsActive)
	assert.Equal(t, "usd", first.Currency)

	second, err := svc.CreateRate(ctx, lot.ID, models.RateInput{RateType: models.RateNormal, PricePerHour: 6, Currency: "KES"})
	require.NoError(t, err)
	assert.False(t, second.IsActive)
	assert.Equal(t, "kes", second.Currency)

	_, err = svc.ActivateRate(ctx, second.ID)
	require.NoError(t, err)
	active, err := svc.ListRates(ctx, lot.ID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)

	updated, err := svc.UpdateRate(ctx, second.ID, models.RateInput{RateType: models.RateNormal, PricePerHour: 7})
	require.NoError(t, err)
	assert.Equal(t, 7.0, updated.PricePerHour)
	assert.True(t, updated.IsActive)

	_, err = svc.UpdateRate(ctx, second.ID, models.RateInput{RateType: models.RateVIP, PricePerHour: 7, VIPMultiplier: 2})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.CreateRate(ctx, lot.ID, models.RateInput{RateType: models.RateVIP, PricePerHour: 5})
	assert.ErrorIs(t, err, billing.ErrInvalidRate)

	_, err = svc.CreateRate(ctx, "missing", models.RateInput{RateType: models.RateNormal})
	assert.ErrorIs(t, err, models.ErrLotNotFound)

	deactivated, err := svc.DeactivateRate(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	require.NoError(t, svc.DeleteRate(ctx, first.ID))
	assert.ErrorIs(t, svc.DeleteRate(ctx, first.ID), models.ErrRateNotFound)
	_, err = svc.ActivateRate(ctx, first.ID)
	assert.ErrorIs(t, err, models.ErrRateNotFound)
}

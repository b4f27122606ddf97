package lot

import (
	"context"
	"time"

	lotRepo "parkwise/database/repository/lot"
	rateRepo "parkwise/database/repository/rate"
	sessionRepo "parkwise/database/repository/session"
	"parkwise/models"
	"parkwise/services/geocode"
	"parkwise/services/storage"

	"go.uber.org/zap"
)

// LotService manages lots, their rates and their gate-scanner keys.
type LotService interface {
	CreateLot(ctx context.Context, input models.LotInput) (*models.ParkingLot, error)
	GetLot(ctx context.Context, id string) (*models.ParkingLot, error)
	ListLots(ctx context.Context) ([]models.ParkingLot, error)
	NearbyLots(ctx context.Context, q models.NearbyQuery) ([]models.ParkingLot, error)
	UpdateLot(ctx context.Context, id string, input models.LotInput) (*models.ParkingLot, error)
	DeleteLot(ctx context.Context, id string) error
	UploadPhoto(ctx context.Context, id, localFilePath string) (*models.ParkingLot, error)

	RotateScannerKey(ctx context.Context, id string) (string, error)
	VerifyScannerKey(ctx context.Context, id, key string) (bool, error)

	CreateRate(ctx context.Context, lotID string, input models.RateInput) (*models.ParkingRate, error)
	ListRates(ctx context.Context, lotID string, activeOnly bool) ([]models.ParkingRate, error)
	UpdateRate(ctx context.Context, rateID string, input models.RateInput) (*models.ParkingRate, error)
	ActivateRate(ctx context.Context, rateID string) (*models.ParkingRate, error)
	DeactivateRate(ctx context.Context, rateID string) (*models.ParkingRate, error)
	DeleteRate(ctx context.Context, rateID string) error
}

const photoFolder = "parkwise/lots"

// ScannerKeyCache drops cached scanner key verifications for a lot.
type ScannerKeyCache interface {
	ForgetLot(ctx context.Context, lotID string) error
}

type DefaultLotService struct {
	Lots     lotRepo.LotRepository
	Rates    rateRepo.RateRepository
	Sessions sessionRepo.SessionRepository
	Geocoder geocode.Geocoder
	Storage  storage.StorageService
	// KeyCache is cleared on scanner key rotation.
	KeyCache ScannerKeyCache
	// DefaultCurrency fills rates created without a currency.
	DefaultCurrency string
	Logger          *zap.Logger
	Clock           func() time.Time
}

func (s *DefaultLotService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *DefaultLotService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

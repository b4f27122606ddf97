package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sessionRepo "parkwise/database/repository/session"
	vehicleRepo "parkwise/database/repository/vehicle"
	"parkwise/models"
	"parkwise/services/qr"
	"parkwise/services/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VehicleService manages a driver's vehicles. An empty ownerID acts with admin
// rights and skips the ownership check.
type VehicleService interface {
	Register(ctx context.Context, ownerID string, input models.VehicleInput) (*models.Vehicle, error)
	List(ctx context.Context, ownerID string) ([]models.Vehicle, error)
	Get(ctx context.Context, ownerID, id string) (*models.Vehicle, error)
	Delete(ctx context.Context, ownerID, id string) error
	UploadPhoto(ctx context.Context, ownerID, id, localFilePath string) (*models.Vehicle, error)
	QRCode(ctx context.Context, ownerID, id string) (*models.VehicleQR, error)
	QRImage(ctx context.Context, ownerID, id string) ([]byte, error)
	SetRateType(ctx context.Context, id string, rateType models.RateType) (*models.Vehicle, error)
}

const photoFolder = "parkwise/vehicles"

type DefaultVehicleService struct {
	Vehicles vehicleRepo.VehicleRepository
	Sessions sessionRepo.SessionRepository
	QR       qr.Service
	Storage  storage.StorageService
	Logger   *zap.Logger
}

func (s *DefaultVehicleService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// NormalizePlate upper-cases a plate and strips whitespace.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), ""))
}

func (s *DefaultVehicleService) Register(ctx context.Context, ownerID string, input models.VehicleInput) (*models.Vehicle, error) {
	plate := NormalizePlate(input.PlateNumber)
	if plate == "" {
		return nil, fmt.Errorf("plate number is required: %w", models.ErrInvalidInput)
	}
	now := time.Now()
	v := &models.Vehicle{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		PlateNumber: plate,
		Make:        strings.TrimSpace(input.Make),
		Model:       strings.TrimSpace(input.Model),
		Color:       strings.TrimSpace(input.Color),
		RateType:    models.RateNormal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Vehicles.Create(ctx, v); err != nil {
		if errors.Is(err, vehicleRepo.ErrPlateTaken) {
			return nil, models.ErrPlateTaken
		}
		return nil, err
	}
	s.logger().Info("vehicle registered", zap.String("vehicleId", v.ID), zap.String("ownerId", ownerID))
	return v, nil
}

func (s *DefaultVehicleService) List(ctx context.Context, ownerID string) ([]models.Vehicle, error) {
	return s.Vehicles.ListByOwner(ctx, ownerID)
}

func (s *DefaultVehicleService) Get(ctx context.Context, ownerID, id string) (*models.Vehicle, error) {
	v, err := s.Vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicle %s: %w", id, err)
	}
	if v == nil {
		return nil, models.ErrVehicleNotFound
	}
	if ownerID != "" && v.OwnerID != ownerID {
		return nil, models.ErrForbidden
	}
	return v, nil
}

// Delete removes a vehicle that is not currently parked.
func (s *DefaultVehicleService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	active, err := s.Sessions.CountActiveByVehicle(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return models.ErrVehicleAlreadyParked
	}
	return s.Vehicles.Delete(ctx, id)
}

func (s *DefaultVehicleService) UploadPhoto(ctx context.Context, ownerID, id, localFilePath string) (*models.Vehicle, error) {
	v, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if s.Storage == nil {
		return nil, fmt.Errorf("storage service not configured")
	}
	obj, err := s.Storage.UploadFile(ctx, localFilePath, photoFolder)
	if err != nil {
		return nil, err
	}
	if err := s.Vehicles.SetPhotoURL(ctx, id, obj.URL); err != nil {
		return nil, err
	}
	v.PhotoURL = obj.URL
	return v, nil
}

func (s *DefaultVehicleService) QRCode(ctx context.Context, ownerID, id string) (*models.VehicleQR, error) {
	v, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	payload, err := s.QR.Issue(*v)
	if err != nil {
		return nil, err
	}
	return &models.VehicleQR{VehicleID: v.ID, Payload: payload}, nil
}

func (s *DefaultVehicleService) QRImage(ctx context.Context, ownerID, id string) ([]byte, error) {
	code, err := s.QRCode(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.QR.PNG(code.Payload)
}

// SetRateType changes which rate future check-ins resolve for the vehicle.
func (s *DefaultVehicleService) SetRateType(ctx context.Context, id string, rateType models.RateType) (*models.Vehicle, error) {
	if !rateType.Valid() {
		return nil, fmt.Errorf("unknown rate type %q: %w", rateType, models.ErrInvalidInput)
	}
	v, err := s.Vehicles.SetRateType(ctx, id, rateType)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, models.ErrVehicleNotFound
	}
	return v, nil
}

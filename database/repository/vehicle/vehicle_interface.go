package vehicleRepo

import (
	"context"
	"errors"

	"parkwise/models"
)

// ErrPlateTaken is returned when another vehicle already uses the plate.
var ErrPlateTaken = errors.New("plate number already registered")

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id string) (*models.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Vehicle, error)
	SetRateType(ctx context.Context, id string, rateType models.RateType) (*models.Vehicle, error)
	SetPhotoURL(ctx context.Context, id, url string) error
	Delete(ctx context.Context, id string) error
}

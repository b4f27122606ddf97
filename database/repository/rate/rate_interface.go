package rateRepo

import (
	"context"

	"parkwise/models"
)

// RateRepository defines data access for parking rates.
type RateRepository interface {
	// Create inserts a rate. The rate is stored inactive; use Activate to enable it.
	Create(ctx context.Context, rate *models.ParkingRate) error
	GetByID(ctx context.Context, id string) (*models.ParkingRate, error)
	ListByLot(ctx context.Context, lotID string, activeOnly bool) ([]models.ParkingRate, error)
	// Update replaces the pricing fields of a rate without changing its active flag.
	Update(ctx context.Context, rate *models.ParkingRate) error
	// Activate deactivates any other active rate of the same lot and type and activates this one.
	Activate(ctx context.Context, id string) (*models.ParkingRate, error)
	Deactivate(ctx context.Context, id string) (*models.ParkingRate, error)
	Delete(ctx context.Context, id string) error
	DeleteByLot(ctx context.Context, lotID string) error
}

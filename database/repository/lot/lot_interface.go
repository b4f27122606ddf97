package lotRepo

import (
	"context"

	"parkwise/models"
)

// LotRepository defines data access for parking lots.
// Lookups return (nil, nil) when no lot matches.
type LotRepository interface {
	Create(ctx context.Context, lot *models.ParkingLot) error
	GetByID(ctx context.Context, id string) (*models.ParkingLot, error)
	List(ctx context.Context) ([]models.ParkingLot, error)
	Nearby(ctx context.Context, q models.NearbyQuery) ([]models.ParkingLot, error)
	// UpdateDetails changes descriptive fields only. Spot counters are never touched.
	UpdateDetails(ctx context.Context, lot *models.ParkingLot) error
	// UpdateCapacity sets totalSpots and shifts availableSpots by the same delta.
	// It returns (nil, nil) when the lot is missing or the occupied spots exceed total.
	UpdateCapacity(ctx context.Context, id string, total int) (*models.ParkingLot, error)
	SetPhotoURL(ctx context.Context, id, url string) error
	SetScannerKeyHash(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}

package lot

import (
	"context"
	"fmt"
	"strings"

	"parkwise/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultLotService) CreateLot(ctx context.Context, input models.LotInput) (*models.ParkingLot, error) {
	if input.TotalSpots <= 0 {
		return nil, fmt.Errorf("totalSpots must be positive: %w", models.ErrInvalidInput)
	}
	location, err := s.locate(ctx, input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	lot := &models.ParkingLot{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(input.Name),
		Address:         strings.TrimSpace(input.Address),
		Location:        location,
		TotalSpots:      input.TotalSpots,
		AvailableSpots:  input.TotalSpots,
		OperatingHours:  input.OperatingHours,
		Contact:         input.Contact,
		OverdueFee:      input.OverdueFee,
		PaymentDueHours: input.PaymentDueHours,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Lots.Create(ctx, lot); err != nil {
		return nil, err
	}
	s.logger().Info("lot created", zap.String("lotId", lot.ID), zap.Int("totalSpots", lot.TotalSpots))
	return lot, nil
}

// locate prefers explicit coordinates and falls back to geocoding the address.
func (s *DefaultLotService) locate(ctx context.Context, input models.LotInput) (models.GeoPoint, error) {
	if input.Latitude != nil && input.Longitude != nil {
		p := models.NewGeoPoint(*input.Latitude, *input.Longitude)
		if !p.Valid() {
			return models.GeoPoint{}, fmt.Errorf("coordinates out of range: %w", models.ErrInvalidInput)
		}
		return p, nil
	}
	if strings.TrimSpace(input.Address) == "" || s.Geocoder == nil {
		return models.GeoPoint{}, fmt.Errorf("coordinates or a geocodable address are required: %w", models.ErrInvalidInput)
	}
	lat, lng, err := s.Geocoder.Geocode(ctx, input.Address)
	if err != nil {
		return models.GeoPoint{}, fmt.Errorf("failed to geocode %q: %w", input.Address, err)
	}
	return models.NewGeoPoint(lat, lng), nil
}

func (s *DefaultLotService) GetLot(ctx context.Context, id string) (*models.ParkingLot, error) {
	lot, err := s.Lots.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load lot %s: %w", id, err)
	}
	if lot == nil {
		return nil, models.ErrLotNotFound
	}
	return lot, nil
}

func (s *DefaultLotService) ListLots(ctx context.Context) ([]models.ParkingLot, error) {
	return s.Lots.List(ctx)
}

func (s *DefaultLotService) NearbyLots(ctx context.Context, q models.NearbyQuery) ([]models.ParkingLot, error) {
	if !models.NewGeoPoint(q.Latitude, q.Longitude).Valid() {
		return nil, fmt.Errorf("coordinates out of range: %w", models.ErrInvalidInput)
	}
	if q.RadiusKm <= 0 {
		q.RadiusKm = 5
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	return s.Lots.Nearby(ctx, q)
}

// UpdateLot replaces descriptive fields and, when totalSpots changed, resizes the lot.
func (s *DefaultLotService) UpdateLot(ctx context.Context, id string, input models.LotInput) (*models.ParkingLot, error) {
	lot, err := s.GetLot(ctx, id)
	if err != nil {
		return nil, err
	}

	lot.Name = strings.TrimSpace(input.Name)
	lot.OperatingHours = input.OperatingHours
	lot.Contact = input.Contact
	lot.OverdueFee = input.OverdueFee
	lot.PaymentDueHours = input.PaymentDueHours
	addressChanged := strings.TrimSpace(input.Address) != lot.Address
	lot.Address = strings.TrimSpace(input.Address)
	if (input.Latitude != nil && input.Longitude != nil) || addressChanged {
		location, err := s.locate(ctx, input)
		if err != nil {
			return nil, err
		}
		lot.Location = location
	}
	if err := s.Lots.UpdateDetails(ctx, lot); err != nil {
		return nil, err
	}

	if input.TotalSpots > 0 && input.TotalSpots != lot.TotalSpots {
		resized, err := s.Lots.UpdateCapacity(ctx, id, input.TotalSpots)
		if err != nil {
			return nil, err
		}
		if resized == nil {
			// Tell a vanished lot apart from a capacity conflict.
			if existing, err := s.Lots.GetByID(ctx, id); err == nil && existing == nil {
				return nil, models.ErrLotNotFound
			}
			return nil, models.ErrCapacityConflict
		}
		s.logger().Info("lot capacity changed",
			zap.String("lotId", id), zap.Int("totalSpots", resized.TotalSpots),
			zap.Int("availableSpots", resized.AvailableSpots))
		return resized, nil
	}
	return s.GetLot(ctx, id)
}

// DeleteLot removes a lot and its rates. Lots with checked-in vehicles are kept.
func (s *DefaultLotService) DeleteLot(ctx context.Context, id string) error {
	if _, err := s.GetLot(ctx, id); err != nil {
		return err
	}
	active, err := s.Sessions.CountActiveByLot(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return models.ErrLotHasActiveSessions
	}
	if err := s.Rates.DeleteByLot(ctx, id); err != nil {
		return err
	}
	if err := s.Lots.Delete(ctx, id); err != nil {
		return err
	}
	s.logger().Info("lot deleted", zap.String("lotId", id))
	return nil
}

func (s *DefaultLotService) UploadPhoto(ctx context.Context, id, localFilePath string) (*models.ParkingLot, error) {
	lot, err := s.GetLot(ctx, id)
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
	if err := s.Lots.SetPhotoURL(ctx, id, obj.URL); err != nil {
		return nil, err
	}
	lot.PhotoURL = obj.URL
	return lot, nil
}

package memory

import (
	"context"
	"fmt"
	"time"

	vehicleRepo "parkwise/database/repository/vehicle"
	"parkwise/models"
)

type VehicleRepo struct{ s *Store }

func (r *VehicleRepo) Create(_ context.Context, v *models.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.vehicles {
		if cur.PlateNumber == v.PlateNumber {
			return vehicleRepo.ErrPlateTaken
		}
	}
	r.s.vehicles[v.ID] = *v
	return nil
}

func (r *VehicleRepo) GetByID(_ context.Context, id string) (*models.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vehicles[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *VehicleRepo) GetByPlate(_ context.Context, plate string) (*models.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.vehicles {
		if v.PlateNumber == plate {
			return &v, nil
		}
	}
	return nil, nil
}

func (r *VehicleRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Vehicle{}
	for _, v := range sortedValues(r.s.vehicles, func(a, b models.Vehicle) bool { return a.CreatedAt.Before(b.CreatedAt) }) {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *VehicleRepo) SetRateType(_ context.Context, id string, rateType models.RateType) (*models.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vehicles[id]
	if !ok {
		return nil, nil
	}
	v.RateType = rateType
	v.UpdatedAt = time.Now()
	r.s.vehicles[id] = v
	return &v, nil
}

func (r *VehicleRepo) SetPhotoURL(_ context.Context, id, url string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vehicles[id]
	if !ok {
		return fmt.Errorf("vehicle with id %s not found", id)
	}
	v.PhotoURL = url
	r.s.vehicles[id] = v
	return nil
}

func (r *VehicleRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vehicles[id]; !ok {
		return fmt.Errorf("vehicle with id %s not found", id)
	}
	delete(r.s.vehicles, id)
	return nil
}

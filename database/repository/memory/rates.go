package memory

import (
	"context"
	"fmt"
	"time"

	"parkwise/models"
)

type RateRepo struct{ s *Store }

func (r *RateRepo) Create(_ context.Context, rate *models.ParkingRate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rate.IsActive = false
	r.s.rates[rate.ID] = *rate
	return nil
}

func (r *RateRepo) GetByID(_ context.Context, id string) (*models.ParkingRate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rate, ok := r.s.rates[id]
	if !ok {
		return nil, nil
	}
	return &rate, nil
}

func (r *RateRepo) ListByLot(_ context.Context, lotID string, activeOnly bool) ([]models.ParkingRate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.ParkingRate{}
	for _, rate := range sortedValues(r.s.rates, func(a, b models.ParkingRate) bool { return a.UpdatedAt.After(b.UpdatedAt) }) {
		if rate.LotID == lotID && (!activeOnly || rate.IsActive) {
			out = append(out, rate)
		}
	}
	return out, nil
}

func (r *RateRepo) Update(_ context.Context, rate *models.ParkingRate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.rates[rate.ID]
	if !ok {
		return fmt.Errorf("rate with id %s not found", rate.ID)
	}
	cur.PricePerHour = rate.PricePerHour
	cur.PricePerDay = rate.PricePerDay
	cur.OvernightPrice = rate.OvernightPrice
	cur.MinChargeAmount = rate.MinChargeAmount
	cur.MaxChargePerDay = rate.MaxChargePerDay
	cur.VIPMultiplier = rate.VIPMultiplier
	cur.Currency = rate.Currency
	cur.UpdatedAt = time.Now()
	rate.UpdatedAt = cur.UpdatedAt
	r.s.rates[rate.ID] = cur
	return nil
}

func (r *RateRepo) Activate(_ context.Context, id string) (*models.ParkingRate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	target, ok := r.s.rates[id]
	if !ok {
		return nil, nil
	}
	now := time.Now()
	for k, other := range r.s.rates {
		if k != id && other.IsActive && other.LotID == target.LotID && other.RateType == target.RateType {
			other.IsActive = false
			other.UpdatedAt = now
			r.s.rates[k] = other
		}
	}
	target.IsActive = true
	target.UpdatedAt = now
	r.s.rates[id] = target
	return &target, nil
}

func (r *RateRepo) Deactivate(_ context.Context, id string) (*models.ParkingRate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	target, ok := r.s.rates[id]
	if !ok {
		return nil, nil
	}
	target.IsActive = false
	target.UpdatedAt = time.Now()
	r.s.rates[id] = target
	return &target, nil
}

func (r *RateRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rates[id]; !ok {
		return fmt.Errorf("rate with id %s not found", id)
	}
	delete(r.s.rates, id)
	return nil
}

func (r *RateRepo) DeleteByLot(_ context.Context, lotID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k, rate := range r.s.rates {
		if rate.LotID == lotID {
			delete(r.s.rates, k)
		}
	}
	return nil
}

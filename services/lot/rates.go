package lot

import (
	"context"
	"fmt"
	"strings"

	"parkwise/models"
	"parkwise/services/billing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultLotService) CreateRate(ctx context.Context, lotID string, input models.RateInput) (*models.ParkingRate, error) {
	if _, err := s.GetLot(ctx, lotID); err != nil {
		return nil, err
	}
	now := s.now()
	rate := &models.ParkingRate{
		ID:        uuid.New().String(),
		LotID:     lotID,
		RateType:  input.RateType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.applyPricing(rate, input)
	if err := billing.ValidateRate(*rate); err != nil {
		return nil, err
	}
	if err := s.Rates.Create(ctx, rate); err != nil {
		return nil, err
	}
	if input.IsActive {
		return s.ActivateRate(ctx, rate.ID)
	}
	return rate, nil
}

func (s *DefaultLotService) applyPricing(rate *models.ParkingRate, input models.RateInput) {
	rate.PricePerHour = input.PricePerHour
	rate.PricePerDay = input.PricePerDay
	rate.OvernightPrice = input.OvernightPrice
	rate.MinChargeAmount = input.MinChargeAmount
	rate.MaxChargePerDay = input.MaxChargePerDay
	rate.VIPMultiplier = input.VIPMultiplier
	rate.Currency = strings.ToLower(strings.TrimSpace(input.Currency))
	if rate.Currency == "" {
		rate.Currency = s.DefaultCurrency
	}
}

func (s *DefaultLotService) ListRates(ctx context.Context, lotID string, activeOnly bool) ([]models.ParkingRate, error) {
	if _, err := s.GetLot(ctx, lotID); err != nil {
		return nil, err
	}
	return s.Rates.ListByLot(ctx, lotID, activeOnly)
}

func (s *DefaultLotService) getRate(ctx context.Context, id string) (*models.ParkingRate, error) {
	rate, err := s.Rates.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load rate %s: %w", id, err)
	}
	if rate == nil {
		return nil, models.ErrRateNotFound
	}
	return rate, nil
}

// UpdateRate reprices a rate. The rate type of an existing rate is fixed.
func (s *DefaultLotService) UpdateRate(ctx context.Context, rateID string, input models.RateInput) (*models.ParkingRate, error) {
	rate, err := s.getRate(ctx, rateID)
	if err != nil {
		return nil, err
	}
	if input.RateType != "" && input.RateType != rate.RateType {
		return nil, fmt.Errorf("rate type cannot change: %w", models.ErrInvalidInput)
	}
	s.applyPricing(rate, input)
	if err := billing.ValidateRate(*rate); err != nil {
		return nil, err
	}
	if err := s.Rates.Update(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

func (s *DefaultLotService) ActivateRate(ctx context.Context, rateID string) (*models.ParkingRate, error) {
	rate, err := s.Rates.Activate(ctx, rateID)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, models.ErrRateNotFound
	}
	s.logger().Info("rate activated",
		zap.String("rateId", rate.ID), zap.String("lotId", rate.LotID), zap.String("rateType", string(rate.RateType)))
	return rate, nil
}

func (s *DefaultLotService) DeactivateRate(ctx context.Context, rateID string) (*models.ParkingRate, error) {
	rate, err := s.Rates.Deactivate(ctx, rateID)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, models.ErrRateNotFound
	}
	return rate, nil
}

func (s *DefaultLotService) DeleteRate(ctx context.Context, rateID string) error {
	if _, err := s.getRate(ctx, rateID); err != nil {
		return err
	}
	return s.Rates.Delete(ctx, rateID)
}

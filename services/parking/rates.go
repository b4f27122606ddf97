package parking

import (
	"context"
	"fmt"

	"parkwise/models"
	"parkwise/services/billing"

	"go.uber.org/zap"
)

// ResolveRate loads the lot's active rates and picks the one for rateType.
func (s *DefaultParkingService) ResolveRate(ctx context.Context, lotID string, rateType models.RateType) (*models.ParkingRate, error) {
	if !rateType.Valid() {
		return nil, fmt.Errorf("unknown rate type %q: %w", rateType, billing.ErrInvalidRate)
	}
	rates, err := s.Rates.ListByLot(ctx, lotID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load rates for lot %s: %w", lotID, err)
	}
	rate, err := billing.ResolveRate(rates, rateType)
	if err != nil {
		s.logger().Warn("no applicable rate",
			zap.String("lotId", lotID), zap.String("rateType", string(rateType)))
		return nil, err
	}
	return &rate, nil
}

package parking

import (
	"context"
	"errors"
	"fmt"

	sessionRepo "parkwise/database/repository/session"
	"parkwise/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckIn opens a session for the vehicle at the lot and takes one spot.
func (s *DefaultParkingService) CheckIn(ctx context.Context, vehicleID, lotID string, opts CheckInOptions) (*models.ParkingSession, error) {
	vehicle, err := s.Vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicle %s: %w", vehicleID, err)
	}
	if vehicle == nil {
		return nil, models.ErrVehicleNotFound
	}

	lot, err := s.Lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lot %s: %w", lotID, err)
	}
	if lot == nil {
		return nil, models.ErrLotNotFound
	}

	active, err := s.Sessions.GetActiveByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active session for vehicle %s: %w", vehicleID, err)
	}
	if active != nil {
		return nil, models.ErrVehicleAlreadyParked
	}

	rateType := opts.RateType
	if rateType == "" {
		rateType = vehicle.RateType
	}
	if rateType == "" {
		rateType = models.RateNormal
	}
	rate, err := s.ResolveRate(ctx, lotID, rateType)
	if err != nil {
		return nil, err
	}
	if rate.Currency == "" {
		rate.Currency = s.Options.DefaultCurrency
	}

	entry := opts.At
	if entry.IsZero() {
		entry = s.now()
	}
	source := opts.Source
	if source == "" {
		source = models.SourceAdmin
	}

	session := &models.ParkingSession{
		ID:          uuid.New().String(),
		VehicleID:   vehicle.ID,
		OwnerID:     vehicle.OwnerID,
		PlateNumber: vehicle.PlateNumber,
		LotID:       lot.ID,
		RateType:    rateType,
		Rate:        *rate,
		EntryTime:   entry,
		Status:      models.SessionCheckedIn,
		EntrySource: source,
		CreatedAt:   entry,
		UpdatedAt:   entry,
	}

	if err := s.Sessions.OpenTransactionally(ctx, session); err != nil {
		switch {
		case errors.Is(err, sessionRepo.ErrNoSpotAvailable):
			return nil, models.ErrLotFull
		case errors.Is(err, sessionRepo.ErrActiveSessionExists):
			return nil, models.ErrVehicleAlreadyParked
		}
		return nil, err
	}

	s.logger().Info("vehicle checked in",
		zap.String("sessionId", session.ID),
		zap.String("vehicleId", vehicle.ID),
		zap.String("lotId", lot.ID),
		zap.String("rateType", string(rateType)),
		zap.String("source", source))
	return session, nil
}

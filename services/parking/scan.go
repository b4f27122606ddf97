package parking

import (
	"context"
	"fmt"

	"parkwise/models"

	"go.uber.org/zap"
)

// Scan maps a gate scan of a vehicle QR code to the next session transition.
func (s *DefaultParkingService) Scan(ctx context.Context, lotID string, req models.ScanRequest) (*models.ScanResult, error) {
	claims, err := s.QR.Verify(req.Payload)
	if err != nil {
		return nil, err
	}

	if s.Locker != nil {
		release, ok, err := s.Locker.Acquire(ctx, claims.VehicleID, s.Options.LockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, models.ErrScanInProgress
		}
		defer release()
	}

	active, err := s.Sessions.GetActiveByVehicle(ctx, claims.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active session for vehicle %s: %w", claims.VehicleID, err)
	}

	if active == nil {
		if req.Gate == models.GateExit {
			return nil, models.ErrSessionNotFound
		}
		session, err := s.CheckIn(ctx, claims.VehicleID, lotID, CheckInOptions{Source: models.SourceScan})
		if err != nil {
			return nil, err
		}
		return &models.ScanResult{Action: models.ScanCheckedIn, Session: session}, nil
	}

	if active.LotID != lotID {
		s.logger().Warn("scan at a different lot than the active session",
			zap.String("vehicleId", claims.VehicleID),
			zap.String("scanLotId", lotID),
			zap.String("sessionLotId", active.LotID))
		return nil, models.ErrVehicleAlreadyParked
	}

	if req.Gate != models.GateExit && s.Options.RescanMode != RescanCheckout {
		return nil, models.ErrVehicleAlreadyParked
	}

	invoice, err := s.CheckOut(ctx, active.ID, CheckOutOptions{Source: models.SourceScan})
	if err != nil {
		return nil, err
	}
	closed, err := s.Sessions.GetByID(ctx, active.ID)
	if err != nil || closed == nil {
		closed = active
	}
	return &models.ScanResult{Action: models.ScanCheckedOut, Session: closed, Invoice: invoice}, nil
}

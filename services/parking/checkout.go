package parking

import (
	"context"
	"errors"
	"fmt"
	"time"

	sessionRepo "parkwise/database/repository/session"
	"parkwise/models"
	"parkwise/services/billing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckOut closes an active session, returns its spot and issues exactly one invoice.
func (s *DefaultParkingService) CheckOut(ctx context.Context, sessionID string, opts CheckOutOptions) (*models.Invoice, error) {
	session, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if session == nil {
		return nil, models.ErrSessionNotFound
	}
	if !session.Active() {
		return nil, models.ErrSessionNotActive
	}

	exit := opts.At
	if exit.IsZero() {
		exit = s.now()
	}
	charge, err := billing.ComputeCharge(session.EntryTime, exit, session.Rate, s.Policy)
	if err != nil {
		return nil, err
	}

	dueHours := s.Options.PaymentDueHours
	lot, err := s.Lots.GetByID(ctx, session.LotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lot %s: %w", session.LotID, err)
	}
	if lot != nil && lot.PaymentDueHours > 0 {
		dueHours = lot.PaymentDueHours
	}

	currency := charge.Currency
	if currency == "" {
		currency = s.Options.DefaultCurrency
	}
	source := opts.Source
	if source == "" {
		source = models.SourceAdmin
	}

	invoice := &models.Invoice{
		ID:              uuid.New().String(),
		SessionID:       session.ID,
		VehicleID:       session.VehicleID,
		OwnerID:         session.OwnerID,
		LotID:           session.LotID,
		PlateNumber:     session.PlateNumber,
		RateType:        session.RateType,
		EntryTime:       session.EntryTime,
		ExitTime:        exit,
		DurationMinutes: int(charge.Duration / time.Minute),
		Amount:          charge.Amount,
		OverdueCharges:  []models.OverdueCharge{},
		Total:           charge.Amount,
		Currency:        currency,
		Status:          models.InvoicePending,
		DueAt:           exit.Add(time.Duration(dueHours) * time.Hour),
		CreatedAt:       exit,
		UpdatedAt:       exit,
	}

	session.ExitTime = &exit
	session.DurationMinutes = invoice.DurationMinutes
	session.Charge = charge.Amount
	session.Status = models.SessionCheckedOut
	session.InvoiceID = invoice.ID
	session.ExitSource = source
	session.UpdatedAt = exit

	released, err := s.Sessions.CloseTransactionally(ctx, session, invoice)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotActive) || errors.Is(err, sessionRepo.ErrInvoiceExists) {
			return nil, models.ErrSessionNotActive
		}
		return nil, err
	}
	if !released {
		s.logger().Warn("lot already at full availability on check-out",
			zap.String("lotId", session.LotID), zap.String("sessionId", session.ID))
	}

	s.logger().Info("vehicle checked out",
		zap.String("sessionId", session.ID),
		zap.String("invoiceId", invoice.ID),
		zap.Float64("amount", invoice.Amount),
		zap.Int("nights", charge.Nights),
		zap.String("source", source))

	if s.Tasks != nil {
		if err := s.Tasks.InvoiceIssued(ctx, *invoice); err != nil {
			s.logger().Error("failed to schedule invoice follow-up",
				zap.String("invoiceId", invoice.ID), zap.Error(err))
		}
	}
	return invoice, nil
}

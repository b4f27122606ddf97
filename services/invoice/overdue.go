package invoice

import (
	"context"
	"fmt"

	"parkwise/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddOverdueCharge applies a manual late fee to an unpaid invoice.
func (s *DefaultInvoiceService) AddOverdueCharge(ctx context.Context, adminID, id string, input models.OverdueChargeInput) (*models.Invoice, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("charge amount must be positive: %w", models.ErrInvalidInput)
	}
	reason := input.Reason
	if reason == "" {
		reason = "manual overdue charge"
	}
	charge := models.OverdueCharge{
		ID:        uuid.New().String(),
		Amount:    input.Amount,
		Reason:    reason,
		AppliedBy: adminID,
		CreatedAt: s.now(),
	}
	inv, err := s.Invoices.AddCharge(ctx, id, charge)
	inv, err = s.settled(ctx, id, inv, err)
	if err != nil {
		return nil, err
	}
	s.logger().Info("overdue charge added",
		zap.String("invoiceId", id), zap.Float64("amount", charge.Amount), zap.String("appliedBy", adminID))
	return inv, nil
}

// ProcessOverdue runs when an invoice's due date passes. A still pending invoice
// becomes overdue and receives the lot's overdue fee once. It returns (nil, nil)
// when there was nothing to do.
func (s *DefaultInvoiceService) ProcessOverdue(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := s.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice %s: %w", id, err)
	}
	if inv == nil || inv.Status != models.InvoicePending {
		return nil, nil
	}
	now := s.now()

	var charge *models.OverdueCharge
	lot, err := s.Lots.GetByID(ctx, inv.LotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lot %s: %w", inv.LotID, err)
	}
	if lot != nil && lot.OverdueFee > 0 {
		charge = &models.OverdueCharge{
			ID:        "overdue-" + inv.ID,
			Amount:    lot.OverdueFee,
			Reason:    "payment overdue",
			AppliedBy: appliedBySystem,
			CreatedAt: now,
		}
	}

	updated, err := s.Invoices.MarkOverdue(ctx, id, charge, now)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Paid, waived or not yet due in the meantime.
		return nil, nil
	}
	s.logger().Info("invoice overdue", zap.String("invoiceId", id), zap.Float64("total", updated.Total))

	if s.Notifier != nil {
		if err := s.Notifier.InvoiceOverdue(ctx, *updated); err != nil {
			s.logger().Error("failed to notify overdue invoice", zap.String("invoiceId", id), zap.Error(err))
		}
	}
	return updated, nil
}

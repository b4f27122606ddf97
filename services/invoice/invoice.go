package invoice

import (
	"context"
	"fmt"

	"parkwise/models"
)

func (s *DefaultInvoiceService) List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.Invoices.List(ctx, filter)
}

func (s *DefaultInvoiceService) ListOverdue(ctx context.Context, lotID string) ([]models.Invoice, error) {
	return s.List(ctx, models.InvoiceFilter{LotID: lotID, Status: models.InvoiceOverdue, Limit: 200})
}

func (s *DefaultInvoiceService) Get(ctx context.Context, ownerID, id string) (*models.Invoice, error) {
	inv, err := s.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice %s: %w", id, err)
	}
	if inv == nil {
		return nil, models.ErrInvoiceNotFound
	}
	if ownerID != "" && inv.OwnerID != ownerID {
		return nil, models.ErrForbidden
	}
	return inv, nil
}

// settled maps a (nil, nil) repository result to the right rejection.
func (s *DefaultInvoiceService) settled(ctx context.Context, id string, inv *models.Invoice, err error) (*models.Invoice, error) {
	if err != nil {
		return nil, err
	}
	if inv != nil {
		return inv, nil
	}
	if _, err := s.Get(ctx, "", id); err != nil {
		return nil, err
	}
	return nil, models.ErrInvoiceNotPayable
}

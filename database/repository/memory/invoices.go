package memory

import (
	"context"
	"fmt"
	"math"
	"time"

	"parkwise/models"
)

type InvoiceRepo struct{ s *Store }

// Put stores an invoice directly, for test setup.
func (r *InvoiceRepo) Put(inv models.Invoice) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.invoices[inv.ID] = copyInvoice(inv)
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*models.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	inv = copyInvoice(inv)
	return &inv, nil
}

func (r *InvoiceRepo) GetBySession(_ context.Context, sessionID string) (*models.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.SessionID == sessionID {
			inv = copyInvoice(inv)
			return &inv, nil
		}
	}
	return nil, nil
}

func (r *InvoiceRepo) List(_ context.Context, f models.InvoiceFilter) ([]models.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Invoice{}
	for _, inv := range sortedValues(r.s.invoices, func(a, b models.Invoice) bool { return a.CreatedAt.After(b.CreatedAt) }) {
		if (f.OwnerID != "" && inv.OwnerID != f.OwnerID) ||
			(f.LotID != "" && inv.LotID != f.LotID) ||
			(f.Status != "" && inv.Status != f.Status) {
			continue
		}
		out = append(out, copyInvoice(inv))
		if f.Limit > 0 && int64(len(out)) >= f.Limit {
			break
		}
	}
	return out, nil
}

func (r *InvoiceRepo) SetPaymentID(_ context.Context, id, paymentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return fmt.Errorf("invoice with id %s not found", id)
	}
	inv.PaymentID = paymentID
	r.s.invoices[id] = inv
	return nil
}

// apply mutates the invoice when cond holds and returns a copy of the result.
func (r *InvoiceRepo) apply(id string, cond func(models.Invoice) bool, fn func(*models.Invoice)) *models.Invoice {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok || !cond(inv) {
		return nil
	}
	inv = copyInvoice(inv)
	fn(&inv)
	r.s.invoices[id] = inv
	out := copyInvoice(inv)
	return &out
}

func payable(inv models.Invoice) bool { return inv.Status.Payable() }

func (r *InvoiceRepo) MarkPaid(ctx context.Context, id, method, paymentID string, paidAt time.Time) (*models.Invoice, error) {
	return r.markPaid(id, payable, method, paymentID, paidAt), nil
}

func (r *InvoiceRepo) MarkPaidForTotal(_ context.Context, id string, total float64, method, paymentID string, paidAt time.Time) (*models.Invoice, error) {
	cond := func(inv models.Invoice) bool { return payable(inv) && inv.Total == total }
	return r.markPaid(id, cond, method, paymentID, paidAt), nil
}

func (r *InvoiceRepo) markPaid(id string, cond func(models.Invoice) bool, method, paymentID string, paidAt time.Time) *models.Invoice {
	return r.apply(id, cond, func(inv *models.Invoice) {
		inv.Status = models.InvoicePaid
		inv.PaymentMethod = method
		if paymentID != "" {
			inv.PaymentID = paymentID
		}
		inv.PaidAt = &paidAt
		inv.UpdatedAt = paidAt
	})
}

func addCharge(inv *models.Invoice, c models.OverdueCharge) {
	inv.OverdueCharges = append(inv.OverdueCharges, c)
	inv.Total = math.Round((inv.Total+c.Amount)*100) / 100
}

func (r *InvoiceRepo) MarkOverdue(_ context.Context, id string, charge *models.OverdueCharge, now time.Time) (*models.Invoice, error) {
	cond := func(inv models.Invoice) bool {
		return inv.Status == models.InvoicePending && !inv.DueAt.After(now)
	}
	return r.apply(id, cond, func(inv *models.Invoice) {
		inv.Status = models.InvoiceOverdue
		if charge != nil {
			addCharge(inv, *charge)
		}
		inv.UpdatedAt = now
	}), nil
}

func (r *InvoiceRepo) AddCharge(_ context.Context, id string, charge models.OverdueCharge) (*models.Invoice, error) {
	return r.apply(id, payable, func(inv *models.Invoice) {
		addCharge(inv, charge)
		inv.UpdatedAt = charge.CreatedAt
	}), nil
}

func (r *InvoiceRepo) Waive(_ context.Context, id string) (*models.Invoice, error) {
	return r.apply(id, payable, func(inv *models.Invoice) {
		inv.Status = models.InvoiceWaived
		inv.UpdatedAt = time.Now()
	}), nil
}

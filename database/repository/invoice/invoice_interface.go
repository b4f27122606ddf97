package invoiceRepo

import (
	"context"
	"time"

	"parkwise/models"
)

// InvoiceRepository defines data access for invoices. Invoices are created by the
// session check-out transaction; this repository only reads and settles them.
// State changing methods return (nil, nil) when the invoice is missing or not in a payable state.
type InvoiceRepository interface {
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	GetBySession(ctx context.Context, sessionID string) (*models.Invoice, error)
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error)
	SetPaymentID(ctx context.Context, id, paymentID string) error
	MarkPaid(ctx context.Context, id, method, paymentID string, paidAt time.Time) (*models.Invoice, error)
	// MarkPaidForTotal settles the invoice only while its total still equals total.
	MarkPaidForTotal(ctx context.Context, id string, total float64, method, paymentID string, paidAt time.Time) (*models.Invoice, error)
	// MarkOverdue moves a pending invoice past its due date to overdue, adding charge when non-nil.
	MarkOverdue(ctx context.Context, id string, charge *models.OverdueCharge, now time.Time) (*models.Invoice, error)
	AddCharge(ctx context.Context, id string, charge models.OverdueCharge) (*models.Invoice, error)
	Waive(ctx context.Context, id string) (*models.Invoice, error)
}

package invoice

import (
	"context"
	"time"

	invoiceRepo "parkwise/database/repository/invoice"
	lotRepo "parkwise/database/repository/lot"
	"parkwise/models"
	"parkwise/services/payment"

	"go.uber.org/zap"
)

// InvoiceService settles invoices issued at check-out. An empty ownerID acts
// with admin rights.
type InvoiceService interface {
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error)
	ListOverdue(ctx context.Context, lotID string) ([]models.Invoice, error)
	Get(ctx context.Context, ownerID, id string) (*models.Invoice, error)
	Pay(ctx context.Context, ownerID, id string, req models.PaymentRequest) (*models.PaymentIntent, error)
	MarkPaid(ctx context.Context, id, method string) (*models.Invoice, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	Waive(ctx context.Context, id string) (*models.Invoice, error)
	AddOverdueCharge(ctx context.Context, adminID, id string, input models.OverdueChargeInput) (*models.Invoice, error)
	ProcessOverdue(ctx context.Context, id string) (*models.Invoice, error)
}

// Notifier pushes invoice state changes to drivers.
type Notifier interface {
	InvoiceOverdue(ctx context.Context, inv models.Invoice) error
}

const (
	MethodCard = "card"
	MethodCash = "cash"

	appliedBySystem = "system"
)

type DefaultInvoiceService struct {
	Invoices invoiceRepo.InvoiceRepository
	Lots     lotRepo.LotRepository
	Gateway  payment.Gateway
	Notifier Notifier
	Logger   *zap.Logger
	Clock    func() time.Time
}

func (s *DefaultInvoiceService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *DefaultInvoiceService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

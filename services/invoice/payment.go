package invoice

import (
	"context"
	"fmt"

	"parkwise/models"
	"parkwise/services/billing"
	"parkwise/services/payment"

	"go.uber.org/zap"
)

// Pay starts a card payment for the invoice total. Cash is recorded by an admin.
func (s *DefaultInvoiceService) Pay(ctx context.Context, ownerID, id string, req models.PaymentRequest) (*models.PaymentIntent, error) {
	inv, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !inv.Status.Payable() {
		return nil, models.ErrInvoiceNotPayable
	}
	switch req.Method {
	case MethodCard:
	case MethodCash:
		return nil, fmt.Errorf("cash payments are recorded by the lot attendant: %w", models.ErrInvalidInput)
	default:
		return nil, fmt.Errorf("unsupported payment method %q: %w", req.Method, models.ErrInvalidInput)
	}
	if s.Gateway == nil {
		return nil, fmt.Errorf("payment gateway not configured")
	}

	intent, err := s.Gateway.CreateIntent(ctx, *inv)
	if err != nil {
		return nil, err
	}
	if err := s.Invoices.SetPaymentID(ctx, inv.ID, intent.PaymentID); err != nil {
		return nil, err
	}
	s.logger().Info("payment intent created",
		zap.String("invoiceId", inv.ID), zap.String("paymentId", intent.PaymentID), zap.Float64("amount", intent.Amount))
	return intent, nil
}

func (s *DefaultInvoiceService) MarkPaid(ctx context.Context, id, method string) (*models.Invoice, error) {
	if method == "" {
		method = MethodCash
	}
	inv, err := s.Invoices.MarkPaid(ctx, id, method, "", s.now())
	inv, err = s.settled(ctx, id, inv, err)
	if err != nil {
		return nil, err
	}
	s.logger().Info("invoice marked paid", zap.String("invoiceId", id), zap.String("method", method))
	return inv, nil
}

// HandleWebhook settles the invoice named by a successful payment event when the
// amount received matches the current total. Repeated deliveries, unrelated
// events and short payments are acknowledged without effect.
func (s *DefaultInvoiceService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if s.Gateway == nil {
		return fmt.Errorf("payment gateway not configured")
	}
	event, err := s.Gateway.ParseWebhook(body, signature)
	if err != nil {
		return err
	}
	if event.Type != payment.EventPaymentSucceeded {
		s.logger().Debug("ignoring webhook event", zap.String("type", event.Type), zap.String("eventId", event.ID))
		return nil
	}
	if event.InvoiceID == "" {
		s.logger().Warn("payment event without invoice id", zap.String("paymentId", event.PaymentID))
		return nil
	}

	current, err := s.Invoices.GetByID(ctx, event.InvoiceID)
	if err != nil {
		return fmt.Errorf("failed to load invoice %s: %w", event.InvoiceID, err)
	}
	if current == nil || !current.Status.Payable() {
		s.logger().Info("payment event for settled or unknown invoice",
			zap.String("invoiceId", event.InvoiceID), zap.String("paymentId", event.PaymentID))
		return nil
	}
	if due := billing.ToMinorUnits(current.Total); event.Amount != due {
		s.logger().Warn("payment amount does not match invoice total",
			zap.String("invoiceId", current.ID),
			zap.String("paymentId", event.PaymentID),
			zap.Int64("paid", event.Amount),
			zap.Int64("due", due))
		return nil
	}

	inv, err := s.Invoices.MarkPaidForTotal(ctx, current.ID, current.Total, MethodCard, event.PaymentID, s.now())
	if err != nil {
		return err
	}
	if inv == nil {
		s.logger().Warn("invoice changed while settling payment",
			zap.String("invoiceId", current.ID), zap.String("paymentId", event.PaymentID))
		return nil
	}
	s.logger().Info("invoice paid by card",
		zap.String("invoiceId", inv.ID), zap.String("paymentId", event.PaymentID))
	return nil
}

func (s *DefaultInvoiceService) Waive(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := s.Invoices.Waive(ctx, id)
	inv, err = s.settled(ctx, id, inv, err)
	if err != nil {
		return nil, err
	}
	s.logger().Info("invoice waived", zap.String("invoiceId", id))
	return inv, nil
}

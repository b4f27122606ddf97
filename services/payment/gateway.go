package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"parkwise/models"
	"parkwise/services/billing"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"
)

// EventPaymentSucceeded is the only webhook event that settles an invoice.
const EventPaymentSucceeded = "payment_intent.succeeded"

var ErrInvalidSignature = errors.New("invalid webhook signature")

// WebhookEvent is the part of a provider event the invoice flow needs.
type WebhookEvent struct {
	ID        string
	Type      string
	PaymentID string
	InvoiceID string
	Amount    int64
}

// Gateway creates card payments and authenticates their webhooks.
type Gateway interface {
	CreateIntent(ctx context.Context, inv models.Invoice) (*models.PaymentIntent, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// StripeGateway talks to Stripe. stripe.Key must be set before use.
type StripeGateway struct {
	WebhookSecret string
}

func NewStripeGateway(webhookSecret string) *StripeGateway {
	return &StripeGateway{WebhookSecret: webhookSecret}
}

// CreateIntent opens a PaymentIntent for the invoice total. The invoice id is the
// idempotency key, so retries return the same intent.
func (g *StripeGateway) CreateIntent(ctx context.Context, inv models.Invoice) (*models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(billing.ToMinorUnits(inv.Total)),
		Currency: stripe.String(inv.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String(fmt.Sprintf("Parking %s at lot %s", inv.PlateNumber, inv.LotID)),
	}
	params.Context = ctx
	params.SetIdempotencyKey(fmt.Sprintf("%s-%d", inv.ID, billing.ToMinorUnits(inv.Total)))
	params.AddMetadata("invoiceId", inv.ID)
	params.AddMetadata("ownerId", inv.OwnerID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return &models.PaymentIntent{
		InvoiceID:    inv.ID,
		PaymentID:    pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       inv.Total,
		Currency:     inv.Currency,
		Status:       string(pi.Status),
	}, nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if out.Type != EventPaymentSucceeded || event.Data == nil {
		return out, nil
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("failed to decode payment intent: %w", err)
	}
	out.PaymentID = pi.ID
	out.Amount = pi.Amount
	out.InvoiceID = pi.Metadata["invoiceId"]
	return out, nil
}

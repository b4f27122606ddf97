package invoice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"parkwise/database/repository/memory"
	"parkwise/models"
	"parkwise/services/payment"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateIntent(ctx context.Context, inv models.Invoice) (*models.PaymentIntent, error) {
	args := m.Called(ctx, inv)
	if pi, ok := args.Get(0).(*models.PaymentIntent); ok {
		return pi, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) ParseWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	args := m.Called(payload, signature)
	if ev, ok := args.Get(0).(*payment.WebhookEvent); ok {
		return ev, args.Error(1)
	}
	return nil, args.Error(1)
}

type recordingNotifier struct {
	overdue []models.Invoice
}

func (r *recordingNotifier) InvoiceOverdue(_ context.Context, inv models.Invoice) error {
	r.overdue = append(r.overdue, inv)
	return nil
}

type fixture struct {
	store    *memory.Store
	svc      *DefaultInvoiceService
	gateway  *mockGateway
	notifier *recordingNotifier
	clock    time.Time
}

var exit = time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{store: store, gateway: &mockGateway{}, notifier: &recordingNotifier{}, clock: exit}
	f.svc = &DefaultInvoiceService{
		Invoices: store.Invoices(),
		Lots:     store.Lots(),
		Gateway:  f.gateway,
		Notifier: f.notifier,
		Clock:    func() time.Time { return f.clock },
	}
	require.NoError(t, store.Lots().Create(context.Background(), &models.ParkingLot{
		ID: "lot-1", TotalSpots: 5, AvailableSpots: 5, OverdueFee: 2.5,
	}))
	store.Invoices().Put(models.Invoice{
		ID: "inv-1", SessionID: "s-1", OwnerID: "user-1", LotID: "lot-1",
		Amount: 20, Total: 20, Currency: "usd", Status: models.InvoicePending,
		OverdueCharges: []models.OverdueCharge{},
		ExitTime:       exit, DueAt: exit.Add(72 * time.Hour), CreatedAt: exit,
	})
	return f
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.svc.Get(ctx, "user-1", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, 20.0, inv.Total)

	_, err = f.svc.Get(ctx, "user-2", "inv-1")
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = f.svc.Get(ctx, "", "missing")
	assert.ErrorIs(t, err, models.ErrInvoiceNotFound)

	mine, err := f.svc.List(ctx, models.InvoiceFilter{OwnerID: "user-2"})
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestPayByCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.gateway.On("CreateIntent", mock.Anything, mock.MatchedBy(func(inv models.Invoice) bool {
		return inv.ID == "inv-1" && inv.Total == 20
	})).Return(&models.PaymentIntent{
		InvoiceID: "inv-1", PaymentID: "pi_1", ClientSecret: "secret", Amount: 20, Currency: "usd",
	}, nil).Once()

	intent, err := f.svc.Pay(ctx, "user-1", "inv-1", models.PaymentRequest{Method: MethodCard})
	require.NoError(t, err)
	assert.Equal(t, "secret", intent.ClientSecret)

	inv, err := f.svc.Get(ctx, "", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "pi_1", inv.PaymentID)
	assert.Equal(t, models.InvoicePending, inv.Status, "the webhook settles the invoice")
	f.gateway.AssertExpectations(t)
}

func TestPayRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Pay(ctx, "user-1", "inv-1", models.PaymentRequest{Method: MethodCash})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = f.svc.Pay(ctx, "user-2", "inv-1", models.PaymentRequest{Method: MethodCard})
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = f.svc.MarkPaid(ctx, "inv-1", "")
	require.NoError(t, err)
	_, err = f.svc.Pay(ctx, "user-1", "inv-1", models.PaymentRequest{Method: MethodCard})
	assert.ErrorIs(t, err, models.ErrInvoiceNotPayable)
	f.gateway.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
}

func TestMarkPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.svc.MarkPaid(ctx, "inv-1", "")
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, inv.Status)
	assert.Equal(t, MethodCash, inv.PaymentMethod)
	require.NotNil(t, inv.PaidAt)
	assert.Equal(t, exit, *inv.PaidAt)

	_, err = f.svc.MarkPaid(ctx, "inv-1", "")
	assert.ErrorIs(t, err, models.ErrInvoiceNotPayable)

	_, err = f.svc.MarkPaid(ctx, "missing", "")
	assert.ErrorIs(t, err, models.ErrInvoiceNotFound)
}

func TestHandleWebhook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	body := []byte("{}")

	f.gateway.On("ParseWebhook", body, "good").Return(&payment.WebhookEvent{
		Type: payment.EventPaymentSucceeded, InvoiceID: "inv-1", PaymentID: "pi_1", Amount: 2000,
	}, nil)
	f.gateway.On("ParseWebhook", body, "bad").Return(nil, payment.ErrInvalidSignature)

	require.NoError(t, f.svc.HandleWebhook(ctx, body, "good"))
	inv, err := f.svc.Get(ctx, "", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, inv.Status)
	assert.Equal(t, MethodCard, inv.PaymentMethod)
	assert.Equal(t, "pi_1", inv.PaymentID)

	// Redelivery is harmless.
	require.NoError(t, f.svc.HandleWebhook(ctx, body, "good"))

	assert.ErrorIs(t, f.svc.HandleWebhook(ctx, body, "bad"), payment.ErrInvalidSignature)
}

func TestHandleWebhook_StaleAmountLeavesInvoicePayable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.gateway.On("CreateIntent", mock.Anything, mock.Anything).Return(&models.PaymentIntent{
		InvoiceID: "inv-1", PaymentID: "pi_old", Amount: 20, Currency: "usd",
	}, nil).Once()
	_, err := f.svc.Pay(ctx, "user-1", "inv-1", models.PaymentRequest{Method: MethodCard})
	require.NoError(t, err)

	_, err = f.svc.AddOverdueCharge(ctx, "admin-1", "inv-1", models.OverdueChargeInput{Amount: 15})
	require.NoError(t, err)

	stale := []byte(`{"id":"evt_old"}`)
	f.gateway.On("ParseWebhook", stale, "sig").Return(&payment.WebhookEvent{
		Type: payment.EventPaymentSucceeded, InvoiceID: "inv-1", PaymentID: "pi_old", Amount: 2000,
	}, nil)
	require.NoError(t, f.svc.HandleWebhook(ctx, stale, "sig"))

	inv, err := f.svc.Get(ctx, "", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePending, inv.Status)
	assert.Equal(t, 35.0, inv.Total)
	assert.Nil(t, inv.PaidAt)

	full := []byte(`{"id":"evt_new"}`)
	f.gateway.On("ParseWebhook", full, "sig").Return(&payment.WebhookEvent{
		Type: payment.EventPaymentSucceeded, InvoiceID: "inv-1", PaymentID: "pi_new", Amount: 3500,
	}, nil)
	require.NoError(t, f.svc.HandleWebhook(ctx, full, "sig"))

	inv, err = f.svc.Get(ctx, "", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, inv.Status)
	assert.Equal(t, "pi_new", inv.PaymentID)
}

func TestWaive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.svc.Waive(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceWaived, inv.Status)

	_, err = f.svc.Waive(ctx, "inv-1")
	assert.ErrorIs(t, err, models.ErrInvoiceNotPayable)
}

func TestAddOverdueCharge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.svc.AddOverdueCharge(ctx, "admin-1", "inv-1", models.OverdueChargeInput{Amount: 3.25})
	require.NoError(t, err)
	require.Len(t, inv.OverdueCharges, 1)
	assert.Equal(t, "admin-1", inv.OverdueCharges[0].AppliedBy)
	assert.Equal(t, 23.25, inv.Total)

	_, err = f.svc.AddOverdueCharge(ctx, "admin-1", "inv-1", models.OverdueChargeInput{Amount: 0})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = f.svc.AddOverdueCharge(ctx, "admin-1", "missing", models.OverdueChargeInput{Amount: 1})
	assert.ErrorIs(t, err, models.ErrInvoiceNotFound)
}

func TestProcessOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("not yet due", func(t *testing.T) {
		inv, err := f.svc.ProcessOverdue(ctx, "inv-1")
		require.NoError(t, err)
		assert.Nil(t, inv)
		assert.Empty(t, f.notifier.overdue)
	})

	t.Run("due", func(t *testing.T) {
		f.clock = exit.Add(72 * time.Hour)
		inv, err := f.svc.ProcessOverdue(ctx, "inv-1")
		require.NoError(t, err)
		require.NotNil(t, inv)
		assert.Equal(t, models.InvoiceOverdue, inv.Status)
		assert.Equal(t, 22.5, inv.Total)
		require.Len(t, inv.OverdueCharges, 1)
		assert.Equal(t, "system", inv.OverdueCharges[0].AppliedBy)
		assert.Len(t, f.notifier.overdue, 1)
	})

	t.Run("runs once", func(t *testing.T) {
		inv, err := f.svc.ProcessOverdue(ctx, "inv-1")
		require.NoError(t, err)
		assert.Nil(t, inv)

		stored, err := f.svc.Get(ctx, "", "inv-1")
		require.NoError(t, err)
		assert.Len(t, stored.OverdueCharges, 1)
		assert.Len(t, f.notifier.overdue, 1)
	})

	t.Run("overdue list", func(t *testing.T) {
		list, err := f.svc.ListOverdue(ctx, "")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "inv-1", list[0].ID)
	})

	t.Run("overdue invoices stay payable", func(t *testing.T) {
		inv, err := f.svc.MarkPaid(ctx, "inv-1", MethodCash)
		require.NoError(t, err)
		assert.Equal(t, models.InvoicePaid, inv.Status)
	})

	t.Run("missing invoice", func(t *testing.T) {
		inv, err := f.svc.ProcessOverdue(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, inv)
	})
}

func TestPay_GatewayError(t *testing.T) {
	f := newFixture(t)
	f.gateway.On("CreateIntent", mock.Anything, mock.Anything).Return(nil, errors.New("card declined"))
	_, err := f.svc.Pay(context.Background(), "user-1", "inv-1", models.PaymentRequest{Method: MethodCard})
	assert.ErrorContains(t, err, "card declined")
}

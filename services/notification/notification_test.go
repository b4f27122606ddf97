package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"parkwise/database/repository/memory"
	"parkwise/models"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg *messaging.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func newService(t *testing.T) (*DefaultNotificationService, *mockSender) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	_, err := store.Users().EnsureUser(ctx, &models.User{ID: "user-1", Email: "a@example.com", Role: models.RoleDriver})
	require.NoError(t, err)
	require.NoError(t, store.Users().SetFCMToken(ctx, "user-1", "token-1"))
	_, err = store.Users().EnsureUser(ctx, &models.User{ID: "user-2", Email: "b@example.com", Role: models.RoleDriver})
	require.NoError(t, err)

	sender := &mockSender{}
	svc, err := NewDefaultNotificationService(store.Users(), sender, nil)
	require.NoError(t, err)
	return svc, sender
}

func TestInvoiceIssued(t *testing.T) {
	svc, sender := newService(t)
	inv := models.Invoice{
		ID: "inv-1", SessionID: "s-1", OwnerID: "user-1", PlateNumber: "KDA123A",
		DurationMinutes: 192, Total: 20, Currency: "usd", Status: models.InvoicePending,
		DueAt: time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC),
	}
	sender.On("Send", mock.Anything, mock.MatchedBy(func(m *messaging.Message) bool {
		return m.Token == "token-1" &&
			m.Data["invoiceId"] == "inv-1" &&
			m.Data["type"] == "invoice_issued" &&
			m.Notification.Body == "KDA123A parked 192 min. Amount due: 20.00 USD by Mar 7 12:00."
	})).Return("msg-1", nil).Once()

	require.NoError(t, svc.InvoiceIssued(context.Background(), inv))
	sender.AssertExpectations(t)
}

func TestNotify_NoToken(t *testing.T) {
	svc, sender := newService(t)
	require.NoError(t, svc.Notify(context.Background(), models.Notification{UserID: "user-2", Type: "x"}))
	require.NoError(t, svc.Notify(context.Background(), models.Notification{UserID: "ghost", Type: "x"}))
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNotify_SendError(t *testing.T) {
	svc, sender := newService(t)
	sender.On("Send", mock.Anything, mock.Anything).Return("", errors.New("unavailable"))
	err := svc.InvoiceOverdue(context.Background(), models.Invoice{ID: "inv-1", OwnerID: "user-1"})
	assert.ErrorContains(t, err, "unavailable")
}

func TestNewDefaultNotificationService_RequiresDeps(t *testing.T) {
	_, err := NewDefaultNotificationService(nil, &mockSender{}, nil)
	assert.Error(t, err)
}

package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parkwise/database/repository/memory"
	"parkwise/models"
	"parkwise/services/invoice"
	"parkwise/services/tasks"
)

type recordingNotifier struct {
	issued []models.Invoice
	err    error
}

func (r *recordingNotifier) InvoiceIssued(_ context.Context, inv models.Invoice) error {
	if r.err != nil {
		return r.err
	}
	r.issued = append(r.issued, inv)
	return nil
}

func setup(t *testing.T, now time.Time) *invoice.DefaultInvoiceService {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Lots().Create(context.Background(), &models.ParkingLot{ID: "lot-1", OverdueFee: 5}))
	store.Invoices().Put(models.Invoice{
		ID: "inv-1", OwnerID: "user-1", LotID: "lot-1", Total: 10, Status: models.InvoicePending,
		DueAt: time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC),
	})
	return &invoice.DefaultInvoiceService{
		Invoices: store.Invoices(),
		Lots:     store.Lots(),
		Clock:    func() time.Time { return now },
	}
}

func task(t *testing.T, typ, invoiceID string) *asynq.Task {
	t.Helper()
	var (
		tk  *asynq.Task
		err error
	)
	payload := models.InvoiceTaskPayload{InvoiceID: invoiceID, OwnerID: "user-1"}
	if typ == tasks.TypeInvoiceNotify {
		tk, _, err = tasks.NewInvoiceNotifyTask(payload)
	} else {
		tk, _, err = tasks.NewOverdueCheckTask(payload)
	}
	require.NoError(t, err)
	return tk
}

func TestHandleInvoiceNotify(t *testing.T) {
	svc := setup(t, time.Now())
	notifier := &recordingNotifier{}
	h := HandleInvoiceNotify(svc, notifier, zap.NewNop())

	require.NoError(t, h(context.Background(), task(t, tasks.TypeInvoiceNotify, "inv-1")))
	require.Len(t, notifier.issued, 1)
	assert.Equal(t, "inv-1", notifier.issued[0].ID)

	require.NoError(t, h(context.Background(), task(t, tasks.TypeInvoiceNotify, "missing")))

	err := h(context.Background(), asynq.NewTask(tasks.TypeInvoiceNotify, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	notifier.err = errors.New("fcm down")
	assert.Error(t, h(context.Background(), task(t, tasks.TypeInvoiceNotify, "inv-1")), "failed pushes are retried")
}

func TestHandleInvoiceOverdue(t *testing.T) {
	svc := setup(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC))
	h := HandleInvoiceOverdue(svc, zap.NewNop())

	require.NoError(t, h(context.Background(), task(t, tasks.TypeInvoiceOverdue, "inv-1")))
	inv, err := svc.Get(context.Background(), "", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceOverdue, inv.Status)
	assert.Equal(t, 15.0, inv.Total)

	require.NoError(t, h(context.Background(), task(t, tasks.TypeInvoiceOverdue, "inv-1")))
	inv, err = svc.Get(context.Background(), "", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, 15.0, inv.Total, "the fee is applied once")
}

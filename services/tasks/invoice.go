package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"parkwise/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeInvoiceNotify  = "invoice:notify"
	TypeInvoiceOverdue = "invoice:overdue"

	maxRetry = 5
)

func NewInvoiceNotifyTask(payload models.InvoiceTaskPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeInvoiceNotify, b)
	opts := []asynq.Option{asynq.MaxRetry(maxRetry)}

	return task, opts, nil
}

// NewOverdueCheckTask fires at the invoice due date. The task id is derived from
// the invoice, so scheduling twice keeps a single check.
func NewOverdueCheckTask(payload models.InvoiceTaskPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeInvoiceOverdue, b)
	opts := []asynq.Option{
		asynq.ProcessAt(payload.DueAt),
		asynq.TaskID(OverdueTaskID(payload.InvoiceID)),
		asynq.MaxRetry(maxRetry),
	}

	return task, opts, nil
}

func OverdueTaskID(invoiceID string) string {
	return "overdue:" + invoiceID
}

// ParsePayload decodes the payload shared by invoice tasks.
func ParsePayload(task *asynq.Task) (models.InvoiceTaskPayload, error) {
	var p models.InvoiceTaskPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid %s payload: %w", task.Type(), err)
	}
	if p.InvoiceID == "" {
		return p, fmt.Errorf("invalid %s payload: missing invoice id", task.Type())
	}
	return p, nil
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// InvoiceScheduler queues the follow-up work for a freshly issued invoice.
type InvoiceScheduler struct {
	Client Enqueuer
	Logger *zap.Logger
}

func NewInvoiceScheduler(client Enqueuer, logger *zap.Logger) *InvoiceScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceScheduler{Client: client, Logger: logger}
}

func (s *InvoiceScheduler) InvoiceIssued(ctx context.Context, inv models.Invoice) error {
	payload := models.InvoiceTaskPayload{InvoiceID: inv.ID, OwnerID: inv.OwnerID, DueAt: inv.DueAt}

	notify, opts, err := NewInvoiceNotifyTask(payload)
	if err != nil {
		return err
	}
	var errs []error
	if _, err := s.Client.EnqueueContext(ctx, notify, opts...); err != nil {
		errs = append(errs, fmt.Errorf("enqueue %s: %w", TypeInvoiceNotify, err))
	}

	overdue, opts, err := NewOverdueCheckTask(payload)
	if err != nil {
		return err
	}
	if _, err := s.Client.EnqueueContext(ctx, overdue, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			s.Logger.Debug("overdue check already scheduled", zap.String("invoiceId", inv.ID))
		} else {
			errs = append(errs, fmt.Errorf("enqueue %s: %w", TypeInvoiceOverdue, err))
		}
	}
	return errors.Join(errs...)
}

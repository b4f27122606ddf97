package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parkwise/config"
	"parkwise/models"
	"parkwise/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InvoiceReader loads invoices for task handlers.
type InvoiceReader interface {
	Get(ctx context.Context, ownerID, id string) (*models.Invoice, error)
	ProcessOverdue(ctx context.Context, id string) (*models.Invoice, error)
}

// IssuedNotifier pushes the invoice-issued message.
type IssuedNotifier interface {
	InvoiceIssued(ctx context.Context, inv models.Invoice) error
}

// Worker runs the invoice background tasks next to the HTTP server.
type Worker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

func NewWorker(invoices InvoiceReader, notifier IssuedNotifier, logger *zap.Logger) *Worker {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeInvoiceNotify, HandleInvoiceNotify(invoices, notifier, logger))
	mux.HandleFunc(tasks.TypeInvoiceOverdue, HandleInvoiceOverdue(invoices, logger))

	return &Worker{srv: srv, mux: mux, logger: logger}
}

// Start launches the worker in the background, retrying with backoff when Redis is unreachable.
func (w *Worker) Start() {
	go func() {
		w.logger.Info("starting invoice worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("failed to start invoice worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				w.logger.Error("invoice worker disabled after max retry attempts")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

// Shutdown waits for in-flight tasks and stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
	w.logger.Info("invoice worker stopped")
}

func HandleInvoiceNotify(invoices InvoiceReader, notifier IssuedNotifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParsePayload(task)
		if err != nil {
			logger.Error("dropping invoice notify task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		inv, err := invoices.Get(ctx, "", p.InvoiceID)
		if err != nil {
			if errors.Is(err, models.ErrInvoiceNotFound) {
				logger.Warn("invoice vanished before notify", zap.String("invoiceId", p.InvoiceID))
				return nil
			}
			return err
		}
		if err := notifier.InvoiceIssued(ctx, *inv); err != nil {
			logger.Error("failed to send invoice push", zap.String("invoiceId", p.InvoiceID), zap.Error(err))
			return err
		}
		return nil
	}
}

func HandleInvoiceOverdue(invoices InvoiceReader, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParsePayload(task)
		if err != nil {
			logger.Error("dropping overdue task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		inv, err := invoices.ProcessOverdue(ctx, p.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			logger.Debug("overdue check found nothing to do", zap.String("invoiceId", p.InvoiceID))
		}
		return nil
	}
}

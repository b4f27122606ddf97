package notification

import (
	"context"
	"fmt"
	"strings"

	userRepo "parkwise/database/repository/user"
	"parkwise/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Sender is the subset of the FCM client used for pushes.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	Notify(ctx context.Context, n models.Notification) error
	InvoiceIssued(ctx context.Context, inv models.Invoice) error
	InvoiceOverdue(ctx context.Context, inv models.Invoice) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Users  userRepo.UserRepository
	FCM    Sender
	Logger *zap.Logger
}

func NewDefaultNotificationService(users userRepo.UserRepository, fcm Sender, logger *zap.Logger) (*DefaultNotificationService, error) {
	if users == nil || fcm == nil {
		return nil, fmt.Errorf("notification service initialization error: user repository or FCM client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{Users: users, FCM: fcm, Logger: logger}, nil
}

// Notify looks up a user's FCM token and sends a push. Users without a token are skipped.
func (s *DefaultNotificationService) Notify(ctx context.Context, n models.Notification) error {
	u, err := s.Users.GetByID(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("Notify: could not load user %s: %w", n.UserID, err)
	}
	if u == nil || u.FCMToken == "" {
		s.Logger.Info("no FCM token, skipping push",
			zap.String("userId", n.UserID), zap.String("type", n.Type))
		return nil
	}

	data := map[string]string{"type": n.Type}
	for k, v := range n.Data {
		data[k] = v
	}
	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: data,
	}

	response, err := s.FCM.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("Notify: failed to send FCM message: %w", err)
	}
	s.Logger.Debug("push sent", zap.String("userId", n.UserID), zap.String("messageId", response))
	return nil
}

func (s *DefaultNotificationService) InvoiceIssued(ctx context.Context, inv models.Invoice) error {
	return s.Notify(ctx, models.Notification{
		UserID: inv.OwnerID,
		Type:   "invoice_issued",
		Title:  "Parking invoice",
		Body: fmt.Sprintf("%s parked %d min. Amount due: %.2f %s by %s.",
			inv.PlateNumber, inv.DurationMinutes, inv.Total, strings.ToUpper(inv.Currency), inv.DueAt.Format("Jan 2 15:04")),
		Data: invoiceData(inv),
	})
}

func (s *DefaultNotificationService) InvoiceOverdue(ctx context.Context, inv models.Invoice) error {
	return s.Notify(ctx, models.Notification{
		UserID: inv.OwnerID,
		Type:   "invoice_overdue",
		Title:  "Invoice overdue",
		Body:   fmt.Sprintf("Your invoice for %s is overdue. New total: %.2f %s.", inv.PlateNumber, inv.Total, strings.ToUpper(inv.Currency)),
		Data:   invoiceData(inv),
	})
}

func invoiceData(inv models.Invoice) map[string]string {
	return map[string]string{
		"invoiceId": inv.ID,
		"sessionId": inv.SessionID,
		"status":    string(inv.Status),
	}
}

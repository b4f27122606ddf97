package sessionRepo

import (
	"context"
	"errors"

	"parkwise/models"
)

var (
	// ErrNoSpotAvailable means the lot's conditional decrement matched nothing.
	ErrNoSpotAvailable = errors.New("no spot available")
	// ErrActiveSessionExists means the vehicle already has a checked-in session.
	ErrActiveSessionExists = errors.New("vehicle already has an active session")
	// ErrSessionNotActive means the session was closed by someone else first.
	ErrSessionNotActive = errors.New("session is not checked in")
	// ErrInvoiceExists means an invoice was already issued for the session.
	ErrInvoiceExists = errors.New("invoice already issued for session")
)

// SessionRepository defines data access for parking sessions, including
// the transactional transitions that also touch lots and invoices.
type SessionRepository interface {
	// OpenTransactionally inserts a checked-in session and takes one spot from its lot.
	OpenTransactionally(ctx context.Context, session *models.ParkingSession) error
	// CloseTransactionally closes a checked-in session, returns its spot and inserts its invoice.
	// released is false when the lot was already at full availability.
	CloseTransactionally(ctx context.Context, session *models.ParkingSession, invoice *models.Invoice) (released bool, err error)
	GetByID(ctx context.Context, id string) (*models.ParkingSession, error)
	GetActiveByVehicle(ctx context.Context, vehicleID string) (*models.ParkingSession, error)
	List(ctx context.Context, filter models.SessionFilter) ([]models.ParkingSession, error)
	CountActiveByLot(ctx context.Context, lotID string) (int64, error)
	CountActiveByVehicle(ctx context.Context, vehicleID string) (int64, error)
}

package parking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"parkwise/config"
	lotRepo "parkwise/database/repository/lot"
	rateRepo "parkwise/database/repository/rate"
	sessionRepo "parkwise/database/repository/session"
	vehicleRepo "parkwise/database/repository/vehicle"
	"parkwise/models"
	"parkwise/services/billing"
	"parkwise/services/qr"

	"go.uber.org/zap"
)

// ParkingService drives the session state machine: NotParked -> CheckedIn -> CheckedOut.
type ParkingService interface {
	ResolveRate(ctx context.Context, lotID string, rateType models.RateType) (*models.ParkingRate, error)
	CheckIn(ctx context.Context, vehicleID, lotID string, opts CheckInOptions) (*models.ParkingSession, error)
	CheckOut(ctx context.Context, sessionID string, opts CheckOutOptions) (*models.Invoice, error)
	Scan(ctx context.Context, lotID string, req models.ScanRequest) (*models.ScanResult, error)
	GetSession(ctx context.Context, id string) (*models.ParkingSession, error)
	ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.ParkingSession, error)
}

// InvoiceTasks receives invoices right after check-out for background follow-up.
type InvoiceTasks interface {
	InvoiceIssued(ctx context.Context, inv models.Invoice) error
}

type RescanMode string

const (
	RescanReject   RescanMode = "reject"
	RescanCheckout RescanMode = "checkout"
)

type Options struct {
	RescanMode      RescanMode
	LockTTL         time.Duration
	DefaultCurrency string
	PaymentDueHours int
}

// OptionsFromConfig builds service options from the scan and billing config.
// The rescan mode must be named explicitly when set; unknown values are rejected.
func OptionsFromConfig(scan config.ScanConfig, billingCfg config.BillingConfig) (Options, error) {
	mode := RescanMode(strings.ToLower(strings.TrimSpace(scan.RescanMode)))
	switch mode {
	case RescanReject, RescanCheckout:
	case "":
		mode = RescanReject
	default:
		return Options{}, fmt.Errorf("unknown scan rescan mode %q", scan.RescanMode)
	}
	if scan.LockTTL <= 0 {
		return Options{}, fmt.Errorf("scan lock TTL must be positive, got %s", scan.LockTTL)
	}
	if billingCfg.PaymentDueHours < 0 {
		return Options{}, fmt.Errorf("payment due hours must not be negative, got %d", billingCfg.PaymentDueHours)
	}
	return Options{
		RescanMode:      mode,
		LockTTL:         scan.LockTTL,
		DefaultCurrency: strings.ToLower(billingCfg.DefaultCurrency),
		PaymentDueHours: billingCfg.PaymentDueHours,
	}, nil
}

type CheckInOptions struct {
	// RateType overrides the vehicle's own rate type when set.
	RateType models.RateType
	Source   string
	At       time.Time
}

type CheckOutOptions struct {
	Source string
	At     time.Time
}

// DefaultParkingService is the production implementation.
type DefaultParkingService struct {
	Lots     lotRepo.LotRepository
	Rates    rateRepo.RateRepository
	Sessions sessionRepo.SessionRepository
	Vehicles vehicleRepo.VehicleRepository
	QR       qr.Service
	Locker   ScanLocker
	Tasks    InvoiceTasks
	Policy   billing.Policy
	Options  Options
	Logger   *zap.Logger
	Clock    func() time.Time
}

func (s *DefaultParkingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *DefaultParkingService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Package memory holds in-process implementations of the repositories.
// They share one Store so cross-collection transactions stay atomic.
//
// It is a test fixture: only _test.go files import it, so it is never linked
// into the server binary.
package memory

import (
	"sort"
	"sync"

	invoiceRepo "parkwise/database/repository/invoice"
	lotRepo "parkwise/database/repository/lot"
	rateRepo "parkwise/database/repository/rate"
	sessionRepo "parkwise/database/repository/session"
	userRepo "parkwise/database/repository/user"
	vehicleRepo "parkwise/database/repository/vehicle"
	"parkwise/models"
)

var (
	_ lotRepo.LotRepository         = (*LotRepo)(nil)
	_ rateRepo.RateRepository       = (*RateRepo)(nil)
	_ sessionRepo.SessionRepository = (*SessionRepo)(nil)
	_ vehicleRepo.VehicleRepository = (*VehicleRepo)(nil)
	_ invoiceRepo.InvoiceRepository = (*InvoiceRepo)(nil)
	_ userRepo.UserRepository       = (*UserRepo)(nil)
)

type Store struct {
	mu       sync.Mutex
	lots     map[string]models.ParkingLot
	rates    map[string]models.ParkingRate
	sessions map[string]models.ParkingSession
	vehicles map[string]models.Vehicle
	invoices map[string]models.Invoice
	users    map[string]models.User
}

func NewStore() *Store {
	return &Store{
		lots:     map[string]models.ParkingLot{},
		rates:    map[string]models.ParkingRate{},
		sessions: map[string]models.ParkingSession{},
		vehicles: map[string]models.Vehicle{},
		invoices: map[string]models.Invoice{},
		users:    map[string]models.User{},
	}
}

func (s *Store) Lots() *LotRepo         { return &LotRepo{s} }
func (s *Store) Rates() *RateRepo       { return &RateRepo{s} }
func (s *Store) Sessions() *SessionRepo { return &SessionRepo{s} }
func (s *Store) Vehicles() *VehicleRepo { return &VehicleRepo{s} }
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s} }
func (s *Store) Users() *UserRepo       { return &UserRepo{s} }

// Lot returns a copy of the stored lot, for assertions.
func (s *Store) Lot(id string) (models.ParkingLot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lots[id]
	return l, ok
}

// InvoiceCount returns the number of invoices issued for a session.
func (s *Store) InvoiceCount(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, inv := range s.invoices {
		if inv.SessionID == sessionID {
			n++
		}
	}
	return n
}

func copyInvoice(inv models.Invoice) models.Invoice {
	inv.OverdueCharges = append([]models.OverdueCharge{}, inv.OverdueCharges...)
	return inv
}

func sortedValues[K comparable, V any](m map[K]V, less func(a, b V) bool) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

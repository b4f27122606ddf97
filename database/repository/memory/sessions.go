package memory

import (
	"context"
	"fmt"

	sessionRepo "parkwise/database/repository/session"
	"parkwise/models"
)

type SessionRepo struct{ s *Store }

func (r *SessionRepo) OpenTransactionally(_ context.Context, session *models.ParkingSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, cur := range r.s.sessions {
		if cur.VehicleID == session.VehicleID && cur.Status == models.SessionCheckedIn {
			return fmt.Errorf("check-in transaction failed: %w", sessionRepo.ErrActiveSessionExists)
		}
	}
	lot, ok := r.s.lots[session.LotID]
	if !ok || lot.AvailableSpots <= 0 {
		return fmt.Errorf("check-in transaction failed: %w", sessionRepo.ErrNoSpotAvailable)
	}
	lot.AvailableSpots--
	r.s.lots[lot.ID] = lot
	r.s.sessions[session.ID] = *session
	return nil
}

func (r *SessionRepo) CloseTransactionally(_ context.Context, session *models.ParkingSession, invoice *models.Invoice) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.sessions[session.ID]
	if !ok || cur.Status != models.SessionCheckedIn {
		return false, fmt.Errorf("check-out transaction failed: %w", sessionRepo.ErrSessionNotActive)
	}
	for _, inv := range r.s.invoices {
		if inv.SessionID == invoice.SessionID {
			return false, fmt.Errorf("check-out transaction failed: %w", sessionRepo.ErrInvoiceExists)
		}
	}

	cur.ExitTime = session.ExitTime
	cur.DurationMinutes = session.DurationMinutes
	cur.Charge = session.Charge
	cur.Status = models.SessionCheckedOut
	cur.InvoiceID = session.InvoiceID
	cur.ExitSource = session.ExitSource
	cur.UpdatedAt = session.UpdatedAt
	r.s.sessions[cur.ID] = cur

	released := false
	if lot, ok := r.s.lots[cur.LotID]; ok && lot.AvailableSpots < lot.TotalSpots {
		lot.AvailableSpots++
		r.s.lots[lot.ID] = lot
		released = true
	}
	r.s.invoices[invoice.ID] = copyInvoice(*invoice)
	return released, nil
}

func (r *SessionRepo) GetByID(_ context.Context, id string) (*models.ParkingSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &cur, nil
}

func (r *SessionRepo) GetActiveByVehicle(_ context.Context, vehicleID string) (*models.ParkingSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.sessions {
		if cur.VehicleID == vehicleID && cur.Status == models.SessionCheckedIn {
			return &cur, nil
		}
	}
	return nil, nil
}

func (r *SessionRepo) List(_ context.Context, f models.SessionFilter) ([]models.ParkingSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.ParkingSession{}
	all := sortedValues(r.s.sessions, func(a, b models.ParkingSession) bool { return a.EntryTime.After(b.EntryTime) })
	for _, cur := range all {
		if (f.LotID != "" && cur.LotID != f.LotID) ||
			(f.VehicleID != "" && cur.VehicleID != f.VehicleID) ||
			(f.OwnerID != "" && cur.OwnerID != f.OwnerID) ||
			(f.Status != "" && cur.Status != f.Status) {
			continue
		}
		out = append(out, cur)
		if f.Limit > 0 && int64(len(out)) >= f.Limit {
			break
		}
	}
	return out, nil
}

func (r *SessionRepo) CountActiveByLot(_ context.Context, lotID string) (int64, error) {
	return r.count(func(s models.ParkingSession) bool { return s.LotID == lotID }), nil
}

func (r *SessionRepo) CountActiveByVehicle(_ context.Context, vehicleID string) (int64, error) {
	return r.count(func(s models.ParkingSession) bool { return s.VehicleID == vehicleID }), nil
}

func (r *SessionRepo) count(match func(models.ParkingSession) bool) int64 {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, cur := range r.s.sessions {
		if cur.Status == models.SessionCheckedIn && match(cur) {
			n++
		}
	}
	return n
}

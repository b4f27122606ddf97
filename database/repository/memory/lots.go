package memory

import (
	"context"
	"fmt"
	"math"
	"time"

	"parkwise/models"
)

type LotRepo struct{ s *Store }

func (r *LotRepo) Create(_ context.Context, lot *models.ParkingLot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lots[lot.ID]; ok {
		return fmt.Errorf("lot %s already exists", lot.ID)
	}
	r.s.lots[lot.ID] = *lot
	return nil
}

func (r *LotRepo) GetByID(_ context.Context, id string) (*models.ParkingLot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *LotRepo) List(_ context.Context) ([]models.ParkingLot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.lots, func(a, b models.ParkingLot) bool { return a.Name < b.Name }), nil
}

// Nearby uses a plain haversine distance.
func (r *LotRepo) Nearby(_ context.Context, q models.NearbyQuery) ([]models.ParkingLot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	radius := q.RadiusKm
	if radius <= 0 {
		radius = 5
	}
	type hit struct {
		lot  models.ParkingLot
		dist float64
	}
	var hits []hit
	for _, l := range r.s.lots {
		if !l.Location.Valid() || (q.OnlyAvailable && l.AvailableSpots <= 0) {
			continue
		}
		d := haversineKm(q.Latitude, q.Longitude, l.Location.Coordinates[1], l.Location.Coordinates[0])
		if d <= radius {
			hits = append(hits, hit{l, d})
		}
	}
	out := []models.ParkingLot{}
	for len(hits) > 0 {
		best := 0
		for i := range hits {
			if hits[i].dist < hits[best].dist {
				best = i
			}
		}
		out = append(out, hits[best].lot)
		hits = append(hits[:best], hits[best+1:]...)
		if q.Limit > 0 && int64(len(out)) >= q.Limit {
			break
		}
	}
	return out, nil
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

func (r *LotRepo) UpdateDetails(_ context.Context, lot *models.ParkingLot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.lots[lot.ID]
	if !ok {
		return fmt.Errorf("lot with id %s not found", lot.ID)
	}
	cur.Name = lot.Name
	cur.Address = lot.Address
	cur.Location = lot.Location
	cur.OperatingHours = lot.OperatingHours
	cur.Contact = lot.Contact
	cur.OverdueFee = lot.OverdueFee
	cur.PaymentDueHours = lot.PaymentDueHours
	cur.UpdatedAt = time.Now()
	r.s.lots[lot.ID] = cur
	return nil
}

func (r *LotRepo) UpdateCapacity(_ context.Context, id string, total int) (*models.ParkingLot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	occupied := cur.TotalSpots - cur.AvailableSpots
	if total < occupied {
		return nil, nil
	}
	cur.TotalSpots = total
	cur.AvailableSpots = total - occupied
	cur.UpdatedAt = time.Now()
	r.s.lots[id] = cur
	return &cur, nil
}

func (r *LotRepo) SetPhotoURL(_ context.Context, id, url string) error {
	return r.set(id, func(l *models.ParkingLot) { l.PhotoURL = url })
}

func (r *LotRepo) SetScannerKeyHash(_ context.Context, id, hash string) error {
	return r.set(id, func(l *models.ParkingLot) { l.ScannerKeyHash = hash })
}

func (r *LotRepo) set(id string, fn func(*models.ParkingLot)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.lots[id]
	if !ok {
		return fmt.Errorf("lot with id %s not found", id)
	}
	fn(&cur)
	r.s.lots[id] = cur
	return nil
}

func (r *LotRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lots[id]; !ok {
		return fmt.Errorf("lot with id %s not found", id)
	}
	delete(r.s.lots, id)
	return nil
}

package models

import "time"

// OperatingHours describes when a lot is open. Times are "HH:MM" in the lot's local time.
type OperatingHours struct {
	Open  string `bson:"open" json:"open,omitempty"`
	Close string `bson:"close" json:"close,omitempty"`
	Is24h bool   `bson:"is24h" json:"is24h"`
}

type Contact struct {
	Phone string `bson:"phone" json:"phone,omitempty"`
	Email string `bson:"email" json:"email,omitempty"`
}

// ParkingLot is a physical parking facility with a spot capacity.
type ParkingLot struct {
	ID              string         `bson:"id" json:"id"`
	Name            string         `bson:"name" json:"name"`
	Address         string         `bson:"address" json:"address"`
	Location        GeoPoint       `bson:"location" json:"location"`
	TotalSpots      int            `bson:"totalSpots" json:"totalSpots"`
	AvailableSpots  int            `bson:"availableSpots" json:"availableSpots"`
	OperatingHours  OperatingHours `bson:"operatingHours" json:"operatingHours"`
	Contact         Contact        `bson:"contact" json:"contact"`
	OverdueFee      float64        `bson:"overdueFee" json:"overdueFee"`           // Added once when an invoice goes overdue.
	PaymentDueHours int            `bson:"paymentDueHours" json:"paymentDueHours"` // 0 means the configured default.
	PhotoURL        string         `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	ScannerKeyHash  string         `bson:"scannerKeyHash,omitempty" json:"-"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// OccupiedSpots is the number of spots currently taken.
func (l ParkingLot) OccupiedSpots() int {
	return l.TotalSpots - l.AvailableSpots
}

// LotInput is the admin payload for creating or updating a lot.
type LotInput struct {
	Name            string         `json:"name" binding:"required"`
	Address         string         `json:"address"`
	Latitude        *float64       `json:"latitude"`
	Longitude       *float64       `json:"longitude"`
	TotalSpots      int            `json:"totalSpots" binding:"gte=0"`
	OperatingHours  OperatingHours `json:"operatingHours"`
	Contact         Contact        `json:"contact"`
	OverdueFee      float64        `json:"overdueFee" binding:"gte=0"`
	PaymentDueHours int            `json:"paymentDueHours" binding:"gte=0"`
}

// NearbyQuery selects lots around a point.
type NearbyQuery struct {
	Latitude      float64 `form:"lat" binding:"required"`
	Longitude     float64 `form:"lng" binding:"required"`
	RadiusKm      float64 `form:"radiusKm"`
	OnlyAvailable bool    `form:"onlyAvailable"`
	Limit         int64   `form:"limit"`
}

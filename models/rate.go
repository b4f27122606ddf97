package models

import "time"

type RateType string

const (
	RateNormal    RateType = "NORMAL"
	RateVIP       RateType = "VIP"
	RateHourly    RateType = "HOURLY"
	RateOvernight RateType = "OVERNIGHT"
)

// Valid reports whether t is one of the known rate types.
func (t RateType) Valid() bool {
	switch t {
	case RateNormal, RateVIP, RateHourly, RateOvernight:
		return true
	}
	return false
}

// ParkingRate is a pricing plan attached to a lot and a rate type.
type ParkingRate struct {
	ID              string    `bson:"id" json:"id"`
	LotID           string    `bson:"lotId" json:"lotId"`
	RateType        RateType  `bson:"rateType" json:"rateType"`
	PricePerHour    float64   `bson:"pricePerHour" json:"pricePerHour"`
	PricePerDay     float64   `bson:"pricePerDay" json:"pricePerDay"`         // Per 24h block cap, 0 disables.
	OvernightPrice  float64   `bson:"overnightPrice" json:"overnightPrice"`   // Per night, 0 disables.
	MinChargeAmount float64   `bson:"minChargeAmount" json:"minChargeAmount"` // Floor for any session.
	MaxChargePerDay float64   `bson:"maxChargePerDay" json:"maxChargePerDay"` // Per 24h block ceiling, 0 disables.
	VIPMultiplier   float64   `bson:"vipMultiplier" json:"vipMultiplier"`
	Currency        string    `bson:"currency" json:"currency"`
	IsActive        bool      `bson:"isActive" json:"isActive"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// RateInput is the admin payload for creating or updating a rate.
type RateInput struct {
	RateType        RateType `json:"rateType" binding:"required"`
	PricePerHour    float64  `json:"pricePerHour"`
	PricePerDay     float64  `json:"pricePerDay"`
	OvernightPrice  float64  `json:"overnightPrice"`
	MinChargeAmount float64  `json:"minChargeAmount"`
	MaxChargePerDay float64  `json:"maxChargePerDay"`
	VIPMultiplier   float64  `json:"vipMultiplier"`
	Currency        string   `json:"currency"`
	IsActive        bool     `json:"isActive"`
}

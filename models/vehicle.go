package models

import "time"

// Vehicle is a registered car linked to a driver account.
type Vehicle struct {
	ID          string    `bson:"id" json:"id"`
	OwnerID     string    `bson:"ownerId" json:"ownerId"`
	PlateNumber string    `bson:"plateNumber" json:"plateNumber"`
	Make        string    `bson:"make" json:"make,omitempty"`
	Model       string    `bson:"model" json:"model,omitempty"`
	Color       string    `bson:"color" json:"color,omitempty"`
	RateType    RateType  `bson:"rateType" json:"rateType"`
	PhotoURL    string    `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

type VehicleInput struct {
	PlateNumber string `json:"plateNumber" binding:"required"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Color       string `json:"color"`
}

// VehicleQR is the JSON form of a vehicle's check-in code.
type VehicleQR struct {
	VehicleID string `json:"vehicleId"`
	Payload   string `json:"payload"`
}

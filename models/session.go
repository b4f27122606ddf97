package models

import "time"

type SessionStatus string

const (
	SessionCheckedIn  SessionStatus = "checked_in"
	SessionCheckedOut SessionStatus = "checked_out"
)

const (
	SourceScan  = "scan"
	SourceAdmin = "admin"
)

// ParkingSession is one vehicle's parking interval at a lot.
type ParkingSession struct {
	ID              string        `bson:"id" json:"id"`
	VehicleID       string        `bson:"vehicleId" json:"vehicleId"`
	OwnerID         string        `bson:"ownerId" json:"ownerId"`
	PlateNumber     string        `bson:"plateNumber" json:"plateNumber"`
	LotID           string        `bson:"lotId" json:"lotId"`
	RateType        RateType      `bson:"rateType" json:"rateType"`
	Rate            ParkingRate   `bson:"rate" json:"rate"` // Snapshot taken at check-in.
	EntryTime       time.Time     `bson:"entryTime" json:"entryTime"`
	ExitTime        *time.Time    `bson:"exitTime,omitempty" json:"exitTime,omitempty"`
	DurationMinutes int           `bson:"durationMinutes" json:"durationMinutes"`
	Charge          float64       `bson:"charge" json:"charge"`
	Status          SessionStatus `bson:"status" json:"status"`
	InvoiceID       string        `bson:"invoiceId,omitempty" json:"invoiceId,omitempty"`
	EntrySource     string        `bson:"entrySource" json:"entrySource"`
	ExitSource      string        `bson:"exitSource,omitempty" json:"exitSource,omitempty"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Active reports whether the session is still checked in.
func (s ParkingSession) Active() bool {
	return s.Status == SessionCheckedIn
}

// SessionFilter narrows session listings. Empty fields are ignored.
type SessionFilter struct {
	LotID     string        `form:"lotId"`
	VehicleID string        `form:"vehicleId"`
	OwnerID   string        `form:"-"`
	Status    SessionStatus `form:"status"`
	Limit     int64         `form:"limit"`
}

// CheckInRequest is used by admins to check a vehicle in manually.
type CheckInRequest struct {
	VehicleID string   `json:"vehicleId" binding:"required"`
	LotID     string   `json:"lotId" binding:"required"`
	RateType  RateType `json:"rateType,omitempty"`
}

// CheckOutRequest is used by admins to check a session out manually.
type CheckOutRequest struct {
	ExitTime *time.Time `json:"exitTime,omitempty"`
}

// Gate identifies which side of a lot a scanner sits on.
type Gate string

const (
	GateEntry Gate = "entry"
	GateExit  Gate = "exit"
	GateAny   Gate = ""
)

// ScanRequest is what a gate scanner posts after decoding a QR code.
type ScanRequest struct {
	Payload string `json:"payload" binding:"required"`
	Gate    Gate   `json:"gate"`
}

type ScanAction string

const (
	ScanCheckedIn  ScanAction = "checked_in"
	ScanCheckedOut ScanAction = "checked_out"
)

// ScanResult reports which transition a scan triggered.
type ScanResult struct {
	Action  ScanAction      `json:"action"`
	Session *ParkingSession `json:"session"`
	Invoice *Invoice        `json:"invoice,omitempty"`
}

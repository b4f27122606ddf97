package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleDriver = "driver"
)

// User is a driver or administrator account. ID is the identity provider UID.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name,omitempty"`
	Phone     string    `bson:"phone" json:"phone,omitempty"`
	Role      string    `bson:"role" json:"role"`
	FCMToken  string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type ProfileInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

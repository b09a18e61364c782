// models/user.go
package models

import (
	"time"
)

// User types issued by the marketplace backend.
const (
	UserTypeCustomer = "customer"
	UserTypeVendor   = "vendor"
	UserTypeAdmin    = "admin"
)

// User model
type User struct {
	ID              string     `json:"_id,omitempty" bson:"_id,omitempty"`
	FirstName       string     `json:"firstName" bson:"firstName"`
	LastName        string     `json:"lastName" bson:"lastName"`
	Email           string     `json:"email" bson:"email"`
	PhoneNumber     string     `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	UserType        string     `json:"userType" bson:"userType"`
	Status          string     `json:"status,omitempty" bson:"status,omitempty"` // "pending", "approved", "rejected"
	BusinessName    string     `json:"businessName,omitempty" bson:"businessName,omitempty"`
	BusinessAddress string     `json:"businessAddress,omitempty" bson:"businessAddress,omitempty"`
	BusinessContact string     `json:"businessContact,omitempty" bson:"businessContact,omitempty"`
	CreatedAt       *time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// AwaitingApproval reports whether a vendor account is still waiting for an admin.
func (u User) AwaitingApproval() bool {
	return u.UserType == UserTypeVendor && u.Status == StatusPending
}

// ProfileUpdate is the body of PUT /user/profile.
type ProfileUpdate struct {
	FirstName       string `json:"firstName" validate:"notblank"`
	LastName        string `json:"lastName" validate:"notblank"`
	PhoneNumber     string `json:"phoneNumber" validate:"notblank"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	BusinessName    string `json:"businessName,omitempty"`
	BusinessAddress string `json:"businessAddress,omitempty"`
	BusinessContact string `json:"businessContact,omitempty"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Ack is the plain {message} body the backend answers many calls with.
type Ack struct {
	Message string `json:"message"`
}

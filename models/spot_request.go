package models

import (
	"time"
)

// Request and listing statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// UpdateType names the mutation a spot request proposes.
type UpdateType string

const (
	UpdateTypeCreate UpdateType = "create"
	UpdateTypeUpdate UpdateType = "update"
	UpdateTypeDelete UpdateType = "delete"
)

// SpotRequest is a pending create/update/delete proposal awaiting moderation.
type SpotRequest struct {
	ID              string       `json:"_id" bson:"_id"`
	VendorID        string       `json:"vendorId,omitempty" bson:"vendorId,omitempty"`
	UpdateType      UpdateType   `json:"updateType,omitempty" bson:"updateType,omitempty"`
	OriginalSpotID  string       `json:"originalSpotId,omitempty" bson:"originalSpotId,omitempty"`
	SpotDetails     *SpotDetails `json:"spotDetails,omitempty" bson:"spotDetails,omitempty"`
	Status          string       `json:"status" bson:"status"` // casing is not guaranteed by the backend
	RejectionReason string       `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	CreatedAt       *time.Time   `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt       *time.Time   `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// SpotSubmission is the flattened body of POST /vendor/spot-requests.
type SpotSubmission struct {
	SpotDetails
	UpdateType     UpdateType `json:"updateType"`
	OriginalSpotID string     `json:"originalSpotId,omitempty"`
}

// DeleteSubmission is the body of POST /vendor/spot-requests/delete/:spotId.
type DeleteSubmission struct {
	OriginalSpotID string     `json:"originalSpotId"`
	UpdateType     UpdateType `json:"updateType"`
}

// Decision is the body of PUT /admin/spot-requests/:id.
type Decision struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// RejectRequest is what the console accepts when an admin declines a request.
type RejectRequest struct {
	Reason string `json:"reason"`
}

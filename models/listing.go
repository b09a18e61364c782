package models

// Listing is one row of a vendor's "my listings" view. Approved spots and
// pending requests are both normalized to this shape; RequestID is always the
// id an edit or delete must address.
type Listing struct {
	SpotDetails
	ID             string     `json:"_id,omitempty"`
	VendorID       string     `json:"vendorId,omitempty"`
	Status         string     `json:"status"`
	RequestID      string     `json:"requestId"`
	UpdateType     UpdateType `json:"updateType,omitempty"`
	OriginalSpotID string     `json:"originalSpotId,omitempty"`
}

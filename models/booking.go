// models/booking.go
package models

import (
	"time"
)

// Booking and payment statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
)

// BookedSpot is the subset of a spot the backend populates on a booking.
type BookedSpot struct {
	ID       string  `json:"_id" bson:"_id"`
	Name     string  `json:"name" bson:"name"`
	Location string  `json:"location" bson:"location"`
	Price    float64 `json:"price" bson:"price"`
}

// Booking model
type Booking struct {
	ID              string      `json:"_id" bson:"_id"`
	CampingSpot     *BookedSpot `json:"campingSpot,omitempty" bson:"campingSpot,omitempty"`
	UserID          string      `json:"userId,omitempty" bson:"userId,omitempty"`
	CheckInDate     time.Time   `json:"checkInDate" bson:"checkInDate"`
	CheckOutDate    time.Time   `json:"checkOutDate" bson:"checkOutDate"`
	GuestCount      int         `json:"guestCount" bson:"guestCount"`
	SpecialRequests string      `json:"specialRequests,omitempty" bson:"specialRequests,omitempty"`
	TotalAmount     float64     `json:"totalAmount" bson:"totalAmount"`
	Status          string      `json:"status" bson:"status"`               // "pending", "confirmed", "cancelled"
	PaymentStatus   string      `json:"paymentStatus" bson:"paymentStatus"` // "pending", "paid"
	CreatedAt       *time.Time  `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
}

// BookingRequest is what the console accepts from a customer.
type BookingRequest struct {
	CampingSpotID   string    `json:"campingSpotId" validate:"required"`
	CheckInDate     time.Time `json:"checkInDate" validate:"required"`
	CheckOutDate    time.Time `json:"checkOutDate" validate:"required"`
	GuestCount      int       `json:"guestCount" validate:"gte=1"`
	SpecialRequests string    `json:"specialRequests,omitempty"`
}

// BookingPayload is the body of POST /bookings.
type BookingPayload struct {
	CampingSpotID   string  `json:"campingSpotId"`
	CheckInDate     string  `json:"checkInDate"`
	CheckOutDate    string  `json:"checkOutDate"`
	GuestCount      int     `json:"guestCount"`
	SpecialRequests string  `json:"specialRequests"`
	TotalAmount     float64 `json:"totalAmount"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`
}

type PaymentDetails struct {
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// CreateBookingResponse is returned by POST /bookings.
type CreateBookingResponse struct {
	BookingID      string         `json:"bookingId"`
	PaymentDetails PaymentDetails `json:"paymentDetails"`
	Booking        *Booking       `json:"booking,omitempty"`
}

// PaymentConfirmation carries the gateway's fields. They are passed through
// opaque, flattened next to orderId.
type PaymentConfirmation struct {
	OrderID string                 `json:"orderId" validate:"required"`
	Details map[string]interface{} `json:"paymentDetails,omitempty"`
}

// Body flattens the confirmation into the shape the backend expects.
func (p PaymentConfirmation) Body() map[string]interface{} {
	body := make(map[string]interface{}, len(p.Details)+1)
	for k, v := range p.Details {
		body[k] = v
	}
	body["orderId"] = p.OrderID
	return body
}

type Pagination struct {
	CurrentPage   int `json:"currentPage"`
	TotalPages    int `json:"totalPages"`
	TotalBookings int `json:"totalBookings"`
}

// BookingsPage is one page of GET /bookings.
type BookingsPage struct {
	Bookings   []Booking  `json:"bookings"`
	Pagination Pagination `json:"pagination"`
}

// QuoteRequest asks for the price of a stay.
type QuoteRequest struct {
	CampingSpotID string    `json:"campingSpotId" validate:"required"`
	CheckInDate   time.Time `json:"checkInDate" validate:"required"`
	CheckOutDate  time.Time `json:"checkOutDate" validate:"required"`
}

// Quote is the priced stay. Total is a decimal string so no float rounding
// reaches the UI.
type Quote struct {
	CampingSpotID string `json:"campingSpotId"`
	Nights        int    `json:"nights"`
	PricePerNight string `json:"pricePerNight"`
	Total         string `json:"total"`
}

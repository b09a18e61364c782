package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/HSouheill/campspot_console/models"
	"github.com/HSouheill/campspot_console/store"
)

const (
	defaultBookingsPage  = 1
	defaultBookingsLimit = 10
)

// BookingBackend is the slice of the marketplace API for bookings.
type BookingBackend interface {
	ListSpots(ctx context.Context) ([]models.Spot, error)
	ListBookings(ctx context.Context, page, limit int) (*models.BookingsPage, error)
	CreateBooking(ctx context.Context, payload models.BookingPayload) (*models.CreateBookingResponse, error)
	ConfirmPayment(ctx context.Context, conf models.PaymentConfirmation) (*models.Ack, error)
}

type BookingService struct {
	backend BookingBackend
	store   *store.Store
	logger  *logrus.Logger
}

func NewBookingService(backend BookingBackend, st *store.Store, logger *logrus.Logger) *BookingService {
	return &BookingService{backend: backend, store: st, logger: logger}
}

// Nights counts whole days between check-in and check-out. Partial days are
// dropped.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// Quote prices a stay at spot: whole nights times the nightly price.
func Quote(spot models.Spot, checkIn, checkOut time.Time) (models.Quote, error) {
	if !checkOut.After(checkIn) {
		return models.Quote{}, invalid("check-out must be after check-in")
	}
	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		return models.Quote{}, invalid("a stay must be at least one night")
	}
	if spot.MinimumNights > 0 && nights < spot.MinimumNights {
		return models.Quote{}, invalid("this spot requires at least %d nights", spot.MinimumNights)
	}

	price := decimal.NewFromFloat(spot.Price)
	total := price.Mul(decimal.NewFromInt(int64(nights))).Round(2)
	return models.Quote{
		CampingSpotID: spot.ID,
		Nights:        nights,
		PricePerNight: price.StringFixed(2),
		Total:         total.StringFixed(2),
	}, nil
}

// spot finds a spot in the cached catalogue, reloading it once on a miss.
func (s *BookingService) spot(ctx context.Context, id string) (models.Spot, error) {
	if spot, ok := s.store.Spot(id); ok {
		return spot, nil
	}
	spots, err := s.backend.ListSpots(ctx)
	if err != nil {
		return models.Spot{}, errors.Wrap(err, "list camping spots")
	}
	s.store.SetSpots(spots)
	if spot, ok := s.store.Spot(id); ok {
		return spot, nil
	}
	return models.Spot{}, ErrUnknownSpot
}

func (s *BookingService) Quote(ctx context.Context, req models.QuoteRequest) (models.Quote, error) {
	spot, err := s.spot(ctx, req.CampingSpotID)
	if err != nil {
		return models.Quote{}, err
	}
	return Quote(spot, req.CheckInDate, req.CheckOutDate)
}

// Create books a stay. The total is computed here, never taken from the
// client.
func (s *BookingService) Create(ctx context.Context, req models.BookingRequest) (*models.CreateBookingResponse, error) {
	spot, err := s.spot(ctx, req.CampingSpotID)
	if err != nil {
		return nil, err
	}
	if req.GuestCount < 1 {
		return nil, invalid("at least one guest is required")
	}
	if spot.MaxGuests > 0 && req.GuestCount > spot.MaxGuests {
		return nil, invalid("Max guests: %d", spot.MaxGuests)
	}

	quote, err := Quote(spot, req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}
	total, _ := decimal.RequireFromString(quote.Total).Float64()

	payload := models.BookingPayload{
		CampingSpotID:   spot.ID,
		CheckInDate:     req.CheckInDate.UTC().Format(time.RFC3339),
		CheckOutDate:    req.CheckOutDate.UTC().Format(time.RFC3339),
		GuestCount:      req.GuestCount,
		SpecialRequests: req.SpecialRequests,
		TotalAmount:     total,
		Status:          models.BookingStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
	}

	resp, err := s.backend.CreateBooking(ctx, payload)
	if err != nil {
		return nil, err
	}

	booking := models.Booking{
		ID:              resp.BookingID,
		CampingSpot:     &models.BookedSpot{ID: spot.ID, Name: spot.Name, Location: spot.Location, Price: spot.Price},
		CheckInDate:     req.CheckInDate,
		CheckOutDate:    req.CheckOutDate,
		GuestCount:      req.GuestCount,
		SpecialRequests: req.SpecialRequests,
		TotalAmount:     total,
		Status:          models.BookingStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
	}
	if resp.Booking != nil {
		booking = *resp.Booking
	}
	s.store.PrependBooking(booking)

	s.logger.WithFields(logrus.Fields{
		"booking_id": resp.BookingID,
		"spot_id":    spot.ID,
		"nights":     quote.Nights,
	}).Info("Booking created")
	return resp, nil
}

// List loads one page of the customer's bookings. Zero values fall back to
// page 1 of 10.
func (s *BookingService) List(ctx context.Context, page, limit int) (*models.BookingsPage, error) {
	if page < 1 {
		page = defaultBookingsPage
	}
	if limit < 1 {
		limit = defaultBookingsLimit
	}
	out, err := s.backend.ListBookings(ctx, page, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list bookings")
	}
	s.store.SetBookings(*out)
	return out, nil
}

func (s *BookingService) ConfirmPayment(ctx context.Context, conf models.PaymentConfirmation) (*models.Ack, error) {
	if conf.OrderID == "" {
		return nil, invalid("orderId is required")
	}
	ack, err := s.backend.ConfirmPayment(ctx, conf)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("order_id", conf.OrderID).Info("Payment confirmed")
	return ack, nil
}

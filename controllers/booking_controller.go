package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/campspot_console/models"
)

// BookingAPI is the customer booking flow.
type BookingAPI interface {
	Quote(ctx context.Context, req models.QuoteRequest) (models.Quote, error)
	Create(ctx context.Context, req models.BookingRequest) (*models.CreateBookingResponse, error)
	List(ctx context.Context, page, limit int) (*models.BookingsPage, error)
	ConfirmPayment(ctx context.Context, conf models.PaymentConfirmation) (*models.Ack, error)
}

type BookingController struct {
	bookings BookingAPI
}

func NewBookingController(bookings BookingAPI) *BookingController {
	return &BookingController{bookings: bookings}
}

// GetUserBookings returns one page of the customer's bookings
func (c *BookingController) GetUserBookings(ctx echo.Context) error {
	// bad or missing values fall back to the defaults
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))

	out, err := c.bookings.List(ctx.Request().Context(), page, limit)
	if err != nil {
		return fail(ctx, err, "load bookings")
	}
	return respond(ctx, http.StatusOK, "Bookings retrieved successfully", out)
}

// Quote prices a stay without booking it
func (c *BookingController) Quote(ctx echo.Context) error {
	var req models.QuoteRequest
	if err := bind(ctx, &req); err != nil {
		return fail(ctx, err, "price the stay")
	}
	quote, err := c.bookings.Quote(ctx.Request().Context(), req)
	if err != nil {
		return fail(ctx, err, "price the stay")
	}
	return respond(ctx, http.StatusOK, "Quote calculated", quote)
}

// CreateBooking books a stay and returns the payment order
func (c *BookingController) CreateBooking(ctx echo.Context) error {
	var req models.BookingRequest
	if err := bind(ctx, &req); err != nil {
		return fail(ctx, err, "create the booking")
	}
	resp, err := c.bookings.Create(ctx.Request().Context(), req)
	if err != nil {
		return fail(ctx, err, "create the booking")
	}
	return respond(ctx, http.StatusCreated, "Booking created successfully", resp)
}

func (c *BookingController) ConfirmPayment(ctx echo.Context) error {
	var conf models.PaymentConfirmation
	if err := bind(ctx, &conf); err != nil {
		return fail(ctx, err, "confirm the payment")
	}
	ack, err := c.bookings.ConfirmPayment(ctx.Request().Context(), conf)
	if err != nil {
		return fail(ctx, err, "confirm the payment")
	}
	return respond(ctx, http.StatusOK, firstNonEmpty(ack.Message, "Payment confirmed"), nil)
}

package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/campspot_console/controllers"
	"github.com/HSouheill/campspot_console/middleware"
	"github.com/HSouheill/campspot_console/models"
)

// RegisterBookingRoutes sets up the customer booking flow
func RegisterBookingRoutes(e *echo.Echo, sess middleware.SessionState, bookingController *controllers.BookingController) {
	bookings := e.Group("/api/bookings", middleware.RequireUserType(sess, models.UserTypeCustomer))
	bookings.GET("", bookingController.GetUserBookings)
	bookings.POST("", bookingController.CreateBooking)
	bookings.POST("/quote", bookingController.Quote)
	bookings.POST("/confirm-payment", bookingController.ConfirmPayment)
}

package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/campspot_console/controllers"
	"github.com/HSouheill/campspot_console/middleware"
	"github.com/HSouheill/campspot_console/websocket"
)

// Controllers bundles every handler the console exposes.
type Controllers struct {
	Auth       *controllers.AuthController
	Spots      *controllers.SpotController
	Moderation *controllers.ModerationController
	Users      *controllers.UserController
	Bookings   *controllers.BookingController
}

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, sess middleware.SessionState, ctrl Controllers, hub *websocket.Hub, wsOrigins []string) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/api/ws", websocket.Handler(hub, wsOrigins))

	RegisterAuthRoutes(e, sess, ctrl.Auth)
	RegisterSpotRoutes(e, sess, ctrl.Spots)
	RegisterAdminRoutes(e, sess, ctrl.Spots, ctrl.Moderation, ctrl.Users)
	RegisterBookingRoutes(e, sess, ctrl.Bookings)
}

package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/campspot_console/controllers"
	"github.com/HSouheill/campspot_console/middleware"
	"github.com/HSouheill/campspot_console/models"
)

// RegisterSpotRoutes sets up the public catalogue and the vendor listings
func RegisterSpotRoutes(e *echo.Echo, sess middleware.SessionState, spotController *controllers.SpotController) {
	e.GET("/api/spots", spotController.ListSpots)

	vendor := e.Group("/api/vendor/listings")
	vendor.GET("", spotController.ListListings, middleware.RequireUserType(sess, models.UserTypeVendor))
	vendor.POST("", spotController.CreateListing, middleware.RequireUserType(sess, models.UserTypeVendor, models.UserTypeAdmin))
	vendor.PUT("/:requestId", spotController.UpdateListing, middleware.RequireUserType(sess, models.UserTypeVendor, models.UserTypeAdmin))
	vendor.DELETE("/:requestId", spotController.DeleteListing, middleware.RequireUserType(sess, models.UserTypeVendor))
}

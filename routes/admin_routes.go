package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/campspot_console/controllers"
	"github.com/HSouheill/campspot_console/middleware"
	"github.com/HSouheill/campspot_console/models"
)

// RegisterAdminRoutes sets up moderation, spot management and user management
func RegisterAdminRoutes(e *echo.Echo, sess middleware.SessionState, spotController *controllers.SpotController, moderationController *controllers.ModerationController, userController *controllers.UserController) {
	admin := e.Group("/api/admin", middleware.RequireUserType(sess, models.UserTypeAdmin))

	admin.GET("/moderation", moderationController.Queue)

	admin.GET("/requests", moderationController.ListRequests)
	admin.POST("/requests/:id/approve", moderationController.Approve)
	admin.POST("/requests/:id/reject", moderationController.Reject)

	admin.GET("/spots", spotController.ListSpots)
	admin.PUT("/spots/:id", spotController.UpdateSpot)
	admin.DELETE("/spots/:id", spotController.DeleteSpot)

	admin.GET("/users", userController.ListUsers)
	admin.GET("/users/pending", userController.ListPendingUsers)
	admin.DELETE("/users/:id", userController.DeleteUser)
	admin.POST("/users/:id/approve", userController.ApproveUser)
	admin.POST("/users/:id/reject", userController.RejectUser)
}

package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/campspot_console/controllers"
	"github.com/HSouheill/campspot_console/middleware"
)

// RegisterAuthRoutes sets up the session and account routes
func RegisterAuthRoutes(e *echo.Echo, sess middleware.SessionState, authController *controllers.AuthController) {
	auth := e.Group("/api/auth")

	// Public authentication routes
	auth.POST("/login", authController.Login)
	auth.POST("/logout", authController.Logout)
	auth.POST("/register", authController.Register)
	auth.POST("/otp/send", authController.SendOTP)
	auth.POST("/otp/verify", authController.VerifyOTP)
	auth.POST("/password/code", authController.SendResetCode)
	auth.POST("/password/reset", authController.ResetPassword)
	auth.GET("/me", authController.Me)

	auth.PUT("/profile", authController.UpdateProfile, middleware.RequireSession(sess))
}

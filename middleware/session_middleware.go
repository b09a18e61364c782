package middleware

import (
	"net/http"

	"github.com/HSouheill/campspot_console/models"
	"github.com/labstack/echo/v4"
)

// SessionState is the part of the console session the guards read.
type SessionState interface {
	Authenticated() bool
	UserType() string
}

// RequireSession rejects requests while nobody is signed in to the console.
func RequireSession(sess SessionState) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !sess.Authenticated() {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Not signed in",
				})
			}
			return next(c)
		}
	}
}

// RequireUserType checks that the signed-in user has one of the allowed user types
func RequireUserType(sess SessionState, allowedTypes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !sess.Authenticated() {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Not signed in",
				})
			}

			userType := sess.UserType()
			for _, allowedType := range allowedTypes {
				if userType == allowedType {
					return next(c)
				}
			}

			c.Logger().Warnf("Access denied for user type: %s, allowed types: %v", userType, allowedTypes)
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for your user type",
			})
		}
	}
}

package middleware

import (
	"time"

	"github.com/HSouheill/campspot_console/services"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// RequestLogger tags each request with an id, carries it into the request
// context for outgoing marketplace calls and logs the outcome.
func RequestLogger(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			c.SetRequest(req.WithContext(services.WithRequestID(req.Context(), id)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			entry := logger.WithFields(logrus.Fields{
				"request_id": id,
				"method":     req.Method,
				"path":       c.Path(),
				"status":     c.Response().Status,
				"latency":    time.Since(start).String(),
				"remote_ip":  c.RealIP(),
			})
			switch status := c.Response().Status; {
			case status >= 500:
				entry.Error("request failed")
			case status >= 400:
				entry.Warn("request rejected")
			default:
				entry.Info("request handled")
			}
			return nil
		}
	}
}

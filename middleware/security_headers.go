// middleware/security_headers.go
package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

type SecurityConfig struct {
	// ConnectSources are added to connect-src, e.g. the marketplace API.
	ConnectSources []string
}

func SecurityHeaders(config SecurityConfig) echo.MiddlewareFunc {
	csp := buildCSP(config)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-XSS-Protection", "1; mode=block")
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
			h.Set("Content-Security-Policy", csp)
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

			h.Del("Server")
			h.Del("X-Powered-By")

			return next(c)
		}
	}
}

func buildCSP(config SecurityConfig) string {
	csp := []string{
		"default-src 'self'",
		"img-src 'self' data: https:",
		"style-src 'self' 'unsafe-inline'",
		"script-src 'self'",
	}
	connect := "connect-src 'self'"
	if len(config.ConnectSources) > 0 {
		connect += " " + strings.Join(config.ConnectSources, " ")
	}
	csp = append(csp, connect)

	return strings.Join(csp, "; ")
}

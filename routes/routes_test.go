package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/HSouheill/campspot_console/controllers"
	"github.com/HSouheill/campspot_console/websocket"
)

type fakeSession struct {
	authenticated bool
	userType      string
}

func (f fakeSession) Authenticated() bool { return f.authenticated }
func (f fakeSession) UserType() string    { return f.userType }

func newServer(sess fakeSession) *echo.Echo {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	e := echo.New()
	SetupRoutes(e, sess, Controllers{
		Auth:       controllers.NewAuthController(nil),
		Spots:      controllers.NewSpotController(nil),
		Moderation: controllers.NewModerationController(nil, nil),
		Users:      controllers.NewUserController(nil),
		Bookings:   controllers.NewBookingController(nil),
	}, websocket.NewHub(logger), nil)
	return e
}

func status(e *echo.Echo, method, path string) int {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec.Code
}

func TestHealth(t *testing.T) {
	assert.Equal(t, http.StatusOK, status(newServer(fakeSession{}), http.MethodGet, "/health"))
}

func TestGuards(t *testing.T) {
	const id = "65a1b2c3d4e5f60718293a4b"
	tests := []struct {
		name   string
		sess   fakeSession
		method string
		path   string
		want   int
	}{
		{"admin area signed out", fakeSession{}, http.MethodGet, "/api/admin/users", http.StatusUnauthorized},
		{"admin area as vendor", fakeSession{true, "vendor"}, http.MethodPost, "/api/admin/requests/" + id + "/approve", http.StatusForbidden},
		{"vendor listings as customer", fakeSession{true, "customer"}, http.MethodGet, "/api/vendor/listings", http.StatusForbidden},
		{"vendor delete as admin", fakeSession{true, "admin"}, http.MethodDelete, "/api/vendor/listings/" + id, http.StatusForbidden},
		{"bookings as vendor", fakeSession{true, "vendor"}, http.MethodGet, "/api/bookings", http.StatusForbidden},
		{"profile signed out", fakeSession{}, http.MethodPut, "/api/auth/profile", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status(newServer(tt.sess), tt.method, tt.path))
		})
	}
}

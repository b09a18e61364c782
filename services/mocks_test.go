package services

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/HSouheill/campspot_console/models"
)

const (
	spotID    = "64b7f0c2a1b2c3d4e5f60001"
	requestID = "64b7f0c2a1b2c3d4e5f60002"
	otherID   = "64b7f0c2a1b2c3d4e5f60003"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type identity string

func (i identity) UserType() string { return string(i) }

type notice struct {
	event   string
	payload interface{}
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (n *recordingNotifier) Publish(event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice{event: event, payload: payload})
}

func (n *recordingNotifier) events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.notices))
	for _, nt := range n.notices {
		out = append(out, nt.event)
	}
	return out
}

// MockBackend is a mock implementation of every backend interface.
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListSpots(ctx context.Context) ([]models.Spot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Spot), args.Error(1)
}

func (m *MockBackend) ListVendorSpots(ctx context.Context) ([]models.Spot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Spot), args.Error(1)
}

func (m *MockBackend) ListVendorRequests(ctx context.Context) ([]models.SpotRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.SpotRequest), args.Error(1)
}

func (m *MockBackend) ListRequests(ctx context.Context) ([]models.SpotRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.SpotRequest), args.Error(1)
}

func (m *MockBackend) CreateRequest(ctx context.Context, sub models.SpotSubmission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockBackend) UpdatePendingRequest(ctx context.Context, id string, details models.SpotDetails) error {
	args := m.Called(ctx, id, details)
	return args.Error(0)
}

func (m *MockBackend) DeletePendingRequest(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBackend) CreateDeleteRequest(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBackend) UpdateSpot(ctx context.Context, id string, details models.SpotDetails) error {
	args := m.Called(ctx, id, details)
	return args.Error(0)
}

func (m *MockBackend) DeleteSpot(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBackend) DecideRequest(ctx context.Context, id string, decision models.Decision) error {
	args := m.Called(ctx, id, decision)
	return args.Error(0)
}

func (m *MockBackend) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *MockBackend) ack(args mock.Arguments) (*models.Ack, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ack), args.Error(1)
}

func (m *MockBackend) Register(ctx context.Context, req models.SignupRequest) (*models.Ack, error) {
	return m.ack(m.Called(ctx, req))
}

func (m *MockBackend) SendOTP(ctx context.Context, email string) (*models.Ack, error) {
	return m.ack(m.Called(ctx, email))
}

func (m *MockBackend) VerifyOTP(ctx context.Context, email, code string) (*models.Ack, error) {
	return m.ack(m.Called(ctx, email, code))
}

func (m *MockBackend) SendResetCode(ctx context.Context, email string) (*models.Ack, error) {
	return m.ack(m.Called(ctx, email))
}

func (m *MockBackend) VerifyResetCode(ctx context.Context, email, code string) (*models.Ack, error) {
	return m.ack(m.Called(ctx, email, code))
}

func (m *MockBackend) ResetPassword(ctx context.Context, email, newPassword string) (*models.Ack, error) {
	return m.ack(m.Called(ctx, email, newPassword))
}

func (m *MockBackend) UpdateProfile(ctx context.Context, profile models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockBackend) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockBackend) ListPendingUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockBackend) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBackend) ApproveUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBackend) RejectUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBackend) ListBookings(ctx context.Context, page, limit int) (*models.BookingsPage, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingsPage), args.Error(1)
}

func (m *MockBackend) CreateBooking(ctx context.Context, payload models.BookingPayload) (*models.CreateBookingResponse, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreateBookingResponse), args.Error(1)
}

func (m *MockBackend) ConfirmPayment(ctx context.Context, conf models.PaymentConfirmation) (*models.Ack, error) {
	return m.ack(m.Called(ctx, conf))
}

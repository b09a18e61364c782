package services

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/HSouheill/campspot_console/models"
	"github.com/HSouheill/campspot_console/security"
	"github.com/HSouheill/campspot_console/utils"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	bearerPrefix        = "Bearer "
)

// Credentials is the part of the session the client needs: the current token,
// and a way to expire it when the backend rejects it.
type Credentials interface {
	Token() string
	Expire(ctx context.Context, token string) bool
}

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Debug   bool
}

// MarketplaceClient talks to the marketplace REST backend. Every call goes
// through the same two hooks: one attaches the bearer token, the other is the
// single place an unauthorized response logs the session out.
type MarketplaceClient struct {
	http   *resty.Client
	creds  Credentials
	logger *logrus.Logger
}

func NewMarketplaceClient(cfg ClientConfig, creds Credentials, logger *logrus.Logger) *MarketplaceClient {
	c := &MarketplaceClient{
		creds:  creds,
		logger: logger,
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c.http = resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetLogger(logger).
		SetDebug(cfg.Debug).
		OnRequestLog(redactRequestLog).
		OnResponseLog(redactResponseLog).
		OnBeforeRequest(c.beforeRequest).
		OnAfterResponse(c.afterResponse)

	return c
}

// The debug dump would otherwise print the bearer token.
func redactRequestLog(rl *resty.RequestLog) error {
	rl.Header = security.RedactHeaders(rl.Header)
	return nil
}

func redactResponseLog(rl *resty.ResponseLog) error {
	rl.Header = security.RedactHeaders(rl.Header)
	return nil
}

type anonymousKey struct{}

func (c *MarketplaceClient) beforeRequest(_ *resty.Client, r *resty.Request) error {
	anonymous, _ := r.Context().Value(anonymousKey{}).(bool)
	if token := c.creds.Token(); token != "" && !anonymous {
		r.SetHeader(headerAuthorization, bearerPrefix+token)
	}
	id, ok := RequestIDFrom(r.Context())
	if !ok {
		id = uuid.NewString()
	}
	r.SetHeader(headerRequestID, id)
	return nil
}

func (c *MarketplaceClient) afterResponse(_ *resty.Client, resp *resty.Response) error {
	c.logger.WithFields(logrus.Fields{
		"method":     resp.Request.Method,
		"url":        resp.Request.URL,
		"status":     resp.StatusCode(),
		"request_id": resp.Request.Header.Get(headerRequestID),
		"duration":   resp.Time().String(),
		"headers":    security.RedactHeaders(resp.Request.Header),
	}).Debug("Marketplace call completed")

	if resp.StatusCode() != http.StatusUnauthorized {
		return nil
	}
	token := sentToken(resp.Request)
	if token == "" {
		return nil
	}
	if c.creds.Expire(context.Background(), token) {
		c.logger.WithField("request_id", resp.Request.Header.Get(headerRequestID)).
			Warn("Marketplace backend rejected the session, logging out")
	}
	return nil
}

func sentToken(r *resty.Request) string {
	return strings.TrimPrefix(r.Header.Get(headerAuthorization), bearerPrefix)
}

type call struct {
	method string
	path   string
	// auth calls fail locally when there is no session; anonymous calls
	// never carry the token.
	auth      bool
	anonymous bool
	body      interface{}
	query     map[string]string
	out       interface{}
}

func (c *MarketplaceClient) do(ctx context.Context, cl call) error {
	if cl.auth && c.creds.Token() == "" {
		return ErrUnauthorized
	}

	if cl.anonymous {
		ctx = context.WithValue(ctx, anonymousKey{}, true)
	}
	req := c.http.R().SetContext(ctx)
	if cl.body != nil {
		req.SetBody(cl.body)
	}
	if len(cl.query) > 0 {
		req.SetQueryParams(cl.query)
	}

	resp, err := req.Execute(cl.method, cl.path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errors.Wrapf(ErrTransport, "%s %s: %v", cl.method, cl.path, err)
	}

	if resp.StatusCode() == http.StatusUnauthorized && sentToken(resp.Request) != "" {
		return ErrUnauthorized
	}
	if resp.IsError() || resp.StatusCode() >= http.StatusMultipleChoices {
		return &APIError{Status: resp.StatusCode(), Message: errorMessage(resp)}
	}

	body := bytes.TrimSpace(resp.Body())
	if cl.out == nil || len(body) == 0 {
		return nil
	}
	if !json.Valid(body) {
		return errors.Errorf("decode %s %s: response is not JSON", cl.method, cl.path)
	}
	if err := json.Unmarshal(body, cl.out); err != nil {
		return errors.Wrapf(err, "decode %s %s", cl.method, cl.path)
	}
	return nil
}

// errorMessage pulls the backend's text out of an error body.
func errorMessage(resp *resty.Response) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return http.StatusText(resp.StatusCode())
}

func checkID(id string) error {
	if !utils.ValidObjectID(id) {
		return errors.Wrapf(ErrInvalidID, "%q", id)
	}
	return nil
}

// Camping spots

func (c *MarketplaceClient) ListSpots(ctx context.Context) ([]models.Spot, error) {
	var spots []models.Spot
	err := c.do(ctx, call{method: http.MethodGet, path: "/camping-spots", out: &spots})
	return spots, err
}

func (c *MarketplaceClient) ListVendorSpots(ctx context.Context) ([]models.Spot, error) {
	var spots []models.Spot
	err := c.do(ctx, call{method: http.MethodGet, path: "/camping-spots/vendor", auth: true, out: &spots})
	return spots, err
}

// Spot requests

func (c *MarketplaceClient) ListVendorRequests(ctx context.Context) ([]models.SpotRequest, error) {
	var requests []models.SpotRequest
	err := c.do(ctx, call{method: http.MethodGet, path: "/vendor/spot-requests", auth: true, out: &requests})
	return requests, err
}

// ListRequests returns every request regardless of status. The backend has
// no pending filter.
func (c *MarketplaceClient) ListRequests(ctx context.Context) ([]models.SpotRequest, error) {
	var requests []models.SpotRequest
	err := c.do(ctx, call{method: http.MethodGet, path: "/admin/spot-requests", auth: true, out: &requests})
	return requests, err
}

// CreateRequest files a create or update request.
func (c *MarketplaceClient) CreateRequest(ctx context.Context, sub models.SpotSubmission) error {
	if sub.OriginalSpotID != "" {
		if err := checkID(sub.OriginalSpotID); err != nil {
			return err
		}
	}
	return c.do(ctx, call{method: http.MethodPost, path: "/vendor/spot-requests", auth: true, body: sub})
}

func (c *MarketplaceClient) UpdatePendingRequest(ctx context.Context, requestID string, details models.SpotDetails) error {
	if err := checkID(requestID); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodPut, path: "/vendor/spot-requests/" + requestID, auth: true, body: details})
}

func (c *MarketplaceClient) DeletePendingRequest(ctx context.Context, requestID string) error {
	if err := checkID(requestID); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodDelete, path: "/vendor/spot-requests/" + requestID, auth: true})
}

func (c *MarketplaceClient) CreateDeleteRequest(ctx context.Context, spotID string) error {
	if err := checkID(spotID); err != nil {
		return err
	}
	body := models.DeleteSubmission{OriginalSpotID: spotID, UpdateType: models.UpdateTypeDelete}
	return c.do(ctx, call{method: http.MethodPost, path: "/vendor/spot-requests/delete/" + spotID, auth: true, body: body})
}

func (c *MarketplaceClient) UpdateSpot(ctx context.Context, spotID string, details models.SpotDetails) error {
	if err := checkID(spotID); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodPut, path: "/admin/spot-requests/spot/" + spotID, auth: true, body: details})
}

func (c *MarketplaceClient) DeleteSpot(ctx context.Context, spotID string) error {
	if err := checkID(spotID); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodDelete, path: "/admin/spot-requests/spot/" + spotID, auth: true})
}

func (c *MarketplaceClient) DecideRequest(ctx context.Context, requestID string, decision models.Decision) error {
	if err := checkID(requestID); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodPut, path: "/admin/spot-requests/" + requestID, auth: true, body: decision})
}

// Users

func (c *MarketplaceClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/user/login", anonymous: true, body: req, out: &resp}); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *MarketplaceClient) Register(ctx context.Context, req models.SignupRequest) (*models.Ack, error) {
	return c.ack(ctx, call{method: http.MethodPost, path: "/user/register", anonymous: true, body: req})
}

func (c *MarketplaceClient) SendOTP(ctx context.Context, email string) (*models.Ack, error) {
	return c.ack(ctx, call{method: http.MethodPost, path: "/user/send-otp", anonymous: true, body: models.OTPRequest{Email: email}})
}

func (c *MarketplaceClient) VerifyOTP(ctx context.Context, email, code string) (*models.Ack, error) {
	return c.ack(ctx, call{method: http.MethodPost, path: "/user/verify-otp", anonymous: true, body: models.OTPRequest{Email: email, Code: code}})
}

func (c *MarketplaceClient) SendResetCode(ctx context.Context, email string) (*models.Ack, error) {
	return c.ack(ctx, call{method: http.MethodPost, path: "/user/auth/forgot-password/send-code", anonymous: true, body: map[string]string{"email": email}})
}

func (c *MarketplaceClient) VerifyResetCode(ctx context.Context, email, code string) (*models.Ack, error) {
	body := map[string]string{"email": email, "code": code}
	return c.ack(ctx, call{method: http.MethodPost, path: "/user/auth/forgot-password/verify-code", anonymous: true, body: body})
}

func (c *MarketplaceClient) ResetPassword(ctx context.Context, email, newPassword string) (*models.Ack, error) {
	body := map[string]string{"email": email, "newPassword": newPassword}
	return c.ack(ctx, call{method: http.MethodPost, path: "/user/auth/forgot-password/reset", anonymous: true, body: body})
}

func (c *MarketplaceClient) UpdateProfile(ctx context.Context, profile models.ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, call{method: http.MethodPut, path: "/user/profile", auth: true, body: profile, out: &user}); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *MarketplaceClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, call{method: http.MethodGet, path: "/user/all-users", auth: true, out: &users})
	return users, err
}

func (c *MarketplaceClient) ListPendingUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, call{method: http.MethodGet, path: "/user/pending-users", auth: true, out: &users})
	return users, err
}

func (c *MarketplaceClient) DeleteUser(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodDelete, path: "/user/" + id, auth: true})
}

func (c *MarketplaceClient) ApproveUser(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodPost, path: "/user/approve/" + id, auth: true})
}

func (c *MarketplaceClient) RejectUser(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodPost, path: "/user/reject/" + id, auth: true})
}

// Bookings

func (c *MarketplaceClient) ListBookings(ctx context.Context, page, limit int) (*models.BookingsPage, error) {
	var out models.BookingsPage
	query := map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/bookings", auth: true, query: query, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *MarketplaceClient) CreateBooking(ctx context.Context, payload models.BookingPayload) (*models.CreateBookingResponse, error) {
	var out models.CreateBookingResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/bookings", auth: true, body: payload, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *MarketplaceClient) ConfirmPayment(ctx context.Context, conf models.PaymentConfirmation) (*models.Ack, error) {
	return c.ack(ctx, call{method: http.MethodPost, path: "/bookings/confirm-payment", auth: true, body: conf.Body()})
}

func (c *MarketplaceClient) ack(ctx context.Context, cl call) (*models.Ack, error) {
	var out models.Ack
	cl.out = &out
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	return &out, nil
}

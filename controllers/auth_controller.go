package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/campspot_console/models"
	"github.com/HSouheill/campspot_console/services"
)

// AuthAPI is the auth workflow the controller drives.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*services.LoginResult, error)
	Logout(ctx context.Context) bool
	Me() (models.User, bool)
	Register(ctx context.Context, req models.SignupRequest) (*models.Ack, error)
	SendOTP(ctx context.Context, email string) (*models.Ack, error)
	VerifyOTP(ctx context.Context, email, code string) (*models.Ack, error)
	SendResetCode(ctx context.Context, email string) (*models.Ack, error)
	ResetPassword(ctx context.Context, req models.PasswordResetRequest) (*models.Ack, error)
	UpdateProfile(ctx context.Context, profile models.ProfileUpdate) (*models.User, error)
}

// AuthController contains authentication logic
type AuthController struct {
	auth AuthAPI
}

func NewAuthController(auth AuthAPI) *AuthController {
	return &AuthController{auth: auth}
}

// Login signs the console in to the marketplace
func (c *AuthController) Login(ctx echo.Context) error {
	var req models.LoginRequest
	if err := bind(ctx, &req); err != nil {
		return fail(ctx, err, "log in")
	}

	result, err := c.auth.Login(ctx.Request().Context(), req)
	if err != nil {
		return fail(ctx, err, "log in")
	}

	message := "Login successful"
	if result.AwaitingApproval {
		message = "Your vendor account is awaiting approval"
	}
	return respond(ctx, http.StatusOK, message, result)
}

func (c *AuthController) Logout(ctx echo.Context) error {
	c.auth.Logout(ctx.Request().Context())
	return respond(ctx, http.StatusOK, "Logged out", nil)
}

// Me returns the signed-in user
func (c *AuthController) Me(ctx echo.Context) error {
	user, ok := c.auth.Me()
	if !ok {
		return respond(ctx, http.StatusUnauthorized, "Not signed in", nil)
	}
	return respond(ctx, http.StatusOK, "User retrieved successfully", user)
}

func (c *AuthController) Register(ctx echo.Context) error {
	var req models.SignupRequest
	if err := bind(ctx, &req); err != nil {
		return fail(ctx, err, "register")
	}
	ack, err := c.auth.Register(ctx.Request().Context(), req)
	if err != nil {
		return fail(ctx, err, "register")
	}
	return respond(ctx, http.StatusCreated, firstNonEmpty(ack.Message, "Registration successful"), nil)
}

func (c *AuthController) SendOTP(ctx echo.Context) error {
	var req models.OTPRequest
	if err := bind(ctx, &req); err != nil {
		return fail(ctx, err, "send the code")
	}
	ack, err := c.auth.SendOTP(ctx.Request().Context(), req.Email)
	if err != nil {
		return fail(ctx, err, "send the code")
	}
	return respond(ctx, http.StatusOK, firstNonEmpty(ack.Message, "Code sent"), nil)
}

func (c *AuthController) VerifyOTP(ctx echo.Context) error {
	var req models.OTPRequest
	if err := bind(ctx, &req); err != nil {
		return fail(ctx, err, "verify the code")
	}
	ack, err := c.auth.VerifyOTP(ctx.Request().Context(), req.Email, req.Code)
	if err != nil {
		return fail(ctx, err, "verify the code")
	}
	return respond(ctx, http.StatusOK, firstNonEmpty(ack.Message, "Code verified"), nil)
}

// SendResetCode starts a password reset
func (c *AuthController) SendResetCode(ctx echo.Context) error {
	var req models.OTPRequest
	if err := bind(ctx, &req); err != nil {
		return fail(ctx, err, "send the reset code")
	}
	ack, err := c.auth.SendResetCode(ctx.Request().Context(), req.Email)
	if err != nil {
		return fail(ctx, err, "send the reset code")
	}
	return respond(ctx, http.StatusOK, firstNonEmpty(ack.Message, "Reset code sent"), nil)
}

func (c *AuthController) ResetPassword(ctx echo.Context) error {
	var req models.PasswordResetRequest
	if err := bind(ctx, &req); err != nil {
		return fail(ctx, err, "reset the password")
	}
	ack, err := c.auth.ResetPassword(ctx.Request().Context(), req)
	if err != nil {
		return fail(ctx, err, "reset the password")
	}
	return respond(ctx, http.StatusOK, firstNonEmpty(ack.Message, "Password reset successfully"), nil)
}

func (c *AuthController) UpdateProfile(ctx echo.Context) error {
	var profile models.ProfileUpdate
	if err := bind(ctx, &profile); err != nil {
		return fail(ctx, err, "update the profile")
	}
	user, err := c.auth.UpdateProfile(ctx.Request().Context(), profile)
	if err != nil {
		return fail(ctx, err, "update the profile")
	}
	return respond(ctx, http.StatusOK, "Profile updated successfully", user)
}

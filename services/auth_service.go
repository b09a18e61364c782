package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/HSouheill/campspot_console/models"
	"github.com/HSouheill/campspot_console/session"
	"github.com/HSouheill/campspot_console/utils"
)

// AuthBackend is the slice of the marketplace API that deals with accounts.
type AuthBackend interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.SignupRequest) (*models.Ack, error)
	SendOTP(ctx context.Context, email string) (*models.Ack, error)
	VerifyOTP(ctx context.Context, email, code string) (*models.Ack, error)
	SendResetCode(ctx context.Context, email string) (*models.Ack, error)
	VerifyResetCode(ctx context.Context, email, code string) (*models.Ack, error)
	ResetPassword(ctx context.Context, email, newPassword string) (*models.Ack, error)
	UpdateProfile(ctx context.Context, profile models.ProfileUpdate) (*models.User, error)
}

// AttemptCounter limits how often a code can be tried for one email.
type AttemptCounter interface {
	Allow(ctx context.Context, name string) (bool, error)
	Reset(ctx context.Context, name string) error
}

// AuthService owns the session lifecycle: login fills it, logout and an
// expired token clear it.
type AuthService struct {
	backend  AuthBackend
	session  *session.Session
	attempts AttemptCounter
	logger   *logrus.Logger
}

func NewAuthService(backend AuthBackend, sess *session.Session, logger *logrus.Logger) *AuthService {
	return &AuthService{backend: backend, session: sess, logger: logger}
}

// LimitAttempts caps code verifications per email. Without it verification
// is unlimited.
func (s *AuthService) LimitAttempts(counter AttemptCounter) {
	s.attempts = counter
}

// attempt counts one verification of name. A counter that cannot be reached
// lets the attempt through.
func (s *AuthService) attempt(ctx context.Context, name string) error {
	if s.attempts == nil {
		return nil
	}
	ok, err := s.attempts.Allow(ctx, name)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to count verification attempt")
		return nil
	}
	if !ok {
		return ErrTooManyAttempts
	}
	return nil
}

func (s *AuthService) attemptSucceeded(ctx context.Context, name string) {
	if s.attempts == nil {
		return
	}
	if err := s.attempts.Reset(ctx, name); err != nil {
		s.logger.WithError(err).Warn("Failed to reset verification attempts")
	}
}

// LoginResult is what the console reports after a login.
type LoginResult struct {
	User             models.User `json:"user"`
	UserType         string      `json:"userType"`
	AwaitingApproval bool        `json:"awaitingApproval"`
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	req.Email = email

	resp, err := s.backend.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("login response carried no token")
	}

	creds := session.Credentials{Token: resp.Token, User: resp.User, UserType: resp.User.UserType}
	if err := s.session.Set(ctx, creds); err != nil {
		// the session works for this run; it just won't survive a restart
		s.logger.WithError(err).Warn("Failed to persist session")
	}

	s.logger.WithField("user_type", resp.User.UserType).Info("User logged in")
	return &LoginResult{
		User:             resp.User,
		UserType:         s.session.UserType(),
		AwaitingApproval: resp.User.AwaitingApproval(),
	}, nil
}

// Logout clears the session. It reports whether anyone was logged in.
func (s *AuthService) Logout(ctx context.Context) bool {
	return s.session.Clear(ctx)
}

// Restore brings back a persisted, unexpired session.
func (s *AuthService) Restore(ctx context.Context) (bool, error) {
	return s.session.Restore(ctx)
}

// Me returns the logged-in user, if any.
func (s *AuthService) Me() (models.User, bool) {
	if !s.session.Authenticated() {
		return models.User{}, false
	}
	return s.session.User(), true
}

func (s *AuthService) Register(ctx context.Context, req models.SignupRequest) (*models.Ack, error) {
	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	req.Email = email
	req.FirstName = utils.SanitizeInput(req.FirstName)
	req.LastName = utils.SanitizeInput(req.LastName)
	if req.PhoneNumber, err = utils.SanitizePhone(req.PhoneNumber); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	return s.backend.Register(ctx, req)
}

func (s *AuthService) SendOTP(ctx context.Context, email string) (*models.Ack, error) {
	email, err := utils.SanitizeEmail(email)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	return s.backend.SendOTP(ctx, email)
}

func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*models.Ack, error) {
	email, err := utils.SanitizeEmail(email)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, invalid("verification code is required")
	}
	if err := s.attempt(ctx, "otp:"+email); err != nil {
		return nil, err
	}
	ack, err := s.backend.VerifyOTP(ctx, email, code)
	if err != nil {
		return nil, err
	}
	s.attemptSucceeded(ctx, "otp:"+email)
	return ack, nil
}

func (s *AuthService) SendResetCode(ctx context.Context, email string) (*models.Ack, error) {
	email, err := utils.SanitizeEmail(email)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	return s.backend.SendResetCode(ctx, email)
}

// ResetPassword verifies the emailed code and then sets the new password.
// A failed verification stops before the reset call.
func (s *AuthService) ResetPassword(ctx context.Context, req models.PasswordResetRequest) (*models.Ack, error) {
	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if err := s.attempt(ctx, "reset:"+email); err != nil {
		return nil, err
	}
	if _, err := s.backend.VerifyResetCode(ctx, email, strings.TrimSpace(req.Code)); err != nil {
		return nil, errors.Wrap(err, "verify reset code")
	}
	s.attemptSucceeded(ctx, "reset:"+email)
	return s.backend.ResetPassword(ctx, email, req.NewPassword)
}

// UpdateProfile saves the profile and refreshes the user held by the session.
func (s *AuthService) UpdateProfile(ctx context.Context, profile models.ProfileUpdate) (*models.User, error) {
	profile.FirstName = utils.SanitizeInput(profile.FirstName)
	profile.LastName = utils.SanitizeInput(profile.LastName)
	phone, err := utils.SanitizePhone(profile.PhoneNumber)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	profile.PhoneNumber = phone

	token := s.session.Token()
	user, err := s.backend.UpdateProfile(ctx, profile)
	if err != nil {
		return nil, err
	}

	if user.ID != "" {
		if _, err := s.session.UpdateUser(ctx, token, *user); err != nil {
			s.logger.WithError(err).Warn("Failed to persist updated profile")
		}
	}
	return user, nil
}

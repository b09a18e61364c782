// Package session holds the console's application context: who is logged in
// and with which bearer token. It is the one place that state is cleared.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/HSouheill/campspot_console/models"
)

// Reason says why a session was cleared.
type Reason int

const (
	// ReasonLogout is a user-initiated logout.
	ReasonLogout Reason = iota
	// ReasonExpired is the backend rejecting the credential.
	ReasonExpired
)

func (r Reason) String() string {
	if r == ReasonExpired {
		return "expired"
	}
	return "logout"
}

// Credentials is what survives a restart.
type Credentials struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	UserType  string      `json:"userType"`
	ExpiresAt time.Time   `json:"expiresAt,omitempty"`
}

// Store persists credentials between runs.
type Store interface {
	Save(ctx context.Context, creds Credentials) error
	// Load returns nil and no error when nothing is stored.
	Load(ctx context.Context) (*Credentials, error)
	Delete(ctx context.Context) error
}

// Session is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	creds     Credentials
	store     Store
	listeners []func(Reason)
	logger    *logrus.Logger
	now       func() time.Time
}

// New creates an empty session. store may be nil, in which case nothing is
// persisted.
func New(store Store, logger *logrus.Logger) *Session {
	return &Session{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// OnClear registers fn to run after every clear. Listeners run outside the
// session lock, once per clear.
func (s *Session) OnClear(fn func(Reason)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Set replaces the current credentials and persists them. The in-memory
// session is updated even when persisting fails.
func (s *Session) Set(ctx context.Context, creds Credentials) error {
	if creds.Token == "" {
		return errors.New("session token is empty")
	}
	if creds.UserType == "" {
		creds.UserType = creds.User.UserType
	}
	if creds.ExpiresAt.IsZero() {
		if claims, err := ParseClaims(creds.Token); err == nil && claims.ExpiresAt > 0 {
			creds.ExpiresAt = time.Unix(claims.ExpiresAt, 0)
		}
	}

	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	return errors.Wrap(s.store.Save(ctx, creds), "persist session")
}

// UpdateUser replaces the profile of the session that holds token. It does
// nothing and returns false when that session has since been cleared or
// replaced. The save happens under the lock so a concurrent clear cannot be
// undone by it.
func (s *Session) UpdateUser(ctx context.Context, token string, user models.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" || s.creds.Token != token {
		return false, nil
	}
	s.creds.User = user
	if s.store == nil {
		return true, nil
	}
	return true, errors.Wrap(s.store.Save(ctx, s.creds), "persist session")
}

// Snapshot returns a copy of the current credentials.
func (s *Session) Snapshot() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Token
}

func (s *Session) UserType() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.UserType
}

func (s *Session) User() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.User
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Clear logs the user out. It returns false when there was nothing to clear.
func (s *Session) Clear(ctx context.Context) bool {
	return s.clear(ctx, ReasonLogout, func(Credentials) bool { return true })
}

// Expire clears the session only if token is still the current one, so a
// burst of unauthorized responses for the same token logs out once.
func (s *Session) Expire(ctx context.Context, token string) bool {
	return s.clear(ctx, ReasonExpired, func(current Credentials) bool {
		return token != "" && current.Token == token
	})
}

func (s *Session) clear(ctx context.Context, reason Reason, match func(Credentials) bool) bool {
	s.mu.Lock()
	if s.creds.Token == "" || !match(s.creds) {
		s.mu.Unlock()
		return false
	}
	userType := s.creds.UserType
	s.creds = Credentials{}
	listeners := make([]func(Reason), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Delete(ctx); err != nil {
			s.logger.WithError(err).Warn("Failed to remove persisted session")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"reason":    reason.String(),
		"user_type": userType,
	}).Info("Session cleared")

	for _, fn := range listeners {
		fn(reason)
	}
	return true
}

// Restore loads persisted credentials. Credentials whose token has expired
// are discarded. It reports whether a session was restored.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, nil
	}

	creds, err := s.store.Load(ctx)
	if err != nil {
		return false, errors.Wrap(err, "load persisted session")
	}
	if creds == nil || creds.Token == "" {
		return false, nil
	}

	if expired(*creds, s.now()) {
		s.logger.Info("Persisted session has expired, discarding it")
		if err := s.store.Delete(ctx); err != nil {
			s.logger.WithError(err).Warn("Failed to remove expired session")
		}
		return false, nil
	}

	if creds.UserType == "" {
		creds.UserType = creds.User.UserType
	}

	s.mu.Lock()
	s.creds = *creds
	s.mu.Unlock()
	return true, nil
}

func expired(creds Credentials, now time.Time) bool {
	if !creds.ExpiresAt.IsZero() {
		return !now.Before(creds.ExpiresAt)
	}
	claims, err := ParseClaims(creds.Token)
	if err != nil {
		// opaque tokens carry no expiry; let the backend decide
		return false
	}
	return claims.ExpiredAt(now)
}

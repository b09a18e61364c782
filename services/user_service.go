package services

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/HSouheill/campspot_console/models"
	"github.com/HSouheill/campspot_console/store"
)

// UserBackend is the slice of the marketplace API for account moderation.
type UserBackend interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListPendingUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ApproveUser(ctx context.Context, id string) error
	RejectUser(ctx context.Context, id string) error
}

type UserService struct {
	backend UserBackend
	spots   *SpotService
	store   *store.Store
	logger  *logrus.Logger
}

func NewUserService(backend UserBackend, spots *SpotService, st *store.Store, logger *logrus.Logger) *UserService {
	return &UserService{backend: backend, spots: spots, store: st, logger: logger}
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	s.store.SetUsers(users)
	return s.store.Users(), nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.backend.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.store.RemoveUser(id)
	s.logger.WithField("user_id", id).Info("User deleted")
	return nil
}

func (s *UserService) ListPendingUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.backend.ListPendingUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list pending users")
	}
	s.store.SetPendingUsers(users)
	return s.store.PendingUsers(), nil
}

func (s *UserService) ApproveUser(ctx context.Context, id string) error {
	if err := s.backend.ApproveUser(ctx, id); err != nil {
		return err
	}
	s.store.RemovePendingUser(id)
	s.logger.WithField("user_id", id).Info("Vendor account approved")
	return nil
}

func (s *UserService) RejectUser(ctx context.Context, id string) error {
	if err := s.backend.RejectUser(ctx, id); err != nil {
		return err
	}
	s.store.RemovePendingUser(id)
	s.logger.WithField("user_id", id).Info("Vendor account rejected")
	return nil
}

// ModerationQueue is the admin's combined queue. Each half loads on its own;
// a failure of one is reported next to the other's data.
type ModerationQueue struct {
	PendingUsers  []models.User        `json:"pendingUsers"`
	Requests      []models.SpotRequest `json:"requests"`
	UsersError    string               `json:"usersError,omitempty"`
	RequestsError string               `json:"requestsError,omitempty"`
}

// LoadModerationQueue fetches pending users and pending spot requests
// concurrently. It fails only when both halves fail.
func (s *UserService) LoadModerationQueue(ctx context.Context) (*ModerationQueue, error) {
	var (
		wg          sync.WaitGroup
		q           ModerationQueue
		usersErr    error
		requestsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		q.PendingUsers, usersErr = s.ListPendingUsers(ctx)
	}()
	go func() {
		defer wg.Done()
		q.Requests, requestsErr = s.spots.RefreshPending(ctx)
	}()
	wg.Wait()

	if usersErr != nil {
		s.logger.WithError(usersErr).Warn("Failed to load pending users")
		q.UsersError = "Failed to load pending users"
		q.PendingUsers = []models.User{}
	}
	if requestsErr != nil {
		s.logger.WithError(requestsErr).Warn("Failed to load pending spot requests")
		q.RequestsError = "Failed to load pending spot requests"
		q.Requests = []models.SpotRequest{}
	}
	if usersErr != nil && requestsErr != nil {
		// an expired session explains both failures
		if errors.Is(usersErr, ErrUnauthorized) {
			return nil, usersErr
		}
		return nil, requestsErr
	}
	return &q, nil
}

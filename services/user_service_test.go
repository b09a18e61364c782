package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/campspot_console/models"
	"github.com/HSouheill/campspot_console/store"
)

func newUserService() (*UserService, *MockBackend, *store.Store) {
	backend := new(MockBackend)
	st := store.New()
	spots := NewSpotService(backend, identity(models.UserTypeAdmin), st, nil, testLogger())
	return NewUserService(backend, spots, st, testLogger()), backend, st
}

func TestModerationQueue_ToleratesOneFailure(t *testing.T) {
	svc, backend, _ := newUserService()
	backend.On("ListPendingUsers", mock.Anything).Return([]models.User(nil), errors.New("boom")).Once()
	backend.On("ListRequests", mock.Anything).Return([]models.SpotRequest{
		{ID: "r1", Status: "PENDING"},
		{ID: "r2", Status: "approved"},
	}, nil).Once()

	q, err := svc.LoadModerationQueue(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, q.UsersError)
	assert.Empty(t, q.RequestsError)
	assert.Empty(t, q.PendingUsers)
	require.Len(t, q.Requests, 1)
	assert.Equal(t, "r1", q.Requests[0].ID)
}

func TestModerationQueue_BothFail(t *testing.T) {
	svc, backend, _ := newUserService()
	backend.On("ListPendingUsers", mock.Anything).Return([]models.User(nil), ErrUnauthorized).Once()
	backend.On("ListRequests", mock.Anything).Return([]models.SpotRequest(nil), ErrUnauthorized).Once()

	_, err := svc.LoadModerationQueue(context.Background())

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestApproveUser_RemovesFromPending(t *testing.T) {
	svc, backend, st := newUserService()
	st.SetPendingUsers([]models.User{{ID: "u1"}, {ID: "u2"}})
	backend.On("ApproveUser", mock.Anything, "u1").Return(nil).Once()
	backend.On("RejectUser", mock.Anything, "u2").Return(errors.New("boom")).Once()

	require.NoError(t, svc.ApproveUser(context.Background(), "u1"))
	assert.Error(t, svc.RejectUser(context.Background(), "u2"))

	assert.Equal(t, []models.User{{ID: "u2"}}, st.PendingUsers())
}

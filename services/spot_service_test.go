package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/campspot_console/lifecycle"
	"github.com/HSouheill/campspot_console/models"
	"github.com/HSouheill/campspot_console/store"
)

func validDetails(name string) models.SpotDetails {
	return models.SpotDetails{Name: name, Location: "Ehden", Description: "Pine forest pitch", Price: 35}
}

func newSpotService(userType string) (*SpotService, *MockBackend, *store.Store, *recordingNotifier) {
	backend := new(MockBackend)
	st := store.New()
	notifier := &recordingNotifier{}
	return NewSpotService(backend, identity(userType), st, notifier, testLogger()), backend, st, notifier
}

func expectVendorRefresh(backend *MockBackend) {
	backend.On("ListVendorSpots", mock.Anything).Return([]models.Spot{}, nil).Maybe()
	backend.On("ListVendorRequests", mock.Anything).Return([]models.SpotRequest{}, nil).Maybe()
}

func TestSubmit_VendorPendingUpdatesSameRequest(t *testing.T) {
	svc, backend, st, notifier := newSpotService(models.UserTypeVendor)
	st.SetListings([]models.Listing{{
		SpotDetails: validDetails("Old name"),
		Status:      "pending",
		RequestID:   requestID,
		UpdateType:  models.UpdateTypeCreate,
	}})

	backend.On("UpdatePendingRequest", mock.Anything, requestID, validDetails("New name")).Return(nil).Once()
	expectVendorRefresh(backend)

	op, err := svc.Submit(context.Background(), requestID, validDetails("New name"))

	require.NoError(t, err)
	assert.Equal(t, lifecycle.OpUpdatePendingRequest, op.Kind)
	backend.AssertExpectations(t)
	backend.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
	backend.AssertNotCalled(t, "UpdateSpot", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, []string{lifecycle.NoticeSubmitted}, notifier.events())
}

func TestSubmit_VendorApprovedCreatesUpdateRequest(t *testing.T) {
	svc, backend, st, _ := newSpotService(models.UserTypeVendor)
	st.SetListings([]models.Listing{{ID: spotID, Status: "approved", RequestID: spotID}})

	backend.On("CreateRequest", mock.Anything, mock.MatchedBy(func(sub models.SpotSubmission) bool {
		return sub.UpdateType == models.UpdateTypeUpdate && sub.OriginalSpotID == spotID && sub.Name == "Edited"
	})).Return(nil).Once()
	expectVendorRefresh(backend)

	op, err := svc.Submit(context.Background(), spotID, validDetails("Edited"))

	require.NoError(t, err)
	assert.Equal(t, lifecycle.OpCreateUpdateRequest, op.Kind)
	assert.Equal(t, spotID, op.OriginalSpotID)
	backend.AssertExpectations(t)
}

func TestSubmit_NewListingCreatesRequest(t *testing.T) {
	svc, backend, _, _ := newSpotService(models.UserTypeVendor)

	backend.On("CreateRequest", mock.Anything, mock.MatchedBy(func(sub models.SpotSubmission) bool {
		return sub.UpdateType == models.UpdateTypeCreate && sub.OriginalSpotID == ""
	})).Return(nil).Once()
	expectVendorRefresh(backend)

	op, err := svc.Submit(context.Background(), "", validDetails("Brand new"))

	require.NoError(t, err)
	assert.Equal(t, lifecycle.OpCreateRequest, op.Kind)
	backend.AssertExpectations(t)
}

func TestSubmit_AdminEditsDirectly(t *testing.T) {
	svc, backend, st, notifier := newSpotService(models.UserTypeAdmin)
	st.SetSpots([]models.Spot{{ID: spotID, SpotDetails: validDetails("Live")}})

	backend.On("UpdateSpot", mock.Anything, spotID, validDetails("Admin edit")).Return(nil).Once()
	backend.On("ListSpots", mock.Anything).Return([]models.Spot{{ID: spotID, SpotDetails: validDetails("Admin edit")}}, nil).Once()

	op, err := svc.Submit(context.Background(), spotID, validDetails("Admin edit"))

	require.NoError(t, err)
	assert.Equal(t, lifecycle.OpDirectSpotUpdate, op.Kind)
	backend.AssertExpectations(t)
	backend.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
	assert.Empty(t, notifier.events())

	spot, ok := st.Spot(spotID)
	require.True(t, ok)
	assert.Equal(t, "Admin edit", spot.Name)
}

func TestSubmit_RejectsInvalidForm(t *testing.T) {
	svc, backend, _, _ := newSpotService(models.UserTypeVendor)

	details := validDetails("   ")
	details.Price = 0
	_, err := svc.Submit(context.Background(), "", details)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "Name is required")
	backend.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
}

func TestSubmit_CustomerNotPermitted(t *testing.T) {
	svc, backend, _, _ := newSpotService(models.UserTypeCustomer)

	_, err := svc.Submit(context.Background(), "", validDetails("x"))

	assert.ErrorIs(t, err, lifecycle.ErrActorNotPermitted)
	backend.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
}

func TestSubmit_UnknownListing(t *testing.T) {
	svc, backend, _, _ := newSpotService(models.UserTypeVendor)
	backend.On("ListVendorSpots", mock.Anything).Return([]models.Spot{}, nil).Once()
	backend.On("ListVendorRequests", mock.Anything).Return([]models.SpotRequest{}, nil).Once()

	_, err := svc.Submit(context.Background(), otherID, validDetails("x"))
	assert.ErrorIs(t, err, ErrUnknownListing)

	_, err = svc.Submit(context.Background(), "not-an-id", validDetails("x"))
	assert.ErrorIs(t, err, ErrInvalidID)
	backend.AssertExpectations(t)
	backend.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
}

func TestSubmit_VendorEditLoadsListingsOnMiss(t *testing.T) {
	svc, backend, _, _ := newSpotService(models.UserTypeVendor)

	backend.On("ListVendorSpots", mock.Anything).
		Return([]models.Spot{{ID: spotID, SpotDetails: validDetails("Live")}}, nil)
	backend.On("ListVendorRequests", mock.Anything).Return([]models.SpotRequest{}, nil)
	backend.On("CreateRequest", mock.Anything, mock.MatchedBy(func(sub models.SpotSubmission) bool {
		return sub.UpdateType == models.UpdateTypeUpdate && sub.OriginalSpotID == spotID
	})).Return(nil).Once()

	op, err := svc.Submit(context.Background(), spotID, validDetails("Edited"))

	require.NoError(t, err)
	assert.Equal(t, lifecycle.OpCreateUpdateRequest, op.Kind)
	backend.AssertExpectations(t)
}

func TestSubmit_RefreshFailureOnMissIsReturned(t *testing.T) {
	svc, backend, _, _ := newSpotService(models.UserTypeVendor)

	backend.On("ListVendorSpots", mock.Anything).Return([]models.Spot(nil), ErrTransport).Once()
	backend.On("ListVendorRequests", mock.Anything).Return([]models.SpotRequest{}, nil).Maybe()

	_, err := svc.Submit(context.Background(), spotID, validDetails("Edited"))

	assert.ErrorIs(t, err, ErrTransport)
	backend.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
}

func TestDelete_AdminLoadsCatalogueOnMiss(t *testing.T) {
	svc, backend, st, _ := newSpotService(models.UserTypeAdmin)

	backend.On("ListSpots", mock.Anything).Return([]models.Spot{{ID: spotID, SpotDetails: validDetails("Live")}}, nil).Once()
	backend.On("DeleteSpot", mock.Anything, spotID).Return(nil).Once()

	op, err := svc.Delete(context.Background(), spotID)

	require.NoError(t, err)
	assert.Equal(t, lifecycle.OpDirectSpotDelete, op.Kind)
	_, ok := st.Spot(spotID)
	assert.False(t, ok)
	backend.AssertExpectations(t)
}

func TestSubmit_DistinctNewListingsDoNotCancelEachOther(t *testing.T) {
	svc, backend, _, _ := newSpotService(models.UserTypeVendor)

	lakesideCtx := make(chan context.Context, 1)
	release := make(chan struct{})
	backend.On("CreateRequest", mock.Anything, mock.MatchedBy(func(sub models.SpotSubmission) bool {
		return sub.Name == "Lakeside"
	})).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			lakesideCtx <- ctx
			select {
			case <-ctx.Done():
			case <-release:
			}
		}).
		Return(nil).Once()
	backend.On("CreateRequest", mock.Anything, mock.MatchedBy(func(sub models.SpotSubmission) bool {
		return sub.Name == "Forest"
	})).Return(nil).Once()
	expectVendorRefresh(backend)

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), "", validDetails("Lakeside"))
		firstErr <- err
	}()

	var ctx context.Context
	select {
	case ctx = <-lakesideCtx:
	case <-time.After(2 * time.Second):
		t.Fatal("first submit never reached the backend")
	}

	_, err := svc.Submit(context.Background(), "", validDetails("Forest"))
	require.NoError(t, err)
	assert.NoError(t, ctx.Err(), "a second new listing must not cancel the first")
	close(release)

	select {
	case err := <-firstErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first submit never returned")
	}
	backend.AssertExpectations(t)
}

func TestDelete_ApprovedCreatesDeleteRequest(t *testing.T) {
	svc, backend, st, notifier := newSpotService(models.UserTypeVendor)
	approved := models.Spot{ID: spotID, SpotDetails: validDetails("Live")}
	st.SetListings([]models.Listing{{ID: spotID, Status: "approved", RequestID: spotID}})

	backend.On("CreateDeleteRequest", mock.Anything, spotID).Return(nil).Once()
	backend.On("ListVendorSpots", mock.Anything).Return([]models.Spot{approved}, nil).Once()
	backend.On("ListVendorRequests", mock.Anything).Return([]models.SpotRequest{{
		ID: requestID, Status: "pending", UpdateType: models.UpdateTypeDelete, OriginalSpotID: spotID,
	}}, nil).Once()

	op, err := svc.Delete(context.Background(), spotID)

	require.NoError(t, err)
	assert.Equal(t, lifecycle.OpCreateDeleteRequest, op.Kind)
	_, stillListed := st.Listing(spotID)
	assert.True(t, stillListed, "spot stays listed until the delete is approved")
	pendingRow, ok := st.Listing(requestID)
	require.True(t, ok)
	assert.Equal(t, lifecycle.PendingDelete(spotID, requestID), lifecycle.StateOf(pendingRow))
	assert.Equal(t, []string{lifecycle.NoticeSubmitted}, notifier.events())
	backend.AssertExpectations(t)
}

func TestDelete_PendingRemovedImmediately(t *testing.T) {
	svc, backend, st, _ := newSpotService(models.UserTypeVendor)
	st.SetListings([]models.Listing{
		{ID: spotID, Status: "approved", RequestID: spotID},
		{Status: "pending", RequestID: requestID, UpdateType: models.UpdateTypeCreate},
	})

	backend.On("DeletePendingRequest", mock.Anything, requestID).Return(nil).Once()

	op, err := svc.Delete(context.Background(), requestID)

	require.NoError(t, err)
	assert.Equal(t, lifecycle.OpDeletePendingRequest, op.Kind)
	_, ok := st.Listing(requestID)
	assert.False(t, ok)
	assert.Len(t, st.Listings(), 1)
	backend.AssertNotCalled(t, "ListVendorSpots", mock.Anything)
	backend.AssertExpectations(t)
}

func TestDelete_FailureLeavesListingsUnchanged(t *testing.T) {
	svc, backend, st, notifier := newSpotService(models.UserTypeVendor)
	before := []models.Listing{{Status: "pending", RequestID: requestID}}
	st.SetListings(before)

	backend.On("DeletePendingRequest", mock.Anything, requestID).
		Return(&APIError{Status: 500, Message: "boom"}).Once()

	_, err := svc.Delete(context.Background(), requestID)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, before, st.Listings())
	assert.Empty(t, notifier.events())
}

func TestRefreshVendorListings(t *testing.T) {
	svc, backend, st, _ := newSpotService(models.UserTypeVendor)

	backend.On("ListVendorSpots", mock.Anything).Return([]models.Spot{{ID: "a"}}, nil).Once()
	backend.On("ListVendorRequests", mock.Anything).Return([]models.SpotRequest{
		{ID: "r", Status: "Pending", SpotDetails: &models.SpotDetails{Name: "Draft"}},
		{ID: "old", Status: "rejected"},
	}, nil).Once()

	listings, err := svc.RefreshVendorListings(context.Background())

	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "a", listings[0].RequestID)
	assert.Equal(t, models.StatusApproved, listings[0].Status)
	assert.Equal(t, "r", listings[1].RequestID)
	assert.Equal(t, models.StatusPending, listings[1].Status)
	assert.Equal(t, listings, st.Listings())
}

func TestRefreshVendorListings_PartialFailureKeepsCache(t *testing.T) {
	svc, backend, st, _ := newSpotService(models.UserTypeVendor)
	previous := []models.Listing{{RequestID: "cached", Status: "approved"}}
	st.SetListings(previous)

	backend.On("ListVendorSpots", mock.Anything).Return([]models.Spot{{ID: "a"}}, nil).Once()
	backend.On("ListVendorRequests", mock.Anything).Return([]models.SpotRequest(nil), errors.New("timeout")).Once()

	_, err := svc.RefreshVendorListings(context.Background())

	assert.Error(t, err)
	assert.Equal(t, previous, st.Listings())
}

func TestRefreshPending_CaseInsensitive(t *testing.T) {
	svc, backend, st, _ := newSpotService(models.UserTypeAdmin)

	backend.On("ListRequests", mock.Anything).Return([]models.SpotRequest{
		{ID: "1", Status: "pending"},
		{ID: "2", Status: "PENDING"},
		{ID: "3", Status: "approved"},
		{ID: "4", Status: "Pending"},
	}, nil).Once()

	pending, err := svc.RefreshPending(context.Background())

	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Len(t, st.Pending(), 3)
}

func TestReject_BlankReasonDispatchesNothing(t *testing.T) {
	svc, backend, st, _ := newSpotService(models.UserTypeAdmin)
	st.SetPending([]models.SpotRequest{{ID: requestID, Status: "pending"}})

	err := svc.Reject(context.Background(), requestID, "   ")

	assert.ErrorIs(t, err, lifecycle.ErrRejectionReasonRequired)
	backend.AssertNotCalled(t, "DecideRequest", mock.Anything, mock.Anything, mock.Anything)
	assert.Len(t, st.Pending(), 1)
}

func TestReject_SendsReasonAndNotifies(t *testing.T) {
	svc, backend, st, notifier := newSpotService(models.UserTypeAdmin)
	st.SetPending([]models.SpotRequest{{ID: requestID, Status: "pending", UpdateType: models.UpdateTypeUpdate, OriginalSpotID: spotID}})

	backend.On("DecideRequest", mock.Anything, requestID, models.Decision{
		Status:          models.StatusRejected,
		RejectionReason: "Photos missing",
	}).Return(nil).Once()

	err := svc.Reject(context.Background(), requestID, " Photos missing ")

	require.NoError(t, err)
	assert.Empty(t, st.Pending())
	require.Equal(t, []string{lifecycle.NoticeDeclined}, notifier.events())
	n := notifier.notices[0].payload.(Notice)
	assert.Equal(t, "Photos missing", n.Reason)
	assert.Equal(t, spotID, n.SpotID)
	backend.AssertExpectations(t)
}

func TestApprove_RemovesExactlyOnce(t *testing.T) {
	svc, backend, st, notifier := newSpotService(models.UserTypeAdmin)
	st.SetPending([]models.SpotRequest{
		{ID: otherID, Status: "pending"},
		{ID: requestID, Status: "pending"},
	})

	backend.On("DecideRequest", mock.Anything, requestID, models.Decision{Status: models.StatusApproved}).Return(nil).Once()
	backend.On("ListRequests", mock.Anything).Return([]models.SpotRequest{
		{ID: otherID, Status: "pending"},
		{ID: requestID, Status: "approved"},
	}, nil)

	require.NoError(t, svc.Approve(context.Background(), requestID))
	assert.ErrorIs(t, svc.Approve(context.Background(), requestID), ErrUnknownRequest)

	pending := st.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, otherID, pending[0].ID)
	assert.Equal(t, []string{lifecycle.NoticeApproved}, notifier.events())
	backend.AssertNumberOfCalls(t, "DecideRequest", 1)
}

func TestApprove_FailureKeepsQueue(t *testing.T) {
	svc, backend, st, _ := newSpotService(models.UserTypeAdmin)
	st.SetPending([]models.SpotRequest{{ID: requestID, Status: "pending"}})

	backend.On("DecideRequest", mock.Anything, requestID, mock.Anything).Return(ErrTransport).Once()

	err := svc.Approve(context.Background(), requestID)

	assert.ErrorIs(t, err, ErrTransport)
	assert.Len(t, st.Pending(), 1)
}

func TestApprove_VendorNotPermitted(t *testing.T) {
	svc, backend, st, _ := newSpotService(models.UserTypeVendor)
	st.SetPending([]models.SpotRequest{{ID: requestID, Status: "pending"}})

	assert.ErrorIs(t, svc.Approve(context.Background(), requestID), lifecycle.ErrActorNotPermitted)
	backend.AssertNotCalled(t, "DecideRequest", mock.Anything, mock.Anything, mock.Anything)
}

func TestApprove_LoadsQueueOnMiss(t *testing.T) {
	svc, backend, st, notifier := newSpotService(models.UserTypeAdmin)

	backend.On("ListRequests", mock.Anything).Return([]models.SpotRequest{
		{ID: requestID, Status: "Pending", UpdateType: models.UpdateTypeCreate},
	}, nil).Once()
	backend.On("DecideRequest", mock.Anything, requestID, models.Decision{Status: models.StatusApproved}).Return(nil).Once()

	require.NoError(t, svc.Approve(context.Background(), requestID))

	assert.Empty(t, st.Pending())
	assert.Equal(t, []string{lifecycle.NoticeApproved}, notifier.events())
	backend.AssertExpectations(t)
}

func TestReject_UnknownAfterReloadDispatchesNothing(t *testing.T) {
	svc, backend, _, _ := newSpotService(models.UserTypeAdmin)

	backend.On("ListRequests", mock.Anything).Return([]models.SpotRequest{}, nil).Once()

	err := svc.Reject(context.Background(), requestID, "Photos missing")

	assert.ErrorIs(t, err, ErrUnknownRequest)
	backend.AssertNotCalled(t, "DecideRequest", mock.Anything, mock.Anything, mock.Anything)
	backend.AssertExpectations(t)
}

package services

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/HSouheill/campspot_console/lifecycle"
	"github.com/HSouheill/campspot_console/models"
	"github.com/HSouheill/campspot_console/store"
	"github.com/HSouheill/campspot_console/utils"
)

// SpotBackend is the slice of the marketplace API the spot workflow uses.
type SpotBackend interface {
	ListSpots(ctx context.Context) ([]models.Spot, error)
	ListVendorSpots(ctx context.Context) ([]models.Spot, error)
	ListVendorRequests(ctx context.Context) ([]models.SpotRequest, error)
	ListRequests(ctx context.Context) ([]models.SpotRequest, error)
	CreateRequest(ctx context.Context, sub models.SpotSubmission) error
	UpdatePendingRequest(ctx context.Context, requestID string, details models.SpotDetails) error
	DeletePendingRequest(ctx context.Context, requestID string) error
	CreateDeleteRequest(ctx context.Context, spotID string) error
	UpdateSpot(ctx context.Context, spotID string, details models.SpotDetails) error
	DeleteSpot(ctx context.Context, spotID string) error
	DecideRequest(ctx context.Context, requestID string, decision models.Decision) error
}

// Identity tells the workflow who is acting.
type Identity interface {
	UserType() string
}

// Notifier pushes one-off notices to connected UI clients.
type Notifier interface {
	Publish(event string, payload interface{})
}

// Notice is the payload of a lifecycle notification.
type Notice struct {
	RequestID string `json:"requestId,omitempty"`
	SpotID    string `json:"spotId,omitempty"`
	Operation string `json:"operation"`
	Reason    string `json:"reason,omitempty"`
}

type inflight struct {
	seq    uint64
	cancel context.CancelFunc
}

// SpotService runs the spot lifecycle against the backend and keeps the
// store in step. The store is only written after a call succeeds.
type SpotService struct {
	backend  SpotBackend
	identity Identity
	store    *store.Store
	notifier Notifier
	validate *validator.Validate
	logger   *logrus.Logger

	mu       sync.Mutex
	seq      uint64
	inflight map[string]inflight
}

func NewSpotService(backend SpotBackend, identity Identity, st *store.Store, notifier Notifier, logger *logrus.Logger) *SpotService {
	return &SpotService{
		backend:  backend,
		identity: identity,
		store:    st,
		notifier: notifier,
		validate: utils.NewValidator(),
		logger:   logger,
		inflight: make(map[string]inflight),
	}
}

func (s *SpotService) actor() lifecycle.Actor {
	return lifecycle.ActorFromUserType(s.identity.UserType())
}

// ListSpots fetches the public catalogue.
func (s *SpotService) ListSpots(ctx context.Context) ([]models.Spot, error) {
	spots, err := s.backend.ListSpots(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list camping spots")
	}
	s.store.SetSpots(spots)
	return s.store.Spots(), nil
}

// RefreshVendorListings rebuilds the vendor's "my listings" view from its two
// sources, fetched concurrently. If either fetch fails the whole view fails
// and the previous listings stay cached.
func (s *SpotService) RefreshVendorListings(ctx context.Context) ([]models.Listing, error) {
	var (
		approved []models.Spot
		requests []models.SpotRequest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		spots, err := s.backend.ListVendorSpots(gctx)
		if err != nil {
			return errors.Wrap(err, "list vendor spots")
		}
		approved = spots
		return nil
	})
	g.Go(func() error {
		reqs, err := s.backend.ListVendorRequests(gctx)
		if err != nil {
			return errors.Wrap(err, "list vendor requests")
		}
		requests = reqs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if dups := lifecycle.DuplicatePending(requests); len(dups) > 0 {
		s.logger.WithField("spot_ids", dups).Warn("More than one pending request outstanding for a spot")
	}

	listings := lifecycle.Merge(approved, requests)
	s.store.SetListings(listings)
	return listings, nil
}

// RefreshPending reloads the admin moderation queue.
func (s *SpotService) RefreshPending(ctx context.Context) ([]models.SpotRequest, error) {
	requests, err := s.backend.ListRequests(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list spot requests")
	}
	pending := lifecycle.ListPending(requests)
	s.store.SetPending(pending)
	return pending, nil
}

// stateFor resolves the lifecycle state of the entry an edit or delete
// addresses. An empty id means no spot is in context. A cache miss reloads
// the actor's view once before giving up.
func (s *SpotService) stateFor(ctx context.Context, actor lifecycle.Actor, id string) (lifecycle.State, error) {
	if id == "" {
		return lifecycle.None(), nil
	}
	if !utils.ValidObjectID(id) {
		return lifecycle.State{}, errors.Wrapf(ErrInvalidID, "%q", id)
	}
	if state, ok := s.cachedState(actor, id); ok {
		return state, nil
	}

	var err error
	if actor == lifecycle.ActorAdmin {
		_, err = s.ListSpots(ctx)
	} else {
		_, err = s.RefreshVendorListings(ctx)
	}
	if err != nil {
		return lifecycle.State{}, err
	}
	if state, ok := s.cachedState(actor, id); ok {
		return state, nil
	}
	return lifecycle.State{}, ErrUnknownListing
}

func (s *SpotService) cachedState(actor lifecycle.Actor, id string) (lifecycle.State, bool) {
	if l, ok := s.store.Listing(id); ok {
		return lifecycle.StateOf(l), true
	}
	// admins edit from the public catalogue, where every spot is live
	if actor == lifecycle.ActorAdmin {
		if _, ok := s.store.Spot(id); ok {
			return lifecycle.Approved(id), true
		}
	}
	return lifecycle.State{}, false
}

// Submit sends the spot form for the entry addressed by id (empty for a new
// listing). Which backend call it makes follows lifecycle.NextAction. A newer
// Submit for the same existing entry cancels one still in flight, which then
// returns ErrSuperseded. New listings are never sequenced against each other.
func (s *SpotService) Submit(ctx context.Context, id string, details models.SpotDetails) (lifecycle.Operation, error) {
	actor := s.actor()
	state, err := s.stateFor(ctx, actor, id)
	if err != nil {
		return lifecycle.Operation{}, err
	}

	op, err := lifecycle.NextAction(actor, lifecycle.Submit(), state)
	if err != nil {
		return lifecycle.Operation{}, err
	}

	utils.SanitizeSpotDetails(&details)
	if err := s.validate.Struct(details); err != nil {
		return lifecycle.Operation{}, &ValidationError{Message: utils.ValidationMessage(err)}
	}

	if id == "" {
		err = s.dispatchSubmit(ctx, op, details)
	} else {
		callCtx, seq := s.track(ctx, id)
		err = s.dispatchSubmit(callCtx, op, details)
		if superseded := s.finish(id, seq); superseded && err != nil {
			return lifecycle.Operation{}, ErrSuperseded
		}
	}
	if err != nil {
		return lifecycle.Operation{}, err
	}

	s.landed(actor, state, op)
	return op, nil
}

func (s *SpotService) dispatchSubmit(ctx context.Context, op lifecycle.Operation, details models.SpotDetails) error {
	switch op.Kind {
	case lifecycle.OpCreateRequest, lifecycle.OpCreateUpdateRequest:
		return s.backend.CreateRequest(ctx, models.SpotSubmission{
			SpotDetails:    details,
			UpdateType:     op.UpdateType,
			OriginalSpotID: op.OriginalSpotID,
		})
	case lifecycle.OpUpdatePendingRequest:
		return s.backend.UpdatePendingRequest(ctx, op.TargetID, details)
	case lifecycle.OpDirectSpotUpdate:
		return s.backend.UpdateSpot(ctx, op.TargetID, details)
	}
	return errors.Errorf("%s is not a submit operation", op.Kind)
}

// Delete removes the entry addressed by id. Approved spots get a moderated
// delete request; a pending-only entry is withdrawn at once and leaves the
// cached listings immediately.
func (s *SpotService) Delete(ctx context.Context, id string) (lifecycle.Operation, error) {
	if id == "" {
		return lifecycle.Operation{}, lifecycle.ErrNothingToDelete
	}

	actor := s.actor()
	state, err := s.stateFor(ctx, actor, id)
	if err != nil {
		return lifecycle.Operation{}, err
	}

	op, err := lifecycle.NextAction(actor, lifecycle.Delete(), state)
	if err != nil {
		return lifecycle.Operation{}, err
	}

	switch op.Kind {
	case lifecycle.OpDeletePendingRequest:
		err = s.backend.DeletePendingRequest(ctx, op.TargetID)
	case lifecycle.OpCreateDeleteRequest:
		err = s.backend.CreateDeleteRequest(ctx, op.TargetID)
	case lifecycle.OpDirectSpotDelete:
		err = s.backend.DeleteSpot(ctx, op.TargetID)
	default:
		err = errors.Errorf("%s is not a delete operation", op.Kind)
	}
	if err != nil {
		return lifecycle.Operation{}, err
	}

	switch op.Kind {
	case lifecycle.OpDeletePendingRequest:
		s.store.RemoveListing(id)
	case lifecycle.OpDirectSpotDelete:
		s.store.RemoveSpot(op.TargetID)
		s.store.RemoveListing(op.TargetID)
	}

	s.landed(actor, state, op)
	return op, nil
}

// Approve accepts a request from the moderation queue.
func (s *SpotService) Approve(ctx context.Context, requestID string) error {
	return s.decide(ctx, requestID, lifecycle.Approve())
}

// Reject declines a request. A blank reason is refused before any call is
// made and the queue is left untouched.
func (s *SpotService) Reject(ctx context.Context, requestID, reason string) error {
	return s.decide(ctx, requestID, lifecycle.Reject(reason))
}

func (s *SpotService) decide(ctx context.Context, requestID string, action lifecycle.Action) error {
	actor := s.actor()
	if actor != lifecycle.ActorAdmin {
		return lifecycle.ErrActorNotPermitted
	}

	req, ok := s.store.PendingRequest(requestID)
	if !ok {
		if _, err := s.RefreshPending(ctx); err != nil {
			return err
		}
		if req, ok = s.store.PendingRequest(requestID); !ok {
			return ErrUnknownRequest
		}
	}
	state := lifecycle.StateOfRequest(req)

	op, err := lifecycle.NextAction(actor, action, state)
	if err != nil {
		return err
	}

	decision := models.Decision{Status: models.StatusApproved}
	if op.Kind == lifecycle.OpRejectRequest {
		decision = models.Decision{Status: models.StatusRejected, RejectionReason: op.Reason}
	}
	if err := s.backend.DecideRequest(ctx, op.TargetID, decision); err != nil {
		return err
	}

	if s.store.RemovePending(requestID) {
		s.landed(actor, state, op)
	}
	return nil
}

// landed logs the transition, publishes its notice and refreshes whatever
// view the change affects. Refresh failures are logged, never returned: the
// mutation itself succeeded.
func (s *SpotService) landed(actor lifecycle.Actor, from lifecycle.State, op lifecycle.Operation) {
	fields := logrus.Fields{
		"operation": op.Kind.String(),
		"user_type": string(actor),
		"from":      from.Kind.String(),
	}
	if to, err := lifecycle.Next(from, op); err == nil {
		fields["to"] = to.Kind.String()
	}
	if op.TargetID != "" {
		fields["target_id"] = op.TargetID
	}
	s.logger.WithFields(fields).Info("Spot lifecycle operation completed")

	if tr, ok := lifecycle.TransitionFor(from.Kind, op.Kind); ok && tr.Notice != "" && s.notifier != nil {
		s.notifier.Publish(tr.Notice, Notice{
			RequestID: from.RequestID,
			SpotID:    firstNonEmpty(from.SpotID, op.OriginalSpotID),
			Operation: op.Kind.String(),
			Reason:    op.Reason,
		})
	}

	// the request context may already be gone
	ctx := context.Background()
	var err error
	switch actor {
	case lifecycle.ActorVendor:
		if op.Kind != lifecycle.OpDeletePendingRequest {
			_, err = s.RefreshVendorListings(ctx)
		}
	case lifecycle.ActorAdmin:
		if op.Kind == lifecycle.OpDirectSpotUpdate {
			_, err = s.ListSpots(ctx)
		}
	}
	if err != nil {
		s.logger.WithError(err).Warn("Failed to refresh after lifecycle operation")
	}
}

func (s *SpotService) track(ctx context.Context, key string) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if prev, ok := s.inflight[key]; ok {
		prev.cancel()
	}
	s.inflight[key] = inflight{seq: s.seq, cancel: cancel}
	return ctx, s.seq
}

// finish releases the slot for key and reports whether a newer submit took
// it over while this one was in flight.
func (s *SpotService) finish(key string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.inflight[key]
	if ok && cur.seq == seq {
		cur.cancel()
		delete(s.inflight, key)
		return false
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

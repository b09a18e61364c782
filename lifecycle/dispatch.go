package lifecycle

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/HSouheill/campspot_console/models"
)

var (
	ErrActorNotPermitted       = errors.New("actor is not permitted to perform this action")
	ErrNoSpotContext           = errors.New("no spot selected to edit")
	ErrNothingToDelete         = errors.New("nothing to delete")
	ErrNotPending              = errors.New("request is not pending")
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
)

// NextAction resolves what an actor's action against a spot in state s must
// do on the backend. It is the only place the dispatch precedence lives.
func NextAction(actor Actor, action Action, s State) (Operation, error) {
	if actor != ActorVendor && actor != ActorAdmin {
		return Operation{}, ErrActorNotPermitted
	}

	switch action.Verb {
	case VerbSubmit:
		return nextSubmit(actor, s)
	case VerbDelete:
		return nextDelete(actor, s)
	case VerbApprove, VerbReject:
		return nextDecision(actor, action, s)
	}
	return Operation{}, errors.Errorf("unknown action %d", action.Verb)
}

// The order of the cases is the contract: a pending vendor entry wins over
// an approved one, which wins over admin authority, which wins over the
// default create.
func nextSubmit(actor Actor, s State) (Operation, error) {
	switch {
	case s.Pending() && actor == ActorVendor:
		return Operation{Kind: OpUpdatePendingRequest, TargetID: s.RequestID}, nil
	case s.Kind == KindApproved && actor == ActorVendor:
		return Operation{
			Kind:           OpCreateUpdateRequest,
			UpdateType:     models.UpdateTypeUpdate,
			OriginalSpotID: s.SpotID,
		}, nil
	case actor == ActorAdmin:
		if s.Kind == KindNone {
			return Operation{}, ErrNoSpotContext
		}
		return Operation{Kind: OpDirectSpotUpdate, TargetID: s.Target()}, nil
	}
	return Operation{Kind: OpCreateRequest, UpdateType: models.UpdateTypeCreate}, nil
}

func nextDelete(actor Actor, s State) (Operation, error) {
	if s.Kind == KindNone {
		return Operation{}, ErrNothingToDelete
	}

	if actor == ActorAdmin {
		if !s.Live() {
			return Operation{}, ErrActorNotPermitted
		}
		return Operation{Kind: OpDirectSpotDelete, TargetID: s.SpotID}, nil
	}

	if s.Kind == KindApproved {
		return Operation{
			Kind:           OpCreateDeleteRequest,
			TargetID:       s.SpotID,
			UpdateType:     models.UpdateTypeDelete,
			OriginalSpotID: s.SpotID,
		}, nil
	}
	return Operation{Kind: OpDeletePendingRequest, TargetID: s.RequestID}, nil
}

func nextDecision(actor Actor, action Action, s State) (Operation, error) {
	if actor != ActorAdmin {
		return Operation{}, ErrActorNotPermitted
	}

	if action.Verb == VerbReject {
		reason := strings.TrimSpace(action.Reason)
		if reason == "" {
			return Operation{}, ErrRejectionReasonRequired
		}
		if !s.Pending() {
			return Operation{}, ErrNotPending
		}
		return Operation{Kind: OpRejectRequest, TargetID: s.RequestID, Reason: reason}, nil
	}

	if !s.Pending() {
		return Operation{}, ErrNotPending
	}
	return Operation{Kind: OpApproveRequest, TargetID: s.RequestID}, nil
}

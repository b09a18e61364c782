package lifecycle

import (
	"github.com/pkg/errors"
)

// Notices pushed to the vendor when a transition lands.
const (
	NoticeSubmitted = "spot_request_submitted"
	NoticeApproved  = "request_approved"
	NoticeDeclined  = "request_declined"
)

// Transition is a single allowed edge, taken once the backend call for Op
// has succeeded.
type Transition struct {
	From   Kind
	To     Kind
	Op     OpKind
	Notice string
}

var transitionsTable = []Transition{
	// Vendor drafting
	{From: KindNone, To: KindPendingCreate, Op: OpCreateRequest, Notice: NoticeSubmitted},
	{From: KindPendingCreate, To: KindPendingCreate, Op: OpUpdatePendingRequest, Notice: NoticeSubmitted},
	{From: KindPendingUpdate, To: KindPendingUpdate, Op: OpUpdatePendingRequest, Notice: NoticeSubmitted},
	{From: KindPendingDelete, To: KindPendingDelete, Op: OpUpdatePendingRequest, Notice: NoticeSubmitted},
	{From: KindApproved, To: KindPendingUpdate, Op: OpCreateUpdateRequest, Notice: NoticeSubmitted},
	{From: KindApproved, To: KindPendingDelete, Op: OpCreateDeleteRequest, Notice: NoticeSubmitted},

	// Withdrawal of an unapproved submission
	{From: KindPendingCreate, To: KindNone, Op: OpDeletePendingRequest},
	{From: KindPendingUpdate, To: KindApproved, Op: OpDeletePendingRequest},
	{From: KindPendingDelete, To: KindApproved, Op: OpDeletePendingRequest},

	// Moderation
	{From: KindPendingCreate, To: KindApproved, Op: OpApproveRequest, Notice: NoticeApproved},
	{From: KindPendingUpdate, To: KindApproved, Op: OpApproveRequest, Notice: NoticeApproved},
	{From: KindPendingDelete, To: KindNone, Op: OpApproveRequest, Notice: NoticeApproved},
	{From: KindPendingCreate, To: KindNone, Op: OpRejectRequest, Notice: NoticeDeclined},
	{From: KindPendingUpdate, To: KindApproved, Op: OpRejectRequest, Notice: NoticeDeclined},
	{From: KindPendingDelete, To: KindApproved, Op: OpRejectRequest, Notice: NoticeDeclined},

	// Admin direct authority
	{From: KindApproved, To: KindApproved, Op: OpDirectSpotUpdate},
	{From: KindPendingCreate, To: KindPendingCreate, Op: OpDirectSpotUpdate},
	{From: KindPendingUpdate, To: KindPendingUpdate, Op: OpDirectSpotUpdate},
	{From: KindPendingDelete, To: KindPendingDelete, Op: OpDirectSpotUpdate},
	{From: KindApproved, To: KindNone, Op: OpDirectSpotDelete},
	{From: KindPendingUpdate, To: KindNone, Op: OpDirectSpotDelete},
	{From: KindPendingDelete, To: KindNone, Op: OpDirectSpotDelete},
}

// TransitionFor returns the allowed transition for a given state and operation.
func TransitionFor(from Kind, op OpKind) (Transition, bool) {
	for _, tr := range transitionsTable {
		if tr.From == from && tr.Op == op {
			return tr, true
		}
	}
	return Transition{}, false
}

// Next is the state a spot lands in after op succeeds. Ids that only the
// backend can assign (a new request id, a new spot id) are left empty; the
// caller re-fetches to learn them.
func Next(s State, op Operation) (State, error) {
	tr, ok := TransitionFor(s.Kind, op.Kind)
	if !ok {
		return s, errors.Errorf("no transition from %s via %s", s.Kind, op.Kind)
	}

	switch tr.To {
	case KindNone:
		return None(), nil
	case KindApproved:
		return Approved(s.SpotID), nil
	case KindPendingCreate:
		return PendingCreate(s.RequestID), nil
	case KindPendingUpdate:
		if s.Kind == KindApproved {
			return PendingUpdate(s.SpotID, ""), nil
		}
		return PendingUpdate(s.SpotID, s.RequestID), nil
	case KindPendingDelete:
		if s.Kind == KindApproved {
			return PendingDelete(s.SpotID, ""), nil
		}
		return PendingDelete(s.SpotID, s.RequestID), nil
	}
	return s, errors.Errorf("unhandled target state %s", tr.To)
}

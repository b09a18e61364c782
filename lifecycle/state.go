// Package lifecycle models the moderation workflow of a camping spot as
// observed by the console. Nothing in here performs I/O: callers turn an
// Operation into a backend call and re-fetch afterwards.
package lifecycle

import (
	"strings"

	"github.com/HSouheill/campspot_console/models"
)

// Kind tags the variant held by a State.
type Kind int

const (
	KindNone Kind = iota
	KindPendingCreate
	KindApproved
	KindPendingUpdate
	KindPendingDelete
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NONE"
	case KindPendingCreate:
		return "PENDING_CREATE"
	case KindApproved:
		return "APPROVED"
	case KindPendingUpdate:
		return "PENDING_UPDATE"
	case KindPendingDelete:
		return "PENDING_DELETE"
	}
	return "UNKNOWN"
}

// State is the lifecycle position of one spot. SpotID is set while a live
// spot backs the entry; RequestID is set while a request is outstanding.
type State struct {
	Kind      Kind
	SpotID    string
	RequestID string
}

func None() State { return State{Kind: KindNone} }

func PendingCreate(requestID string) State {
	return State{Kind: KindPendingCreate, RequestID: requestID}
}

func Approved(spotID string) State {
	return State{Kind: KindApproved, SpotID: spotID}
}

func PendingUpdate(spotID, requestID string) State {
	return State{Kind: KindPendingUpdate, SpotID: spotID, RequestID: requestID}
}

func PendingDelete(spotID, requestID string) State {
	return State{Kind: KindPendingDelete, SpotID: spotID, RequestID: requestID}
}

// Pending reports whether a request is outstanding.
func (s State) Pending() bool {
	return s.Kind == KindPendingCreate || s.Kind == KindPendingUpdate || s.Kind == KindPendingDelete
}

// Live reports whether an approved spot backs the entry.
func (s State) Live() bool {
	return s.Kind == KindApproved || s.Kind == KindPendingUpdate || s.Kind == KindPendingDelete
}

// Status is the listing status a vendor sees for this state.
func (s State) Status() string {
	switch {
	case s.Pending():
		return models.StatusPending
	case s.Kind == KindApproved:
		return models.StatusApproved
	}
	return ""
}

// Target is the id an edit or delete of the displayed entry addresses.
func (s State) Target() string {
	if s.Pending() {
		return s.RequestID
	}
	return s.SpotID
}

func (s State) String() string {
	var b strings.Builder
	b.WriteString(s.Kind.String())
	if s.SpotID != "" {
		b.WriteString(" spot=" + s.SpotID)
	}
	if s.RequestID != "" {
		b.WriteString(" request=" + s.RequestID)
	}
	return b.String()
}

// Actor is who performs an action.
type Actor string

const (
	ActorCustomer Actor = models.UserTypeCustomer
	ActorVendor   Actor = models.UserTypeVendor
	ActorAdmin    Actor = models.UserTypeAdmin
)

// ActorFromUserType maps a backend userType onto an Actor. Unknown types
// are treated as customers, who hold no lifecycle authority.
func ActorFromUserType(userType string) Actor {
	switch strings.ToLower(strings.TrimSpace(userType)) {
	case models.UserTypeVendor:
		return ActorVendor
	case models.UserTypeAdmin:
		return ActorAdmin
	}
	return ActorCustomer
}

// Verb names what the actor is trying to do.
type Verb int

const (
	VerbSubmit Verb = iota
	VerbDelete
	VerbApprove
	VerbReject
)

func (v Verb) String() string {
	switch v {
	case VerbSubmit:
		return "submit"
	case VerbDelete:
		return "delete"
	case VerbApprove:
		return "approve"
	case VerbReject:
		return "reject"
	}
	return "unknown"
}

// Action is a verb plus its argument. Only rejections carry one.
type Action struct {
	Verb   Verb
	Reason string
}

func Submit() Action  { return Action{Verb: VerbSubmit} }
func Delete() Action  { return Action{Verb: VerbDelete} }
func Approve() Action { return Action{Verb: VerbApprove} }

func Reject(reason string) Action {
	return Action{Verb: VerbReject, Reason: reason}
}

package lifecycle

import (
	"github.com/HSouheill/campspot_console/models"
)

// OpKind is one of the backend operations the workflow can dispatch.
type OpKind int

const (
	OpCreateRequest OpKind = iota + 1
	OpUpdatePendingRequest
	OpCreateUpdateRequest
	OpDirectSpotUpdate
	OpDeletePendingRequest
	OpCreateDeleteRequest
	OpDirectSpotDelete
	OpApproveRequest
	OpRejectRequest
)

var opNames = map[OpKind]string{
	OpCreateRequest:        "create request",
	OpUpdatePendingRequest: "update pending request",
	OpCreateUpdateRequest:  "create update request",
	OpDirectSpotUpdate:     "direct spot update",
	OpDeletePendingRequest: "delete pending request",
	OpCreateDeleteRequest:  "create delete request",
	OpDirectSpotDelete:     "direct spot delete",
	OpApproveRequest:       "approve request",
	OpRejectRequest:        "reject request",
}

func (k OpKind) String() string {
	if name, ok := opNames[k]; ok {
		return name
	}
	return "unknown operation"
}

// Operation is the single remote call an action resolves to.
type Operation struct {
	Kind OpKind
	// TargetID is the path id of the call: a request id or a spot id
	// depending on Kind. Empty for OpCreateRequest.
	TargetID       string
	UpdateType     models.UpdateType
	OriginalSpotID string
	Reason         string
}

// CarriesDetails reports whether the call sends spot content.
func (o Operation) CarriesDetails() bool {
	switch o.Kind {
	case OpCreateRequest, OpUpdatePendingRequest, OpCreateUpdateRequest, OpDirectSpotUpdate:
		return true
	}
	return false
}

// Moderated reports whether the call leaves something for an admin to decide.
func (o Operation) Moderated() bool {
	switch o.Kind {
	case OpCreateRequest, OpUpdatePendingRequest, OpCreateUpdateRequest, OpCreateDeleteRequest:
		return true
	}
	return false
}

package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/campspot_console/models"
)

func TestNextAction_Submit(t *testing.T) {
	tests := []struct {
		name  string
		actor Actor
		state State
		want  Operation
		err   error
	}{
		{
			name:  "vendor resubmits pending create",
			actor: ActorVendor,
			state: PendingCreate("r1"),
			want:  Operation{Kind: OpUpdatePendingRequest, TargetID: "r1"},
		},
		{
			name:  "vendor resubmits pending update, never a second request",
			actor: ActorVendor,
			state: PendingUpdate("s1", "r2"),
			want:  Operation{Kind: OpUpdatePendingRequest, TargetID: "r2"},
		},
		{
			name:  "vendor edits approved spot",
			actor: ActorVendor,
			state: Approved("s1"),
			want: Operation{
				Kind:           OpCreateUpdateRequest,
				UpdateType:     models.UpdateTypeUpdate,
				OriginalSpotID: "s1",
			},
		},
		{
			name:  "admin edits approved spot directly",
			actor: ActorAdmin,
			state: Approved("s1"),
			want:  Operation{Kind: OpDirectSpotUpdate, TargetID: "s1"},
		},
		{
			name:  "admin edits pending entry directly",
			actor: ActorAdmin,
			state: PendingCreate("r1"),
			want:  Operation{Kind: OpDirectSpotUpdate, TargetID: "r1"},
		},
		{
			name:  "vendor with no spot creates",
			actor: ActorVendor,
			state: None(),
			want:  Operation{Kind: OpCreateRequest, UpdateType: models.UpdateTypeCreate},
		},
		{
			name:  "admin with no spot",
			actor: ActorAdmin,
			state: None(),
			err:   ErrNoSpotContext,
		},
		{
			name:  "customer cannot submit",
			actor: ActorCustomer,
			state: None(),
			err:   ErrActorNotPermitted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := NextAction(tt.actor, Submit(), tt.state)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, op)
		})
	}
}

func TestNextAction_SubmitCreateHasNoOriginalSpot(t *testing.T) {
	op, err := NextAction(ActorVendor, Submit(), None())
	require.NoError(t, err)
	assert.Empty(t, op.OriginalSpotID)
	assert.Empty(t, op.TargetID)
	assert.True(t, op.CarriesDetails())
}

func TestNextAction_AdminNeverCreatesRequests(t *testing.T) {
	states := []State{
		PendingCreate("r1"),
		Approved("s1"),
		PendingUpdate("s1", "r1"),
		PendingDelete("s1", "r1"),
	}
	for _, s := range states {
		op, err := NextAction(ActorAdmin, Submit(), s)
		require.NoError(t, err, s.String())
		assert.Equal(t, OpDirectSpotUpdate, op.Kind, s.String())
		assert.False(t, op.Moderated(), s.String())
	}
}

func TestNextAction_Delete(t *testing.T) {
	t.Run("approved spot is moderated", func(t *testing.T) {
		op, err := NextAction(ActorVendor, Delete(), Approved("s1"))
		require.NoError(t, err)
		assert.Equal(t, OpCreateDeleteRequest, op.Kind)
		assert.Equal(t, "s1", op.OriginalSpotID)
		assert.Equal(t, models.UpdateTypeDelete, op.UpdateType)
		assert.True(t, op.Moderated())
	})

	t.Run("pending create is withdrawn immediately", func(t *testing.T) {
		op, err := NextAction(ActorVendor, Delete(), PendingCreate("r1"))
		require.NoError(t, err)
		assert.Equal(t, Operation{Kind: OpDeletePendingRequest, TargetID: "r1"}, op)
		assert.False(t, op.Moderated())
	})

	t.Run("pending update withdraws the request, not the spot", func(t *testing.T) {
		op, err := NextAction(ActorVendor, Delete(), PendingUpdate("s1", "r1"))
		require.NoError(t, err)
		assert.Equal(t, OpDeletePendingRequest, op.Kind)
		assert.Equal(t, "r1", op.TargetID)
	})

	t.Run("nothing to delete", func(t *testing.T) {
		_, err := NextAction(ActorVendor, Delete(), None())
		assert.ErrorIs(t, err, ErrNothingToDelete)
	})

	t.Run("admin deletes live spot directly", func(t *testing.T) {
		op, err := NextAction(ActorAdmin, Delete(), PendingDelete("s1", "r1"))
		require.NoError(t, err)
		assert.Equal(t, Operation{Kind: OpDirectSpotDelete, TargetID: "s1"}, op)
	})

	t.Run("admin cannot delete an unapproved submission", func(t *testing.T) {
		_, err := NextAction(ActorAdmin, Delete(), PendingCreate("r1"))
		assert.ErrorIs(t, err, ErrActorNotPermitted)
	})
}

func TestNextAction_Decisions(t *testing.T) {
	t.Run("approve pending", func(t *testing.T) {
		op, err := NextAction(ActorAdmin, Approve(), PendingUpdate("s1", "r1"))
		require.NoError(t, err)
		assert.Equal(t, Operation{Kind: OpApproveRequest, TargetID: "r1"}, op)
	})

	t.Run("reject trims reason", func(t *testing.T) {
		op, err := NextAction(ActorAdmin, Reject("  blurry photos "), PendingCreate("r1"))
		require.NoError(t, err)
		assert.Equal(t, OpRejectRequest, op.Kind)
		assert.Equal(t, "blurry photos", op.Reason)
	})

	for _, reason := range []string{"", "   ", "\t\n"} {
		_, err := NextAction(ActorAdmin, Reject(reason), PendingCreate("r1"))
		assert.ErrorIs(t, err, ErrRejectionReasonRequired, "reason %q", reason)
	}

	t.Run("vendor cannot moderate", func(t *testing.T) {
		_, err := NextAction(ActorVendor, Approve(), PendingCreate("r1"))
		assert.ErrorIs(t, err, ErrActorNotPermitted)
	})

	t.Run("approved spot has nothing to decide", func(t *testing.T) {
		_, err := NextAction(ActorAdmin, Approve(), Approved("s1"))
		assert.ErrorIs(t, err, ErrNotPending)
	})
}

func TestNextAction_EveryOperationHasATransition(t *testing.T) {
	states := []State{
		None(),
		PendingCreate("r1"),
		Approved("s1"),
		PendingUpdate("s1", "r1"),
		PendingDelete("s1", "r1"),
	}
	actions := []Action{Submit(), Delete(), Approve(), Reject("no")}

	for _, actor := range []Actor{ActorVendor, ActorAdmin} {
		for _, s := range states {
			for _, a := range actions {
				op, err := NextAction(actor, a, s)
				if err != nil {
					continue
				}
				if op.Kind == OpCreateRequest {
					assert.Equal(t, KindNone, s.Kind)
				}
				_, ok := TransitionFor(s.Kind, op.Kind)
				assert.True(t, ok, "%s %s on %s resolved to %s with no transition", actor, a.Verb, s, op.Kind)
			}
		}
	}
}

func TestActorFromUserType(t *testing.T) {
	assert.Equal(t, ActorVendor, ActorFromUserType("Vendor"))
	assert.Equal(t, ActorAdmin, ActorFromUserType(" admin "))
	assert.Equal(t, ActorCustomer, ActorFromUserType("customer"))
	assert.Equal(t, ActorCustomer, ActorFromUserType(""))
}

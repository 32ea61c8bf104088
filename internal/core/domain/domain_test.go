package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEscrowState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from EscrowState
		to   EscrowState
		want bool
	}{
		{"new to funded", EscrowStateNew, EscrowStateFunded, true},
		{"new to cancelled", EscrowStateNew, EscrowStateCancelled, true},
		{"new to active", EscrowStateNew, EscrowStateActive, false},
		{"funded to active", EscrowStateFunded, EscrowStateActive, true},
		{"funded to cancelled", EscrowStateFunded, EscrowStateCancelled, true},
		{"funded to completed", EscrowStateFunded, EscrowStateCompleted, false},
		{"active to completed", EscrowStateActive, EscrowStateCompleted, true},
		{"active to disputed", EscrowStateActive, EscrowStateDisputed, true},
		{"active to cancelled", EscrowStateActive, EscrowStateCancelled, true},
		{"disputed back to active", EscrowStateDisputed, EscrowStateActive, true},
		{"disputed to completed", EscrowStateDisputed, EscrowStateCompleted, true},
		{"disputed to cancelled", EscrowStateDisputed, EscrowStateCancelled, false},
		{"completed is terminal", EscrowStateCompleted, EscrowStateActive, false},
		{"cancelled is terminal", EscrowStateCancelled, EscrowStateNew, false},
		{"no backward funded to new", EscrowStateFunded, EscrowStateNew, false},
		{"no backward active to funded", EscrowStateActive, EscrowStateFunded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestEscrowState_IsTerminal(t *testing.T) {
	assert.False(t, EscrowStateNew.IsTerminal())
	assert.False(t, EscrowStateFunded.IsTerminal())
	assert.False(t, EscrowStateActive.IsTerminal())
	assert.False(t, EscrowStateDisputed.IsTerminal())
	assert.True(t, EscrowStateCompleted.IsTerminal())
	assert.True(t, EscrowStateCancelled.IsTerminal())
}

func TestEscrowState_Valid(t *testing.T) {
	assert.True(t, EscrowStateNew.Valid())
	assert.True(t, EscrowStateDisputed.Valid())
	assert.False(t, EscrowState("LIMBO").Valid())
}

func TestEscrowContract_AcceptsDisputes(t *testing.T) {
	tests := []struct {
		name  string
		state EscrowState
		want  bool
	}{
		{"new", EscrowStateNew, true},
		{"funded", EscrowStateFunded, true},
		{"active", EscrowStateActive, true},
		{"disputed", EscrowStateDisputed, true},
		{"completed", EscrowStateCompleted, false},
		{"cancelled", EscrowStateCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &EscrowContract{CurrentState: tt.state}
			assert.Equal(t, tt.want, c.AcceptsDisputes())
		})
	}
}

func TestDisputeStatus_IsTerminal(t *testing.T) {
	assert.False(t, DisputeStatusPending.IsTerminal())
	assert.False(t, DisputeStatusInReview.IsTerminal())
	assert.True(t, DisputeStatusResolved.IsTerminal())
	assert.True(t, DisputeStatusRejected.IsTerminal())
}

func TestDispute_IsOpen(t *testing.T) {
	open := &Dispute{Status: DisputeStatusPending}
	assert.True(t, open.IsOpen())

	inReview := &Dispute{Status: DisputeStatusInReview}
	assert.True(t, inReview.IsOpen())

	resolved := &Dispute{Status: DisputeStatusResolved}
	assert.False(t, resolved.IsOpen())
}

func TestMilestone_IsPending(t *testing.T) {
	m := &Milestone{Status: MilestoneStatusPending}
	assert.True(t, m.IsPending())

	m.Status = MilestoneStatusApproved
	assert.False(t, m.IsPending())
}

func TestReviewDecision_Valid(t *testing.T) {
	assert.True(t, DecisionApproved.Valid())
	assert.True(t, DecisionRejected.Valid())
	assert.False(t, ReviewDecision("MAYBE").Valid())
}

func TestSumMilestoneAmounts(t *testing.T) {
	milestones := []Milestone{
		{Amount: 300},
		{Amount: 700},
	}
	assert.Equal(t, int64(1000), SumMilestoneAmounts(milestones))
	assert.Equal(t, int64(0), SumMilestoneAmounts(nil))
}

func TestSigningChallenge_Expired(t *testing.T) {
	now := time.Now()
	c := &SigningChallenge{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, c.Expired(now))
	assert.True(t, c.Expired(now.Add(2*time.Minute)))
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// EscrowState is the lifecycle state of an escrow contract, mirrored from the
// ledger. States only move forward; the single permitted back-edge is
// DISPUTED -> ACTIVE on dispute resolution.
type EscrowState string

const (
	EscrowStateNew       EscrowState = "NEW"
	EscrowStateFunded    EscrowState = "FUNDED"
	EscrowStateActive    EscrowState = "ACTIVE"
	EscrowStateDisputed  EscrowState = "DISPUTED"
	EscrowStateCompleted EscrowState = "COMPLETED"
	EscrowStateCancelled EscrowState = "CANCELLED"
)

// escrowTransitions is the authoritative transition table.
var escrowTransitions = map[EscrowState][]EscrowState{
	EscrowStateNew:       {EscrowStateFunded, EscrowStateCancelled},
	EscrowStateFunded:    {EscrowStateActive, EscrowStateCancelled},
	EscrowStateActive:    {EscrowStateCompleted, EscrowStateDisputed, EscrowStateCancelled},
	EscrowStateDisputed:  {EscrowStateActive, EscrowStateCompleted},
	EscrowStateCompleted: {},
	EscrowStateCancelled: {},
}

// CanTransitionTo reports whether moving to next is legal from s.
func (s EscrowState) CanTransitionTo(next EscrowState) bool {
	for _, allowed := range escrowTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state has no outgoing transitions.
func (s EscrowState) IsTerminal() bool {
	return s == EscrowStateCompleted || s == EscrowStateCancelled
}

// Valid reports whether s is a known state.
func (s EscrowState) Valid() bool {
	_, ok := escrowTransitions[s]
	return ok
}

// EscrowContract is the local mirror of a ledger escrow engagement. The ledger
// is authoritative; this row is the application-level read model.
type EscrowContract struct {
	ID              uuid.UUID         `json:"id"`
	EngagementID    string            `json:"engagement_id"`
	ContractAddress string            `json:"contract_address"`
	ProjectID       uuid.UUID         `json:"project_id"`
	ContributionID  uuid.UUID         `json:"contribution_id"`
	PayerAddress    string            `json:"payer_address"`
	ReceiverAddress string            `json:"receiver_address"`
	Amount          int64             `json:"amount"` // Smallest currency unit
	PlatformFeeBps  int32             `json:"platform_fee_bps"`
	CurrentState    EscrowState       `json:"current_state"`
	DisputeFlag     bool              `json:"dispute_flag"`
	LedgerSequence  int64             `json:"ledger_sequence"` // Last sequence applied by sync
	Metadata        map[string]string `json:"metadata,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// IsTerminal reports whether the contract has reached a final state.
// Terminal contracts are retained for audit and never hard-deleted.
func (c *EscrowContract) IsTerminal() bool {
	return c.CurrentState.IsTerminal()
}

// AcceptsDisputes reports whether a new dispute may be opened against the
// contract.
func (c *EscrowContract) AcceptsDisputes() bool {
	return !c.IsTerminal()
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// DisputeStatus is the workflow state of a dispute.
// pending -> in_review -> {resolved | rejected}; terminal states are final.
type DisputeStatus string

const (
	DisputeStatusPending  DisputeStatus = "pending"
	DisputeStatusInReview DisputeStatus = "in_review"
	DisputeStatusResolved DisputeStatus = "resolved"
	DisputeStatusRejected DisputeStatus = "rejected"
)

// IsTerminal reports whether the status admits no further transitions.
func (s DisputeStatus) IsTerminal() bool {
	return s == DisputeStatusResolved || s == DisputeStatusRejected
}

// Dispute is a contested milestone or contract raised by a party.
type Dispute struct {
	ID              uuid.UUID     `json:"id"`
	EscrowID        uuid.UUID     `json:"escrow_id"`
	MilestoneID     *uuid.UUID    `json:"milestone_id,omitempty"`
	FilerAddress    string        `json:"filer_address"`
	Status          DisputeStatus `json:"status"`
	Reason          string        `json:"reason"`
	Resolution      *string       `json:"resolution,omitempty"`
	MediatorAddress *string       `json:"mediator_address,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	ResolvedAt      *time.Time    `json:"resolved_at,omitempty"`
}

// IsOpen reports whether the dispute still counts toward the owning
// contract's dispute flag.
func (d *Dispute) IsOpen() bool {
	return !d.Status.IsTerminal()
}

// DisputeEvidence is an append-only attachment on an open dispute.
type DisputeEvidence struct {
	ID          uuid.UUID `json:"id"`
	DisputeID   uuid.UUID `json:"dispute_id"`
	SubmittedBy string    `json:"submitted_by"`
	EvidenceURL string    `json:"evidence_url"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

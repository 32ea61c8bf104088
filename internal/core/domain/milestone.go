package domain

import (
	"time"

	"github.com/google/uuid"
)

// MilestoneStatus is the review state of a milestone.
type MilestoneStatus string

const (
	MilestoneStatusPending  MilestoneStatus = "PENDING"
	MilestoneStatusApproved MilestoneStatus = "APPROVED"
	MilestoneStatusRejected MilestoneStatus = "REJECTED"
)

// ReviewDecision is a reviewer's verdict on a pending milestone.
type ReviewDecision string

const (
	DecisionApproved ReviewDecision = "APPROVED"
	DecisionRejected ReviewDecision = "REJECTED"
)

// Valid reports whether d is a known decision.
func (d ReviewDecision) Valid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// Milestone is a deliverable tranche of an escrow contract. Milestone amounts
// of a contract always sum to the contract amount.
type Milestone struct {
	ID          uuid.UUID       `json:"id"`
	ContractID  uuid.UUID       `json:"contract_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Amount      int64           `json:"amount"`
	Status      MilestoneStatus `json:"status"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsPending reports whether the milestone still awaits review.
func (m *Milestone) IsPending() bool {
	return m.Status == MilestoneStatusPending
}

// MilestoneReview is an append-only record of a reviewer decision.
type MilestoneReview struct {
	ID          uuid.UUID      `json:"id"`
	MilestoneID uuid.UUID      `json:"milestone_id"`
	ReviewerID  uuid.UUID      `json:"reviewer_id"`
	Decision    ReviewDecision `json:"decision"`
	Comments    string         `json:"comments"`
	CreatedAt   time.Time      `json:"created_at"`
}

// SumMilestoneAmounts totals milestone amounts for the contract-sum invariant.
func SumMilestoneAmounts(milestones []Milestone) int64 {
	var sum int64
	for _, m := range milestones {
		sum += m.Amount
	}
	return sum
}

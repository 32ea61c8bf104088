package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReleaseStatus is the delivery state of a queued fund-release intent.
type ReleaseStatus string

const (
	ReleaseStatusQueued    ReleaseStatus = "QUEUED"
	ReleaseStatusSubmitted ReleaseStatus = "SUBMITTED"
	ReleaseStatusConfirmed ReleaseStatus = "CONFIRMED"
	ReleaseStatusFailed    ReleaseStatus = "FAILED"
)

// ReleaseIntent records the intent to release escrowed funds on the ledger.
// Release is asynchronous: the worker retries submission without re-approving
// the milestone or re-resolving the dispute that queued it.
type ReleaseIntent struct {
	ID          uuid.UUID     `json:"id"`
	ContractID  uuid.UUID     `json:"contract_id"`
	MilestoneID *uuid.UUID    `json:"milestone_id,omitempty"`
	DisputeID   *uuid.UUID    `json:"dispute_id,omitempty"`
	Status      ReleaseStatus `json:"status"`
	TxHash      *string       `json:"tx_hash,omitempty"`
	Attempts    int           `json:"attempts"`
	LastError   *string       `json:"last_error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

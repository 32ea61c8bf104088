package ports

import (
	"context"
	"fmt"

	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"
)

// UnsignedEnvelope is a ledger transaction envelope awaiting authorization.
// The wire format of the envelope payload is opaque to this service.
type UnsignedEnvelope struct {
	ContractAddress string `json:"contract_address"`
	Payload         string `json:"payload"`    // base64 transaction envelope
	AuthNonce       string `json:"auth_nonce"` // ledger-assigned authorization nonce
	SourceAccount   string `json:"source_account"`
}

// SimulationResult is the ledger's dry-run output: the authorization entries a
// signer must cover, plus the resource fee the assembled transaction needs.
type SimulationResult struct {
	AuthEntries    []string `json:"auth_entries"`
	MinResourceFee int64    `json:"min_resource_fee"`
	LatestSequence int64    `json:"latest_sequence"`
}

// AssembledEnvelope is a simulated envelope with authorization requirements
// folded in, ready for signing.
type AssembledEnvelope struct {
	ContractAddress string `json:"contract_address"`
	Payload         string `json:"payload"`
	AuthNonce       string `json:"auth_nonce"`
	MinResourceFee  int64  `json:"min_resource_fee"`
}

// SignedEnvelope is a fully authorized envelope. TransactionHash is computed
// client-side before submission so a crash mid-submit can be reconciled.
type SignedEnvelope struct {
	Payload         string `json:"payload"`
	TransactionHash string `json:"transaction_hash"`
}

// SubmitResult is the ledger's acknowledgement of a submitted envelope.
type SubmitResult struct {
	TransactionHash string `json:"transaction_hash"`
	Successful      bool   `json:"successful"`
	LedgerSequence  int64  `json:"ledger_sequence"`
}

// LedgerContractState is the authoritative contract snapshot returned by the
// ledger/indexer, used by syncState to reconcile the local mirror.
type LedgerContractState struct {
	ContractAddress string             `json:"contract_address"`
	EngagementID    string             `json:"engagement_id"`
	State           domain.EscrowState `json:"state"`
	Amount          int64              `json:"amount"`
	DisputeFlag     bool               `json:"dispute_flag"`
	Sequence        int64              `json:"sequence"` // Monotonic; last-authoritative-wins
}

// InitializeContractParams is the ledger-side contract creation request.
type InitializeContractParams struct {
	PayerAddress    string            `json:"payer_address"`
	ReceiverAddress string            `json:"receiver_address"`
	TotalAmount     int64             `json:"total_amount"`
	PlatformFeeBps  int32             `json:"platform_fee_bps"`
	MilestoneAmounts []int64          `json:"milestone_amounts"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// InitializeContractResult identifies the created ledger artifact.
type InitializeContractResult struct {
	ContractAddress string `json:"contract_address"`
	EngagementID    string `json:"engagement_id"`
}

// LedgerError is a typed failure from the ledger API. Transient errors may be
// retried with backoff; non-transient ones carry the ledger's diagnostic and
// must not be retried.
type LedgerError struct {
	Code       string
	Diagnostic string
	Transient  bool
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger %s: %s", e.Code, e.Diagnostic)
}

// LedgerClient talks to the external escrow ledger API. Every call carries a
// bounded timeout; implementations retry transient failures internally up to a
// small configured count.
type LedgerClient interface {
	InitializeContract(ctx context.Context, params InitializeContractParams) (*InitializeContractResult, error)
	Simulate(ctx context.Context, envelope UnsignedEnvelope) (*SimulationResult, error)
	Assemble(ctx context.Context, envelope UnsignedEnvelope, sim *SimulationResult) (*AssembledEnvelope, error)
	Submit(ctx context.Context, signed SignedEnvelope) (*SubmitResult, error)
	QueryByContractAddress(ctx context.Context, contractAddress string) (*LedgerContractState, error)
	// QueryByHash resolves the fate of a transaction whose submission outcome
	// is unknown (e.g. after a timeout). Returns nil if the ledger has no
	// record of the hash.
	QueryByHash(ctx context.Context, txHash string) (*SubmitResult, error)
	// ResolveDispute builds the unsigned resolution envelope splitting the
	// disputed funds between the two parties.
	ResolveDispute(ctx context.Context, contractAddress, resolverAddress string, approverFunds, serviceProviderFunds int64) (*UnsignedEnvelope, error)
	// ReleaseFunds submits the fund-release transaction for a milestone (or
	// the whole contract when milestoneRef is empty).
	ReleaseFunds(ctx context.Context, contractAddress, milestoneRef string) (*SubmitResult, error)
	// CancelContract compensates a contract creation whose local persistence
	// failed. Best effort; the caller still reports the inconsistency.
	CancelContract(ctx context.Context, contractAddress string) error
}

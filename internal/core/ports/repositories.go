package ports

import (
	"context"
	"time"

	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EscrowRepository defines persistence for the local escrow mirror.
// Methods accepting pgx.Tx run inside transaction blocks; state changes use
// compare-and-swap on the expected prior state so concurrent mutators detect
// lost updates instead of silently overwriting each other.
type EscrowRepository interface {
	Create(ctx context.Context, tx pgx.Tx, contract *domain.EscrowContract) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EscrowContract, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.EscrowContract, error)
	GetByContractAddress(ctx context.Context, contractAddress string) (*domain.EscrowContract, error)
	// TransitionState updates current_state only when the row still holds
	// from. Returns false when the conditional update matched no row.
	TransitionState(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to domain.EscrowState) (bool, error)
	SetDisputeFlag(ctx context.Context, tx pgx.Tx, id uuid.UUID, flag bool) error
	// ApplyLedgerState overwrites state/flag from an authoritative ledger
	// snapshot, only when sequence is newer than the stored one.
	ApplyLedgerState(ctx context.Context, id uuid.UUID, state domain.EscrowState, disputeFlag bool, sequence int64) (bool, error)
	ListNonTerminal(ctx context.Context) ([]domain.EscrowContract, error)
	AddReviewer(ctx context.Context, tx pgx.Tx, contractID, reviewerID uuid.UUID) error
	IsAuthorizedReviewer(ctx context.Context, contractID, reviewerID uuid.UUID) (bool, error)
}

// MilestoneRepository defines persistence for milestones.
type MilestoneRepository interface {
	CreateBatch(ctx context.Context, tx pgx.Tx, milestones []domain.Milestone) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Milestone, error)
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]domain.Milestone, error)
	// SetStatusIfPending is the CAS review write: it succeeds only when the
	// row is still PENDING. Returns false on a CAS miss (already reviewed).
	SetStatusIfPending(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.MilestoneStatus, completedAt *time.Time) (bool, error)
	// ReopenIfRejected resets a REJECTED milestone to PENDING for reupload.
	ReopenIfRejected(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
	CountPending(ctx context.Context, tx pgx.Tx, contractID uuid.UUID) (int64, error)
}

// ReviewRepository appends reviewer decision records.
type ReviewRepository interface {
	Create(ctx context.Context, tx pgx.Tx, review *domain.MilestoneReview) error
	ListByMilestone(ctx context.Context, milestoneID uuid.UUID) ([]domain.MilestoneReview, error)
}

// DisputeRepository defines persistence for disputes.
type DisputeRepository interface {
	Create(ctx context.Context, tx pgx.Tx, dispute *domain.Dispute) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Dispute, error)
	ListByEscrow(ctx context.Context, escrowID uuid.UUID) ([]domain.Dispute, error)
	// AssignMediator sets the mediator and promotes pending -> in_review.
	// Returns false when the dispute is already terminal.
	AssignMediator(ctx context.Context, tx pgx.Tx, id uuid.UUID, mediatorAddress string) (bool, error)
	// Close finalizes the dispute (resolved or rejected) only while it is
	// still open. Returns false on a CAS miss.
	Close(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.DisputeStatus, resolution string, resolvedAt time.Time) (bool, error)
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	// CountOpen re-reads the live number of non-terminal disputes for the
	// escrow inside the caller's transaction. The dispute flag recomputation
	// must use this, never a value captured earlier in the request.
	CountOpen(ctx context.Context, tx pgx.Tx, escrowID uuid.UUID) (int64, error)
}

// EvidenceRepository defines persistence for dispute evidence (append-only).
// Create runs inside the caller's transaction so evidence named in an open
// request commits or rolls back together with the dispute row.
type EvidenceRepository interface {
	Create(ctx context.Context, tx pgx.Tx, evidence *domain.DisputeEvidence) error
	ListByDispute(ctx context.Context, disputeID uuid.UUID) ([]domain.DisputeEvidence, error)
	DeleteByDispute(ctx context.Context, tx pgx.Tx, disputeID uuid.UUID) error
}

// CredentialRepository defines persistence for passkey credentials.
type CredentialRepository interface {
	Create(ctx context.Context, credential *domain.PasskeyCredential) error
	GetByIdentifier(ctx context.Context, identifier string) (*domain.PasskeyCredential, error)
	// UpdateSignCount persists the authenticator-reported counter after a
	// verified assertion, together with the clone-warning flag.
	UpdateSignCount(ctx context.Context, id uuid.UUID, signCount uint32, cloneWarning bool, lastUsedAt time.Time) error
}

// ReleaseRepository defines persistence for queued fund-release intents.
type ReleaseRepository interface {
	Create(ctx context.Context, tx pgx.Tx, intent *domain.ReleaseIntent) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReleaseIntent, error)
	// ClaimQueued atomically moves up to limit QUEUED intents to SUBMITTED
	// and returns them, so concurrent workers never double-claim.
	ClaimQueued(ctx context.Context, limit int) ([]domain.ReleaseIntent, error)
	MarkConfirmed(ctx context.Context, id uuid.UUID, txHash string) error
	// MarkRetry requeues a failed attempt, or parks the intent as FAILED once
	// attempts reach the configured ceiling.
	MarkRetry(ctx context.Context, id uuid.UUID, attempts int, lastError string, exhausted bool) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

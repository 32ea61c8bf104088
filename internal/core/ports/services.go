package ports

import (
	"context"
	"time"

	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"

	"github.com/google/uuid"
)

// ChallengeStore holds single-use signing challenges keyed by
// (identifier, relying party). Issue overwrites any prior unconsumed
// challenge (last-issued wins); Consume is destructive.
type ChallengeStore interface {
	Issue(ctx context.Context, identifier, rpID string, challenge []byte, ttl time.Duration) error
	// Consume removes and returns the live challenge. A second call for the
	// same key returns nil with no error; the caller maps that to
	// ChallengeNotFound.
	Consume(ctx context.Context, identifier, rpID string) ([]byte, error)
}

// SubmissionCache deduplicates ledger submissions by transaction hash.
type SubmissionCache interface {
	// Reserve records the hash before submission. Returns false when the
	// hash was already reserved (duplicate submit).
	Reserve(ctx context.Context, txHash string, ttl time.Duration) (bool, error)
	Get(ctx context.Context, txHash string) ([]byte, error)
	Set(ctx context.Context, txHash string, result []byte, ttl time.Duration) error
}

// TokenService handles bearer tokens for reviewer/mediator/admin calls.
type TokenService interface {
	Generate(userID uuid.UUID, role string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed token claims.
type TokenClaims struct {
	UserID uuid.UUID
	Role   string
}

// KYCChecker asks the identity vendor whether a party may hold funds.
// External collaborator; treated as a boolean eligibility check.
type KYCChecker interface {
	IsEligible(ctx context.Context, address string) (bool, error)
}

// NotificationEvent is a fire-and-forget state-transition announcement.
type NotificationEvent struct {
	Type       string            `json:"type"`
	EscrowID   uuid.UUID         `json:"escrow_id"`
	EntityID   uuid.UUID         `json:"entity_id"`
	Detail     map[string]string `json:"detail,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Notifier emits notification events. Delivery failures never roll back the
// state change that produced the event.
type Notifier interface {
	Notify(ctx context.Context, event NotificationEvent)
}

// --- Engine Ports (Business Logic) ---

// MilestoneParams describes one milestone at contract creation.
type MilestoneParams struct {
	Title       string
	Description string
	Amount      int64
	DueDate     *time.Time
}

// InitializeRequest holds validated input for escrow initialization.
type InitializeRequest struct {
	ProjectID       uuid.UUID
	ContributionID  uuid.UUID
	PayerAddress    string
	ReceiverAddress string
	Amount          int64 // Total committed; must equal milestone sum
	PlatformFeeBps  int32
	Milestones      []MilestoneParams
	ReviewerIDs     []uuid.UUID
	Metadata        map[string]string
}

// InitializeResult is the escrow creation outcome.
type InitializeResult struct {
	Contract   *domain.EscrowContract
	Milestones []domain.Milestone
}

// EscrowService is the escrow contract gateway: it owns every ledger call and
// every mutation of the local mirror's current_state.
type EscrowService interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error)
	SimulateAndAssemble(ctx context.Context, envelope UnsignedEnvelope) (*AssembledEnvelope, error)
	Submit(ctx context.Context, signed SignedEnvelope) (*SubmitResult, error)
	SyncState(ctx context.Context, contractAddress string) (*domain.EscrowContract, error)
	// SyncAll reconciles every non-terminal contract, bounded-parallel.
	SyncAll(ctx context.Context) error
	Get(ctx context.Context, id uuid.UUID) (*domain.EscrowContract, []domain.Milestone, error)
	// MarkFunded applies the funding confirmation (NEW -> FUNDED).
	MarkFunded(ctx context.Context, contractAddress string) (*domain.EscrowContract, error)
}

// ReviewRequest holds validated input for a milestone review.
type ReviewRequest struct {
	MilestoneID uuid.UUID
	ReviewerID  uuid.UUID
	Decision    domain.ReviewDecision
	Comments    string
}

// ReviewService processes reviewer decisions on milestones.
type ReviewService interface {
	Review(ctx context.Context, req ReviewRequest) (*domain.Milestone, error)
	// RequestReupload reopens a rejected milestone (REJECTED -> PENDING).
	RequestReupload(ctx context.Context, milestoneID, requesterID uuid.UUID) (*domain.Milestone, error)
}

// OpenDisputeRequest holds validated input for opening a dispute.
type OpenDisputeRequest struct {
	EscrowID     uuid.UUID
	MilestoneID  *uuid.UUID
	FilerAddress string
	Reason       string
	EvidenceURLs []string
}

// ResolveDisputeRequest holds validated input for resolving a dispute.
type ResolveDisputeRequest struct {
	DisputeID            uuid.UUID
	ResolverAddress      string
	ApproverFunds        int64
	ServiceProviderFunds int64
	Resolution           string
}

// ResolveDisputeResult carries the resolved dispute and, when client
// countersignature is still required, the unsigned release envelope.
type ResolveDisputeResult struct {
	Dispute  *domain.Dispute
	Envelope *UnsignedEnvelope
}

// DisputeService manages the dispute workflow.
type DisputeService interface {
	Open(ctx context.Context, req OpenDisputeRequest) (*domain.Dispute, error)
	Get(ctx context.Context, disputeID uuid.UUID) (*domain.Dispute, []domain.DisputeEvidence, error)
	AssignMediator(ctx context.Context, disputeID uuid.UUID, mediatorAddress string, assignedBy uuid.UUID) (*domain.Dispute, error)
	AddEvidence(ctx context.Context, disputeID uuid.UUID, submitterAddress, evidenceURL, description string) (*domain.DisputeEvidence, error)
	Resolve(ctx context.Context, req ResolveDisputeRequest) (*ResolveDisputeResult, error)
	// Delete is administrative only; cascades to evidence and recomputes the
	// owning contract's dispute flag.
	Delete(ctx context.Context, disputeID uuid.UUID) error
}

// VerifyAssertionRequest carries a WebAuthn assertion over a signing challenge.
type VerifyAssertionRequest struct {
	Identifier    string
	AssertionJSON []byte // WebAuthn authentication response, as sent by the browser
}

// VerifiedAssertion is the outcome of a successful passkey verification.
type VerifiedAssertion struct {
	CredentialID []byte
	SignCount    uint32
	Challenge    []byte
}

// PasskeyService bridges WebAuthn assertions to ledger authorization.
type PasskeyService interface {
	// IssueChallenge issues a random signing challenge for the identifier.
	IssueChallenge(ctx context.Context, identifier string) ([]byte, error)
	// IssueTransactionChallenge derives the challenge from the envelope's
	// auth nonce so the assertion is bound to that exact transaction.
	IssueTransactionChallenge(ctx context.Context, identifier string, envelope UnsignedEnvelope) ([]byte, error)
	VerifyAssertion(ctx context.Context, req VerifyAssertionRequest) (*VerifiedAssertion, error)
}

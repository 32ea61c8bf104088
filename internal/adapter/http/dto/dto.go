package dto

// MilestoneParams describes one milestone in an escrow creation request.
type MilestoneParams struct {
	Title       string  `json:"title" binding:"required,min=1,max=200"`
	Description string  `json:"description,omitempty" binding:"max=2000"`
	Amount      int64   `json:"amount" binding:"required,gt=0"`
	DueDate     *string `json:"due_date,omitempty"` // RFC 3339
}

// InitializeEscrowRequest is the request body for escrow creation.
type InitializeEscrowRequest struct {
	ProjectID       string            `json:"project_id" binding:"required,uuid"`
	ContributionID  string            `json:"contribution_id" binding:"required,uuid"`
	PayerAddress    string            `json:"payer_address" binding:"required,ledger_address"`
	ReceiverAddress string            `json:"receiver_address" binding:"required,ledger_address"`
	Amount          int64             `json:"amount" binding:"required,gt=0"`
	PlatformFeeBps  int32             `json:"platform_fee_bps" binding:"gte=0,lte=10000"`
	Milestones      []MilestoneParams `json:"milestones" binding:"required,min=1,dive"`
	ReviewerIDs     []string          `json:"reviewer_ids" binding:"required,min=1,dive,uuid"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// EscrowResponse is the escrow contract read model.
type EscrowResponse struct {
	ID              string            `json:"id"`
	EngagementID    string            `json:"engagement_id"`
	ContractAddress string            `json:"contract_address"`
	ProjectID       string            `json:"project_id"`
	ContributionID  string            `json:"contribution_id"`
	PayerAddress    string            `json:"payer_address"`
	ReceiverAddress string            `json:"receiver_address"`
	Amount          int64             `json:"amount"`
	PlatformFeeBps  int32             `json:"platform_fee_bps"`
	CurrentState    string            `json:"current_state"`
	DisputeFlag     bool              `json:"dispute_flag"`
	LedgerSequence  int64             `json:"ledger_sequence"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	CreatedAt       string            `json:"created_at"`
	UpdatedAt       string            `json:"updated_at"`
}

// MilestoneResponse is the milestone read model.
type MilestoneResponse struct {
	ID          string  `json:"id"`
	ContractID  string  `json:"contract_id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Amount      int64   `json:"amount"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date,omitempty"`
	CompletedAt *string `json:"completed_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// EscrowDetailResponse bundles a contract with its milestones.
type EscrowDetailResponse struct {
	Contract   EscrowResponse      `json:"contract"`
	Milestones []MilestoneResponse `json:"milestones"`
}

// SimulateRequest is the request body for transaction simulation/assembly.
type SimulateRequest struct {
	ContractAddress string `json:"contract_address" binding:"required,max=100"`
	Payload         string `json:"payload" binding:"required"`
	AuthNonce       string `json:"auth_nonce,omitempty"`
	SourceAccount   string `json:"source_account,omitempty"`
}

// AssembledResponse is the response body for a simulated and assembled
// envelope, ready for signing.
type AssembledResponse struct {
	ContractAddress string `json:"contract_address"`
	Payload         string `json:"payload"`
	AuthNonce       string `json:"auth_nonce"`
	MinResourceFee  int64  `json:"min_resource_fee"`
}

// SubmitRequest is the request body for signed envelope submission.
type SubmitRequest struct {
	Payload         string `json:"payload" binding:"required"`
	TransactionHash string `json:"transaction_hash" binding:"required,max=128"`
}

// SubmitResponse is the ledger's acknowledgement.
type SubmitResponse struct {
	TransactionHash string `json:"transaction_hash"`
	Successful      bool   `json:"successful"`
	LedgerSequence  int64  `json:"ledger_sequence"`
}

// ReviewMilestoneRequest is the request body for a milestone review decision.
type ReviewMilestoneRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
	Comments string `json:"comments,omitempty" binding:"max=2000"`
}

// OpenDisputeRequest is the request body for filing a dispute.
type OpenDisputeRequest struct {
	EscrowID     string   `json:"escrow_id" binding:"required,uuid"`
	MilestoneID  *string  `json:"milestone_id,omitempty" binding:"omitempty,uuid"`
	FilerAddress string   `json:"filer_address" binding:"required,ledger_address"`
	Reason       string   `json:"reason" binding:"required,min=1,max=4000"`
	EvidenceURLs []string `json:"evidence_urls,omitempty" binding:"max=10,dive,safe_url"`
}

// AssignMediatorRequest is the request body for mediator assignment.
type AssignMediatorRequest struct {
	MediatorAddress string `json:"mediator_address" binding:"required,ledger_address"`
}

// AddEvidenceRequest is the request body for attaching dispute evidence.
type AddEvidenceRequest struct {
	SubmitterAddress string `json:"submitter_address" binding:"required,ledger_address"`
	EvidenceURL      string `json:"evidence_url" binding:"required,safe_url,max=1000"`
	Description      string `json:"description,omitempty" binding:"max=2000"`
}

// ResolveDisputeRequest is the request body for dispute resolution.
type ResolveDisputeRequest struct {
	ResolverAddress      string `json:"resolver_address" binding:"required,ledger_address"`
	ApproverFunds        int64  `json:"approver_funds" binding:"gte=0"`
	ServiceProviderFunds int64  `json:"service_provider_funds" binding:"gte=0"`
	Resolution           string `json:"resolution" binding:"required,min=1,max=4000"`
}

// DisputeResponse is the dispute read model.
type DisputeResponse struct {
	ID              string  `json:"id"`
	EscrowID        string  `json:"escrow_id"`
	MilestoneID     *string `json:"milestone_id,omitempty"`
	FilerAddress    string  `json:"filer_address"`
	MediatorAddress *string `json:"mediator_address,omitempty"`
	Status          string  `json:"status"`
	Reason          string  `json:"reason"`
	Resolution      *string `json:"resolution,omitempty"`
	CreatedAt       string  `json:"created_at"`
	ResolvedAt      *string `json:"resolved_at,omitempty"`
}

// EvidenceResponse is the dispute evidence read model.
type EvidenceResponse struct {
	ID          string `json:"id"`
	DisputeID   string `json:"dispute_id"`
	SubmittedBy string `json:"submitted_by"`
	EvidenceURL string `json:"evidence_url"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// DisputeDetailResponse bundles a dispute with its evidence.
type DisputeDetailResponse struct {
	Dispute  DisputeResponse    `json:"dispute"`
	Evidence []EvidenceResponse `json:"evidence"`
}

// ResolveDisputeResponse carries the resolved dispute and the unsigned
// release envelope awaiting countersignature.
type ResolveDisputeResponse struct {
	Dispute  DisputeResponse   `json:"dispute"`
	Envelope *EnvelopeResponse `json:"envelope,omitempty"`
}

// EnvelopeResponse is an unsigned ledger envelope returned to the client.
type EnvelopeResponse struct {
	ContractAddress string `json:"contract_address"`
	Payload         string `json:"payload"`
	AuthNonce       string `json:"auth_nonce"`
	SourceAccount   string `json:"source_account,omitempty"`
}

// ChallengeRequest is the request body for issuing a signing challenge.
type ChallengeRequest struct {
	Identifier string `json:"identifier" binding:"required,max=200"`
}

// TransactionChallengeRequest binds a challenge to a specific transaction.
type TransactionChallengeRequest struct {
	Identifier      string `json:"identifier" binding:"required,max=200"`
	ContractAddress string `json:"contract_address" binding:"required,max=100"`
	Payload         string `json:"payload,omitempty"`
	AuthNonce       string `json:"auth_nonce" binding:"required,max=200"`
}

// ChallengeResponse carries the issued challenge, base64url encoded.
type ChallengeResponse struct {
	Challenge string `json:"challenge"`
}

// VerifyAssertionRequest is the request body for passkey assertion
// verification. Assertion carries the raw WebAuthn authentication response.
type VerifyAssertionRequest struct {
	Identifier string `json:"identifier" binding:"required,max=200"`
	Assertion  string `json:"assertion" binding:"required"` // JSON, as produced by the browser
}

// VerifiedAssertionResponse is the verification outcome.
type VerifiedAssertionResponse struct {
	CredentialID string `json:"credential_id"` // base64url
	SignCount    uint32 `json:"sign_count"`
	Challenge    string `json:"challenge"` // base64url
}

package integration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Escrow Repo ---

type inMemoryEscrowRepo struct {
	mu        sync.RWMutex
	contracts map[uuid.UUID]*domain.EscrowContract
	reviewers map[uuid.UUID]map[uuid.UUID]bool // contractID -> reviewerID set
}

func newInMemoryEscrowRepo() *inMemoryEscrowRepo {
	return &inMemoryEscrowRepo{
		contracts: make(map[uuid.UUID]*domain.EscrowContract),
		reviewers: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (r *inMemoryEscrowRepo) Create(ctx context.Context, tx pgx.Tx, c *domain.EscrowContract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.contracts[c.ID] = &cp
	return nil
}

func (r *inMemoryEscrowRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.EscrowContract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contracts[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *inMemoryEscrowRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.EscrowContract, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryEscrowRepo) GetByContractAddress(ctx context.Context, contractAddress string) (*domain.EscrowContract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.contracts {
		if c.ContractAddress == contractAddress {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryEscrowRepo) TransitionState(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to domain.EscrowState) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contracts[id]
	if !ok || c.CurrentState != from {
		return false, nil
	}
	c.CurrentState = to
	c.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *inMemoryEscrowRepo) SetDisputeFlag(ctx context.Context, tx pgx.Tx, id uuid.UUID, flag bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contracts[id]
	if !ok {
		return fmt.Errorf("contract not found")
	}
	c.DisputeFlag = flag
	return nil
}

func (r *inMemoryEscrowRepo) ApplyLedgerState(ctx context.Context, id uuid.UUID, state domain.EscrowState, disputeFlag bool, sequence int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contracts[id]
	if !ok || sequence <= c.LedgerSequence {
		return false, nil
	}
	c.CurrentState = state
	c.DisputeFlag = disputeFlag
	c.LedgerSequence = sequence
	c.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *inMemoryEscrowRepo) ListNonTerminal(ctx context.Context) ([]domain.EscrowContract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.EscrowContract
	for _, c := range r.contracts {
		if !c.CurrentState.IsTerminal() {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *inMemoryEscrowRepo) AddReviewer(ctx context.Context, tx pgx.Tx, contractID, reviewerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.reviewers[contractID]
	if !ok {
		set = make(map[uuid.UUID]bool)
		r.reviewers[contractID] = set
	}
	set[reviewerID] = true
	return nil
}

func (r *inMemoryEscrowRepo) IsAuthorizedReviewer(ctx context.Context, contractID, reviewerID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reviewers[contractID][reviewerID], nil
}

// --- In-Memory Milestone Repo ---

type inMemoryMilestoneRepo struct {
	mu         sync.RWMutex
	milestones map[uuid.UUID]*domain.Milestone
}

func newInMemoryMilestoneRepo() *inMemoryMilestoneRepo {
	return &inMemoryMilestoneRepo{milestones: make(map[uuid.UUID]*domain.Milestone)}
}

func (r *inMemoryMilestoneRepo) CreateBatch(ctx context.Context, tx pgx.Tx, milestones []domain.Milestone) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range milestones {
		cp := milestones[i]
		r.milestones[cp.ID] = &cp
	}
	return nil
}

func (r *inMemoryMilestoneRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Milestone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.milestones[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *inMemoryMilestoneRepo) ListByContract(ctx context.Context, contractID uuid.UUID) ([]domain.Milestone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Milestone
	for _, m := range r.milestones {
		if m.ContractID == contractID {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (r *inMemoryMilestoneRepo) SetStatusIfPending(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.MilestoneStatus, completedAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.milestones[id]
	if !ok || m.Status != domain.MilestoneStatusPending {
		return false, nil
	}
	m.Status = status
	m.CompletedAt = completedAt
	m.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *inMemoryMilestoneRepo) ReopenIfRejected(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.milestones[id]
	if !ok || m.Status != domain.MilestoneStatusRejected {
		return false, nil
	}
	m.Status = domain.MilestoneStatusPending
	m.CompletedAt = nil
	m.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *inMemoryMilestoneRepo) CountPending(ctx context.Context, tx pgx.Tx, contractID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, m := range r.milestones {
		if m.ContractID == contractID && m.Status == domain.MilestoneStatusPending {
			count++
		}
	}
	return count, nil
}

// --- In-Memory Review Repo ---

type inMemoryReviewRepo struct {
	mu      sync.RWMutex
	reviews []domain.MilestoneReview
}

func newInMemoryReviewRepo() *inMemoryReviewRepo {
	return &inMemoryReviewRepo{}
}

func (r *inMemoryReviewRepo) Create(ctx context.Context, tx pgx.Tx, review *domain.MilestoneReview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *inMemoryReviewRepo) ListByMilestone(ctx context.Context, milestoneID uuid.UUID) ([]domain.MilestoneReview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.MilestoneReview
	for _, rev := range r.reviews {
		if rev.MilestoneID == milestoneID {
			result = append(result, rev)
		}
	}
	return result, nil
}

// --- In-Memory Dispute Repo ---

type inMemoryDisputeRepo struct {
	mu       sync.RWMutex
	disputes map[uuid.UUID]*domain.Dispute
}

func newInMemoryDisputeRepo() *inMemoryDisputeRepo {
	return &inMemoryDisputeRepo{disputes: make(map[uuid.UUID]*domain.Dispute)}
}

func (r *inMemoryDisputeRepo) Create(ctx context.Context, tx pgx.Tx, d *domain.Dispute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.disputes[d.ID] = &cp
	return nil
}

func (r *inMemoryDisputeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dispute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.disputes[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *inMemoryDisputeRepo) ListByEscrow(ctx context.Context, escrowID uuid.UUID) ([]domain.Dispute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Dispute
	for _, d := range r.disputes {
		if d.EscrowID == escrowID {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (r *inMemoryDisputeRepo) AssignMediator(ctx context.Context, tx pgx.Tx, id uuid.UUID, mediatorAddress string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.disputes[id]
	if !ok || d.Status.IsTerminal() {
		return false, nil
	}
	d.MediatorAddress = &mediatorAddress
	d.Status = domain.DisputeStatusInReview
	return true, nil
}

func (r *inMemoryDisputeRepo) Close(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.DisputeStatus, resolution string, resolvedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.disputes[id]
	if !ok || d.Status.IsTerminal() {
		return false, nil
	}
	d.Status = status
	d.Resolution = &resolution
	d.ResolvedAt = &resolvedAt
	return true, nil
}

func (r *inMemoryDisputeRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.disputes, id)
	return nil
}

func (r *inMemoryDisputeRepo) CountOpen(ctx context.Context, tx pgx.Tx, escrowID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, d := range r.disputes {
		if d.EscrowID == escrowID && !d.Status.IsTerminal() {
			count++
		}
	}
	return count, nil
}

// --- In-Memory Evidence Repo ---

type inMemoryEvidenceRepo struct {
	mu       sync.RWMutex
	evidence []domain.DisputeEvidence
}

func newInMemoryEvidenceRepo() *inMemoryEvidenceRepo {
	return &inMemoryEvidenceRepo{}
}

func (r *inMemoryEvidenceRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.DisputeEvidence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evidence = append(r.evidence, *e)
	return nil
}

func (r *inMemoryEvidenceRepo) ListByDispute(ctx context.Context, disputeID uuid.UUID) ([]domain.DisputeEvidence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.DisputeEvidence
	for _, e := range r.evidence {
		if e.DisputeID == disputeID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *inMemoryEvidenceRepo) DeleteByDispute(ctx context.Context, tx pgx.Tx, disputeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.evidence[:0]
	for _, e := range r.evidence {
		if e.DisputeID != disputeID {
			kept = append(kept, e)
		}
	}
	r.evidence = kept
	return nil
}

// --- In-Memory Credential Repo ---

type inMemoryCredentialRepo struct {
	mu          sync.RWMutex
	credentials map[uuid.UUID]*domain.PasskeyCredential
}

func newInMemoryCredentialRepo() *inMemoryCredentialRepo {
	return &inMemoryCredentialRepo{credentials: make(map[uuid.UUID]*domain.PasskeyCredential)}
}

func (r *inMemoryCredentialRepo) Create(ctx context.Context, c *domain.PasskeyCredential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.credentials[c.ID] = &cp
	return nil
}

func (r *inMemoryCredentialRepo) GetByIdentifier(ctx context.Context, identifier string) (*domain.PasskeyCredential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.credentials {
		if c.Identifier == identifier {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryCredentialRepo) UpdateSignCount(ctx context.Context, id uuid.UUID, signCount uint32, cloneWarning bool, lastUsedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.credentials[id]
	if !ok {
		return fmt.Errorf("credential not found")
	}
	c.SignCount = signCount
	c.CloneWarning = cloneWarning
	c.LastUsedAt = &lastUsedAt
	return nil
}

// --- In-Memory Release Repo ---

type inMemoryReleaseRepo struct {
	mu      sync.RWMutex
	intents map[uuid.UUID]*domain.ReleaseIntent
}

func newInMemoryReleaseRepo() *inMemoryReleaseRepo {
	return &inMemoryReleaseRepo{intents: make(map[uuid.UUID]*domain.ReleaseIntent)}
}

func (r *inMemoryReleaseRepo) Create(ctx context.Context, tx pgx.Tx, intent *domain.ReleaseIntent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *intent
	r.intents[intent.ID] = &cp
	return nil
}

func (r *inMemoryReleaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReleaseIntent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.intents[id]
	if !ok {
		return nil, nil
	}
	cp := *i
	return &cp, nil
}

func (r *inMemoryReleaseRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.ReleaseIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var claimed []domain.ReleaseIntent
	for _, i := range r.intents {
		if len(claimed) >= limit {
			break
		}
		if i.Status == domain.ReleaseStatusQueued {
			i.Status = domain.ReleaseStatusSubmitted
			claimed = append(claimed, *i)
		}
	}
	return claimed, nil
}

func (r *inMemoryReleaseRepo) MarkConfirmed(ctx context.Context, id uuid.UUID, txHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.intents[id]
	if !ok {
		return fmt.Errorf("release intent not found")
	}
	i.Status = domain.ReleaseStatusConfirmed
	i.TxHash = &txHash
	return nil
}

func (r *inMemoryReleaseRepo) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, lastError string, exhausted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.intents[id]
	if !ok {
		return fmt.Errorf("release intent not found")
	}
	i.Attempts = attempts
	i.LastError = &lastError
	if exhausted {
		i.Status = domain.ReleaseStatusFailed
	} else {
		i.Status = domain.ReleaseStatusQueued
	}
	return nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"
	"github.com/kindfi-org/kindfi-sub007/internal/core/ports"
	"github.com/kindfi-org/kindfi-sub007/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// DisputeServiceImpl implements ports.DisputeService. The owning contract's
// dispute flag is always recomputed from a live count inside the same
// transaction that changes dispute rows, never from request-scoped state.
type DisputeServiceImpl struct {
	disputeRepo   ports.DisputeRepository
	evidenceRepo  ports.EvidenceRepository
	escrowRepo    ports.EscrowRepository
	milestoneRepo ports.MilestoneRepository
	releaseRepo   ports.ReleaseRepository
	ledger        ports.LedgerClient
	notifier      ports.Notifier
	transactor    ports.DBTransactor
	log           zerolog.Logger
}

// NewDisputeService creates a new DisputeServiceImpl.
func NewDisputeService(
	disputeRepo ports.DisputeRepository,
	evidenceRepo ports.EvidenceRepository,
	escrowRepo ports.EscrowRepository,
	milestoneRepo ports.MilestoneRepository,
	releaseRepo ports.ReleaseRepository,
	ledger ports.LedgerClient,
	notifier ports.Notifier,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *DisputeServiceImpl {
	return &DisputeServiceImpl{
		disputeRepo:   disputeRepo,
		evidenceRepo:  evidenceRepo,
		escrowRepo:    escrowRepo,
		milestoneRepo: milestoneRepo,
		releaseRepo:   releaseRepo,
		ledger:        ledger,
		notifier:      notifier,
		transactor:    transactor,
		log:           log,
	}
}

// Open files a dispute against a contract or one of its milestones, marks
// the contract DISPUTED and raises its dispute flag.
func (s *DisputeServiceImpl) Open(ctx context.Context, req ports.OpenDisputeRequest) (*domain.Dispute, error) {
	if req.Reason == "" {
		return nil, apperror.Validation("Dispute reason is required")
	}

	contract, err := s.escrowRepo.GetByID(ctx, req.EscrowID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if contract == nil {
		return nil, apperror.ErrNotFound("escrow contract")
	}
	if !contract.AcceptsDisputes() {
		return nil, apperror.ErrContractTerminal()
	}

	if req.MilestoneID != nil {
		milestone, err := s.milestoneRepo.GetByID(ctx, *req.MilestoneID)
		if err != nil {
			return nil, apperror.ErrDatabaseError(err)
		}
		if milestone == nil || milestone.ContractID != contract.ID {
			return nil, apperror.ErrNotFound("milestone")
		}
	}

	now := time.Now().UTC()
	dispute := &domain.Dispute{
		ID:           uuid.New(),
		EscrowID:     req.EscrowID,
		MilestoneID:  req.MilestoneID,
		FilerAddress: req.FilerAddress,
		Status:       domain.DisputeStatusPending,
		Reason:       req.Reason,
		CreatedAt:    now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.disputeRepo.Create(ctx, dbTx, dispute); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if contract.CurrentState == domain.EscrowStateActive {
		// CAS miss means a concurrent dispute already moved the contract.
		if _, err := s.escrowRepo.TransitionState(ctx, dbTx, contract.ID, domain.EscrowStateActive, domain.EscrowStateDisputed); err != nil {
			return nil, apperror.ErrDatabaseError(err)
		}
	}
	if err := s.escrowRepo.SetDisputeFlag(ctx, dbTx, contract.ID, true); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	// Evidence named in the open request commits with the dispute row: a
	// failed attach fails the whole open instead of dropping evidence.
	for _, url := range req.EvidenceURLs {
		evidence := &domain.DisputeEvidence{
			ID:          uuid.New(),
			DisputeID:   dispute.ID,
			SubmittedBy: req.FilerAddress,
			EvidenceURL: url,
			CreatedAt:   now,
		}
		if err := s.evidenceRepo.Create(ctx, dbTx, evidence); err != nil {
			return nil, apperror.ErrDatabaseError(err)
		}
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.notifier.Notify(ctx, ports.NotificationEvent{
		Type:       "DISPUTE_OPENED",
		EscrowID:   contract.ID,
		EntityID:   dispute.ID,
		Detail:     map[string]string{"filer": req.FilerAddress},
		OccurredAt: now,
	})
	return dispute, nil
}

// Get fetches a dispute and its evidence trail.
func (s *DisputeServiceImpl) Get(ctx context.Context, disputeID uuid.UUID) (*domain.Dispute, []domain.DisputeEvidence, error) {
	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, nil, apperror.ErrDatabaseError(err)
	}
	if dispute == nil {
		return nil, nil, apperror.ErrDisputeNotFound()
	}

	evidence, err := s.evidenceRepo.ListByDispute(ctx, disputeID)
	if err != nil {
		return nil, nil, apperror.ErrDatabaseError(err)
	}
	return dispute, evidence, nil
}

// AssignMediator assigns a mediator to an open dispute, promoting it from
// pending to in_review.
func (s *DisputeServiceImpl) AssignMediator(ctx context.Context, disputeID uuid.UUID, mediatorAddress string, assignedBy uuid.UUID) (*domain.Dispute, error) {
	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if dispute == nil {
		return nil, apperror.ErrDisputeNotFound()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	ok, err := s.disputeRepo.AssignMediator(ctx, dbTx, disputeID, mediatorAddress)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if !ok {
		return nil, apperror.ErrDisputeTerminal()
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	dispute.MediatorAddress = &mediatorAddress
	if dispute.Status == domain.DisputeStatusPending {
		dispute.Status = domain.DisputeStatusInReview
	}

	s.notifier.Notify(ctx, ports.NotificationEvent{
		Type:       "DISPUTE_MEDIATOR_ASSIGNED",
		EscrowID:   dispute.EscrowID,
		EntityID:   dispute.ID,
		Detail:     map[string]string{"mediator": mediatorAddress, "assigned_by": assignedBy.String()},
		OccurredAt: time.Now().UTC(),
	})
	return dispute, nil
}

// AddEvidence attaches an evidence record to an open dispute.
func (s *DisputeServiceImpl) AddEvidence(ctx context.Context, disputeID uuid.UUID, submitterAddress, evidenceURL, description string) (*domain.DisputeEvidence, error) {
	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if dispute == nil {
		return nil, apperror.ErrDisputeNotFound()
	}
	if !dispute.IsOpen() {
		return nil, apperror.ErrDisputeTerminal()
	}

	evidence := &domain.DisputeEvidence{
		ID:          uuid.New(),
		DisputeID:   disputeID,
		SubmittedBy: submitterAddress,
		EvidenceURL: evidenceURL,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.evidenceRepo.Create(ctx, dbTx, evidence); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return evidence, nil
}

// Resolve finalizes a dispute with a fund split. The split must cover the
// disputed amount exactly before anything reaches the ledger; the ledger
// resolution goes first, then the local close in one transaction.
func (s *DisputeServiceImpl) Resolve(ctx context.Context, req ports.ResolveDisputeRequest) (*ports.ResolveDisputeResult, error) {
	dispute, err := s.disputeRepo.GetByID(ctx, req.DisputeID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if dispute == nil {
		return nil, apperror.ErrDisputeNotFound()
	}
	if !dispute.IsOpen() {
		return nil, apperror.ErrDisputeTerminal()
	}

	contract, err := s.escrowRepo.GetByID(ctx, dispute.EscrowID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if contract == nil {
		return nil, apperror.ErrNotFound("escrow contract")
	}

	disputed := contract.Amount
	if dispute.MilestoneID != nil {
		milestone, err := s.milestoneRepo.GetByID(ctx, *dispute.MilestoneID)
		if err != nil {
			return nil, apperror.ErrDatabaseError(err)
		}
		if milestone != nil {
			disputed = milestone.Amount
		}
	}

	if req.ApproverFunds < 0 || req.ServiceProviderFunds < 0 {
		return nil, apperror.ErrInvalidFundSplit(req.ApproverFunds+req.ServiceProviderFunds, disputed)
	}
	if req.ApproverFunds+req.ServiceProviderFunds != disputed {
		return nil, apperror.ErrInvalidFundSplit(req.ApproverFunds+req.ServiceProviderFunds, disputed)
	}

	envelope, err := s.ledger.ResolveDispute(ctx, contract.ContractAddress, req.ResolverAddress, req.ApproverFunds, req.ServiceProviderFunds)
	if err != nil {
		return nil, apperror.ErrLedgerResolutionFailed(err)
	}

	now := time.Now().UTC()
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	ok, err := s.disputeRepo.Close(ctx, dbTx, dispute.ID, domain.DisputeStatusResolved, req.Resolution, now)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if !ok {
		return nil, apperror.ErrDisputeTerminal()
	}

	intent := &domain.ReleaseIntent{
		ID:         uuid.New(),
		ContractID: contract.ID,
		DisputeID:  &dispute.ID,
		Status:     domain.ReleaseStatusQueued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.releaseRepo.Create(ctx, dbTx, intent); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	if err := s.recomputeDisputeFlag(ctx, dbTx, contract); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	dispute.Status = domain.DisputeStatusResolved
	dispute.Resolution = &req.Resolution
	dispute.ResolvedAt = &now

	s.notifier.Notify(ctx, ports.NotificationEvent{
		Type:     "DISPUTE_RESOLVED",
		EscrowID: contract.ID,
		EntityID: dispute.ID,
		Detail: map[string]string{
			"approver_funds":         fmt.Sprintf("%d", req.ApproverFunds),
			"service_provider_funds": fmt.Sprintf("%d", req.ServiceProviderFunds),
		},
		OccurredAt: now,
	})

	return &ports.ResolveDisputeResult{Dispute: dispute, Envelope: envelope}, nil
}

// Delete removes a dispute and its evidence, then recomputes the owning
// contract's dispute flag. Administrative use only.
func (s *DisputeServiceImpl) Delete(ctx context.Context, disputeID uuid.UUID) error {
	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if dispute == nil {
		return apperror.ErrDisputeNotFound()
	}

	contract, err := s.escrowRepo.GetByID(ctx, dispute.EscrowID)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.evidenceRepo.DeleteByDispute(ctx, dbTx, disputeID); err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if err := s.disputeRepo.Delete(ctx, dbTx, disputeID); err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if contract != nil {
		if err := s.recomputeDisputeFlag(ctx, dbTx, contract); err != nil {
			return err
		}
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

// recomputeDisputeFlag re-reads the live open-dispute count inside dbTx and
// lowers the flag (and the DISPUTED state) only when nothing remains open.
func (s *DisputeServiceImpl) recomputeDisputeFlag(ctx context.Context, dbTx pgx.Tx, contract *domain.EscrowContract) error {
	open, err := s.disputeRepo.CountOpen(ctx, dbTx, contract.ID)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if open > 0 {
		return nil
	}

	if err := s.escrowRepo.SetDisputeFlag(ctx, dbTx, contract.ID, false); err != nil {
		return apperror.ErrDatabaseError(err)
	}
	// Leaving DISPUTED only applies when the contract is actually there; the
	// CAS update is a no-op otherwise.
	if _, err := s.escrowRepo.TransitionState(ctx, dbTx, contract.ID, domain.EscrowStateDisputed, domain.EscrowStateActive); err != nil {
		return apperror.ErrDatabaseError(err)
	}
	return nil
}

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

// ReviewServiceImpl implements ports.ReviewService. A milestone accepts
// exactly one decision: the conditional status write is the arbiter when two
// reviewers race.
type ReviewServiceImpl struct {
	milestoneRepo ports.MilestoneRepository
	escrowRepo    ports.EscrowRepository
	reviewRepo    ports.ReviewRepository
	releaseRepo   ports.ReleaseRepository
	notifier      ports.Notifier
	transactor    ports.DBTransactor
	log           zerolog.Logger
}

// NewReviewService creates a new ReviewServiceImpl.
func NewReviewService(
	milestoneRepo ports.MilestoneRepository,
	escrowRepo ports.EscrowRepository,
	reviewRepo ports.ReviewRepository,
	releaseRepo ports.ReleaseRepository,
	notifier ports.Notifier,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *ReviewServiceImpl {
	return &ReviewServiceImpl{
		milestoneRepo: milestoneRepo,
		escrowRepo:    escrowRepo,
		reviewRepo:    reviewRepo,
		releaseRepo:   releaseRepo,
		notifier:      notifier,
		transactor:    transactor,
		log:           log,
	}
}

// Review applies a reviewer decision to a pending milestone. An approval of
// the first milestone activates the contract; an approval of the last pending
// milestone completes it and queues the fund release.
func (s *ReviewServiceImpl) Review(ctx context.Context, req ports.ReviewRequest) (*domain.Milestone, error) {
	if !req.Decision.Valid() {
		return nil, apperror.ErrInvalidDecision(string(req.Decision))
	}

	milestone, err := s.milestoneRepo.GetByID(ctx, req.MilestoneID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if milestone == nil {
		return nil, apperror.ErrNotFound("milestone")
	}

	contract, err := s.escrowRepo.GetByID(ctx, milestone.ContractID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if contract == nil {
		return nil, apperror.ErrNotFound("escrow contract")
	}
	if contract.IsTerminal() {
		return nil, apperror.ErrContractTerminal()
	}
	// Reviews only start once funding is confirmed: an approval on a NEW
	// contract would queue a fund release for an escrow holding nothing.
	if contract.CurrentState == domain.EscrowStateNew {
		return nil, apperror.ErrInvalidStateTransition(string(contract.CurrentState), string(domain.EscrowStateActive))
	}

	authorized, err := s.escrowRepo.IsAuthorizedReviewer(ctx, contract.ID, req.ReviewerID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if !authorized {
		return nil, apperror.ErrReviewerNotAuthorized()
	}

	now := time.Now().UTC()
	status := domain.MilestoneStatusRejected
	var completedAt *time.Time
	if req.Decision == domain.DecisionApproved {
		status = domain.MilestoneStatusApproved
		completedAt = &now
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	ok, err := s.milestoneRepo.SetStatusIfPending(ctx, dbTx, milestone.ID, status, completedAt)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if !ok {
		return nil, apperror.ErrAlreadyReviewed()
	}

	review := &domain.MilestoneReview{
		ID:          uuid.New(),
		MilestoneID: milestone.ID,
		ReviewerID:  req.ReviewerID,
		Decision:    req.Decision,
		Comments:    req.Comments,
		CreatedAt:   now,
	}
	if err := s.reviewRepo.Create(ctx, dbTx, review); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	if req.Decision == domain.DecisionApproved {
		if err := s.applyApproval(ctx, dbTx, contract, milestone, now); err != nil {
			return nil, err
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	milestone.Status = status
	milestone.CompletedAt = completedAt
	milestone.UpdatedAt = now

	eventType := "MILESTONE_REJECTED"
	if req.Decision == domain.DecisionApproved {
		eventType = "MILESTONE_APPROVED"
	}
	s.notifier.Notify(ctx, ports.NotificationEvent{
		Type:       eventType,
		EscrowID:   contract.ID,
		EntityID:   milestone.ID,
		Detail:     map[string]string{"reviewer_id": req.ReviewerID.String()},
		OccurredAt: now,
	})

	return milestone, nil
}

// applyApproval runs the contract-level consequences of an approval inside
// the review transaction: activation on the first approval, completion and a
// queued release on the last.
func (s *ReviewServiceImpl) applyApproval(ctx context.Context, dbTx pgx.Tx, contract *domain.EscrowContract, milestone *domain.Milestone, now time.Time) error {
	if contract.CurrentState == domain.EscrowStateFunded {
		// A CAS miss here just means a concurrent approval activated first.
		if _, err := s.escrowRepo.TransitionState(ctx, dbTx, contract.ID, domain.EscrowStateFunded, domain.EscrowStateActive); err != nil {
			return apperror.ErrDatabaseError(err)
		}
	}

	intent := &domain.ReleaseIntent{
		ID:          uuid.New(),
		ContractID:  contract.ID,
		MilestoneID: &milestone.ID,
		Status:      domain.ReleaseStatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.releaseRepo.Create(ctx, dbTx, intent); err != nil {
		return apperror.ErrDatabaseError(err)
	}

	pending, err := s.milestoneRepo.CountPending(ctx, dbTx, contract.ID)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if pending == 0 {
		if _, err := s.escrowRepo.TransitionState(ctx, dbTx, contract.ID, domain.EscrowStateActive, domain.EscrowStateCompleted); err != nil {
			return apperror.ErrDatabaseError(err)
		}
	}
	return nil
}

// RequestReupload reopens a rejected milestone so the service provider can
// submit a new deliverable.
func (s *ReviewServiceImpl) RequestReupload(ctx context.Context, milestoneID, requesterID uuid.UUID) (*domain.Milestone, error) {
	milestone, err := s.milestoneRepo.GetByID(ctx, milestoneID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if milestone == nil {
		return nil, apperror.ErrNotFound("milestone")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	ok, err := s.milestoneRepo.ReopenIfRejected(ctx, dbTx, milestoneID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if !ok {
		return nil, apperror.ErrMilestoneNotRejected()
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	milestone.Status = domain.MilestoneStatusPending
	milestone.UpdatedAt = time.Now().UTC()

	s.notifier.Notify(ctx, ports.NotificationEvent{
		Type:       "MILESTONE_REOPENED",
		EscrowID:   milestone.ContractID,
		EntityID:   milestone.ID,
		Detail:     map[string]string{"requested_by": requesterID.String()},
		OccurredAt: milestone.UpdatedAt,
	})
	return milestone, nil
}

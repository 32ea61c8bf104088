package service

import (
	"context"
	"testing"

	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"
	"github.com/kindfi-org/kindfi-sub007/internal/core/ports"
	"github.com/kindfi-org/kindfi-sub007/internal/core/ports/mocks"
	"github.com/kindfi-org/kindfi-sub007/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type reviewTestDeps struct {
	svc         *ReviewServiceImpl
	msRepo      *mocks.MockMilestoneRepository
	escrowRepo  *mocks.MockEscrowRepository
	reviewRepo  *mocks.MockReviewRepository
	releaseRepo *mocks.MockReleaseRepository
	notifier    *mocks.MockNotifier
	transactor  *mocks.MockDBTransactor
	ctrl        *gomock.Controller
}

func setupReviewService(t *testing.T) *reviewTestDeps {
	ctrl := gomock.NewController(t)
	d := &reviewTestDeps{
		msRepo:      mocks.NewMockMilestoneRepository(ctrl),
		escrowRepo:  mocks.NewMockEscrowRepository(ctrl),
		reviewRepo:  mocks.NewMockReviewRepository(ctrl),
		releaseRepo: mocks.NewMockReleaseRepository(ctrl),
		notifier:    mocks.NewMockNotifier(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewReviewService(
		d.msRepo, d.escrowRepo, d.reviewRepo, d.releaseRepo,
		d.notifier, d.transactor, zerolog.Nop(),
	)
	return d
}

func reviewFixture(state domain.EscrowState) (*domain.EscrowContract, *domain.Milestone) {
	contract := &domain.EscrowContract{
		ID:              uuid.New(),
		ContractAddress: "CCONTRACT",
		CurrentState:    state,
		Amount:          1000,
	}
	milestone := &domain.Milestone{
		ID:         uuid.New(),
		ContractID: contract.ID,
		Title:      "Design",
		Amount:     300,
		Status:     domain.MilestoneStatusPending,
	}
	return contract, milestone
}

func TestReviewService_Review_FirstApprovalActivatesContract(t *testing.T) {
	d := setupReviewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, milestone := reviewFixture(domain.EscrowStateFunded)
	reviewerID := uuid.New()
	tx := &mockTx{}

	d.msRepo.EXPECT().GetByID(ctx, milestone.ID).Return(milestone, nil)
	d.escrowRepo.EXPECT().GetByID(ctx, contract.ID).Return(contract, nil)
	d.escrowRepo.EXPECT().IsAuthorizedReviewer(ctx, contract.ID, reviewerID).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.msRepo.EXPECT().SetStatusIfPending(ctx, tx, milestone.ID, domain.MilestoneStatusApproved, gomock.Any()).Return(true, nil)
	d.reviewRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.escrowRepo.EXPECT().TransitionState(ctx, tx, contract.ID, domain.EscrowStateFunded, domain.EscrowStateActive).Return(true, nil)
	d.releaseRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, intent *domain.ReleaseIntent) error {
			assert.Equal(t, contract.ID, intent.ContractID)
			require.NotNil(t, intent.MilestoneID)
			assert.Equal(t, milestone.ID, *intent.MilestoneID)
			assert.Equal(t, domain.ReleaseStatusQueued, intent.Status)
			return nil
		})
	d.msRepo.EXPECT().CountPending(ctx, tx, contract.ID).Return(int64(1), nil)
	d.notifier.EXPECT().Notify(ctx, gomock.Any())

	got, err := d.svc.Review(ctx, ports.ReviewRequest{
		MilestoneID: milestone.ID,
		ReviewerID:  reviewerID,
		Decision:    domain.DecisionApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MilestoneStatusApproved, got.Status)
	require.NotNil(t, got.CompletedAt)
}

func TestReviewService_Review_LastApprovalCompletesContract(t *testing.T) {
	d := setupReviewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, milestone := reviewFixture(domain.EscrowStateActive)
	reviewerID := uuid.New()
	tx := &mockTx{}

	d.msRepo.EXPECT().GetByID(ctx, milestone.ID).Return(milestone, nil)
	d.escrowRepo.EXPECT().GetByID(ctx, contract.ID).Return(contract, nil)
	d.escrowRepo.EXPECT().IsAuthorizedReviewer(ctx, contract.ID, reviewerID).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.msRepo.EXPECT().SetStatusIfPending(ctx, tx, milestone.ID, domain.MilestoneStatusApproved, gomock.Any()).Return(true, nil)
	d.reviewRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.releaseRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.msRepo.EXPECT().CountPending(ctx, tx, contract.ID).Return(int64(0), nil)
	d.escrowRepo.EXPECT().TransitionState(ctx, tx, contract.ID, domain.EscrowStateActive, domain.EscrowStateCompleted).Return(true, nil)
	d.notifier.EXPECT().Notify(ctx, gomock.Any())

	_, err := d.svc.Review(ctx, ports.ReviewRequest{
		MilestoneID: milestone.ID,
		ReviewerID:  reviewerID,
		Decision:    domain.DecisionApproved,
	})
	require.NoError(t, err)
}

func TestReviewService_Review_Rejection(t *testing.T) {
	d := setupReviewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, milestone := reviewFixture(domain.EscrowStateActive)
	reviewerID := uuid.New()
	tx := &mockTx{}

	d.msRepo.EXPECT().GetByID(ctx, milestone.ID).Return(milestone, nil)
	d.escrowRepo.EXPECT().GetByID(ctx, contract.ID).Return(contract, nil)
	d.escrowRepo.EXPECT().IsAuthorizedReviewer(ctx, contract.ID, reviewerID).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.msRepo.EXPECT().SetStatusIfPending(ctx, tx, milestone.ID, domain.MilestoneStatusRejected, gomock.Nil()).Return(true, nil)
	d.reviewRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	// No release intent and no state transition on rejection.
	d.notifier.EXPECT().Notify(ctx, gomock.Any())

	got, err := d.svc.Review(ctx, ports.ReviewRequest{
		MilestoneID: milestone.ID,
		ReviewerID:  reviewerID,
		Decision:    domain.DecisionRejected,
		Comments:    "deliverable incomplete",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MilestoneStatusRejected, got.Status)
	assert.Nil(t, got.CompletedAt)
}

func TestReviewService_Review_ConcurrentDecisionLoses(t *testing.T) {
	d := setupReviewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, milestone := reviewFixture(domain.EscrowStateActive)
	reviewerID := uuid.New()
	tx := &mockTx{}

	d.msRepo.EXPECT().GetByID(ctx, milestone.ID).Return(milestone, nil)
	d.escrowRepo.EXPECT().GetByID(ctx, contract.ID).Return(contract, nil)
	d.escrowRepo.EXPECT().IsAuthorizedReviewer(ctx, contract.ID, reviewerID).Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.msRepo.EXPECT().SetStatusIfPending(ctx, tx, milestone.ID, domain.MilestoneStatusApproved, gomock.Any()).Return(false, nil)

	_, err := d.svc.Review(ctx, ports.ReviewRequest{
		MilestoneID: milestone.ID,
		ReviewerID:  reviewerID,
		Decision:    domain.DecisionApproved,
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "MIL_001", appErr.Code)
}

func TestReviewService_Review_UnauthorizedReviewer(t *testing.T) {
	d := setupReviewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, milestone := reviewFixture(domain.EscrowStateActive)
	reviewerID := uuid.New()

	d.msRepo.EXPECT().GetByID(ctx, milestone.ID).Return(milestone, nil)
	d.escrowRepo.EXPECT().GetByID(ctx, contract.ID).Return(contract, nil)
	d.escrowRepo.EXPECT().IsAuthorizedReviewer(ctx, contract.ID, reviewerID).Return(false, nil)

	_, err := d.svc.Review(ctx, ports.ReviewRequest{
		MilestoneID: milestone.ID,
		ReviewerID:  reviewerID,
		Decision:    domain.DecisionApproved,
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "MIL_002", appErr.Code)
}

func TestReviewService_Review_UnfundedContract(t *testing.T) {
	d := setupReviewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, milestone := reviewFixture(domain.EscrowStateNew)

	// No transactor or release expectations: an approval before funding must
	// be rejected before anything is written or queued.
	d.msRepo.EXPECT().GetByID(ctx, milestone.ID).Return(milestone, nil)
	d.escrowRepo.EXPECT().GetByID(ctx, contract.ID).Return(contract, nil)

	_, err := d.svc.Review(ctx, ports.ReviewRequest{
		MilestoneID: milestone.ID,
		ReviewerID:  uuid.New(),
		Decision:    domain.DecisionApproved,
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ESC_004", appErr.Code)
}

func TestReviewService_Review_TerminalContract(t *testing.T) {
	d := setupReviewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, milestone := reviewFixture(domain.EscrowStateCompleted)

	d.msRepo.EXPECT().GetByID(ctx, milestone.ID).Return(milestone, nil)
	d.escrowRepo.EXPECT().GetByID(ctx, contract.ID).Return(contract, nil)

	_, err := d.svc.Review(ctx, ports.ReviewRequest{
		MilestoneID: milestone.ID,
		ReviewerID:  uuid.New(),
		Decision:    domain.DecisionApproved,
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DSP_004", appErr.Code)
}

func TestReviewService_Review_InvalidDecision(t *testing.T) {
	d := setupReviewService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Review(context.Background(), ports.ReviewRequest{
		MilestoneID: uuid.New(),
		ReviewerID:  uuid.New(),
		Decision:    domain.ReviewDecision("maybe"),
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "MIL_003", appErr.Code)
}

func TestReviewService_RequestReupload(t *testing.T) {
	d := setupReviewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	_, milestone := reviewFixture(domain.EscrowStateActive)
	milestone.Status = domain.MilestoneStatusRejected
	tx := &mockTx{}

	d.msRepo.EXPECT().GetByID(ctx, milestone.ID).Return(milestone, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.msRepo.EXPECT().ReopenIfRejected(ctx, tx, milestone.ID).Return(true, nil)
	d.notifier.EXPECT().Notify(ctx, gomock.Any())

	got, err := d.svc.RequestReupload(ctx, milestone.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, domain.MilestoneStatusPending, got.Status)
}

func TestReviewService_RequestReupload_NotRejected(t *testing.T) {
	d := setupReviewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	_, milestone := reviewFixture(domain.EscrowStateActive)
	tx := &mockTx{}

	d.msRepo.EXPECT().GetByID(ctx, milestone.ID).Return(milestone, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.msRepo.EXPECT().ReopenIfRejected(ctx, tx, milestone.ID).Return(false, nil)

	_, err := d.svc.RequestReupload(ctx, milestone.ID, uuid.New())
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "MIL_004", appErr.Code)
}

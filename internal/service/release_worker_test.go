package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"
	"github.com/kindfi-org/kindfi-sub007/internal/core/ports"
	"github.com/kindfi-org/kindfi-sub007/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type workerTestDeps struct {
	worker      *ReleaseWorker
	releaseRepo *mocks.MockReleaseRepository
	escrowRepo  *mocks.MockEscrowRepository
	msRepo      *mocks.MockMilestoneRepository
	ledger      *mocks.MockLedgerClient
	notifier    *mocks.MockNotifier
	ctrl        *gomock.Controller
}

func setupReleaseWorker(t *testing.T, maxAttempts int) *workerTestDeps {
	ctrl := gomock.NewController(t)
	d := &workerTestDeps{
		releaseRepo: mocks.NewMockReleaseRepository(ctrl),
		escrowRepo:  mocks.NewMockEscrowRepository(ctrl),
		msRepo:      mocks.NewMockMilestoneRepository(ctrl),
		ledger:      mocks.NewMockLedgerClient(ctrl),
		notifier:    mocks.NewMockNotifier(ctrl),
		ctrl:        ctrl,
	}
	d.worker = NewReleaseWorker(
		d.releaseRepo, d.escrowRepo, d.msRepo, d.ledger, d.notifier,
		time.Second, maxAttempts, 1, zerolog.Nop(),
	)
	return d
}

func workerFixture() (*domain.EscrowContract, domain.ReleaseIntent) {
	contract := &domain.EscrowContract{
		ID:              uuid.New(),
		ContractAddress: "CCONTRACT",
		CurrentState:    domain.EscrowStateActive,
	}
	milestoneID := uuid.New()
	intent := domain.ReleaseIntent{
		ID:          uuid.New(),
		ContractID:  contract.ID,
		MilestoneID: &milestoneID,
		Status:      domain.ReleaseStatusSubmitted,
	}
	return contract, intent
}

func TestReleaseWorker_RunOnce_ConfirmsRelease(t *testing.T) {
	d := setupReleaseWorker(t, 5)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, intent := workerFixture()

	d.releaseRepo.EXPECT().ClaimQueued(ctx, claimBatchSize).Return([]domain.ReleaseIntent{intent}, nil)
	d.escrowRepo.EXPECT().GetByID(gomock.Any(), contract.ID).Return(contract, nil)
	d.msRepo.EXPECT().GetByID(gomock.Any(), *intent.MilestoneID).Return(&domain.Milestone{
		ID:         *intent.MilestoneID,
		ContractID: contract.ID,
	}, nil)
	d.ledger.EXPECT().ReleaseFunds(gomock.Any(), "CCONTRACT", intent.MilestoneID.String()).Return(&ports.SubmitResult{
		TransactionHash: "abc123",
		Successful:      true,
	}, nil)
	d.releaseRepo.EXPECT().MarkConfirmed(gomock.Any(), intent.ID, "abc123").Return(nil)
	d.notifier.EXPECT().Notify(gomock.Any(), gomock.Any())

	require.NoError(t, d.worker.RunOnce(ctx))
}

func TestReleaseWorker_RunOnce_EmptyBatch(t *testing.T) {
	d := setupReleaseWorker(t, 5)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.releaseRepo.EXPECT().ClaimQueued(ctx, claimBatchSize).Return(nil, nil)

	require.NoError(t, d.worker.RunOnce(ctx))
}

func TestReleaseWorker_RunOnce_LedgerFailureRequeues(t *testing.T) {
	d := setupReleaseWorker(t, 5)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, intent := workerFixture()
	intent.Attempts = 1

	d.releaseRepo.EXPECT().ClaimQueued(ctx, claimBatchSize).Return([]domain.ReleaseIntent{intent}, nil)
	d.escrowRepo.EXPECT().GetByID(gomock.Any(), contract.ID).Return(contract, nil)
	d.msRepo.EXPECT().GetByID(gomock.Any(), *intent.MilestoneID).Return(&domain.Milestone{
		ID:         *intent.MilestoneID,
		ContractID: contract.ID,
	}, nil)
	d.ledger.EXPECT().ReleaseFunds(gomock.Any(), "CCONTRACT", intent.MilestoneID.String()).Return(nil, &ports.LedgerError{
		Code: "network_error", Transient: true,
	})
	d.releaseRepo.EXPECT().MarkRetry(gomock.Any(), intent.ID, 2, gomock.Any(), false).Return(nil)

	require.NoError(t, d.worker.RunOnce(ctx))
}

func TestReleaseWorker_RunOnce_AttemptsExhausted(t *testing.T) {
	d := setupReleaseWorker(t, 3)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, intent := workerFixture()
	intent.Attempts = 2 // third attempt is the last

	d.releaseRepo.EXPECT().ClaimQueued(ctx, claimBatchSize).Return([]domain.ReleaseIntent{intent}, nil)
	d.escrowRepo.EXPECT().GetByID(gomock.Any(), contract.ID).Return(contract, nil)
	d.msRepo.EXPECT().GetByID(gomock.Any(), *intent.MilestoneID).Return(&domain.Milestone{
		ID:         *intent.MilestoneID,
		ContractID: contract.ID,
	}, nil)
	d.ledger.EXPECT().ReleaseFunds(gomock.Any(), "CCONTRACT", intent.MilestoneID.String()).Return(nil, errors.New("ledger down"))
	d.releaseRepo.EXPECT().MarkRetry(gomock.Any(), intent.ID, 3, "ledger down", true).Return(nil)

	require.NoError(t, d.worker.RunOnce(ctx))
}

func TestReleaseWorker_RunOnce_MissingContractRequeues(t *testing.T) {
	d := setupReleaseWorker(t, 5)
	defer d.ctrl.Finish()

	ctx := context.Background()
	_, intent := workerFixture()

	d.releaseRepo.EXPECT().ClaimQueued(ctx, claimBatchSize).Return([]domain.ReleaseIntent{intent}, nil)
	d.escrowRepo.EXPECT().GetByID(gomock.Any(), intent.ContractID).Return(nil, nil)
	d.releaseRepo.EXPECT().MarkRetry(gomock.Any(), intent.ID, 1, gomock.Any(), false).Return(nil)

	require.NoError(t, d.worker.RunOnce(ctx))
}

func TestReleaseWorker_Run_StopsOnCancel(t *testing.T) {
	d := setupReleaseWorker(t, 5)
	defer d.ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.worker.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}

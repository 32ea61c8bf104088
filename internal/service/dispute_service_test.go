package service

import (
	"context"
	"errors"
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

type disputeTestDeps struct {
	svc          *DisputeServiceImpl
	disputeRepo  *mocks.MockDisputeRepository
	evidenceRepo *mocks.MockEvidenceRepository
	escrowRepo   *mocks.MockEscrowRepository
	msRepo       *mocks.MockMilestoneRepository
	releaseRepo  *mocks.MockReleaseRepository
	ledger       *mocks.MockLedgerClient
	notifier     *mocks.MockNotifier
	transactor   *mocks.MockDBTransactor
	ctrl         *gomock.Controller
}

func setupDisputeService(t *testing.T) *disputeTestDeps {
	ctrl := gomock.NewController(t)
	d := &disputeTestDeps{
		disputeRepo:  mocks.NewMockDisputeRepository(ctrl),
		evidenceRepo: mocks.NewMockEvidenceRepository(ctrl),
		escrowRepo:   mocks.NewMockEscrowRepository(ctrl),
		msRepo:       mocks.NewMockMilestoneRepository(ctrl),
		releaseRepo:  mocks.NewMockReleaseRepository(ctrl),
		ledger:       mocks.NewMockLedgerClient(ctrl),
		notifier:     mocks.NewMockNotifier(ctrl),
		transactor:   mocks.NewMockDBTransactor(ctrl),
		ctrl:         ctrl,
	}
	d.svc = NewDisputeService(
		d.disputeRepo, d.evidenceRepo, d.escrowRepo, d.msRepo, d.releaseRepo,
		d.ledger, d.notifier, d.transactor, zerolog.Nop(),
	)
	return d
}

func disputeFixture() (*domain.EscrowContract, *domain.Dispute) {
	contract := &domain.EscrowContract{
		ID:              uuid.New(),
		ContractAddress: "CCONTRACT",
		CurrentState:    domain.EscrowStateDisputed,
		DisputeFlag:     true,
		Amount:          1000,
	}
	dispute := &domain.Dispute{
		ID:           uuid.New(),
		EscrowID:     contract.ID,
		FilerAddress: "GFILER",
		Status:       domain.DisputeStatusInReview,
		Reason:       "deliverable does not match scope",
	}
	return contract, dispute
}

func TestDisputeService_Open_MarksContractDisputed(t *testing.T) {
	d := setupDisputeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, _ := disputeFixture()
	contract.CurrentState = domain.EscrowStateActive
	contract.DisputeFlag = false
	tx := &mockTx{}

	d.escrowRepo.EXPECT().GetByID(ctx, contract.ID).Return(contract, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.disputeRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, dispute *domain.Dispute) error {
			assert.Equal(t, domain.DisputeStatusPending, dispute.Status)
			assert.Equal(t, "GFILER", dispute.FilerAddress)
			return nil
		})
	d.escrowRepo.EXPECT().TransitionState(ctx, tx, contract.ID, domain.EscrowStateActive, domain.EscrowStateDisputed).Return(true, nil)
	d.escrowRepo.EXPECT().SetDisputeFlag(ctx, tx, contract.ID, true).Return(nil)
	d.evidenceRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.notifier.EXPECT().Notify(ctx, gomock.Any())

	dispute, err := d.svc.Open(ctx, ports.OpenDisputeRequest{
		EscrowID:     contract.ID,
		FilerAddress: "GFILER",
		Reason:       "deliverable does not match scope",
		EvidenceURLs: []string{"https://evidence.example/1.pdf"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeStatusPending, dispute.Status)
}

func TestDisputeService_Open_EvidencePersistFails(t *testing.T) {
	d := setupDisputeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, _ := disputeFixture()
	contract.CurrentState = domain.EscrowStateActive
	contract.DisputeFlag = false
	tx := &mockTx{}

	d.escrowRepo.EXPECT().GetByID(ctx, contract.ID).Return(contract, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.disputeRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.escrowRepo.EXPECT().TransitionState(ctx, tx, contract.ID, domain.EscrowStateActive, domain.EscrowStateDisputed).Return(true, nil)
	d.escrowRepo.EXPECT().SetDisputeFlag(ctx, tx, contract.ID, true).Return(nil)
	d.evidenceRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(errors.New("insert failed"))
	// No Notify expectation: a failed evidence write aborts the whole open.

	_, err := d.svc.Open(ctx, ports.OpenDisputeRequest{
		EscrowID:     contract.ID,
		FilerAddress: "GFILER",
		Reason:       "deliverable does not match scope",
		EvidenceURLs: []string{"https://evidence.example/1.pdf"},
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SYS_001", appErr.Code)
}

func TestDisputeService_Open_TerminalContract(t *testing.T) {
	d := setupDisputeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, _ := disputeFixture()
	contract.CurrentState = domain.EscrowStateCompleted

	d.escrowRepo.EXPECT().GetByID(ctx, contract.ID).Return(contract, nil)

	_, err := d.svc.Open(ctx, ports.OpenDisputeRequest{
		EscrowID:     contract.ID,
		FilerAddress: "GFILER",
		Reason:       "too late",
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DSP_004", appErr.Code)
}

func TestDisputeService_Open_MilestoneFromOtherContract(t *testing.T) {
	d := setupDisputeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, _ := disputeFixture()
	contract.CurrentState = domain.EscrowStateActive
	foreignID := uuid.New()

	d.escrowRepo.EXPECT().GetByID(ctx, contract.ID).Return(contract, nil)
	d.msRepo.EXPECT().GetByID(ctx, foreignID).Return(&domain.Milestone{
		ID:         foreignID,
		ContractID: uuid.New(), // belongs elsewhere
	}, nil)

	_, err := d.svc.Open(ctx, ports.OpenDisputeRequest{
		EscrowID:     contract.ID,
		MilestoneID:  &foreignID,
		FilerAddress: "GFILER",
		Reason:       "wrong milestone",
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ESC_001", appErr.Code)
}

func TestDisputeService_Resolve_Success(t *testing.T) {
	d := setupDisputeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, dispute := disputeFixture()
	tx := &mockTx{}
	envelope := &ports.UnsignedEnvelope{ContractAddress: "CCONTRACT", AuthNonce: "n1"}

	d.disputeRepo.EXPECT().GetByID(ctx, dispute.ID).Return(dispute, nil)
	d.escrowRepo.EXPECT().GetByID(ctx, contract.ID).Return(contract, nil)
	d.ledger.EXPECT().ResolveDispute(ctx, "CCONTRACT", "GMEDIATOR", int64(400), int64(600)).Return(envelope, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.disputeRepo.EXPECT().Close(ctx, tx, dispute.ID, domain.DisputeStatusResolved, "split 40/60", gomock.Any()).Return(true, nil)
	d.releaseRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, intent *domain.ReleaseIntent) error {
			require.NotNil(t, intent.DisputeID)
			assert.Equal(t, dispute.ID, *intent.DisputeID)
			assert.Equal(t, domain.ReleaseStatusQueued, intent.Status)
			return nil
		})
	d.disputeRepo.EXPECT().CountOpen(ctx, tx, contract.ID).Return(int64(0), nil)
	d.escrowRepo.EXPECT().SetDisputeFlag(ctx, tx, contract.ID, false).Return(nil)
	d.escrowRepo.EXPECT().TransitionState(ctx, tx, contract.ID, domain.EscrowStateDisputed, domain.EscrowStateActive).Return(true, nil)
	d.notifier.EXPECT().Notify(ctx, gomock.Any())

	result, err := d.svc.Resolve(ctx, ports.ResolveDisputeRequest{
		DisputeID:            dispute.ID,
		ResolverAddress:      "GMEDIATOR",
		ApproverFunds:        400,
		ServiceProviderFunds: 600,
		Resolution:           "split 40/60",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeStatusResolved, result.Dispute.Status)
	assert.Equal(t, envelope, result.Envelope)
}

func TestDisputeService_Resolve_OtherDisputeStillOpenKeepsFlag(t *testing.T) {
	d := setupDisputeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, dispute := disputeFixture()
	tx := &mockTx{}

	d.disputeRepo.EXPECT().GetByID(ctx, dispute.ID).Return(dispute, nil)
	d.escrowRepo.EXPECT().GetByID(ctx, contract.ID).Return(contract, nil)
	d.ledger.EXPECT().ResolveDispute(ctx, "CCONTRACT", "GMEDIATOR", int64(400), int64(600)).Return(&ports.UnsignedEnvelope{}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.disputeRepo.EXPECT().Close(ctx, tx, dispute.ID, domain.DisputeStatusResolved, "split", gomock.Any()).Return(true, nil)
	d.releaseRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.disputeRepo.EXPECT().CountOpen(ctx, tx, contract.ID).Return(int64(1), nil)
	// Flag stays raised: no SetDisputeFlag, no state transition.
	d.notifier.EXPECT().Notify(ctx, gomock.Any())

	_, err := d.svc.Resolve(ctx, ports.ResolveDisputeRequest{
		DisputeID:            dispute.ID,
		ResolverAddress:      "GMEDIATOR",
		ApproverFunds:        400,
		ServiceProviderFunds: 600,
		Resolution:           "split",
	})
	require.NoError(t, err)
}

func TestDisputeService_Resolve_InvalidFundSplit(t *testing.T) {
	d := setupDisputeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, dispute := disputeFixture()

	d.disputeRepo.EXPECT().GetByID(ctx, dispute.ID).Return(dispute, nil)
	d.escrowRepo.EXPECT().GetByID(ctx, contract.ID).Return(contract, nil)
	// 400 + 500 = 900 != 1000: rejected before any ledger call.

	_, err := d.svc.Resolve(ctx, ports.ResolveDisputeRequest{
		DisputeID:            dispute.ID,
		ResolverAddress:      "GMEDIATOR",
		ApproverFunds:        400,
		ServiceProviderFunds: 500,
		Resolution:           "bad split",
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DSP_002", appErr.Code)
}

func TestDisputeService_Resolve_MilestoneScopedAmount(t *testing.T) {
	d := setupDisputeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, dispute := disputeFixture()
	milestoneID := uuid.New()
	dispute.MilestoneID = &milestoneID
	tx := &mockTx{}

	d.disputeRepo.EXPECT().GetByID(ctx, dispute.ID).Return(dispute, nil)
	d.escrowRepo.EXPECT().GetByID(ctx, contract.ID).Return(contract, nil)
	d.msRepo.EXPECT().GetByID(ctx, milestoneID).Return(&domain.Milestone{
		ID:         milestoneID,
		ContractID: contract.ID,
		Amount:     300,
	}, nil)
	d.ledger.EXPECT().ResolveDispute(ctx, "CCONTRACT", "GMEDIATOR", int64(100), int64(200)).Return(&ports.UnsignedEnvelope{}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.disputeRepo.EXPECT().Close(ctx, tx, dispute.ID, domain.DisputeStatusResolved, "partial", gomock.Any()).Return(true, nil)
	d.releaseRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.disputeRepo.EXPECT().CountOpen(ctx, tx, contract.ID).Return(int64(0), nil)
	d.escrowRepo.EXPECT().SetDisputeFlag(ctx, tx, contract.ID, false).Return(nil)
	d.escrowRepo.EXPECT().TransitionState(ctx, tx, contract.ID, domain.EscrowStateDisputed, domain.EscrowStateActive).Return(true, nil)
	d.notifier.EXPECT().Notify(ctx, gomock.Any())

	// 100 + 200 matches the milestone amount, not the contract amount.
	_, err := d.svc.Resolve(ctx, ports.ResolveDisputeRequest{
		DisputeID:            dispute.ID,
		ResolverAddress:      "GMEDIATOR",
		ApproverFunds:        100,
		ServiceProviderFunds: 200,
		Resolution:           "partial",
	})
	require.NoError(t, err)
}

func TestDisputeService_Resolve_AlreadyResolved(t *testing.T) {
	d := setupDisputeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	_, dispute := disputeFixture()
	dispute.Status = domain.DisputeStatusResolved

	d.disputeRepo.EXPECT().GetByID(ctx, dispute.ID).Return(dispute, nil)

	_, err := d.svc.Resolve(ctx, ports.ResolveDisputeRequest{
		DisputeID:            dispute.ID,
		ResolverAddress:      "GMEDIATOR",
		ApproverFunds:        400,
		ServiceProviderFunds: 600,
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DSP_003", appErr.Code)
}

func TestDisputeService_AssignMediator(t *testing.T) {
	d := setupDisputeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	_, dispute := disputeFixture()
	dispute.Status = domain.DisputeStatusPending

	tx := &mockTx{}
	d.disputeRepo.EXPECT().GetByID(ctx, dispute.ID).Return(dispute, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.disputeRepo.EXPECT().AssignMediator(ctx, tx, dispute.ID, "GMEDIATOR").Return(true, nil)
	d.notifier.EXPECT().Notify(ctx, gomock.Any())

	got, err := d.svc.AssignMediator(ctx, dispute.ID, "GMEDIATOR", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeStatusInReview, got.Status)
	require.NotNil(t, got.MediatorAddress)
	assert.Equal(t, "GMEDIATOR", *got.MediatorAddress)
}

func TestDisputeService_AddEvidence_ClosedDispute(t *testing.T) {
	d := setupDisputeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	_, dispute := disputeFixture()
	dispute.Status = domain.DisputeStatusRejected

	d.disputeRepo.EXPECT().GetByID(ctx, dispute.ID).Return(dispute, nil)

	_, err := d.svc.AddEvidence(ctx, dispute.ID, "GFILER", "https://evidence.example/2.pdf", "invoice")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DSP_003", appErr.Code)
}

func TestDisputeService_Delete_RecomputesFlag(t *testing.T) {
	d := setupDisputeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	contract, dispute := disputeFixture()
	tx := &mockTx{}

	d.disputeRepo.EXPECT().GetByID(ctx, dispute.ID).Return(dispute, nil)
	d.escrowRepo.EXPECT().GetByID(ctx, contract.ID).Return(contract, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.evidenceRepo.EXPECT().DeleteByDispute(ctx, tx, dispute.ID).Return(nil)
	d.disputeRepo.EXPECT().Delete(ctx, tx, dispute.ID).Return(nil)
	d.disputeRepo.EXPECT().CountOpen(ctx, tx, contract.ID).Return(int64(0), nil)
	d.escrowRepo.EXPECT().SetDisputeFlag(ctx, tx, contract.ID, false).Return(nil)
	d.escrowRepo.EXPECT().TransitionState(ctx, tx, contract.ID, domain.EscrowStateDisputed, domain.EscrowStateActive).Return(true, nil)

	err := d.svc.Delete(ctx, dispute.ID)
	require.NoError(t, err)
}

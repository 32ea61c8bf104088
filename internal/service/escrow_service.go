package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"
	"github.com/kindfi-org/kindfi-sub007/internal/core/ports"
	"github.com/kindfi-org/kindfi-sub007/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// submissionTTL bounds how long a transaction hash stays reserved and how
// long a cached submit result is replayed to duplicate callers.
const submissionTTL = time.Hour

// EscrowServiceImpl implements ports.EscrowService. It owns every ledger call
// and every mutation of the local mirror's current_state.
type EscrowServiceImpl struct {
	escrowRepo      ports.EscrowRepository
	milestoneRepo   ports.MilestoneRepository
	ledger          ports.LedgerClient
	subCache        ports.SubmissionCache
	kyc             ports.KYCChecker
	notifier        ports.Notifier
	transactor      ports.DBTransactor
	syncParallelism int
	log             zerolog.Logger
}

// NewEscrowService creates a new EscrowServiceImpl.
func NewEscrowService(
	escrowRepo ports.EscrowRepository,
	milestoneRepo ports.MilestoneRepository,
	ledger ports.LedgerClient,
	subCache ports.SubmissionCache,
	kyc ports.KYCChecker,
	notifier ports.Notifier,
	transactor ports.DBTransactor,
	syncParallelism int,
	log zerolog.Logger,
) *EscrowServiceImpl {
	if syncParallelism <= 0 {
		syncParallelism = 4
	}
	return &EscrowServiceImpl{
		escrowRepo:      escrowRepo,
		milestoneRepo:   milestoneRepo,
		ledger:          ledger,
		subCache:        subCache,
		kyc:             kyc,
		notifier:        notifier,
		transactor:      transactor,
		syncParallelism: syncParallelism,
		log:             log,
	}
}

// Initialize deploys a new escrow contract on the ledger and mirrors it
// locally. Ledger first: if local persistence fails afterwards, the ledger
// contract is cancelled best-effort and the caller gets a reconciliation
// error.
func (s *EscrowServiceImpl) Initialize(ctx context.Context, req ports.InitializeRequest) (*ports.InitializeResult, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if len(req.Milestones) == 0 {
		return nil, apperror.Validation("At least one milestone is required")
	}

	var milestoneSum int64
	amounts := make([]int64, 0, len(req.Milestones))
	for _, m := range req.Milestones {
		if m.Amount <= 0 {
			return nil, apperror.ErrInvalidAmount()
		}
		milestoneSum += m.Amount
		amounts = append(amounts, m.Amount)
	}
	if milestoneSum != req.Amount {
		return nil, apperror.ErrMilestoneSumMismatch(milestoneSum, req.Amount)
	}

	for _, address := range []string{req.PayerAddress, req.ReceiverAddress} {
		eligible, err := s.kyc.IsEligible(ctx, address)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("kyc check: %w", err))
		}
		if !eligible {
			return nil, apperror.ErrPartyNotEligible(address)
		}
	}

	deployed, err := s.ledger.InitializeContract(ctx, ports.InitializeContractParams{
		PayerAddress:     req.PayerAddress,
		ReceiverAddress:  req.ReceiverAddress,
		TotalAmount:      req.Amount,
		PlatformFeeBps:   req.PlatformFeeBps,
		MilestoneAmounts: amounts,
		Metadata:         req.Metadata,
	})
	if err != nil {
		return nil, ledgerCallError(err)
	}

	now := time.Now().UTC()
	contract := &domain.EscrowContract{
		ID:              uuid.New(),
		EngagementID:    deployed.EngagementID,
		ContractAddress: deployed.ContractAddress,
		ProjectID:       req.ProjectID,
		ContributionID:  req.ContributionID,
		PayerAddress:    req.PayerAddress,
		ReceiverAddress: req.ReceiverAddress,
		Amount:          req.Amount,
		PlatformFeeBps:  req.PlatformFeeBps,
		CurrentState:    domain.EscrowStateNew,
		Metadata:        req.Metadata,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	milestones := make([]domain.Milestone, 0, len(req.Milestones))
	for _, p := range req.Milestones {
		milestones = append(milestones, domain.Milestone{
			ID:          uuid.New(),
			ContractID:  contract.ID,
			Title:       p.Title,
			Description: p.Description,
			Amount:      p.Amount,
			Status:      domain.MilestoneStatusPending,
			DueDate:     p.DueDate,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := s.persistNewContract(ctx, contract, milestones, req.ReviewerIDs); err != nil {
		// Compensate: void the ledger contract so funds can never land there.
		if cancelErr := s.ledger.CancelContract(ctx, deployed.ContractAddress); cancelErr != nil {
			s.log.Error().Err(cancelErr).
				Str("contract_address", deployed.ContractAddress).
				Msg("compensating cancel failed, manual reconciliation required")
		}
		return nil, apperror.ErrReconciliationRequired(deployed.ContractAddress, err)
	}

	s.notifier.Notify(ctx, ports.NotificationEvent{
		Type:       "ESCROW_INITIALIZED",
		EscrowID:   contract.ID,
		EntityID:   contract.ID,
		Detail:     map[string]string{"contract_address": contract.ContractAddress},
		OccurredAt: now,
	})

	return &ports.InitializeResult{Contract: contract, Milestones: milestones}, nil
}

func (s *EscrowServiceImpl) persistNewContract(ctx context.Context, contract *domain.EscrowContract, milestones []domain.Milestone, reviewerIDs []uuid.UUID) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.escrowRepo.Create(ctx, dbTx, contract); err != nil {
		return err
	}
	if err := s.milestoneRepo.CreateBatch(ctx, dbTx, milestones); err != nil {
		return err
	}
	for _, reviewerID := range reviewerIDs {
		if err := s.escrowRepo.AddReviewer(ctx, dbTx, contract.ID, reviewerID); err != nil {
			return err
		}
	}
	return dbTx.Commit(ctx)
}

// SimulateAndAssemble dry-runs the envelope and, when the simulation
// succeeds, folds its authorization requirements in. Simulation failures
// short-circuit: nothing is ever signed or submitted for them.
func (s *EscrowServiceImpl) SimulateAndAssemble(ctx context.Context, envelope ports.UnsignedEnvelope) (*ports.AssembledEnvelope, error) {
	sim, err := s.ledger.Simulate(ctx, envelope)
	if err != nil {
		var lerr *ports.LedgerError
		if errors.As(err, &lerr) && !lerr.Transient {
			return nil, apperror.ErrSimulationFailed(err)
		}
		return nil, apperror.ErrLedgerUnavailable(err)
	}

	assembled, err := s.ledger.Assemble(ctx, envelope, sim)
	if err != nil {
		return nil, ledgerCallError(err)
	}
	return assembled, nil
}

// Submit sends a signed envelope to the ledger exactly once per transaction
// hash. Duplicate submissions replay the recorded outcome instead of hitting
// the ledger again.
func (s *EscrowServiceImpl) Submit(ctx context.Context, signed ports.SignedEnvelope) (*ports.SubmitResult, error) {
	if signed.TransactionHash == "" {
		return nil, apperror.Validation("Transaction hash is required")
	}

	reserved, err := s.subCache.Reserve(ctx, signed.TransactionHash, submissionTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("tx_hash", signed.TransactionHash).
			Msg("submission reservation failed, falling through to ledger")
	}
	if err == nil && !reserved {
		return s.resolveDuplicate(ctx, signed.TransactionHash)
	}

	result, err := s.ledger.Submit(ctx, signed)
	if err != nil {
		var lerr *ports.LedgerError
		if errors.As(err, &lerr) && lerr.Transient {
			// Outcome unknown: the envelope may have been applied. Ask the
			// ledger what it knows before reporting failure.
			if known, qerr := s.ledger.QueryByHash(ctx, signed.TransactionHash); qerr == nil && known != nil {
				s.cacheResult(ctx, known)
				return known, nil
			}
		}
		return nil, apperror.ErrSubmissionFailed(err)
	}

	s.cacheResult(ctx, result)
	return result, nil
}

// resolveDuplicate answers a submit whose hash was already reserved: replay
// the cached outcome, or ask the ledger when the first submit has not
// recorded one yet.
func (s *EscrowServiceImpl) resolveDuplicate(ctx context.Context, txHash string) (*ports.SubmitResult, error) {
	cached, err := s.subCache.Get(ctx, txHash)
	if err == nil && cached != nil {
		var result ports.SubmitResult
		if err := json.Unmarshal(cached, &result); err == nil {
			return &result, nil
		}
	}

	known, err := s.ledger.QueryByHash(ctx, txHash)
	if err != nil {
		return nil, ledgerCallError(err)
	}
	if known == nil {
		return nil, apperror.ErrConflict(fmt.Errorf("transaction %s is still in flight", txHash))
	}
	return known, nil
}

func (s *EscrowServiceImpl) cacheResult(ctx context.Context, result *ports.SubmitResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.subCache.Set(ctx, result.TransactionHash, raw, submissionTTL); err != nil {
		s.log.Warn().Err(err).Str("tx_hash", result.TransactionHash).Msg("caching submit result failed")
	}
}

// SyncState reconciles one local mirror row from the authoritative ledger
// snapshot. The sequence guard in the repository makes concurrent syncs
// last-authoritative-wins.
func (s *EscrowServiceImpl) SyncState(ctx context.Context, contractAddress string) (*domain.EscrowContract, error) {
	contract, err := s.escrowRepo.GetByContractAddress(ctx, contractAddress)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if contract == nil {
		return nil, apperror.ErrNotFound("escrow contract")
	}

	state, err := s.ledger.QueryByContractAddress(ctx, contractAddress)
	if err != nil {
		return nil, ledgerCallError(err)
	}
	if !state.State.Valid() {
		return nil, apperror.InternalError(fmt.Errorf("ledger reported unknown state %q", state.State))
	}

	applied, err := s.escrowRepo.ApplyLedgerState(ctx, contract.ID, state.State, state.DisputeFlag, state.Sequence)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if !applied {
		s.log.Debug().Str("contract_address", contractAddress).
			Int64("ledger_sequence", state.Sequence).
			Msg("sync skipped, local mirror already at or past sequence")
	}

	fresh, err := s.escrowRepo.GetByID(ctx, contract.ID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return fresh, nil
}

// SyncAll reconciles every non-terminal contract against the ledger with
// bounded parallelism. One contract failing does not stop the rest.
func (s *EscrowServiceImpl) SyncAll(ctx context.Context) error {
	contracts, err := s.escrowRepo.ListNonTerminal(ctx)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.syncParallelism)
	for _, contract := range contracts {
		address := contract.ContractAddress
		g.Go(func() error {
			if _, err := s.SyncState(gctx, address); err != nil {
				s.log.Warn().Err(err).Str("contract_address", address).Msg("contract sync failed")
			}
			return nil
		})
	}
	return g.Wait()
}

// Get fetches a contract and its milestones.
func (s *EscrowServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.EscrowContract, []domain.Milestone, error) {
	contract, err := s.escrowRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, apperror.ErrDatabaseError(err)
	}
	if contract == nil {
		return nil, nil, apperror.ErrNotFound("escrow contract")
	}

	milestones, err := s.milestoneRepo.ListByContract(ctx, id)
	if err != nil {
		return nil, nil, apperror.ErrDatabaseError(err)
	}
	return contract, milestones, nil
}

// MarkFunded applies the funding confirmation, moving NEW -> FUNDED.
func (s *EscrowServiceImpl) MarkFunded(ctx context.Context, contractAddress string) (*domain.EscrowContract, error) {
	contract, err := s.escrowRepo.GetByContractAddress(ctx, contractAddress)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if contract == nil {
		return nil, apperror.ErrNotFound("escrow contract")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	ok, err := s.escrowRepo.TransitionState(ctx, dbTx, contract.ID, domain.EscrowStateNew, domain.EscrowStateFunded)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if !ok {
		return nil, apperror.ErrInvalidStateTransition(string(contract.CurrentState), string(domain.EscrowStateFunded))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	contract.CurrentState = domain.EscrowStateFunded
	s.notifier.Notify(ctx, ports.NotificationEvent{
		Type:       "ESCROW_FUNDED",
		EscrowID:   contract.ID,
		EntityID:   contract.ID,
		Detail:     map[string]string{"contract_address": contractAddress},
		OccurredAt: time.Now().UTC(),
	})
	return contract, nil
}

// ledgerCallError maps a ledger client failure to the API error taxonomy.
func ledgerCallError(err error) *apperror.AppError {
	var lerr *ports.LedgerError
	if errors.As(err, &lerr) && lerr.Transient {
		return apperror.ErrLedgerUnavailable(err)
	}
	return apperror.ErrSubmissionFailed(err)
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"
	"github.com/kindfi-org/kindfi-sub007/internal/core/ports"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const claimBatchSize = 16

// ReleaseWorker drains queued fund-release intents against the ledger. The
// milestone approval or dispute resolution that queued an intent is already
// final; the worker only retries the ledger submission.
type ReleaseWorker struct {
	releaseRepo   ports.ReleaseRepository
	escrowRepo    ports.EscrowRepository
	milestoneRepo ports.MilestoneRepository
	ledger        ports.LedgerClient
	notifier      ports.Notifier
	pollInterval  time.Duration
	maxAttempts   int
	parallelism   int
	log           zerolog.Logger
}

// NewReleaseWorker creates a new ReleaseWorker.
func NewReleaseWorker(
	releaseRepo ports.ReleaseRepository,
	escrowRepo ports.EscrowRepository,
	milestoneRepo ports.MilestoneRepository,
	ledger ports.LedgerClient,
	notifier ports.Notifier,
	pollInterval time.Duration,
	maxAttempts int,
	parallelism int,
	log zerolog.Logger,
) *ReleaseWorker {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if parallelism <= 0 {
		parallelism = 4
	}
	return &ReleaseWorker{
		releaseRepo:   releaseRepo,
		escrowRepo:    escrowRepo,
		milestoneRepo: milestoneRepo,
		ledger:        ledger,
		notifier:      notifier,
		pollInterval:  pollInterval,
		maxAttempts:   maxAttempts,
		parallelism:   parallelism,
		log:           log,
	}
}

// Run polls for queued intents until ctx is cancelled.
func (w *ReleaseWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.log.Info().Dur("poll_interval", w.pollInterval).Msg("release worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("release worker stopped")
			return
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				w.log.Error().Err(err).Msg("release pass failed")
			}
		}
	}
}

// RunOnce claims one batch of queued intents and processes it with bounded
// parallelism.
func (w *ReleaseWorker) RunOnce(ctx context.Context) error {
	intents, err := w.releaseRepo.ClaimQueued(ctx, claimBatchSize)
	if err != nil {
		return fmt.Errorf("claim queued intents: %w", err)
	}
	if len(intents) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.parallelism)
	for _, intent := range intents {
		intent := intent
		g.Go(func() error {
			w.process(gctx, intent)
			return nil
		})
	}
	return g.Wait()
}

func (w *ReleaseWorker) process(ctx context.Context, intent domain.ReleaseIntent) {
	contract, err := w.escrowRepo.GetByID(ctx, intent.ContractID)
	if err != nil || contract == nil {
		w.fail(ctx, intent, fmt.Errorf("load contract: %w", err))
		return
	}

	milestoneRef := ""
	if intent.MilestoneID != nil {
		milestone, err := w.milestoneRepo.GetByID(ctx, *intent.MilestoneID)
		if err != nil || milestone == nil {
			w.fail(ctx, intent, fmt.Errorf("load milestone: %w", err))
			return
		}
		milestoneRef = milestone.ID.String()
	}

	result, err := w.ledger.ReleaseFunds(ctx, contract.ContractAddress, milestoneRef)
	if err != nil {
		w.fail(ctx, intent, err)
		return
	}

	if err := w.releaseRepo.MarkConfirmed(ctx, intent.ID, result.TransactionHash); err != nil {
		w.log.Error().Err(err).Str("intent_id", intent.ID.String()).Msg("confirming release intent failed")
		return
	}

	w.log.Info().Str("intent_id", intent.ID.String()).
		Str("contract_address", contract.ContractAddress).
		Str("tx_hash", result.TransactionHash).
		Msg("funds released")

	w.notifier.Notify(ctx, ports.NotificationEvent{
		Type:       "FUNDS_RELEASED",
		EscrowID:   contract.ID,
		EntityID:   intent.ID,
		Detail:     map[string]string{"tx_hash": result.TransactionHash},
		OccurredAt: time.Now().UTC(),
	})
}

// fail requeues the intent for another pass, or parks it as FAILED once the
// attempt ceiling is reached.
func (w *ReleaseWorker) fail(ctx context.Context, intent domain.ReleaseIntent, cause error) {
	attempts := intent.Attempts + 1
	exhausted := attempts >= w.maxAttempts

	msg := "release attempt failed, requeued"
	if exhausted {
		msg = "release attempts exhausted"
	}
	w.log.Warn().Err(cause).Str("intent_id", intent.ID.String()).
		Int("attempts", attempts).Bool("exhausted", exhausted).Msg(msg)

	if err := w.releaseRepo.MarkRetry(ctx, intent.ID, attempts, cause.Error(), exhausted); err != nil {
		w.log.Error().Err(err).Str("intent_id", intent.ID.String()).Msg("recording release retry failed")
	}
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReleaseRepo implements ports.ReleaseRepository.
type ReleaseRepo struct {
	pool Pool
}

// NewReleaseRepo creates a new ReleaseRepo.
func NewReleaseRepo(pool Pool) *ReleaseRepo {
	return &ReleaseRepo{pool: pool}
}

const releaseColumns = `id, contract_id, milestone_id, dispute_id, status, tx_hash,
	attempts, last_error, created_at, updated_at`

// Create queues a fund-release intent within a database transaction.
func (r *ReleaseRepo) Create(ctx context.Context, tx pgx.Tx, intent *domain.ReleaseIntent) error {
	query := `INSERT INTO escrow_release_intents (id, contract_id, milestone_id, dispute_id, status, tx_hash,
		attempts, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		intent.ID, intent.ContractID, intent.MilestoneID, intent.DisputeID, intent.Status, intent.TxHash,
		intent.Attempts, intent.LastError, intent.CreatedAt, intent.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert release intent: %w", err)
	}
	return nil
}

// GetByID fetches a release intent by UUID.
func (r *ReleaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReleaseIntent, error) {
	query := fmt.Sprintf(`SELECT %s FROM escrow_release_intents WHERE id = $1`, releaseColumns)

	intent := &domain.ReleaseIntent{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&intent.ID, &intent.ContractID, &intent.MilestoneID, &intent.DisputeID, &intent.Status, &intent.TxHash,
		&intent.Attempts, &intent.LastError, &intent.CreatedAt, &intent.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get release intent: %w", err)
	}
	return intent, nil
}

// ClaimQueued atomically moves up to limit QUEUED intents to SUBMITTED and
// returns them. FOR UPDATE SKIP LOCKED keeps concurrent workers from
// double-claiming the same intent.
func (r *ReleaseRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.ReleaseIntent, error) {
	query := fmt.Sprintf(`UPDATE escrow_release_intents SET status = 'SUBMITTED', updated_at = $1
		WHERE id IN (
			SELECT id FROM escrow_release_intents WHERE status = 'QUEUED'
			ORDER BY created_at LIMIT $2 FOR UPDATE SKIP LOCKED
		)
		RETURNING %s`, releaseColumns)

	rows, err := r.pool.Query(ctx, query, time.Now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("claim queued intents: %w", err)
	}
	defer rows.Close()

	var intents []domain.ReleaseIntent
	for rows.Next() {
		intent := domain.ReleaseIntent{}
		err := rows.Scan(
			&intent.ID, &intent.ContractID, &intent.MilestoneID, &intent.DisputeID, &intent.Status, &intent.TxHash,
			&intent.Attempts, &intent.LastError, &intent.CreatedAt, &intent.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan release intent row: %w", err)
		}
		intents = append(intents, intent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate release intent rows: %w", err)
	}
	return intents, nil
}

// MarkConfirmed records a confirmed fund release.
func (r *ReleaseRepo) MarkConfirmed(ctx context.Context, id uuid.UUID, txHash string) error {
	query := `UPDATE escrow_release_intents SET status = 'CONFIRMED', tx_hash = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, txHash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("confirm release intent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("release intent not found: %s", id)
	}
	return nil
}

// MarkRetry requeues a failed attempt, or parks the intent as FAILED once
// the attempt ceiling is reached.
func (r *ReleaseRepo) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, lastError string, exhausted bool) error {
	status := domain.ReleaseStatusQueued
	if exhausted {
		status = domain.ReleaseStatusFailed
	}
	query := `UPDATE escrow_release_intents SET status = $1, attempts = $2, last_error = $3, updated_at = $4 WHERE id = $5`

	tag, err := r.pool.Exec(ctx, query, status, attempts, lastError, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("retry release intent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("release intent not found: %s", id)
	}
	return nil
}

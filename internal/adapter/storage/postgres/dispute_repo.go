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

// DisputeRepo implements ports.DisputeRepository.
type DisputeRepo struct {
	pool Pool
}

// NewDisputeRepo creates a new DisputeRepo.
func NewDisputeRepo(pool Pool) *DisputeRepo {
	return &DisputeRepo{pool: pool}
}

const disputeColumns = `id, escrow_id, milestone_id, filer_address, status, reason,
	resolution, mediator_address, created_at, resolved_at`

// Create inserts a new dispute within a database transaction.
func (r *DisputeRepo) Create(ctx context.Context, tx pgx.Tx, d *domain.Dispute) error {
	query := `INSERT INTO escrow_disputes (id, escrow_id, milestone_id, filer_address, status, reason,
		resolution, mediator_address, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		d.ID, d.EscrowID, d.MilestoneID, d.FilerAddress, d.Status, d.Reason,
		d.Resolution, d.MediatorAddress, d.CreatedAt, d.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("insert dispute: %w", err)
	}
	return nil
}

// GetByID fetches a dispute by UUID.
func (r *DisputeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dispute, error) {
	query := fmt.Sprintf(`SELECT %s FROM escrow_disputes WHERE id = $1`, disputeColumns)
	return r.scanDispute(r.pool.QueryRow(ctx, query, id))
}

// ListByEscrow fetches all disputes of a contract, newest first.
func (r *DisputeRepo) ListByEscrow(ctx context.Context, escrowID uuid.UUID) ([]domain.Dispute, error) {
	query := fmt.Sprintf(`SELECT %s FROM escrow_disputes WHERE escrow_id = $1 ORDER BY created_at DESC`, disputeColumns)

	rows, err := r.pool.Query(ctx, query, escrowID)
	if err != nil {
		return nil, fmt.Errorf("list disputes: %w", err)
	}
	defer rows.Close()

	var disputes []domain.Dispute
	for rows.Next() {
		d := domain.Dispute{}
		err := rows.Scan(
			&d.ID, &d.EscrowID, &d.MilestoneID, &d.FilerAddress, &d.Status, &d.Reason,
			&d.Resolution, &d.MediatorAddress, &d.CreatedAt, &d.ResolvedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan dispute row: %w", err)
		}
		disputes = append(disputes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dispute rows: %w", err)
	}
	return disputes, nil
}

// AssignMediator sets the mediator and promotes pending disputes to
// in_review. The status guard keeps terminal disputes immutable.
func (r *DisputeRepo) AssignMediator(ctx context.Context, tx pgx.Tx, id uuid.UUID, mediatorAddress string) (bool, error) {
	query := `UPDATE escrow_disputes SET mediator_address = $1,
		status = CASE WHEN status = 'pending' THEN 'in_review' ELSE status END
		WHERE id = $2 AND status IN ('pending', 'in_review')`

	tag, err := tx.Exec(ctx, query, mediatorAddress, id)
	if err != nil {
		return false, fmt.Errorf("assign mediator: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Close finalizes a dispute while it is still open. Two concurrent resolve
// calls cannot both succeed against the same open record.
func (r *DisputeRepo) Close(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.DisputeStatus, resolution string, resolvedAt time.Time) (bool, error) {
	query := `UPDATE escrow_disputes SET status = $1, resolution = $2, resolved_at = $3
		WHERE id = $4 AND status IN ('pending', 'in_review')`

	tag, err := tx.Exec(ctx, query, status, resolution, resolvedAt, id)
	if err != nil {
		return false, fmt.Errorf("close dispute: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a dispute (administrative only). Evidence rows are removed
// by the service before this call.
func (r *DisputeRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM escrow_disputes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dispute: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dispute not found: %s", id)
	}
	return nil
}

// CountOpen re-reads the live number of open disputes for the escrow inside
// the caller's transaction.
func (r *DisputeRepo) CountOpen(ctx context.Context, tx pgx.Tx, escrowID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM escrow_disputes WHERE escrow_id = $1 AND status IN ('pending', 'in_review')`

	var count int64
	err := tx.QueryRow(ctx, query, escrowID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count open disputes: %w", err)
	}
	return count, nil
}

func (r *DisputeRepo) scanDispute(row pgx.Row) (*domain.Dispute, error) {
	d := &domain.Dispute{}
	err := row.Scan(
		&d.ID, &d.EscrowID, &d.MilestoneID, &d.FilerAddress, &d.Status, &d.Reason,
		&d.Resolution, &d.MediatorAddress, &d.CreatedAt, &d.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan dispute: %w", err)
	}
	return d, nil
}

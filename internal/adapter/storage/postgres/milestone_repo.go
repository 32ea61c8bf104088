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

// MilestoneRepo implements ports.MilestoneRepository.
type MilestoneRepo struct {
	pool Pool
}

// NewMilestoneRepo creates a new MilestoneRepo.
func NewMilestoneRepo(pool Pool) *MilestoneRepo {
	return &MilestoneRepo{pool: pool}
}

const milestoneColumns = `id, contract_id, title, description, amount, status,
	due_date, completed_at, created_at, updated_at`

// CreateBatch inserts the contract's milestones within a database transaction.
func (r *MilestoneRepo) CreateBatch(ctx context.Context, tx pgx.Tx, milestones []domain.Milestone) error {
	query := `INSERT INTO escrow_milestones (id, contract_id, title, description, amount, status,
		due_date, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	for i := range milestones {
		m := &milestones[i]
		_, err := tx.Exec(ctx, query,
			m.ID, m.ContractID, m.Title, m.Description, m.Amount, m.Status,
			m.DueDate, m.CompletedAt, m.CreatedAt, m.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert milestone %s: %w", m.ID, err)
		}
	}
	return nil
}

// GetByID fetches a milestone by UUID.
func (r *MilestoneRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Milestone, error) {
	query := fmt.Sprintf(`SELECT %s FROM escrow_milestones WHERE id = $1`, milestoneColumns)
	return r.scanMilestone(r.pool.QueryRow(ctx, query, id))
}

// ListByContract fetches all milestones of a contract, oldest first.
func (r *MilestoneRepo) ListByContract(ctx context.Context, contractID uuid.UUID) ([]domain.Milestone, error) {
	query := fmt.Sprintf(`SELECT %s FROM escrow_milestones WHERE contract_id = $1 ORDER BY created_at`, milestoneColumns)

	rows, err := r.pool.Query(ctx, query, contractID)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	defer rows.Close()

	var milestones []domain.Milestone
	for rows.Next() {
		m := domain.Milestone{}
		err := rows.Scan(
			&m.ID, &m.ContractID, &m.Title, &m.Description, &m.Amount, &m.Status,
			&m.DueDate, &m.CompletedAt, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan milestone row: %w", err)
		}
		milestones = append(milestones, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate milestone rows: %w", err)
	}
	return milestones, nil
}

// SetStatusIfPending is the compare-and-swap review write. Two concurrent
// reviews against the same PENDING row cannot both succeed.
func (r *MilestoneRepo) SetStatusIfPending(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.MilestoneStatus, completedAt *time.Time) (bool, error) {
	query := `UPDATE escrow_milestones SET status = $1, completed_at = $2, updated_at = $3
		WHERE id = $4 AND status = 'PENDING'`

	tag, err := tx.Exec(ctx, query, status, completedAt, time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("update milestone status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ReopenIfRejected resets a REJECTED milestone to PENDING for reupload.
func (r *MilestoneRepo) ReopenIfRejected(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	query := `UPDATE escrow_milestones SET status = 'PENDING', completed_at = NULL, updated_at = $1
		WHERE id = $2 AND status = 'REJECTED'`

	tag, err := tx.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("reopen milestone: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CountPending counts milestones still awaiting review, inside the caller's
// transaction so the last-approval check sees the row just updated.
func (r *MilestoneRepo) CountPending(ctx context.Context, tx pgx.Tx, contractID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM escrow_milestones WHERE contract_id = $1 AND status = 'PENDING'`

	var count int64
	err := tx.QueryRow(ctx, query, contractID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending milestones: %w", err)
	}
	return count, nil
}

func (r *MilestoneRepo) scanMilestone(row pgx.Row) (*domain.Milestone, error) {
	m := &domain.Milestone{}
	err := row.Scan(
		&m.ID, &m.ContractID, &m.Title, &m.Description, &m.Amount, &m.Status,
		&m.DueDate, &m.CompletedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan milestone: %w", err)
	}
	return m, nil
}

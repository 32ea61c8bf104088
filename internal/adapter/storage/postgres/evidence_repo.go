package postgres

import (
	"context"
	"fmt"

	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EvidenceRepo implements ports.EvidenceRepository.
type EvidenceRepo struct {
	pool Pool
}

// NewEvidenceRepo creates a new EvidenceRepo.
func NewEvidenceRepo(pool Pool) *EvidenceRepo {
	return &EvidenceRepo{pool: pool}
}

// Create appends an evidence record inside the caller's transaction.
func (r *EvidenceRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.DisputeEvidence) error {
	query := `INSERT INTO escrow_dispute_evidences (id, dispute_id, submitted_by, evidence_url, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		e.ID, e.DisputeID, e.SubmittedBy, e.EvidenceURL, e.Description, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert dispute evidence: %w", err)
	}
	return nil
}

// ListByDispute fetches evidence for a dispute, oldest first.
func (r *EvidenceRepo) ListByDispute(ctx context.Context, disputeID uuid.UUID) ([]domain.DisputeEvidence, error) {
	query := `SELECT id, dispute_id, submitted_by, evidence_url, description, created_at
		FROM escrow_dispute_evidences WHERE dispute_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, disputeID)
	if err != nil {
		return nil, fmt.Errorf("list dispute evidence: %w", err)
	}
	defer rows.Close()

	var evidence []domain.DisputeEvidence
	for rows.Next() {
		e := domain.DisputeEvidence{}
		err := rows.Scan(&e.ID, &e.DisputeID, &e.SubmittedBy, &e.EvidenceURL, &e.Description, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan evidence row: %w", err)
		}
		evidence = append(evidence, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evidence rows: %w", err)
	}
	return evidence, nil
}

// DeleteByDispute bulk-removes evidence when the parent dispute is deleted.
func (r *EvidenceRepo) DeleteByDispute(ctx context.Context, tx pgx.Tx, disputeID uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM escrow_dispute_evidences WHERE dispute_id = $1`, disputeID)
	if err != nil {
		return fmt.Errorf("delete dispute evidence: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EscrowRepo implements ports.EscrowRepository.
type EscrowRepo struct {
	pool Pool
}

// NewEscrowRepo creates a new EscrowRepo.
func NewEscrowRepo(pool Pool) *EscrowRepo {
	return &EscrowRepo{pool: pool}
}

const escrowColumns = `id, engagement_id, contract_address, project_id, contribution_id,
	payer_address, receiver_address, amount, platform_fee_bps, current_state,
	dispute_flag, ledger_sequence, metadata, created_at, updated_at`

// Create inserts a new escrow contract row within a database transaction.
func (r *EscrowRepo) Create(ctx context.Context, tx pgx.Tx, c *domain.EscrowContract) error {
	metadata, err := json.Marshal(c.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `INSERT INTO escrow_contracts (id, engagement_id, contract_address, project_id, contribution_id,
		payer_address, receiver_address, amount, platform_fee_bps, current_state,
		dispute_flag, ledger_sequence, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = tx.Exec(ctx, query,
		c.ID, c.EngagementID, c.ContractAddress, c.ProjectID, c.ContributionID,
		c.PayerAddress, c.ReceiverAddress, c.Amount, c.PlatformFeeBps, c.CurrentState,
		c.DisputeFlag, c.LedgerSequence, metadata, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert escrow contract: %w", err)
	}
	return nil
}

// GetByID fetches a contract by UUID.
func (r *EscrowRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.EscrowContract, error) {
	query := fmt.Sprintf(`SELECT %s FROM escrow_contracts WHERE id = $1`, escrowColumns)
	return scanEscrow(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches a contract by UUID with a row lock.
func (r *EscrowRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.EscrowContract, error) {
	query := fmt.Sprintf(`SELECT %s FROM escrow_contracts WHERE id = $1 FOR UPDATE`, escrowColumns)
	return scanEscrow(tx.QueryRow(ctx, query, id))
}

// GetByContractAddress fetches a contract by its ledger identifier.
func (r *EscrowRepo) GetByContractAddress(ctx context.Context, contractAddress string) (*domain.EscrowContract, error) {
	query := fmt.Sprintf(`SELECT %s FROM escrow_contracts WHERE contract_address = $1`, escrowColumns)
	return scanEscrow(r.pool.QueryRow(ctx, query, contractAddress))
}

// TransitionState moves current_state from -> to, conditionally. A false
// return means another mutator won the race or the transition was illegal.
func (r *EscrowRepo) TransitionState(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to domain.EscrowState) (bool, error) {
	query := `UPDATE escrow_contracts SET current_state = $1, updated_at = $2
		WHERE id = $3 AND current_state = $4`

	tag, err := tx.Exec(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return false, fmt.Errorf("transition escrow state: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetDisputeFlag updates the dispute flag within a database transaction.
func (r *EscrowRepo) SetDisputeFlag(ctx context.Context, tx pgx.Tx, id uuid.UUID, flag bool) error {
	query := `UPDATE escrow_contracts SET dispute_flag = $1, updated_at = $2 WHERE id = $3`

	tag, err := tx.Exec(ctx, query, flag, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set dispute flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("escrow contract not found: %s", id)
	}
	return nil
}

// ApplyLedgerState overwrites the mirror from an authoritative ledger
// snapshot. The sequence guard makes concurrent syncs last-authoritative-wins
// by ledger order, never by arrival order.
func (r *EscrowRepo) ApplyLedgerState(ctx context.Context, id uuid.UUID, state domain.EscrowState, disputeFlag bool, sequence int64) (bool, error) {
	query := `UPDATE escrow_contracts
		SET current_state = $1, dispute_flag = $2, ledger_sequence = $3, updated_at = $4
		WHERE id = $5 AND ledger_sequence < $3`

	tag, err := r.pool.Exec(ctx, query, state, disputeFlag, sequence, time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("apply ledger state: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListNonTerminal fetches every contract still in flight, for bulk sync.
func (r *EscrowRepo) ListNonTerminal(ctx context.Context) ([]domain.EscrowContract, error) {
	query := fmt.Sprintf(`SELECT %s FROM escrow_contracts
		WHERE current_state NOT IN ('COMPLETED', 'CANCELLED') ORDER BY created_at`, escrowColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list non-terminal contracts: %w", err)
	}
	defer rows.Close()

	var contracts []domain.EscrowContract
	for rows.Next() {
		c, err := scanEscrowFromRow(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contract rows: %w", err)
	}
	return contracts, nil
}

// AddReviewer grants review rights on the contract's milestones.
func (r *EscrowRepo) AddReviewer(ctx context.Context, tx pgx.Tx, contractID, reviewerID uuid.UUID) error {
	query := `INSERT INTO escrow_reviewers (contract_id, reviewer_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`

	_, err := tx.Exec(ctx, query, contractID, reviewerID)
	if err != nil {
		return fmt.Errorf("insert reviewer: %w", err)
	}
	return nil
}

// IsAuthorizedReviewer checks whether reviewerID may review the contract.
func (r *EscrowRepo) IsAuthorizedReviewer(ctx context.Context, contractID, reviewerID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM escrow_reviewers WHERE contract_id = $1 AND reviewer_id = $2)`

	var authorized bool
	err := r.pool.QueryRow(ctx, query, contractID, reviewerID).Scan(&authorized)
	if err != nil {
		return false, fmt.Errorf("check reviewer authorization: %w", err)
	}
	return authorized, nil
}

// scanEscrow scans a single row into an EscrowContract.
func scanEscrow(row pgx.Row) (*domain.EscrowContract, error) {
	c, err := scanEscrowFromRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func scanEscrowFromRow(row pgx.Row) (*domain.EscrowContract, error) {
	c := &domain.EscrowContract{}
	var metadata []byte
	err := row.Scan(
		&c.ID, &c.EngagementID, &c.ContractAddress, &c.ProjectID, &c.ContributionID,
		&c.PayerAddress, &c.ReceiverAddress, &c.Amount, &c.PlatformFeeBps, &c.CurrentState,
		&c.DisputeFlag, &c.LedgerSequence, &metadata, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("scan escrow contract: %w", err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &c.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return c, nil
}

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

// CredentialRepo implements ports.CredentialRepository.
type CredentialRepo struct {
	pool Pool
}

// NewCredentialRepo creates a new CredentialRepo.
func NewCredentialRepo(pool Pool) *CredentialRepo {
	return &CredentialRepo{pool: pool}
}

// Create stores a registered passkey credential.
func (r *CredentialRepo) Create(ctx context.Context, c *domain.PasskeyCredential) error {
	query := `INSERT INTO passkey_credentials (id, identifier, credential_id, public_key, sign_count, clone_warning, created_at, last_used_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.Identifier, c.CredentialID, c.PublicKey, c.SignCount, c.CloneWarning, c.CreatedAt, c.LastUsedAt,
	)
	if err != nil {
		return fmt.Errorf("insert passkey credential: %w", err)
	}
	return nil
}

// GetByIdentifier fetches the credential registered for an identifier.
func (r *CredentialRepo) GetByIdentifier(ctx context.Context, identifier string) (*domain.PasskeyCredential, error) {
	query := `SELECT id, identifier, credential_id, public_key, sign_count, clone_warning, created_at, last_used_at
		FROM passkey_credentials WHERE identifier = $1`

	c := &domain.PasskeyCredential{}
	err := r.pool.QueryRow(ctx, query, identifier).Scan(
		&c.ID, &c.Identifier, &c.CredentialID, &c.PublicKey, &c.SignCount, &c.CloneWarning, &c.CreatedAt, &c.LastUsedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get passkey credential: %w", err)
	}
	return c, nil
}

// UpdateSignCount persists the authenticator-reported counter and the
// clone-warning flag after a verification attempt.
func (r *CredentialRepo) UpdateSignCount(ctx context.Context, id uuid.UUID, signCount uint32, cloneWarning bool, lastUsedAt time.Time) error {
	query := `UPDATE passkey_credentials SET sign_count = $1, clone_warning = $2, last_used_at = $3 WHERE id = $4`

	tag, err := r.pool.Exec(ctx, query, signCount, cloneWarning, lastUsedAt, id)
	if err != nil {
		return fmt.Errorf("update sign count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("passkey credential not found: %s", id)
	}
	return nil
}

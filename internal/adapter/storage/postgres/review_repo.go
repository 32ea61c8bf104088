package postgres

import (
	"context"
	"fmt"

	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReviewRepo implements ports.ReviewRepository.
type ReviewRepo struct {
	pool Pool
}

// NewReviewRepo creates a new ReviewRepo.
func NewReviewRepo(pool Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

// Create appends a review record within a database transaction.
func (r *ReviewRepo) Create(ctx context.Context, tx pgx.Tx, review *domain.MilestoneReview) error {
	query := `INSERT INTO escrow_milestone_reviews (id, milestone_id, reviewer_id, decision, comments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		review.ID, review.MilestoneID, review.ReviewerID, review.Decision, review.Comments, review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert milestone review: %w", err)
	}
	return nil
}

// ListByMilestone fetches review records for a milestone, oldest first.
func (r *ReviewRepo) ListByMilestone(ctx context.Context, milestoneID uuid.UUID) ([]domain.MilestoneReview, error) {
	query := `SELECT id, milestone_id, reviewer_id, decision, comments, created_at
		FROM escrow_milestone_reviews WHERE milestone_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("list milestone reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.MilestoneReview
	for rows.Next() {
		rev := domain.MilestoneReview{}
		err := rows.Scan(&rev.ID, &rev.MilestoneID, &rev.ReviewerID, &rev.Decision, &rev.Comments, &rev.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}
	return reviews, nil
}

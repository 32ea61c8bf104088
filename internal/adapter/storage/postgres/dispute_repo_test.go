package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispute(escrowID uuid.UUID) *domain.Dispute {
	return &domain.Dispute{
		ID:           uuid.New(),
		EscrowID:     escrowID,
		MilestoneID:  nil,
		FilerAddress: "GFILER",
		Status:       domain.DisputeStatusPending,
		Reason:       "milestone deliverable missing",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func disputeTestColumns() []string {
	return []string{"id", "escrow_id", "milestone_id", "filer_address", "status", "reason",
		"resolution", "mediator_address", "created_at", "resolved_at"}
}

func disputeRow(d *domain.Dispute) *pgxmock.Rows {
	return pgxmock.NewRows(disputeTestColumns()).AddRow(
		d.ID, d.EscrowID, d.MilestoneID, d.FilerAddress, d.Status, d.Reason,
		d.Resolution, d.MediatorAddress, d.CreatedAt, d.ResolvedAt,
	)
}

func TestDisputeRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDisputeRepo(mock)
	d := newTestDispute(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO escrow_disputes").
		WithArgs(d.ID, d.EscrowID, d.MilestoneID, d.FilerAddress, d.Status, d.Reason,
			d.Resolution, d.MediatorAddress, d.CreatedAt, d.ResolvedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, d)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisputeRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDisputeRepo(mock)
	d := newTestDispute(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM escrow_disputes WHERE id").
		WithArgs(d.ID).
		WillReturnRows(disputeRow(d))

	result, err := repo.GetByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, d.ID, result.ID)
	assert.Equal(t, domain.DisputeStatusPending, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisputeRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDisputeRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM escrow_disputes WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(disputeTestColumns()))

	result, err := repo.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisputeRepo_AssignMediator(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDisputeRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE escrow_disputes SET mediator_address").
		WithArgs("GMEDIATOR", id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	ok, err := repo.AssignMediator(context.Background(), tx, id, "GMEDIATOR")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisputeRepo_Close_AlreadyTerminal(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDisputeRepo(mock)
	id := uuid.New()
	resolvedAt := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE escrow_disputes SET status").
		WithArgs(domain.DisputeStatusResolved, "approver 40 / receiver 60", resolvedAt, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	ok, err := repo.Close(context.Background(), tx, id, domain.DisputeStatusResolved, "approver 40 / receiver 60", resolvedAt)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisputeRepo_CountOpen(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDisputeRepo(mock)
	escrowID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(escrowID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	count, err := repo.CountOpen(context.Background(), tx, escrowID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("DSP_001", "Dispute not found", http.StatusNotFound),
			expected: "[DSP_001] Dispute not found",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("ESC_002", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestEscrowErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"NotFound", ErrNotFound("Contract"), "ESC_001", 404},
		{"InvalidAmount", ErrInvalidAmount(), "ESC_002", 400},
		{"MilestoneSumMismatch", ErrMilestoneSumMismatch(900, 1000), "ESC_003", 400},
		{"InvalidStateTransition", ErrInvalidStateTransition("COMPLETED", "ACTIVE"), "ESC_004", 409},
		{"SimulationFailed", ErrSimulationFailed(fmt.Errorf("auth required")), "ESC_005", 400},
		{"SubmissionFailed", ErrSubmissionFailed(fmt.Errorf("tx_bad_seq")), "ESC_006", 502},
		{"LedgerUnavailable", ErrLedgerUnavailable(fmt.Errorf("timeout")), "ESC_007", 502},
		{"PartyNotEligible", ErrPartyNotEligible("GABC"), "ESC_009", 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestMilestoneErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"AlreadyReviewed", ErrAlreadyReviewed(), "MIL_001", 409},
		{"ReviewerNotAuthorized", ErrReviewerNotAuthorized(), "MIL_002", 403},
		{"InvalidDecision", ErrInvalidDecision("MAYBE"), "MIL_003", 400},
		{"MilestoneNotRejected", ErrMilestoneNotRejected(), "MIL_004", 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestDisputeErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"DisputeNotFound", ErrDisputeNotFound(), "DSP_001", 404},
		{"InvalidFundSplit", ErrInvalidFundSplit(900, 1000), "DSP_002", 400},
		{"DisputeTerminal", ErrDisputeTerminal(), "DSP_003", 409},
		{"ContractTerminal", ErrContractTerminal(), "DSP_004", 409},
		{"LedgerResolutionFailed", ErrLedgerResolutionFailed(fmt.Errorf("op_underfunded")), "DSP_005", 502},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestPasskeyErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"ChallengeNotFound", ErrChallengeNotFound(), "PKY_001", 404},
		{"AssertionVerificationFailed", ErrAssertionVerificationFailed(), "PKY_002", 401},
		{"CredentialNotFound", ErrCredentialNotFound(), "PKY_003", 404},
		{"CloneDetected", ErrCloneDetected(), "PKY_004", 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	dbErr := ErrDatabaseError(inner)
	assert.Equal(t, "SYS_001", dbErr.Code)
	assert.Equal(t, 500, dbErr.HTTPStatus)
	assert.True(t, errors.Is(dbErr, inner))

	conflictErr := ErrConflict(inner)
	assert.Equal(t, "SYS_002", conflictErr.Code)
	assert.Equal(t, 409, conflictErr.HTTPStatus)
}

func TestFundSplitMessage(t *testing.T) {
	err := ErrInvalidFundSplit(900, 1000)
	assert.Contains(t, err.Message, "900")
	assert.Contains(t, err.Message, "1000")
}

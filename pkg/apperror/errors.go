package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Escrow & Ledger (ESC) ----

func ErrNotFound(entity string) *AppError {
	return New("ESC_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrInvalidAmount() *AppError {
	return New("ESC_002", "Invalid amount", http.StatusBadRequest)
}

// ErrMilestoneSumMismatch signals that milestone amounts do not add up to the
// contract total.
func ErrMilestoneSumMismatch(sum, total int64) *AppError {
	return New("ESC_003",
		fmt.Sprintf("Milestone amounts (%d) do not sum to contract amount (%d)", sum, total),
		http.StatusBadRequest)
}

func ErrInvalidStateTransition(from, to string) *AppError {
	return New("ESC_004",
		fmt.Sprintf("Illegal escrow state transition %s -> %s", from, to),
		http.StatusConflict)
}

func ErrSimulationFailed(err error) *AppError {
	return Wrap("ESC_005", "Ledger simulation rejected the transaction", http.StatusBadRequest, err)
}

func ErrSubmissionFailed(err error) *AppError {
	return Wrap("ESC_006", "Ledger submission failed", http.StatusBadGateway, err)
}

func ErrLedgerUnavailable(err error) *AppError {
	return Wrap("ESC_007", "Ledger unreachable", http.StatusBadGateway, err)
}

// ErrReconciliationRequired marks a partial success (ledger applied, local
// mirror not) that the next sync must repair.
func ErrReconciliationRequired(contractAddress string, err error) *AppError {
	return Wrap("ESC_008",
		fmt.Sprintf("Contract %s created on ledger but local record failed; reconciliation required", contractAddress),
		http.StatusInternalServerError, err)
}

func ErrPartyNotEligible(address string) *AppError {
	return New("ESC_009", fmt.Sprintf("Party %s has not passed identity verification", address), http.StatusForbidden)
}

// ---- Milestone Review (MIL) ----

func ErrAlreadyReviewed() *AppError {
	return New("MIL_001", "Milestone has already been reviewed", http.StatusConflict)
}

func ErrReviewerNotAuthorized() *AppError {
	return New("MIL_002", "Reviewer is not authorized for this contract", http.StatusForbidden)
}

func ErrInvalidDecision(decision string) *AppError {
	return New("MIL_003", fmt.Sprintf("Invalid review decision %q", decision), http.StatusBadRequest)
}

func ErrMilestoneNotRejected() *AppError {
	return New("MIL_004", "Only rejected milestones can be reopened for reupload", http.StatusConflict)
}

// ---- Disputes (DSP) ----

func ErrDisputeNotFound() *AppError {
	return New("DSP_001", "Dispute not found", http.StatusNotFound)
}

func ErrInvalidFundSplit(splitSum, disputed int64) *AppError {
	return New("DSP_002",
		fmt.Sprintf("Fund splits (%d) must sum to the disputed amount (%d)", splitSum, disputed),
		http.StatusBadRequest)
}

func ErrDisputeTerminal() *AppError {
	return New("DSP_003", "Dispute is already resolved or rejected", http.StatusConflict)
}

func ErrContractTerminal() *AppError {
	return New("DSP_004", "Contract is completed or cancelled", http.StatusConflict)
}

func ErrLedgerResolutionFailed(err error) *AppError {
	return Wrap("DSP_005", "Ledger dispute resolution failed", http.StatusBadGateway, err)
}

// ---- Passkey & Challenges (PKY) ----

func ErrChallengeNotFound() *AppError {
	return New("PKY_001", "Signing challenge not found or expired", http.StatusNotFound)
}

func ErrAssertionVerificationFailed() *AppError {
	return New("PKY_002", "Passkey assertion verification failed", http.StatusUnauthorized)
}

func ErrCredentialNotFound() *AppError {
	return New("PKY_003", "Passkey credential not registered", http.StatusNotFound)
}

// ErrCloneDetected rejects an assertion whose signature counter did not
// strictly increase.
func ErrCloneDetected() *AppError {
	return New("PKY_004", "Authenticator signature counter regressed", http.StatusUnauthorized)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New("AUTH_002", "Insufficient privileges for this operation", http.StatusForbidden)
}

// ---- System & Infrastructure (SYS) ----

func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrConflict(err error) *AppError {
	return Wrap("SYS_002", "Concurrent update detected, retry the operation", http.StatusConflict, err)
}

// Validation returns a field-level validation error.
func Validation(message string) *AppError {
	return New("ESC_002", message, http.StatusBadRequest)
}

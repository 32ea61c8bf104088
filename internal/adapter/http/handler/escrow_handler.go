package handler

import (
	"time"

	"github.com/kindfi-org/kindfi-sub007/internal/adapter/http/dto"
	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"
	"github.com/kindfi-org/kindfi-sub007/internal/core/ports"
	"github.com/kindfi-org/kindfi-sub007/pkg/apperror"
	"github.com/kindfi-org/kindfi-sub007/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EscrowHandler handles escrow contract endpoints.
type EscrowHandler struct {
	escrowSvc ports.EscrowService
}

// NewEscrowHandler creates a new EscrowHandler.
func NewEscrowHandler(escrowSvc ports.EscrowService) *EscrowHandler {
	return &EscrowHandler{escrowSvc: escrowSvc}
}

// Initialize handles POST /api/v1/escrows.
func (h *EscrowHandler) Initialize(c *gin.Context) {
	var req dto.InitializeEscrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	svcReq, err := toInitializeRequest(req)
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.escrowSvc.Initialize(c.Request.Context(), svcReq)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.EscrowDetailResponse{
		Contract:   toEscrowResponse(result.Contract),
		Milestones: toMilestoneResponses(result.Milestones),
	})
}

// Get handles GET /api/v1/escrows/:id.
func (h *EscrowHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("Invalid escrow ID"))
		return
	}

	contract, milestones, err := h.escrowSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.EscrowDetailResponse{
		Contract:   toEscrowResponse(contract),
		Milestones: toMilestoneResponses(milestones),
	})
}

// MarkFunded handles POST /api/v1/escrows/:address/fund.
func (h *EscrowHandler) MarkFunded(c *gin.Context) {
	contract, err := h.escrowSvc.MarkFunded(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toEscrowResponse(contract))
}

// Sync handles POST /api/v1/escrows/:address/sync.
func (h *EscrowHandler) Sync(c *gin.Context) {
	contract, err := h.escrowSvc.SyncState(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toEscrowResponse(contract))
}

// Simulate handles POST /api/v1/transactions/simulate.
func (h *EscrowHandler) Simulate(c *gin.Context) {
	var req dto.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	assembled, err := h.escrowSvc.SimulateAndAssemble(c.Request.Context(), ports.UnsignedEnvelope{
		ContractAddress: req.ContractAddress,
		Payload:         req.Payload,
		AuthNonce:       req.AuthNonce,
		SourceAccount:   req.SourceAccount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AssembledResponse{
		ContractAddress: assembled.ContractAddress,
		Payload:         assembled.Payload,
		AuthNonce:       assembled.AuthNonce,
		MinResourceFee:  assembled.MinResourceFee,
	})
}

// Submit handles POST /api/v1/transactions.
func (h *EscrowHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.escrowSvc.Submit(c.Request.Context(), ports.SignedEnvelope{
		Payload:         req.Payload,
		TransactionHash: req.TransactionHash,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SubmitResponse{
		TransactionHash: result.TransactionHash,
		Successful:      result.Successful,
		LedgerSequence:  result.LedgerSequence,
	})
}

func toInitializeRequest(req dto.InitializeEscrowRequest) (ports.InitializeRequest, error) {
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return ports.InitializeRequest{}, err
	}
	contributionID, err := uuid.Parse(req.ContributionID)
	if err != nil {
		return ports.InitializeRequest{}, err
	}

	reviewerIDs := make([]uuid.UUID, 0, len(req.ReviewerIDs))
	for _, raw := range req.ReviewerIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return ports.InitializeRequest{}, err
		}
		reviewerIDs = append(reviewerIDs, id)
	}

	milestones := make([]ports.MilestoneParams, 0, len(req.Milestones))
	for _, m := range req.Milestones {
		params := ports.MilestoneParams{
			Title:       m.Title,
			Description: m.Description,
			Amount:      m.Amount,
		}
		if m.DueDate != nil {
			due, err := time.Parse(time.RFC3339, *m.DueDate)
			if err != nil {
				return ports.InitializeRequest{}, err
			}
			params.DueDate = &due
		}
		milestones = append(milestones, params)
	}

	return ports.InitializeRequest{
		ProjectID:       projectID,
		ContributionID:  contributionID,
		PayerAddress:    req.PayerAddress,
		ReceiverAddress: req.ReceiverAddress,
		Amount:          req.Amount,
		PlatformFeeBps:  req.PlatformFeeBps,
		Milestones:      milestones,
		ReviewerIDs:     reviewerIDs,
		Metadata:        req.Metadata,
	}, nil
}

func toEscrowResponse(contract *domain.EscrowContract) dto.EscrowResponse {
	return dto.EscrowResponse{
		ID:              contract.ID.String(),
		EngagementID:    contract.EngagementID,
		ContractAddress: contract.ContractAddress,
		ProjectID:       contract.ProjectID.String(),
		ContributionID:  contract.ContributionID.String(),
		PayerAddress:    contract.PayerAddress,
		ReceiverAddress: contract.ReceiverAddress,
		Amount:          contract.Amount,
		PlatformFeeBps:  contract.PlatformFeeBps,
		CurrentState:    string(contract.CurrentState),
		DisputeFlag:     contract.DisputeFlag,
		LedgerSequence:  contract.LedgerSequence,
		Metadata:        contract.Metadata,
		CreatedAt:       contract.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       contract.UpdatedAt.Format(time.RFC3339),
	}
}

func toMilestoneResponses(milestones []domain.Milestone) []dto.MilestoneResponse {
	out := make([]dto.MilestoneResponse, 0, len(milestones))
	for _, m := range milestones {
		out = append(out, toMilestoneResponse(&m))
	}
	return out
}

func toMilestoneResponse(m *domain.Milestone) dto.MilestoneResponse {
	resp := dto.MilestoneResponse{
		ID:          m.ID.String(),
		ContractID:  m.ContractID.String(),
		Title:       m.Title,
		Description: m.Description,
		Amount:      m.Amount,
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
	if m.DueDate != nil {
		s := m.DueDate.Format(time.RFC3339)
		resp.DueDate = &s
	}
	if m.CompletedAt != nil {
		s := m.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}

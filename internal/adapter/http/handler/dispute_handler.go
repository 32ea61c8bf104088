package handler

import (
	"time"

	"github.com/kindfi-org/kindfi-sub007/internal/adapter/http/dto"
	"github.com/kindfi-org/kindfi-sub007/internal/adapter/http/middleware"
	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"
	"github.com/kindfi-org/kindfi-sub007/internal/core/ports"
	"github.com/kindfi-org/kindfi-sub007/pkg/apperror"
	"github.com/kindfi-org/kindfi-sub007/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DisputeHandler handles dispute workflow endpoints.
type DisputeHandler struct {
	disputeSvc ports.DisputeService
}

// NewDisputeHandler creates a new DisputeHandler.
func NewDisputeHandler(disputeSvc ports.DisputeService) *DisputeHandler {
	return &DisputeHandler{disputeSvc: disputeSvc}
}

// Open handles POST /api/v1/disputes.
func (h *DisputeHandler) Open(c *gin.Context) {
	var req dto.OpenDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	escrowID, err := uuid.Parse(req.EscrowID)
	if err != nil {
		response.Error(c, apperror.Validation("Invalid escrow ID"))
		return
	}

	var milestoneID *uuid.UUID
	if req.MilestoneID != nil {
		id, err := uuid.Parse(*req.MilestoneID)
		if err != nil {
			response.Error(c, apperror.Validation("Invalid milestone ID"))
			return
		}
		milestoneID = &id
	}

	dispute, err := h.disputeSvc.Open(c.Request.Context(), ports.OpenDisputeRequest{
		EscrowID:     escrowID,
		MilestoneID:  milestoneID,
		FilerAddress: req.FilerAddress,
		Reason:       req.Reason,
		EvidenceURLs: req.EvidenceURLs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toDisputeResponse(dispute))
}

// Get handles GET /api/v1/disputes/:id.
func (h *DisputeHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("Invalid dispute ID"))
		return
	}

	dispute, evidence, err := h.disputeSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.DisputeDetailResponse{
		Dispute:  toDisputeResponse(dispute),
		Evidence: make([]dto.EvidenceResponse, 0, len(evidence)),
	}
	for _, e := range evidence {
		resp.Evidence = append(resp.Evidence, toEvidenceResponse(&e))
	}
	response.OK(c, resp)
}

// AssignMediator handles POST /api/v1/disputes/:id/mediator.
func (h *DisputeHandler) AssignMediator(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("Invalid dispute ID"))
		return
	}

	var req dto.AssignMediatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	userID, _ := c.Get(middleware.CtxUserID)
	assignedBy, _ := userID.(uuid.UUID)

	dispute, err := h.disputeSvc.AssignMediator(c.Request.Context(), id, req.MediatorAddress, assignedBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toDisputeResponse(dispute))
}

// AddEvidence handles POST /api/v1/disputes/:id/evidence.
func (h *DisputeHandler) AddEvidence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("Invalid dispute ID"))
		return
	}

	var req dto.AddEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	evidence, err := h.disputeSvc.AddEvidence(c.Request.Context(), id, req.SubmitterAddress, req.EvidenceURL, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toEvidenceResponse(evidence))
}

// Resolve handles POST /api/v1/disputes/:id/resolve.
func (h *DisputeHandler) Resolve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("Invalid dispute ID"))
		return
	}

	var req dto.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.disputeSvc.Resolve(c.Request.Context(), ports.ResolveDisputeRequest{
		DisputeID:            id,
		ResolverAddress:      req.ResolverAddress,
		ApproverFunds:        req.ApproverFunds,
		ServiceProviderFunds: req.ServiceProviderFunds,
		Resolution:           req.Resolution,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.ResolveDisputeResponse{Dispute: toDisputeResponse(result.Dispute)}
	if result.Envelope != nil {
		resp.Envelope = &dto.EnvelopeResponse{
			ContractAddress: result.Envelope.ContractAddress,
			Payload:         result.Envelope.Payload,
			AuthNonce:       result.Envelope.AuthNonce,
			SourceAccount:   result.Envelope.SourceAccount,
		}
	}
	response.OK(c, resp)
}

// Delete handles DELETE /api/v1/disputes/:id.
func (h *DisputeHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("Invalid dispute ID"))
		return
	}

	if err := h.disputeSvc.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func toDisputeResponse(d *domain.Dispute) dto.DisputeResponse {
	resp := dto.DisputeResponse{
		ID:              d.ID.String(),
		EscrowID:        d.EscrowID.String(),
		FilerAddress:    d.FilerAddress,
		MediatorAddress: d.MediatorAddress,
		Status:          string(d.Status),
		Reason:          d.Reason,
		Resolution:      d.Resolution,
		CreatedAt:       d.CreatedAt.Format(time.RFC3339),
	}
	if d.MilestoneID != nil {
		s := d.MilestoneID.String()
		resp.MilestoneID = &s
	}
	if d.ResolvedAt != nil {
		s := d.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &s
	}
	return resp
}

func toEvidenceResponse(e *domain.DisputeEvidence) dto.EvidenceResponse {
	return dto.EvidenceResponse{
		ID:          e.ID.String(),
		DisputeID:   e.DisputeID.String(),
		SubmittedBy: e.SubmittedBy,
		EvidenceURL: e.EvidenceURL,
		Description: e.Description,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

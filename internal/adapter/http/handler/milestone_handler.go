package handler

import (
	"github.com/kindfi-org/kindfi-sub007/internal/adapter/http/dto"
	"github.com/kindfi-org/kindfi-sub007/internal/adapter/http/middleware"
	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"
	"github.com/kindfi-org/kindfi-sub007/internal/core/ports"
	"github.com/kindfi-org/kindfi-sub007/pkg/apperror"
	"github.com/kindfi-org/kindfi-sub007/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MilestoneHandler handles milestone review endpoints.
type MilestoneHandler struct {
	reviewSvc ports.ReviewService
}

// NewMilestoneHandler creates a new MilestoneHandler.
func NewMilestoneHandler(reviewSvc ports.ReviewService) *MilestoneHandler {
	return &MilestoneHandler{reviewSvc: reviewSvc}
}

// Review handles POST /api/v1/milestones/:id/review.
func (h *MilestoneHandler) Review(c *gin.Context) {
	milestoneID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("Invalid milestone ID"))
		return
	}

	reviewerID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.ReviewMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	milestone, err := h.reviewSvc.Review(c.Request.Context(), ports.ReviewRequest{
		MilestoneID: milestoneID,
		ReviewerID:  reviewerID,
		Decision:    domain.ReviewDecision(req.Decision),
		Comments:    req.Comments,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toMilestoneResponse(milestone))
}

// RequestReupload handles POST /api/v1/milestones/:id/reupload.
func (h *MilestoneHandler) RequestReupload(c *gin.Context) {
	milestoneID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("Invalid milestone ID"))
		return
	}

	requesterID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	milestone, err := h.reviewSvc.RequestReupload(c.Request.Context(), milestoneID, requesterID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toMilestoneResponse(milestone))
}

// callerID extracts the authenticated user ID set by the JWT middleware.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	return id, ok
}

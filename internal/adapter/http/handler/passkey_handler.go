package handler

import (
	"encoding/base64"

	"github.com/kindfi-org/kindfi-sub007/internal/adapter/http/dto"
	"github.com/kindfi-org/kindfi-sub007/internal/core/ports"
	"github.com/kindfi-org/kindfi-sub007/pkg/apperror"
	"github.com/kindfi-org/kindfi-sub007/pkg/response"

	"github.com/gin-gonic/gin"
)

// PasskeyHandler handles WebAuthn signing-bridge endpoints.
type PasskeyHandler struct {
	passkeySvc ports.PasskeyService
}

// NewPasskeyHandler creates a new PasskeyHandler.
func NewPasskeyHandler(passkeySvc ports.PasskeyService) *PasskeyHandler {
	return &PasskeyHandler{passkeySvc: passkeySvc}
}

// IssueChallenge handles POST /api/v1/passkeys/challenge.
func (h *PasskeyHandler) IssueChallenge(c *gin.Context) {
	var req dto.ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	challenge, err := h.passkeySvc.IssueChallenge(c.Request.Context(), req.Identifier)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ChallengeResponse{
		Challenge: base64.RawURLEncoding.EncodeToString(challenge),
	})
}

// IssueTransactionChallenge handles POST /api/v1/passkeys/transaction-challenge.
// The challenge is derived from the envelope so the resulting assertion
// authorizes exactly that transaction.
func (h *PasskeyHandler) IssueTransactionChallenge(c *gin.Context) {
	var req dto.TransactionChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	challenge, err := h.passkeySvc.IssueTransactionChallenge(c.Request.Context(), req.Identifier, ports.UnsignedEnvelope{
		ContractAddress: req.ContractAddress,
		Payload:         req.Payload,
		AuthNonce:       req.AuthNonce,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ChallengeResponse{
		Challenge: base64.RawURLEncoding.EncodeToString(challenge),
	})
}

// VerifyAssertion handles POST /api/v1/passkeys/verify.
func (h *PasskeyHandler) VerifyAssertion(c *gin.Context) {
	var req dto.VerifyAssertionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	verified, err := h.passkeySvc.VerifyAssertion(c.Request.Context(), ports.VerifyAssertionRequest{
		Identifier:    req.Identifier,
		AssertionJSON: []byte(req.Assertion),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.VerifiedAssertionResponse{
		CredentialID: base64.RawURLEncoding.EncodeToString(verified.CredentialID),
		SignCount:    verified.SignCount,
		Challenge:    base64.RawURLEncoding.EncodeToString(verified.Challenge),
	})
}

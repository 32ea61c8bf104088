package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/kindfi-org/kindfi-sub007/config"
	"github.com/kindfi-org/kindfi-sub007/internal/core/ports"
	"github.com/kindfi-org/kindfi-sub007/pkg/apperror"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/rs/zerolog"
)

const challengeSize = 32

// PasskeyServiceImpl implements ports.PasskeyService. It bridges WebAuthn
// assertions to ledger authorization: the signing key never leaves the user's
// authenticator, and every assertion covers a single-use challenge.
type PasskeyServiceImpl struct {
	credentialRepo ports.CredentialRepository
	challenges     ports.ChallengeStore
	rpID           string
	rpOrigins      []string
	challengeTTL   time.Duration
	log            zerolog.Logger
}

// NewPasskeyService creates a new PasskeyServiceImpl.
func NewPasskeyService(
	credentialRepo ports.CredentialRepository,
	challenges ports.ChallengeStore,
	cfg config.WebAuthnConfig,
	log zerolog.Logger,
) *PasskeyServiceImpl {
	return &PasskeyServiceImpl{
		credentialRepo: credentialRepo,
		challenges:     challenges,
		rpID:           cfg.RPID,
		rpOrigins:      cfg.RPOrigins,
		challengeTTL:   cfg.ChallengeTTL,
		log:            log,
	}
}

// IssueChallenge issues a fresh random challenge for the identifier,
// overwriting any prior unconsumed one.
func (s *PasskeyServiceImpl) IssueChallenge(ctx context.Context, identifier string) ([]byte, error) {
	challenge := make([]byte, challengeSize)
	if _, err := rand.Read(challenge); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate challenge: %w", err))
	}
	if err := s.challenges.Issue(ctx, identifier, s.rpID, challenge, s.challengeTTL); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("store challenge: %w", err))
	}
	return challenge, nil
}

// IssueTransactionChallenge derives the challenge deterministically from the
// envelope's auth nonce and contract address, binding the assertion to that
// exact transaction. A prompt for "sign in" cannot be replayed as "move
// funds".
func (s *PasskeyServiceImpl) IssueTransactionChallenge(ctx context.Context, identifier string, envelope ports.UnsignedEnvelope) ([]byte, error) {
	if envelope.AuthNonce == "" {
		return nil, apperror.Validation("Envelope auth nonce is required")
	}

	h := sha256.New()
	h.Write([]byte(envelope.AuthNonce))
	h.Write([]byte(envelope.ContractAddress))
	challenge := h.Sum(nil)

	if err := s.challenges.Issue(ctx, identifier, s.rpID, challenge, s.challengeTTL); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("store challenge: %w", err))
	}
	return challenge, nil
}

// VerifyAssertion checks a WebAuthn assertion against the stored credential
// and the live challenge. Any failure rejects: an expired or already-consumed
// challenge never verifies.
func (s *PasskeyServiceImpl) VerifyAssertion(ctx context.Context, req ports.VerifyAssertionRequest) (*ports.VerifiedAssertion, error) {
	credential, err := s.credentialRepo.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if credential == nil {
		return nil, apperror.ErrCredentialNotFound()
	}

	// Parse and match the credential before touching the challenge: malformed
	// input or a wrong credential ID must not burn the caller's live
	// challenge. Only assertions naming the registered credential consume it.
	parsed, err := protocol.ParseCredentialRequestResponseBody(bytes.NewReader(req.AssertionJSON))
	if err != nil {
		s.log.Debug().Err(err).Str("identifier", req.Identifier).Msg("assertion parse failed")
		return nil, apperror.ErrAssertionVerificationFailed()
	}
	if !bytes.Equal(parsed.RawID, credential.CredentialID) {
		return nil, apperror.ErrAssertionVerificationFailed()
	}

	challenge, err := s.challenges.Consume(ctx, req.Identifier, s.rpID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("consume challenge: %w", err))
	}
	if challenge == nil {
		return nil, apperror.ErrChallengeNotFound()
	}

	storedChallenge := base64.RawURLEncoding.EncodeToString(challenge)
	err = parsed.Verify(storedChallenge, s.rpID, s.rpOrigins, nil,
		protocol.TopOriginIgnoreVerificationMode, "", false, credential.PublicKey)
	if err != nil {
		s.log.Warn().Err(err).Str("identifier", req.Identifier).Msg("assertion verification failed")
		return nil, apperror.ErrAssertionVerificationFailed()
	}

	now := time.Now().UTC()
	newCount := parsed.Response.AuthenticatorData.Counter
	if credential.SignCount > 0 || newCount > 0 {
		if newCount <= credential.SignCount {
			// Counter regression indicates a cloned authenticator. Record the
			// warning and reject.
			if err := s.credentialRepo.UpdateSignCount(ctx, credential.ID, credential.SignCount, true, now); err != nil {
				s.log.Error().Err(err).Str("identifier", req.Identifier).Msg("persisting clone warning failed")
			}
			return nil, apperror.ErrCloneDetected()
		}
	}

	if err := s.credentialRepo.UpdateSignCount(ctx, credential.ID, newCount, false, now); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	return &ports.VerifiedAssertion{
		CredentialID: credential.CredentialID,
		SignCount:    newCount,
		Challenge:    challenge,
	}, nil
}

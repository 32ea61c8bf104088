package domain

import (
	"time"

	"github.com/google/uuid"
)

// PasskeyCredential is a stored WebAuthn credential. The private key never
// leaves the user's authenticator; only the COSE public key and counter state
// live here.
type PasskeyCredential struct {
	ID           uuid.UUID `json:"id"`
	Identifier   string    `json:"identifier"` // Wallet address / user handle
	CredentialID []byte    `json:"credential_id"`
	PublicKey    []byte    `json:"-"` // COSE-encoded public key
	SignCount    uint32    `json:"sign_count"`
	CloneWarning bool      `json:"clone_warning"`
	CreatedAt    time.Time `json:"created_at"`
	LastUsedAt   *time.Time `json:"last_used_at,omitempty"`
}

// SigningChallenge is an ephemeral single-use challenge bound to an
// (identifier, relying party) pair. Consumed exactly once.
type SigningChallenge struct {
	Identifier     string    `json:"identifier"`
	RelyingPartyID string    `json:"relying_party_id"`
	Challenge      []byte    `json:"challenge"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Expired reports whether the challenge is past its TTL at now.
func (c *SigningChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTTokenService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "kindfi-escrow")
	userID := uuid.New()

	token, expiresAt, err := svc.Generate(userID, "mediator")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "mediator", claims.Role)
}

func TestJWTTokenService_Validate_WrongSecret(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "kindfi-escrow")
	other := NewJWTTokenService("different-secret", time.Hour, "kindfi-escrow")

	token, _, err := svc.Generate(uuid.New(), "admin")
	require.NoError(t, err)

	_, err = other.Validate(token)
	require.Error(t, err)
}

func TestJWTTokenService_Validate_Expired(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", -time.Minute, "kindfi-escrow")

	token, _, err := svc.Generate(uuid.New(), "admin")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.Error(t, err)
}

func TestJWTTokenService_Validate_Garbage(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "kindfi-escrow")

	_, err := svc.Validate("not.a.token")
	require.Error(t, err)
}

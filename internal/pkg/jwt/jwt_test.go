package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAdminToken_Claims(t *testing.T) {
	// Arrange
	svc := NewJWTService("test-secret", time.Hour)

	// Act
	token, expiresAt, err := svc.GenerateAdminToken()

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, true, claims["is_admin"])
	assert.Equal(t, "access", claims["type"])
}

func TestRevokeToken_PrunesExpired(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour).(*JWTService)
	now := time.Unix(1_700_000_000, 0)
	svc.now = func() time.Time { return now }

	svc.RevokeToken("old", now.Add(-time.Minute).Unix())
	svc.RevokeToken("new", now.Add(time.Hour).Unix())

	assert.True(t, svc.IsTokenRevoked("new"))
	assert.False(t, svc.IsTokenRevoked("old"))
	assert.False(t, svc.IsTokenRevoked("other"))
}

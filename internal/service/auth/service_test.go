package auth

import (
	"context"
	"testing"
	"time"

	"github.com/odpc9/attendance-backend-go/internal/domain/auth"
	"github.com/odpc9/attendance-backend-go/internal/pkg/jwt"
	"github.com/odpc9/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "test-secret-key-for-jwt"
	testPassword = "12345"
)

func newTestAuthService(t *testing.T) (auth.AuthService, jwt.Service) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	jwtService := jwt.NewJWTService(testSecret, time.Hour)
	return NewAuthService(string(hash), jwtService), jwtService
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	svc, _ := newTestAuthService(t)

	// Act
	resp, err := svc.Login(context.Background(), auth.LoginRequest{Password: testPassword})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.InDelta(t, int64(time.Hour/time.Second), resp.AccessTokenExpiresIn, 5)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Password: "wrong"})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_EmptyPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{})

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestLogin_DisabledWithoutHash(t *testing.T) {
	svc := NewAuthService("", jwt.NewJWTService(testSecret, time.Hour))

	_, err := svc.Login(context.Background(), auth.LoginRequest{Password: testPassword})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogout_RevokesToken(t *testing.T) {
	// Arrange
	svc, jwtService := newTestAuthService(t)
	resp, err := svc.Login(context.Background(), auth.LoginRequest{Password: testPassword})
	require.NoError(t, err)

	// Act
	err = svc.Logout(context.Background(), resp.AccessToken)

	// Assert
	require.NoError(t, err)
	assert.True(t, jwtService.IsTokenRevoked(resp.AccessToken))
	assert.NoError(t, svc.Logout(context.Background(), resp.AccessToken))
}

func TestLogout_InvalidToken(t *testing.T) {
	svc, _ := newTestAuthService(t)

	assert.ErrorIs(t, svc.Logout(context.Background(), ""), auth.ErrInvalidToken)
	assert.ErrorIs(t, svc.Logout(context.Background(), "not-a-jwt"), auth.ErrInvalidToken)
}

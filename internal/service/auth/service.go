package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/odpc9/attendance-backend-go/internal/domain/auth"
	"github.com/odpc9/attendance-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	passwordHash []byte
	jwt.Service
}

// NewAuthService checks logins against a bcrypt hash of the shared admin
// password. An empty hash disables login.
func NewAuthService(passwordHash string, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		passwordHash: []byte(passwordHash),
		Service:      jwtService,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	if len(a.passwordHash) == 0 {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateAdminToken()
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt - time.Now().Unix(),
		TokenType:            "Bearer",
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}

	decoded, err := jwtauth.VerifyToken(a.Service.JWTAuth(), token)
	if err != nil {
		return auth.ErrInvalidToken
	}
	if a.Service.IsTokenRevoked(token) {
		return nil
	}

	a.Service.RevokeToken(token, decoded.Expiration().Unix())
	return nil
}

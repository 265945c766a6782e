package auth

import (
	"context"
)

// AuthService gates the admin screens behind a single shared password.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, token string) error
}

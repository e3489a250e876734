package auth

import (
	"context"
)

// TokenSource hands other modules the caller's decrypted GitHub OAuth
// token without exposing the users store or the cipher.
// Implemented by AuthService.
type TokenSource interface {
	GithubToken(ctx context.Context, userID string) (string, error)
}

// RefreshRequest carries the refresh token presented for session renewal.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshResponse carries the rotated token pair.
type RefreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// UserResponse is the caller profile returned by GET /auth/me.
type UserResponse struct {
	ID        string `json:"id"`
	Provider  string `json:"provider"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarUrl string `json:"avatar_url"`
}

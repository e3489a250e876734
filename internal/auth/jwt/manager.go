package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtx "github.com/golang-jwt/jwt/v4"
	apperrors "github.com/reporadar/reporadar-backend/internal/errors"
)

// Manager handles JWT creation and verification using a secret key.
// Access and refresh tokens share the signing key and differ in lifetime.
type Manager struct {
	secretKey       string
	accessDuration  time.Duration
	refreshDuration time.Duration
}

// NewManager creates a new JWT Manager with the given secret key and token durations.
func NewManager(secretKey string, accessDuration, refreshDuration time.Duration) *Manager {
	return &Manager{
		secretKey:       secretKey,
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
	}
}

// Generate creates a signed access token string using the provided parameters.
func (m *Manager) Generate(params CreateJwtParams) (string, error) {
	return m.sign(params, m.accessDuration)
}

// GenerateRefresh creates a signed refresh token string using the provided parameters.
func (m *Manager) GenerateRefresh(params CreateJwtParams) (string, error) {
	return m.sign(params, m.refreshDuration)
}

func (m *Manager) sign(params CreateJwtParams, duration time.Duration) (string, error) {
	claims := &Claims{
		UserID:     params.UserID,
		Provider:   params.Provider,
		Email:      params.Email,
		Username:   params.Username,
		ProviderID: params.ProviderID,
		RegisteredClaims: jwtx.RegisteredClaims{
			ExpiresAt: jwtx.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwtx.NewNumericDate(time.Now()),
		},
	}
	token := jwtx.NewWithClaims(jwtx.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// Verify parses and validates a JWT token string, returning the claims if valid.
// Expired tokens map to ErrExpiredToken, everything else to ErrInvalidToken.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwtx.ParseWithClaims(tokenStr, &Claims{}, func(token *jwtx.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtx.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwtx.ErrTokenExpired) {
			return nil, apperrors.ErrExpiredToken
		}
		return nil, apperrors.ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

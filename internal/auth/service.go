package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	userdb "github.com/reporadar/reporadar-backend/internal/auth/gen"
	"github.com/reporadar/reporadar-backend/internal/auth/jwt"
	"github.com/reporadar/reporadar-backend/internal/auth/provider"
	apperrors "github.com/reporadar/reporadar-backend/internal/errors"
	"github.com/reporadar/reporadar-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuthService provides authentication logic using an OAuth provider, user repository, and JWT manager.
// It encapsulates all business logic for authentication and user management.
type AuthService struct {
	provider  provider.OAuthProvider
	userRepo  userdb.Querier
	jwter     *jwt.Manager
	encryptor *utils.Encryptor
	logger    *logrus.Logger
}

// NewAuthService creates a new AuthService with the given provider, repository, JWT manager, and encryptor.
// This enables dependency injection and testability.
func NewAuthService(provider provider.OAuthProvider, repository userdb.Querier, jwter *jwt.Manager, encryptor *utils.Encryptor, logger *logrus.Logger) *AuthService {
	return &AuthService{
		provider:  provider,
		userRepo:  repository,
		jwter:     jwter,
		encryptor: encryptor,
		logger:    logger,
	}
}

// GetLoginURL returns the OAuth provider's login URL for the given state.
// Used to initiate browser-based OAuth login.
func (s *AuthService) GetLoginURL(state string) string {
	return s.provider.GetAuthURL(state)
}

// HandleCallback processes the OAuth callback, upserts the user, and returns user info and a JWT token.
// The provider access token is encrypted before it is stored, so the plaintext
// never reaches the database.
func (s *AuthService) HandleCallback(ctx context.Context, code string) (*provider.UserInfo, string, string, error) {
	s.logger.Info("Handling OAuth callback")
	token, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Errorf("Exchange code error: %v", err)
		return nil, "", "", fmt.Errorf("exchange code failed: %w", err)
	}

	userInfo, err := s.provider.GetUserInfo(ctx, token)
	if err != nil {
		s.logger.Errorf("Get user info error: %v", err)
		return nil, "", "", fmt.Errorf("failed to get user info: %w", err)
	}
	ciphertext, err := s.encryptor.Encrypt([]byte(token.AccessToken))
	if err != nil {
		s.logger.Errorf("Access token encryption error: %v", err)
		return nil, "", "", fmt.Errorf("failed to encrypt access token: %w", err)
	}
	// Upsert user in database (create or update)
	params := userdb.UpsertUserParams{
		Provider:   userInfo.Provider,
		ProviderID: strconv.Itoa(userInfo.ProviderID),
		AvatarUrl:  utils.DerefString(userInfo.AvatarURL),
		Email:      utils.DerefString(userInfo.Email),
		Name:       utils.DerefString(userInfo.Username),
		GithubTokenCiphertext: sql.NullString{
			String: ciphertext,
			Valid:  true,
		},
	}
	s.logger.Infof("Upserting user: provider=%s provider_id=%s", params.Provider, params.ProviderID)
	user, err := s.userRepo.UpsertUser(ctx, params)
	if err != nil {
		s.logger.Errorf("User upsert error: %v", err)
		return nil, "", "", err
	}
	// Generate JWT and refresh token for the user
	claims := &jwt.Claims{
		UserID:     user.ID.String(),
		Provider:   user.Provider,
		ProviderID: user.ProviderID,
		Email:      user.Email.String,
		Username:   user.Name.String,
	}
	createJwtParams := s.createJwtParamsFromClaims(claims)
	tokenStr, err := s.jwter.Generate(createJwtParams)
	if err != nil {
		s.logger.Errorf("JWT generation error: %v", err)
		return nil, "", "", fmt.Errorf("failed to generate JWT: %w", err)
	}
	refreshToken, err := s.jwter.GenerateRefresh(createJwtParams)
	if err != nil {
		s.logger.Errorf("Refresh token generation error: %v", err)
		return nil, "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	s.logger.Infof("Tokens generated for user_id=%s", user.ID.String())
	return userInfo, tokenStr, refreshToken, nil
}

// RefreshTokens validates the refresh token and issues new access and refresh tokens.
// Used for session renewal and token rotation.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	s.logger.Info("Refreshing tokens using refresh token")
	claims, err := s.jwter.Verify(refreshToken)
	if err != nil {
		if err == apperrors.ErrExpiredToken {
			s.logger.Warn("Refresh token expired")
			return "", "", apperrors.ErrExpiredToken
		}
		s.logger.Warnf("Invalid refresh token: %v", err)
		return "", "", apperrors.ErrInvalidToken
	}
	params := s.createJwtParamsFromClaims(claims)
	token, err := s.jwter.Generate(params)
	if err != nil {
		s.logger.Errorf("JWT generation error: %v", err)
		return "", "", err
	}
	newRefreshToken, err := s.jwter.GenerateRefresh(params)
	if err != nil {
		s.logger.Errorf("Refresh token generation error: %v", err)
		return "", "", err
	}
	s.logger.Infof("Refreshed tokens for user_id=%s", claims.UserID)
	return token, newRefreshToken, nil
}

// GetUserByID fetches a stored user by its primary key.
// Backs the GET /auth/me endpoint.
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*userdb.User, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		s.logger.Warnf("Invalid user id %q: %v", userID, err)
		return nil, apperrors.ErrUserNotFound
	}
	user, err := s.userRepo.GetUserById(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			s.logger.Warnf("User %s not found", userID)
			return nil, apperrors.ErrUserNotFound
		}
		s.logger.Errorf("Get user error: %v", err)
		return nil, err
	}
	return &user, nil
}

// GithubToken returns the caller's decrypted GitHub access token.
// Satisfies TokenSource for modules that talk to the GitHub API on the
// user's behalf.
func (s *AuthService) GithubToken(ctx context.Context, userID string) (string, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !user.GithubTokenCiphertext.Valid || user.GithubTokenCiphertext.String == "" {
		s.logger.Warnf("No stored GitHub token for user_id=%s", userID)
		return "", apperrors.ErrGithubTokenMissing
	}
	plaintext, err := s.encryptor.Decrypt(user.GithubTokenCiphertext.String)
	if err != nil {
		s.logger.Errorf("GitHub token decryption error for user_id=%s: %v", userID, err)
		return "", apperrors.ErrGithubTokenMissing
	}
	return string(plaintext), nil
}

// createJwtParamsFromClaims creates CreateJwtParams from JWT claims (for refresh token flow)
// This helper is used to avoid code duplication when generating tokens from claims.
func (s *AuthService) createJwtParamsFromClaims(claims *jwt.Claims) jwt.CreateJwtParams {
	return jwt.CreateJwtParams{
		UserID:     claims.UserID,
		Provider:   claims.Provider,
		ProviderID: claims.ProviderID,
		Email:      claims.Email,
		Username:   claims.Username,
	}
}

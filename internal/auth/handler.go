package auth

import (
	"net/http"

	apperrors "github.com/reporadar/reporadar-backend/internal/errors"
	"github.com/reporadar/reporadar-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// oauthStateCookie carries the CSRF state between the login redirect and
// the provider callback.
const oauthStateCookie = "rr_oauth_state"

// AuthHandler handles HTTP requests related to authentication.
type AuthHandler struct {
	service *AuthService
	logger  *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler with the given service and logger.
func NewAuthHandler(service *AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

func RegisterAuthRoutes(handler *AuthHandler, routerGroup *gin.RouterGroup, jwtMiddleware gin.HandlerFunc) {
	authGroup := routerGroup.Group("/auth")
	{
		authGroup.GET("/github/login", handler.login)
		authGroup.GET("/github/callback", handler.loginCallback)
		authGroup.POST("/refresh", handler.refresh)
		authGroup.GET("/me", jwtMiddleware, handler.me)
	}
}

// login handles the /auth/github/login endpoint. Redirects user to the OAuth provider's login page.
func (h *AuthHandler) login(c *gin.Context) {
	state := uuid.NewString()
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	url := h.service.GetLoginURL(state)
	c.Redirect(http.StatusFound, url)
}

// loginCallback handles the /auth/github/callback endpoint. Processes the OAuth callback and returns user info and JWT.
func (h *AuthHandler) loginCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}
	state := c.Query("state")
	wantState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != wantState {
		h.logger.Warn("OAuth callback state mismatch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	userInfo, token, refreshToken, err := h.service.HandleCallback(c.Request.Context(), code)
	if err != nil {
		h.logger.Errorf("OAuth callback error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OAuth failed"})
		return
	}
	h.logger.Infof("OAuth login succeeded for %s/%d", userInfo.Provider, userInfo.ProviderID)
	c.JSON(http.StatusOK, gin.H{
		"message":       "OAuth successful",
		"user":          userInfo,
		"token":         token,
		"refresh_token": refreshToken,
	})
}

// refresh handles POST /auth/refresh. Rotates the token pair when the
// presented refresh token is still valid.
func (h *AuthHandler) refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, apperrors.ErrInvalidBody.Status, apperrors.ErrInvalidBody.Code, apperrors.ErrInvalidBody.Message)
		return
	}
	token, refreshToken, err := h.service.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if apiErr, ok := err.(*apperrors.APIError); ok {
			utils.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Message)
			return
		}
		utils.RespondError(c, apperrors.ErrInternalServer.Status, apperrors.ErrInternalServer.Code, apperrors.ErrInternalServer.Message)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, RefreshResponse{
		Token:        token,
		RefreshToken: refreshToken,
	})
}

// me handles GET /auth/me. Returns the profile of the authenticated caller.
func (h *AuthHandler) me(c *gin.Context) {
	userID := c.GetString("user_id")
	user, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if apiErr, ok := err.(*apperrors.APIError); ok {
			utils.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Message)
			return
		}
		utils.RespondError(c, apperrors.ErrInternalServer.Status, apperrors.ErrInternalServer.Code, apperrors.ErrInternalServer.Message)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, UserResponse{
		ID:        user.ID.String(),
		Provider:  user.Provider,
		Name:      user.Name.String,
		Email:     user.Email.String,
		AvatarUrl: user.AvatarUrl.String,
	})
}

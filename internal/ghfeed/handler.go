package ghfeed

import (
	"net/http"
	"strconv"

	appErrors "github.com/reporadar/reporadar-backend/internal/errors"
	"github.com/reporadar/reporadar-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	defaultPerPage = 30
	maxPerPage     = 100
)

// NewGithubFeedHandler creates a new GithubFeedHandler instance with the provided logger and service.
func NewGithubFeedHandler(logger *logrus.Logger, service *GithubFeedService) *GithubFeedHandler {
	return &GithubFeedHandler{
		logger:  logger,
		service: service,
	}
}

// GithubFeedHandler handles HTTP requests for the GitHub read views.
type GithubFeedHandler struct {
	logger  *logrus.Logger
	service *GithubFeedService
}

// RegisterGithubFeedRoutes registers the GitHub feed routes with the provided
// router group. All routes require a valid JWT.
func RegisterGithubFeedRoutes(handler *GithubFeedHandler, routerGroup *gin.RouterGroup, jwtMiddleware gin.HandlerFunc) {
	githubGroup := routerGroup.Group("/github")
	githubGroup.Use(jwtMiddleware)
	{
		githubGroup.GET("/starred", handler.ListStarred)
		githubGroup.GET("/repos/:owner/:repo/releases", handler.ListReleases)
		githubGroup.DELETE("/cache", handler.InvalidateCache)
	}
}

// pagination reads page/per_page query params, falling back to sane values.
func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// ListStarred handles GET /github/starred
func (h *GithubFeedHandler) ListStarred(c *gin.Context) {
	userID := c.GetString("user_id")
	page, perPage := pagination(c)

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler": "ListStarred",
		"user_id": userID,
		"page":    page,
	})

	logEntry.Info("Processing list starred repos request")

	repos, err := h.service.ListStarred(c.Request.Context(), userID, page, perPage)
	if err != nil {
		switch err {
		case appErrors.ErrGithubTokenMissing, appErrors.ErrGithubUpstream, appErrors.ErrUserNotFound:
			apiErr := err.(*appErrors.APIError)
			utils.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Message)
			return
		default:
			logEntry.WithField("error", err.Error()).Error("Failed to list starred repos")
			utils.RespondError(c, http.StatusInternalServerError, "list_starred_failed", err.Error())
			return
		}
	}

	logEntry.WithField("count", len(repos)).Info("Successfully listed starred repos")

	utils.RespondSuccess(c, http.StatusOK, repos)
}

// ListReleases handles GET /github/repos/:owner/:repo/releases
func (h *GithubFeedHandler) ListReleases(c *gin.Context) {
	userID := c.GetString("user_id")
	owner := c.Param("owner")
	repo := c.Param("repo")
	page, perPage := pagination(c)

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler": "ListReleases",
		"user_id": userID,
		"owner":   owner,
		"repo":    repo,
	})

	logEntry.Info("Processing list releases request")

	releases, err := h.service.ListReleases(c.Request.Context(), userID, owner, repo, page, perPage)
	if err != nil {
		switch err {
		case appErrors.ErrGithubTokenMissing, appErrors.ErrGithubUpstream, appErrors.ErrUserNotFound:
			apiErr := err.(*appErrors.APIError)
			utils.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Message)
			return
		default:
			logEntry.WithField("error", err.Error()).Error("Failed to list releases")
			utils.RespondError(c, http.StatusInternalServerError, "list_releases_failed", err.Error())
			return
		}
	}

	logEntry.WithField("count", len(releases)).Info("Successfully listed releases")

	utils.RespondSuccess(c, http.StatusOK, releases)
}

// InvalidateCache handles DELETE /github/cache
func (h *GithubFeedHandler) InvalidateCache(c *gin.Context) {
	userID := c.GetString("user_id")

	h.service.InvalidateUser(c.Request.Context(), userID)

	utils.RespondSuccess(c, http.StatusOK, map[string]string{
		"message": "cached GitHub reads invalidated",
	})
}

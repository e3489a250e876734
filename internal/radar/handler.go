package radar

import (
	"net/http"
	"strconv"

	appErrors "github.com/reporadar/reporadar-backend/internal/errors"
	radardb "github.com/reporadar/reporadar-backend/internal/radar/gen"
	"github.com/reporadar/reporadar-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRadarHandler creates a new RadarHandler instance with the provided logger and service.
func NewRadarHandler(logger *logrus.Logger, service *RadarService) *RadarHandler {
	return &RadarHandler{
		logger:  logger,
		service: service,
	}
}

// RadarHandler handles HTTP requests for radar operations: CRUD, repo
// membership, and picker editing sessions.
type RadarHandler struct {
	logger  *logrus.Logger
	service *RadarService
}

// ToRadarResponseData converts a database Radar model to a response DTO.
func ToRadarResponseData(radar *radardb.Radar) RadarResponseData {
	return RadarResponseData{
		ID:          radar.ID.String(),
		Name:        radar.Name,
		Description: radar.Description.String,
		CreatedAt:   radar.CreatedAt,
		UpdatedAt:   radar.UpdatedAt,
	}
}

// ToRadarListRow converts a database catalog row to a response DTO.
func ToRadarListRow(row radardb.ListRadarsByUserRow) RadarListRow {
	return RadarListRow{
		ID:          row.ID.String(),
		Name:        row.Name,
		Description: row.Description.String,
		MemberCount: row.MemberCount,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// ToRadarRepoRow converts a database membership row to a response DTO.
func ToRadarRepoRow(row radardb.ListRadarReposRow) RadarRepoRow {
	return RadarRepoRow{
		GithubID:        row.GithubID,
		FullName:        row.FullName,
		Description:     row.Description.String,
		HtmlUrl:         row.HtmlUrl,
		StargazersCount: row.StargazersCount,
		Language:        row.Language.String,
		AddedAt:         row.AddedAt,
	}
}

// RegisterRadarRoutes registers all radar, repo-membership, and picker
// routes with the provided router group. All routes require a valid JWT.
func RegisterRadarRoutes(handler *RadarHandler, routerGroup *gin.RouterGroup, jwtMiddleware gin.HandlerFunc) {
	radarGroup := routerGroup.Group("/radars")
	radarGroup.Use(jwtMiddleware)
	{
		radarGroup.POST("/", handler.CreateRadar)
		radarGroup.GET("/", handler.ListRadars)
		radarGroup.GET("/limits", handler.GetLimits)
		radarGroup.GET("/:radarID", handler.GetRadar)
		radarGroup.PATCH("/:radarID", handler.UpdateRadar)
		radarGroup.DELETE("/:radarID", handler.DeleteRadar)
		radarGroup.GET("/:radarID/repos", handler.ListRadarRepos)
		radarGroup.POST("/:radarID/repos", handler.AddRepoToRadar)
		radarGroup.DELETE("/:radarID/repos/:githubID", handler.RemoveRepoFromRadar)
	}

	repoGroup := routerGroup.Group("/repos")
	repoGroup.Use(jwtMiddleware)
	repoGroup.GET("/:githubID/radars", handler.ListRadarsContaining)

	pickerGroup := routerGroup.Group("/picker")
	pickerGroup.Use(jwtMiddleware)
	{
		pickerGroup.POST("/", handler.OpenPicker)
		pickerGroup.GET("/:sessionID", handler.GetPicker)
		pickerGroup.POST("/:sessionID/toggle", handler.TogglePicker)
		pickerGroup.POST("/:sessionID/save", handler.SavePicker)
		pickerGroup.DELETE("/:sessionID", handler.DiscardPicker)
	}
}

// CreateRadar handles POST /radars
func (h *RadarHandler) CreateRadar(c *gin.Context) {
	userID := c.GetString("user_id")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler": "CreateRadar",
		"user_id": userID,
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
	})

	logEntry.Info("Processing create radar request")

	var req CreateRadarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logEntry.WithField("error", err.Error()).Warn("Failed to bind request body")
		utils.RespondError(c, appErrors.ErrInvalidBody.Status, appErrors.ErrInvalidBody.Code, appErrors.ErrInvalidBody.Message)
		return
	}

	radar, err := h.service.CreateRadar(c.Request.Context(), userID, req)
	if err != nil {
		switch err {
		case appErrors.ErrRadarNameNotAllowed, appErrors.ErrRadarLimitExceeded, appErrors.ErrDuplicateRadar:
			apiErr := err.(*appErrors.APIError)
			utils.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Message)
			return
		default:
			logEntry.WithField("error", err.Error()).Error("Failed to create radar")
			utils.RespondError(c, http.StatusInternalServerError, "create_radar_failed", err.Error())
			return
		}
	}

	logEntry.WithField("radar_id", radar.ID.String()).Info("Successfully created radar")

	utils.RespondSuccess(c, http.StatusCreated, ToRadarResponseData(radar))
}

// ListRadars handles GET /radars
func (h *RadarHandler) ListRadars(c *gin.Context) {
	userID := c.GetString("user_id")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler": "ListRadars",
		"user_id": userID,
	})

	logEntry.Info("Processing list radars request")

	radars, err := h.service.ListRadars(c.Request.Context(), userID)
	if err != nil {
		logEntry.WithField("error", err.Error()).Error("Failed to list radars")
		utils.RespondError(c, http.StatusInternalServerError, "list_radars_failed", err.Error())
		return
	}

	radarList := make([]RadarListRow, 0, len(radars))
	for _, radar := range radars {
		radarList = append(radarList, ToRadarListRow(radar))
	}

	logEntry.WithField("count", len(radarList)).Info("Successfully listed radars")

	utils.RespondSuccess(c, http.StatusOK, radarList)
}

// GetLimits handles GET /radars/limits
func (h *RadarHandler) GetLimits(c *gin.Context) {
	utils.RespondSuccess(c, http.StatusOK, h.service.Limits())
}

// GetRadar handles GET /radars/:radarID
func (h *RadarHandler) GetRadar(c *gin.Context) {
	userID := c.GetString("user_id")
	radarID := c.Param("radarID")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler":  "GetRadar",
		"user_id":  userID,
		"radar_id": radarID,
	})

	logEntry.Info("Processing get radar request")

	radar, err := h.service.GetRadar(c.Request.Context(), userID, radarID)
	if err != nil {
		switch err {
		case appErrors.ErrRadarNotFound:
			apiErr := err.(*appErrors.APIError)
			utils.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Message)
			return
		default:
			logEntry.WithField("error", err.Error()).Error("Failed to get radar")
			utils.RespondError(c, http.StatusInternalServerError, "get_radar_failed", err.Error())
			return
		}
	}

	utils.RespondSuccess(c, http.StatusOK, ToRadarResponseData(radar))
}

// UpdateRadar handles PATCH /radars/:radarID
func (h *RadarHandler) UpdateRadar(c *gin.Context) {
	userID := c.GetString("user_id")
	radarID := c.Param("radarID")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler":  "UpdateRadar",
		"user_id":  userID,
		"radar_id": radarID,
	})

	logEntry.Info("Processing update radar request")

	var req UpdateRadarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logEntry.WithField("error", err.Error()).Warn("Failed to bind request body")
		utils.RespondError(c, appErrors.ErrInvalidBody.Status, appErrors.ErrInvalidBody.Code, appErrors.ErrInvalidBody.Message)
		return
	}

	radar, err := h.service.UpdateRadar(c.Request.Context(), userID, radarID, req)
	if err != nil {
		switch err {
		case appErrors.ErrRadarNotFound, appErrors.ErrRadarNameNotAllowed, appErrors.ErrDuplicateRadar:
			apiErr := err.(*appErrors.APIError)
			utils.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Message)
			return
		default:
			logEntry.WithField("error", err.Error()).Error("Failed to update radar")
			utils.RespondError(c, http.StatusInternalServerError, "update_radar_failed", err.Error())
			return
		}
	}

	logEntry.Info("Successfully updated radar")

	utils.RespondSuccess(c, http.StatusOK, ToRadarResponseData(radar))
}

// DeleteRadar handles DELETE /radars/:radarID
func (h *RadarHandler) DeleteRadar(c *gin.Context) {
	userID := c.GetString("user_id")
	radarID := c.Param("radarID")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler":  "DeleteRadar",
		"user_id":  userID,
		"radar_id": radarID,
	})

	logEntry.Info("Processing delete radar request")

	err := h.service.DeleteRadar(c.Request.Context(), userID, radarID)
	if err != nil {
		switch err {
		case appErrors.ErrRadarNotFound:
			apiErr := err.(*appErrors.APIError)
			utils.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Message)
			return
		default:
			logEntry.WithField("error", err.Error()).Error("Failed to delete radar")
			utils.RespondError(c, http.StatusInternalServerError, "delete_radar_failed", err.Error())
			return
		}
	}

	logEntry.Info("Successfully deleted radar")

	utils.RespondSuccess(c, http.StatusOK, map[string]string{
		"message": "radar deleted successfully",
	})
}

// ListRadarRepos handles GET /radars/:radarID/repos
func (h *RadarHandler) ListRadarRepos(c *gin.Context) {
	userID := c.GetString("user_id")
	radarID := c.Param("radarID")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler":  "ListRadarRepos",
		"user_id":  userID,
		"radar_id": radarID,
	})

	logEntry.Info("Processing list radar repos request")

	repos, err := h.service.ListRadarRepos(c.Request.Context(), userID, radarID)
	if err != nil {
		switch err {
		case appErrors.ErrRadarNotFound:
			apiErr := err.(*appErrors.APIError)
			utils.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Message)
			return
		default:
			logEntry.WithField("error", err.Error()).Error("Failed to list radar repos")
			utils.RespondError(c, http.StatusInternalServerError, "list_radar_repos_failed", err.Error())
			return
		}
	}

	repoList := make([]RadarRepoRow, 0, len(repos))
	for _, repo := range repos {
		repoList = append(repoList, ToRadarRepoRow(repo))
	}

	logEntry.WithField("count", len(repoList)).Info("Successfully listed radar repos")

	utils.RespondSuccess(c, http.StatusOK, repoList)
}

// AddRepoToRadar handles POST /radars/:radarID/repos
func (h *RadarHandler) AddRepoToRadar(c *gin.Context) {
	userID := c.GetString("user_id")
	radarID := c.Param("radarID")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler":  "AddRepoToRadar",
		"user_id":  userID,
		"radar_id": radarID,
	})

	logEntry.Info("Processing add repo to radar request")

	var req RepoSnapshot
	if err := c.ShouldBindJSON(&req); err != nil {
		logEntry.WithField("error", err.Error()).Warn("Failed to bind request body")
		utils.RespondError(c, appErrors.ErrInvalidBody.Status, appErrors.ErrInvalidBody.Code, appErrors.ErrInvalidBody.Message)
		return
	}

	err := h.service.AddRepoToRadar(c.Request.Context(), userID, radarID, req)
	if err != nil {
		switch err {
		case appErrors.ErrRadarNotFound, appErrors.ErrDuplicateRadarRepo, appErrors.ErrRadarRepoLimitExceeded, appErrors.ErrRepoNotFound:
			apiErr := err.(*appErrors.APIError)
			utils.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Message)
			return
		default:
			logEntry.WithField("error", err.Error()).Error("Failed to add repo to radar")
			utils.RespondError(c, http.StatusInternalServerError, "add_radar_repo_failed", err.Error())
			return
		}
	}

	logEntry.WithField("github_id", req.GithubID).Info("Successfully added repo to radar")

	utils.RespondSuccess(c, http.StatusCreated, map[string]string{
		"message": "repo added to radar successfully",
	})
}

// RemoveRepoFromRadar handles DELETE /radars/:radarID/repos/:githubID
func (h *RadarHandler) RemoveRepoFromRadar(c *gin.Context) {
	userID := c.GetString("user_id")
	radarID := c.Param("radarID")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler":  "RemoveRepoFromRadar",
		"user_id":  userID,
		"radar_id": radarID,
	})

	logEntry.Info("Processing remove repo from radar request")

	githubID, err := strconv.ParseInt(c.Param("githubID"), 10, 64)
	if err != nil {
		logEntry.WithField("error", err.Error()).Warn("Invalid github repo id in path")
		utils.RespondError(c, http.StatusBadRequest, "bad_request", "invalid github repo id")
		return
	}

	err = h.service.RemoveMembership(c.Request.Context(), userID, radarID, githubID)
	if err != nil {
		switch err {
		case appErrors.ErrRadarNotFound, appErrors.ErrRadarRepoNotFound:
			apiErr := err.(*appErrors.APIError)
			utils.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Message)
			return
		default:
			logEntry.WithField("error", err.Error()).Error("Failed to remove repo from radar")
			utils.RespondError(c, http.StatusInternalServerError, "remove_radar_repo_failed", err.Error())
			return
		}
	}

	logEntry.WithField("github_id", githubID).Info("Successfully removed repo from radar")

	utils.RespondSuccess(c, http.StatusOK, map[string]string{
		"message": "repo removed from radar successfully",
	})
}

// ListRadarsContaining handles GET /repos/:githubID/radars
func (h *RadarHandler) ListRadarsContaining(c *gin.Context) {
	userID := c.GetString("user_id")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler": "ListRadarsContaining",
		"user_id": userID,
	})

	logEntry.Info("Processing list radars containing repo request")

	githubID, err := strconv.ParseInt(c.Param("githubID"), 10, 64)
	if err != nil {
		logEntry.WithField("error", err.Error()).Warn("Invalid github repo id in path")
		utils.RespondError(c, http.StatusBadRequest, "bad_request", "invalid github repo id")
		return
	}

	radarIDs, err := h.service.ListRadarsContaining(c.Request.Context(), userID, githubID)
	if err != nil {
		logEntry.WithField("error", err.Error()).Error("Failed to list radars containing repo")
		utils.RespondError(c, http.StatusInternalServerError, "list_containing_failed", err.Error())
		return
	}

	logEntry.WithFields(logrus.Fields{
		"github_id": githubID,
		"count":     len(radarIDs),
	}).Info("Successfully listed radars containing repo")

	utils.RespondSuccess(c, http.StatusOK, radarIDs)
}

// OpenPicker handles POST /picker
func (h *RadarHandler) OpenPicker(c *gin.Context) {
	userID := c.GetString("user_id")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler": "OpenPicker",
		"user_id": userID,
	})

	logEntry.Info("Processing open picker request")

	var req OpenPickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logEntry.WithField("error", err.Error()).Warn("Failed to bind request body")
		utils.RespondError(c, appErrors.ErrInvalidBody.Status, appErrors.ErrInvalidBody.Code, appErrors.ErrInvalidBody.Message)
		return
	}

	session, err := h.service.OpenPicker(c.Request.Context(), userID, req)
	if err != nil {
		logEntry.WithField("error", err.Error()).Error("Failed to open picker session")
		utils.RespondError(c, http.StatusInternalServerError, "open_picker_failed", err.Error())
		return
	}

	logEntry.WithFields(logrus.Fields{
		"session_id": session.SessionID,
		"github_id":  req.Repo.GithubID,
	}).Info("Successfully opened picker session")

	utils.RespondSuccess(c, http.StatusCreated, session)
}

// GetPicker handles GET /picker/:sessionID
func (h *RadarHandler) GetPicker(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionID := c.Param("sessionID")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler":    "GetPicker",
		"user_id":    userID,
		"session_id": sessionID,
	})

	session, err := h.service.GetPicker(c.Request.Context(), userID, sessionID)
	if err != nil {
		switch err {
		case appErrors.ErrPickerSessionNotFound:
			apiErr := err.(*appErrors.APIError)
			utils.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Message)
			return
		default:
			logEntry.WithField("error", err.Error()).Error("Failed to get picker session")
			utils.RespondError(c, http.StatusInternalServerError, "get_picker_failed", err.Error())
			return
		}
	}

	utils.RespondSuccess(c, http.StatusOK, session)
}

// TogglePicker handles POST /picker/:sessionID/toggle
func (h *RadarHandler) TogglePicker(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionID := c.Param("sessionID")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler":    "TogglePicker",
		"user_id":    userID,
		"session_id": sessionID,
	})

	var req TogglePickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logEntry.WithField("error", err.Error()).Warn("Failed to bind request body")
		utils.RespondError(c, appErrors.ErrInvalidBody.Status, appErrors.ErrInvalidBody.Code, appErrors.ErrInvalidBody.Message)
		return
	}

	result, err := h.service.TogglePicker(c.Request.Context(), userID, sessionID, req.RadarID)
	if err != nil {
		switch err {
		case appErrors.ErrPickerSessionNotFound, appErrors.ErrSaveInFlight:
			apiErr := err.(*appErrors.APIError)
			utils.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Message)
			return
		default:
			logEntry.WithField("error", err.Error()).Error("Failed to toggle radar in picker session")
			utils.RespondError(c, http.StatusInternalServerError, "toggle_picker_failed", err.Error())
			return
		}
	}

	logEntry.WithFields(logrus.Fields{
		"radar_id": result.RadarID,
		"checked":  result.Checked,
	}).Info("Successfully toggled radar in picker session")

	utils.RespondSuccess(c, http.StatusOK, result)
}

// SavePicker handles POST /picker/:sessionID/save
func (h *RadarHandler) SavePicker(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionID := c.Param("sessionID")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler":    "SavePicker",
		"user_id":    userID,
		"session_id": sessionID,
	})

	logEntry.Info("Processing save picker request")

	result, err := h.service.SavePicker(c.Request.Context(), userID, sessionID)
	if err != nil {
		switch err {
		case appErrors.ErrPickerSessionNotFound, appErrors.ErrSaveInFlight:
			apiErr := err.(*appErrors.APIError)
			utils.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Message)
			return
		default:
			// Partial failure: the session retains what did not apply, the
			// response carries every per-entry outcome.
			logEntry.WithField("error", err.Error()).Warn("Picker save completed with failures")
			utils.RespondErrorWithData(c, http.StatusConflict, "save_partial_failure", err.Error(), result)
			return
		}
	}

	logEntry.WithField("outcomes", len(result.Outcomes)).Info("Successfully saved picker session")

	utils.RespondSuccess(c, http.StatusOK, result)
}

// DiscardPicker handles DELETE /picker/:sessionID
func (h *RadarHandler) DiscardPicker(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionID := c.Param("sessionID")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler":    "DiscardPicker",
		"user_id":    userID,
		"session_id": sessionID,
	})

	err := h.service.DiscardPicker(c.Request.Context(), userID, sessionID)
	if err != nil {
		switch err {
		case appErrors.ErrPickerSessionNotFound:
			apiErr := err.(*appErrors.APIError)
			utils.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Message)
			return
		default:
			logEntry.WithField("error", err.Error()).Error("Failed to discard picker session")
			utils.RespondError(c, http.StatusInternalServerError, "discard_picker_failed", err.Error())
			return
		}
	}

	logEntry.Info("Successfully discarded picker session")

	utils.RespondSuccess(c, http.StatusOK, map[string]string{
		"message": "picker session discarded",
	})
}

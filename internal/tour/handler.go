package tour

import (
	"net/http"

	"github.com/reporadar/reporadar-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewTourHandler creates a new TourHandler instance with the provided logger and service.
func NewTourHandler(logger *logrus.Logger, service *TourService) *TourHandler {
	return &TourHandler{
		logger:  logger,
		service: service,
	}
}

// TourHandler handles HTTP requests for onboarding tour progress.
type TourHandler struct {
	logger  *logrus.Logger
	service *TourService
}

// RegisterTourRoutes registers the tour routes with the provided router
// group. All routes require a valid JWT.
func RegisterTourRoutes(handler *TourHandler, routerGroup *gin.RouterGroup, jwtMiddleware gin.HandlerFunc) {
	tourGroup := routerGroup.Group("/tour")
	tourGroup.Use(jwtMiddleware)
	{
		tourGroup.GET("/", handler.GetProgress)
		tourGroup.POST("/advance", handler.Advance)
		tourGroup.POST("/back", handler.Back)
		tourGroup.POST("/skip", handler.Skip)
		tourGroup.POST("/reset", handler.Reset)
	}
}

// GetProgress handles GET /tour
func (h *TourHandler) GetProgress(c *gin.Context) {
	userID := c.GetString("user_id")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler": "GetTourProgress",
		"user_id": userID,
	})

	progress, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		logEntry.WithField("error", err.Error()).Error("Failed to fetch tour progress")
		utils.RespondError(c, http.StatusInternalServerError, "tour_fetch_failed", err.Error())
		return
	}

	utils.RespondSuccess(c, http.StatusOK, progress)
}

// Advance handles POST /tour/advance
func (h *TourHandler) Advance(c *gin.Context) {
	userID := c.GetString("user_id")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler": "AdvanceTour",
		"user_id": userID,
	})

	logEntry.Info("Processing advance tour request")

	progress, err := h.service.Advance(c.Request.Context(), userID)
	if err != nil {
		logEntry.WithField("error", err.Error()).Error("Failed to advance tour")
		utils.RespondError(c, http.StatusInternalServerError, "tour_advance_failed", err.Error())
		return
	}

	utils.RespondSuccess(c, http.StatusOK, progress)
}

// Back handles POST /tour/back
func (h *TourHandler) Back(c *gin.Context) {
	userID := c.GetString("user_id")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler": "StepTourBack",
		"user_id": userID,
	})

	logEntry.Info("Processing step tour back request")

	progress, err := h.service.Back(c.Request.Context(), userID)
	if err != nil {
		logEntry.WithField("error", err.Error()).Error("Failed to step tour back")
		utils.RespondError(c, http.StatusInternalServerError, "tour_back_failed", err.Error())
		return
	}

	utils.RespondSuccess(c, http.StatusOK, progress)
}

// Skip handles POST /tour/skip
func (h *TourHandler) Skip(c *gin.Context) {
	userID := c.GetString("user_id")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler": "SkipTour",
		"user_id": userID,
	})

	logEntry.Info("Processing skip tour request")

	progress, err := h.service.Skip(c.Request.Context(), userID)
	if err != nil {
		logEntry.WithField("error", err.Error()).Error("Failed to skip tour")
		utils.RespondError(c, http.StatusInternalServerError, "tour_skip_failed", err.Error())
		return
	}

	utils.RespondSuccess(c, http.StatusOK, progress)
}

// Reset handles POST /tour/reset
func (h *TourHandler) Reset(c *gin.Context) {
	userID := c.GetString("user_id")

	logEntry := h.logger.WithFields(logrus.Fields{
		"handler": "ResetTour",
		"user_id": userID,
	})

	logEntry.Info("Processing reset tour request")

	progress, err := h.service.Reset(c.Request.Context(), userID)
	if err != nil {
		logEntry.WithField("error", err.Error()).Error("Failed to reset tour")
		utils.RespondError(c, http.StatusInternalServerError, "tour_reset_failed", err.Error())
		return
	}

	utils.RespondSuccess(c, http.StatusOK, progress)
}

package users

import (
	"errors"
	"net/http"

	"securestock/pkg/activitylog"
	"securestock/pkg/models"
	"securestock/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UsersHandler struct {
	service  *UserService
	activity activitylog.Recorder
	logger   *zap.Logger
}

func NewHandler(s *UserService, activity activitylog.Recorder, logger *zap.Logger) *UsersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsersHandler{service: s, activity: activity, logger: logger}
}

func (h *UsersHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profiles", security.Authorize("admin"), h.GetProfiles)
	router.GET("/profiles/me", security.Authorize("user"), h.GetMe)
	router.POST("/profiles", security.Authorize("admin"), h.CreateProfile)
	router.PATCH("/profiles/:id", security.Authorize("admin"), h.UpdateProfile)
	router.DELETE("/profiles/:id", security.Authorize("super_admin"), h.DeleteProfile)
}

func (h *UsersHandler) GetProfiles(c *gin.Context) {
	profiles, err := h.service.GetProfiles(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list profiles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain list of profiles", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, profiles)
}

func (h *UsersHandler) GetMe(c *gin.Context) {
	userID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, "Unable to find profile", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UsersHandler) CreateProfile(c *gin.Context) {
	var req models.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	profile, err := h.service.CreateProfile(c.Request.Context(), security.GetRoleFromContext(c), req)
	if err != nil {
		h.respondError(c, "Failed to create profile", err)
		return
	}

	h.record(c, "create", profile)
	c.JSON(http.StatusCreated, profile)
}

func (h *UsersHandler) UpdateProfile(c *gin.Context) {
	var uri models.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id", "details": err.Error()})
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), security.GetRoleFromContext(c), uri.ID, req)
	if err != nil {
		h.respondError(c, "Failed to update profile", err)
		return
	}

	h.record(c, "update", profile)
	c.JSON(http.StatusOK, profile)
}

func (h *UsersHandler) DeleteProfile(c *gin.Context) {
	actorID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var uri models.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id", "details": err.Error()})
		return
	}

	profile, err := h.service.DeleteProfile(c.Request.Context(), actorID, uri.ID)
	if err != nil {
		h.respondError(c, "Failed to delete profile", err)
		return
	}

	h.record(c, "delete", profile)
	c.Status(http.StatusNoContent)
}

func (h *UsersHandler) record(c *gin.Context, action string, profile *models.Profile) {
	userID, _ := security.GetUserIDFromContext(c)
	h.activity.Record(c.Request.Context(), activitylog.Entry(userID, action, profile))
}

func (h *UsersHandler) respondError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": message, "details": err.Error(), "code": "PROFILE_NOT_FOUND"})
	case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrSelfDelete):
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": err.Error()})
	case errors.Is(err, ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": message, "details": err.Error()})
	default:
		h.logger.Error(message, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}

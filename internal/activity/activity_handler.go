package activity

import (
	"net/http"

	"securestock/pkg/models"
	"securestock/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ActivityHandler struct {
	repository ActivityRepository
	logger     *zap.Logger
}

func NewActivityHandler(r ActivityRepository, logger *zap.Logger) *ActivityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityHandler{repository: r, logger: logger}
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/activity", security.Authorize("admin"), h.GetActivity)
}

func (h *ActivityHandler) GetActivity(c *gin.Context) {
	var filter models.ActivityFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	records, err := h.repository.GetActivity(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to fetch activity history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity history"})
		return
	}

	c.JSON(http.StatusOK, records)
}

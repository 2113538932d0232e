package notifications

import (
	"context"
	"net/http"

	"securestock/pkg/activitylog"
	"securestock/pkg/models"
	"securestock/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Notifier interface {
	NotifyTechnician(ctx context.Context, notice models.MaintenanceNotice) error
}

type NotificationHandler struct {
	notifier Notifier
	activity activitylog.Recorder
	logger   *zap.Logger
}

// NewNotificationHandler accepts a nil notifier when SMTP is not configured.
func NewNotificationHandler(n Notifier, activity activitylog.Recorder, logger *zap.Logger) *NotificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHandler{notifier: n, activity: activity, logger: logger}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/notifications/maintenance", security.Authorize("admin"), h.SendMaintenanceNotice)
}

func (h *NotificationHandler) SendMaintenanceNotice(c *gin.Context) {
	if h.notifier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Email delivery is not configured"})
		return
	}

	var notice models.MaintenanceNotice
	if err := c.ShouldBindJSON(&notice); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := h.notifier.NotifyTechnician(c.Request.Context(), notice); err != nil {
		h.logger.Warn("maintenance notice failed", zap.String("to", notice.TechnicianEmail), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to send notification", "details": err.Error()})
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	h.activity.Record(c.Request.Context(), models.ActivityEntry{
		UserID:      userID,
		Action:      "notify",
		Description: "Maintenance notice sent to " + notice.TechnicianEmail + " for " + notice.EquipmentName,
		Page:        models.PageMaintenance,
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

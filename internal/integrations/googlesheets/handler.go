package googlesheets

import (
	"context"
	"fmt"
	"net/http"

	"securestock/pkg/activitylog"
	"securestock/pkg/models"
	"securestock/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Syncer runs one stock report export.
type Syncer interface {
	Sync(ctx context.Context) (int, error)
}

type ReportHandler struct {
	syncer   Syncer
	activity activitylog.Recorder
	logger   *zap.Logger
}

// NewReportHandler accepts a nil syncer when the export is not configured.
func NewReportHandler(syncer Syncer, activity activitylog.Recorder, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{syncer: syncer, activity: activity, logger: logger}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/reports/stock/sync", security.Authorize("admin"), h.SyncStockReport)
}

func (h *ReportHandler) SyncStockReport(c *gin.Context) {
	if h.syncer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stock report export is not configured"})
		return
	}

	rows, err := h.syncer.Sync(c.Request.Context())
	if err != nil {
		h.logger.Error("stock report sync failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to sync stock report", "details": err.Error()})
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	h.activity.Record(c.Request.Context(), models.ActivityEntry{
		UserID:      userID,
		Action:      "sync",
		Description: fmt.Sprintf("stock report, %d categories", rows),
		Page:        models.PageReports,
	})
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

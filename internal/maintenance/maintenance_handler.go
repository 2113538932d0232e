package maintenance

import (
	"errors"
	"net/http"

	"securestock/pkg/activitylog"
	"securestock/pkg/models"
	"securestock/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MaintenanceHandler struct {
	service  *MaintenanceService
	activity activitylog.Recorder
	logger   *zap.Logger
}

func NewMaintenanceHandler(s *MaintenanceService, activity activitylog.Recorder, logger *zap.Logger) *MaintenanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceHandler{service: s, activity: activity, logger: logger}
}

func (h *MaintenanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/maintenance", security.Authorize("user"), h.GetRecords)
	router.GET("/maintenance/:id", security.Authorize("user"), h.GetRecord)
	router.POST("/maintenance", security.Authorize("admin"), h.CreateRecord)
	router.PATCH("/maintenance/:id", security.Authorize("admin"), h.UpdateRecord)
	router.PATCH("/maintenance/:id/status", security.Authorize("admin"), h.ChangeStatus)
	router.DELETE("/maintenance/:id", security.Authorize("admin"), h.DeleteRecord)
}

func (h *MaintenanceHandler) GetRecords(c *gin.Context) {
	var filter models.MaintenanceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	records, err := h.service.GetRecords(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, "Failed to fetch maintenance records", err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *MaintenanceHandler) GetRecord(c *gin.Context) {
	var uri models.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maintenance record id", "details": err.Error()})
		return
	}

	record, err := h.service.GetRecord(c.Request.Context(), uri.ID)
	if err != nil {
		h.respondError(c, "Failed to fetch maintenance record", err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *MaintenanceHandler) CreateRecord(c *gin.Context) {
	var req models.MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	record, err := h.service.CreateRecord(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, "Failed to create maintenance record", err)
		return
	}

	h.activity.Record(c.Request.Context(), activitylog.Entry(userID, "create", record))
	c.JSON(http.StatusCreated, record)
}

func (h *MaintenanceHandler) UpdateRecord(c *gin.Context) {
	var req models.PatchMaintenanceRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URI parameters", "details": err.Error()})
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	record, err := h.service.UpdateRecord(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "Unable to update maintenance record", err)
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	h.activity.Record(c.Request.Context(), activitylog.Entry(userID, "update", record))
	c.JSON(http.StatusOK, record)
}

func (h *MaintenanceHandler) ChangeStatus(c *gin.Context) {
	var req models.MaintenanceStatusRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URI parameters", "details": err.Error()})
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	record, err := h.service.ChangeStatus(c.Request.Context(), req.ID, req.Status)
	if err != nil {
		h.respondError(c, "Unable to change maintenance status", err)
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	h.activity.Record(c.Request.Context(), activitylog.Entry(userID, "status_change", record))
	c.JSON(http.StatusOK, record)
}

func (h *MaintenanceHandler) DeleteRecord(c *gin.Context) {
	var uri models.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maintenance record id", "details": err.Error()})
		return
	}

	record, err := h.service.DeleteRecord(c.Request.Context(), uri.ID)
	if err != nil {
		h.respondError(c, "Failed to delete maintenance record", err)
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	h.activity.Record(c.Request.Context(), activitylog.Entry(userID, "delete", record))
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance record deleted successfully"})
}

func (h *MaintenanceHandler) respondError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidPriority),
		errors.Is(err, ErrUnknownItem), errors.Is(err, ErrNothingToPatch), errors.Is(err, ErrDateRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
	default:
		h.logger.Error(message, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}

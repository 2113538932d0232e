package assignments

import (
	"errors"
	"net/http"

	"securestock/pkg/activitylog"
	"securestock/pkg/models"
	"securestock/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AssignmentHandler struct {
	service  *AssignmentService
	activity activitylog.Recorder
	logger   *zap.Logger
}

func NewAssignmentHandler(s *AssignmentService, activity activitylog.Recorder, logger *zap.Logger) *AssignmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentHandler{service: s, activity: activity, logger: logger}
}

func (h *AssignmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/assignments", security.Authorize("user"), h.GetAssignments)
	router.POST("/assignments", security.Authorize("admin"), h.Assign)
	router.POST("/assignments/:id/return", security.Authorize("admin"), h.Return)
}

func (h *AssignmentHandler) GetAssignments(c *gin.Context) {
	var filter models.AssignmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	assignments, err := h.service.GetAssignments(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, "Failed to fetch assignments", err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req models.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	assignment, err := h.service.Assign(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "Failed to assign item", err)
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	h.activity.Record(c.Request.Context(), activitylog.Entry(userID, "assign", assignment))
	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) Return(c *gin.Context) {
	var uri models.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment id", "details": err.Error()})
		return
	}

	assignment, err := h.service.Return(c.Request.Context(), uri.ID)
	if err != nil {
		h.respondError(c, "Failed to return item", err)
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	h.activity.Record(c.Request.Context(), activitylog.Entry(userID, "return", assignment))
	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) respondError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, ErrAssignmentNotFound), errors.Is(err, ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, ErrItemUnavailable), errors.Is(err, ErrAlreadyReturned):
		c.JSON(http.StatusConflict, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, ErrUnknownEmployee), errors.Is(err, ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
	default:
		h.logger.Error(message, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}

package category

import (
	"errors"
	"net/http"

	"securestock/pkg/activitylog"
	"securestock/pkg/models"
	"securestock/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	service  *CategoryService
	activity activitylog.Recorder
	logger   *zap.Logger
}

func NewCategoryHandler(s *CategoryService, activity activitylog.Recorder, logger *zap.Logger) *CategoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryHandler{service: s, activity: activity, logger: logger}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/stock-categories", security.Authorize("user"), h.GetCategories)
	router.GET("/stock-categories/summary", security.Authorize("user"), h.GetSummary)
	router.POST("/stock-categories", security.Authorize("admin"), h.CreateCategory)
	router.PATCH("/stock-categories/:id", security.Authorize("admin"), h.UpdateCategory)
	router.DELETE("/stock-categories/:id", security.Authorize("admin"), h.DeleteCategory)
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.service.GetCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock categories", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to build category summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build stock summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req models.StockCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "Failed to create stock category", err)
		return
	}

	h.record(c, "create", category)
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req models.PatchStockCategoryRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URI parameters", "details": err.Error()})
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	category, err := h.service.UpdateCategory(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "Failed to update stock category", err)
		return
	}

	h.record(c, "update", category)
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	var uri models.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id", "details": err.Error()})
		return
	}

	category, err := h.service.DeleteCategory(c.Request.Context(), uri.ID)
	if err != nil {
		h.respondError(c, "Failed to delete stock category", err)
		return
	}

	h.record(c, "delete", category)
	c.JSON(http.StatusOK, gin.H{"message": "Stock category deleted successfully"})
}

func (h *CategoryHandler) record(c *gin.Context, action string, category *models.StockCategory) {
	userID, _ := security.GetUserIDFromContext(c)
	h.activity.Record(c.Request.Context(), activitylog.Entry(userID, action, category))
}

func (h *CategoryHandler) respondError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrNothingToPatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, ErrCategoryInUse), errors.Is(err, ErrNameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": message, "details": err.Error()})
	default:
		h.logger.Error(message, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}

package stocks

import (
	"errors"
	"net/http"
	"time"

	"securestock/pkg/activitylog"
	"securestock/pkg/models"
	"securestock/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type StockHandler struct {
	service  *StockService
	exporter *Exporter
	activity activitylog.Recorder
	logger   *zap.Logger
}

func NewStockHandler(s *StockService, e *Exporter, activity activitylog.Recorder, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{service: s, exporter: e, activity: activity, logger: logger}
}

func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/stock-items", security.Authorize("user"), h.GetStockItems)
	router.GET("/stock-items/export", security.Authorize("admin"), h.ExportStockItems)
	router.GET("/stock-items/:id", security.Authorize("user"), h.GetStockItem)
	router.POST("/stock-items", security.Authorize("admin"), h.CreateStockItem)
	router.PATCH("/stock-items/:id", security.Authorize("admin"), h.UpdateStockItem)
	router.DELETE("/stock-items/:id", security.Authorize("admin"), h.DeleteStockItem)
}

func (h *StockHandler) GetStockItems(c *gin.Context) {
	var filter models.StockItemFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	items, err := h.service.GetStockItems(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, "Failed to fetch stock items", err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *StockHandler) GetStockItem(c *gin.Context) {
	var uri models.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock item id", "details": err.Error()})
		return
	}

	item, err := h.service.GetStockItem(c.Request.Context(), uri.ID)
	if err != nil {
		h.respondError(c, "Failed to fetch stock item", err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *StockHandler) CreateStockItem(c *gin.Context) {
	var req models.StockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	item, record, err := h.service.CreateStockItem(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, "Failed to create stock item", err)
		return
	}

	h.activity.Record(c.Request.Context(), activitylog.Entry(userID, "create", item))
	if record != nil {
		h.activity.Record(c.Request.Context(), activitylog.Entry(userID, "create", record))
		c.JSON(http.StatusCreated, gin.H{"item": item, "maintenance_record": record})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *StockHandler) UpdateStockItem(c *gin.Context) {
	var req models.PatchStockItemRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URI parameters", "details": err.Error()})
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	item, err := h.service.UpdateStockItem(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "Unable to update stock item", err)
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	h.activity.Record(c.Request.Context(), activitylog.Entry(userID, "update", item))
	c.JSON(http.StatusOK, item)
}

func (h *StockHandler) DeleteStockItem(c *gin.Context) {
	var uri models.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock item id", "details": err.Error()})
		return
	}

	item, err := h.service.DeleteStockItem(c.Request.Context(), uri.ID)
	if err != nil {
		h.respondError(c, "Failed to delete stock item", err)
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	h.activity.Record(c.Request.Context(), activitylog.Entry(userID, "delete", item))
	c.JSON(http.StatusOK, gin.H{"message": "Stock item deleted successfully"})
}

func (h *StockHandler) ExportStockItems(c *gin.Context) {
	buf, err := h.exporter.Export(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to export stock items", err)
		return
	}

	filename := "stock-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *StockHandler) respondError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, ErrStockItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrNothingToPatch), errors.Is(err, ErrUnknownRef),
		errors.Is(err, ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": message, "details": err.Error()})
	default:
		h.logger.Error(message, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}

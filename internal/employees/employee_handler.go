package employees

import (
	"errors"
	"net/http"

	"securestock/internal/assignments"
	"securestock/pkg/activitylog"
	"securestock/pkg/models"
	"securestock/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EmployeeHandler struct {
	service  *EmployeeService
	activity activitylog.Recorder
	logger   *zap.Logger
}

func NewEmployeeHandler(s *EmployeeService, activity activitylog.Recorder, logger *zap.Logger) *EmployeeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeHandler{service: s, activity: activity, logger: logger}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/employees", security.Authorize("user"), h.GetEmployees)
	router.GET("/employees/:id", security.Authorize("user"), h.GetEmployee)
	router.POST("/employees", security.Authorize("admin"), h.CreateEmployee)
	router.PATCH("/employees/:id", security.Authorize("admin"), h.UpdateEmployee)
	router.DELETE("/employees/:id", security.Authorize("admin"), h.DeleteEmployee)
}

func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	var filter models.EmployeeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	employees, err := h.service.GetEmployees(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, "Failed to fetch employees", err)
		return
	}

	c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	var uri models.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee id", "details": err.Error()})
		return
	}

	employee, err := h.service.GetEmployee(c.Request.Context(), uri.ID)
	if err != nil {
		h.respondError(c, "Failed to fetch employee", err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req models.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	result, err := h.service.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "Failed to create employee", err)
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	h.activity.Record(c.Request.Context(), activitylog.Entry(userID, "create", &result.Employee))
	for i := range result.Assignments {
		h.activity.Record(c.Request.Context(), activitylog.Entry(userID, "assign", &result.Assignments[i]))
	}

	c.JSON(http.StatusCreated, result)
}

func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req models.PatchEmployeeRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee id", "details": err.Error()})
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	employee, err := h.service.UpdateEmployee(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "Failed to update employee", err)
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	h.activity.Record(c.Request.Context(), activitylog.Entry(userID, "update", employee))
	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	var uri models.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee id", "details": err.Error()})
		return
	}

	employee, err := h.service.DeleteEmployee(c.Request.Context(), uri.ID)
	if err != nil {
		h.respondError(c, "Failed to delete employee", err)
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	h.activity.Record(c.Request.Context(), activitylog.Entry(userID, "delete", employee))
	c.Status(http.StatusNoContent)
}

func (h *EmployeeHandler) respondError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, ErrEmployeeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, assignments.ErrItemUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, assignments.ErrItemNotFound),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrNothingToPatch),
		errors.Is(err, ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
	default:
		h.logger.Error(message, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}

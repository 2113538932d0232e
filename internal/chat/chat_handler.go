package chat

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"securestock/internal/rate_limiter"
	"securestock/pkg/clients/llm"
	"securestock/pkg/models"
	"securestock/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIKeyHeader lets a caller supply its own provider key for the inventory chat.
const APIKeyHeader = "X-LLM-API-Key"

type ChatHandler struct {
	service     *ChatService
	rateLimiter *rate_limiter.RateLimiter
	logger      *zap.Logger
}

func NewChatHandler(s *ChatService, limiter *rate_limiter.RateLimiter, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{service: s, rateLimiter: limiter, logger: logger}
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/chat", security.Authorize("user"), h.limitPerUser, h.Chat)
	router.POST("/chat/inventory", security.Authorize("user"), h.limitPerUser, h.InventoryChat)
	router.GET("/chat/history", security.Authorize("user"), h.GetHistory)
	router.DELETE("/chat/history", security.Authorize("user"), h.ClearHistory)
}

func (h *ChatHandler) limitPerUser(c *gin.Context) {
	if h.rateLimiter == nil {
		c.Next()
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	if h.rateLimiter.IsAllowed(userID) {
		c.Next()
		return
	}

	resetAt := time.Now().Add(h.rateLimiter.Window()).Format(time.RFC3339)
	c.Header("X-RateLimit-Limit", strconv.Itoa(h.rateLimiter.Limit()))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(h.rateLimiter.GetRemainingRequests(userID)))
	c.Header("X-RateLimit-Reset", resetAt)
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":    "Too many chat requests. Try again later.",
		"reset_at": resetAt,
	})
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	reply, err := h.service.Reply(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *ChatHandler) InventoryChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	userID, _ := security.GetUserIDFromContext(c)
	reply, err := h.service.InventoryReply(c.Request.Context(), userID, req, c.GetHeader(APIKeyHeader))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	messages, err := h.service.GetHistory(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to fetch chat history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *ChatHandler) ClearHistory(c *gin.Context) {
	userID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.service.ClearHistory(c.Request.Context(), userID); err != nil {
		h.logger.Error("failed to clear chat history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear chat history", "details": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) respondError(c *gin.Context, err error) {
	var apiErr *llm.APIError
	switch {
	case errors.Is(err, ErrEmptyConversation), errors.Is(err, ErrLastTurnNotUser):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation", "details": err.Error()})
	case errors.Is(err, ErrSnapshotFailed):
		h.logger.Error("inventory snapshot failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to gather inventory state", "details": err.Error()})
	case errors.Is(err, llm.ErrNoAPIKey):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Chat assistant is not configured"})
	case errors.As(err, &apiErr):
		h.logger.Warn("llm provider rejected request", zap.Int("status", apiErr.StatusCode), zap.String("type", apiErr.Type))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Chat provider returned an error", "details": apiErr.Message})
	default:
		h.logger.Error("chat completion failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Chat provider unavailable", "details": err.Error()})
	}
}

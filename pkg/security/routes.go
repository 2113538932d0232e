package security

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"securestock/internal/rate_limiter"
	"securestock/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CredentialStore interface {
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
}

type LoginHandler struct {
	store       CredentialStore
	tokens      *TokenManager
	rateLimiter *rate_limiter.RateLimiter
	logger      *zap.Logger
}

func NewLoginHandler(store CredentialStore, tokens *TokenManager, limiter *rate_limiter.RateLimiter, logger *zap.Logger) *LoginHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginHandler{
		store:       store,
		tokens:      tokens,
		rateLimiter: limiter,
		logger:      logger,
	}
}

func (l *LoginHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/auth/login", l.Login)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (l *LoginHandler) Login(c *gin.Context) {
	clientKey := clientKey(c)

	if !l.rateLimiter.IsAllowed(clientKey) {
		resetAt := time.Now().Add(l.rateLimiter.Window()).Format(time.RFC3339)
		remaining := l.rateLimiter.GetRemainingRequests(clientKey)
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.rateLimiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt)
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":     "Too many login attempts. Try again later.",
			"remaining": remaining,
			"reset_at":  resetAt,
		})
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	profile, err := l.store.GetProfileByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || profile == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
		return
	}

	if err := CheckPassword(profile.PasswordHash, req.Password); err != nil {
		l.logger.Info("failed login attempt", zap.String("email", profile.Email))
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
		return
	}

	token, err := l.tokens.GenerateJWT(profile)
	if err != nil {
		l.logger.Error("failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "profile": profile})
}

// clientKey keys the limiter on the peer address as resolved by the engine.
// Forwarding headers only count when the engine trusts the proxy sending them.
func clientKey(c *gin.Context) string {
	return c.ClientIP()
}

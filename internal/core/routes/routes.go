package routes

import (
	"fmt"

	"securestock/internal/core/container"
	"securestock/internal/middleware"
	"securestock/pkg/security"

	"github.com/gin-gonic/gin"
)

func NewRouter(c *container.Container) (*gin.Engine, error) {
	if !c.Config.Server.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(c.Config.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	router.Use(middleware.RequestLogger(c.Logger.Named("http")), middleware.RecoveryMiddleware(c.Logger))

	RegisterUtilityRoutes(router, c)
	RegisterPublicRoutes(router, c)
	RegisterProtectedRoutes(router, c)
	return router, nil
}

func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	c.LoginHandler.RegisterRoutes(router)
}

func RegisterProtectedRoutes(router *gin.Engine, c *container.Container) {
	protected := router.Group("")
	protected.Use(security.JWTMiddleware(c.Tokens))

	c.UserHandler.RegisterRoutes(protected)
	c.CategoryHandler.RegisterRoutes(protected)
	c.StockHandler.RegisterRoutes(protected)
	c.EmployeeHandler.RegisterRoutes(protected)
	c.AssignmentHandler.RegisterRoutes(protected)
	c.MaintenanceHandler.RegisterRoutes(protected)
	c.NotificationHandler.RegisterRoutes(protected)
	c.ActivityHandler.RegisterRoutes(protected)
	c.DashboardHandler.RegisterRoutes(protected)
	c.ChatHandler.RegisterRoutes(protected)
	c.ReportHandler.RegisterRoutes(protected)
}

func RegisterUtilityRoutes(router *gin.Engine, c *container.Container) {
	router.GET("/health", c.Health.Handler())
}

package api

import (
	"net/http"

	"github.com/chatarena/chatarena/internal/api/admin"
	"github.com/chatarena/chatarena/internal/api/middleware"
	"github.com/chatarena/chatarena/internal/api/session"
	"github.com/chatarena/chatarena/internal/service"
	"github.com/gin-gonic/gin"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	APIKey       string
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(
	sessionService *service.SessionService,
	chatService *service.ChatService,
	exportService *service.ExportService,
	monitor *service.StorageMonitor,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Session API (public, the UI's surface)
	sessionHandler := session.NewHandler(sessionService, chatService, exportService)
	sessionGroup := r.Group("/api/sessions")
	sessionHandler.RegisterRoutes(sessionGroup)

	// Storage quota check (public, the UI polls this before warning)
	r.GET("/api/storage/quota", func(c *gin.Context) {
		status, err := monitor.CheckStorageQuota()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, status)
	})

	// Admin API (requires API key)
	adminHandler := admin.NewHandler(sessionService, monitor)
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.Auth(cfg.APIKey))
	adminHandler.RegisterRoutes(adminGroup)

	return r
}

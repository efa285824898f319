package admin

import (
	"net/http"

	"github.com/chatarena/chatarena/internal/service"
	"github.com/gin-gonic/gin"
)

// Handler handles admin API requests
type Handler struct {
	sessionService *service.SessionService
	monitor        *service.StorageMonitor
}

// NewHandler creates a new admin handler
func NewHandler(sessionService *service.SessionService, monitor *service.StorageMonitor) *Handler {
	return &Handler{
		sessionService: sessionService,
		monitor:        monitor,
	}
}

// RegisterRoutes registers admin routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.GetStats)
	r.GET("/quota", h.GetQuota)
	r.DELETE("/data", h.ClearData)
}

// GetStats returns totals across all persisted sessions
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.sessionService.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetQuota returns the current storage quota status with a
// human-readable usage summary.
func (h *Handler) GetQuota(c *gin.Context) {
	status, err := h.monitor.CheckStorageQuota()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quota":             status,
		"used_display":      service.FormatBytes(status.Used),
		"available_display": service.FormatBytes(status.Available),
	})
}

// ClearData removes all session-scoped persisted data. The user
// identifier survives.
func (h *Handler) ClearData(c *gin.Context) {
	if err := h.sessionService.ClearAllData(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

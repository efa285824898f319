package session

import (
	"errors"
	"net/http"

	"github.com/chatarena/chatarena/internal/domain"
	"github.com/chatarena/chatarena/internal/service"
	"github.com/gin-gonic/gin"
)

// Handler handles session API requests
type Handler struct {
	sessionService *service.SessionService
	chatService    *service.ChatService
	exportService  *service.ExportService
}

// NewHandler creates a new session handler
func NewHandler(
	sessionService *service.SessionService,
	chatService *service.ChatService,
	exportService *service.ExportService,
) *Handler {
	return &Handler{
		sessionService: sessionService,
		chatService:    chatService,
		exportService:  exportService,
	}
}

// RegisterRoutes registers session routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Create)
	r.GET("/:session_id", h.Get)
	r.POST("/:session_id/chatbots", h.AddChatbot)
	r.POST("/:session_id/chatbots/:chat_id/messages", h.SendMessage)
	r.PUT("/:session_id/selection", h.SetSelection)
	r.GET("/:session_id/export", h.Export)
}

// Create initializes a new empty session
func (h *Handler) Create(c *gin.Context) {
	sessionID, err := h.sessionService.InitializeNewSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session_id": sessionID})
}

// Get returns a session record
func (h *Handler) Get(c *gin.Context) {
	sessionID := c.Param("session_id")

	session, err := h.sessionService.LoadSession(sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, session)
}

// AddChatbot adds a chatbot instance to a session
func (h *Handler) AddChatbot(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req domain.CreateChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chatbot, err := h.sessionService.AddChatbot(sessionID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, chatbot)
}

// SendMessage relays a user message to one chatbot. The chatbot's
// resulting state (responded or error) is returned either way.
func (h *Handler) SendMessage(c *gin.Context) {
	sessionID := c.Param("session_id")
	chatID := c.Param("chat_id")

	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chatbot, err := h.chatService.SendMessage(c.Request.Context(), sessionID, chatID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatbot)
}

// SetSelection records the user's preference
func (h *Handler) SetSelection(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req domain.SetSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	selection, err := h.sessionService.SetPreference(sessionID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, selection)
}

// Export returns a session snapshot as a downloadable JSON file
func (h *Handler) Export(c *gin.Context) {
	sessionID := c.Param("session_id")

	data, err := h.exportService.ExportSession(sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", `attachment; filename="`+h.exportService.Filename(data)+`"`)
	c.Status(http.StatusOK)
	if err := h.exportService.WriteJSON(data, c.Writer); err != nil {
		// Headers are gone; nothing left to do but log via gin's error list
		_ = c.Error(err)
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrChatbotNotFound),
		errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSessionFull):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidSession):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

package chat

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mindcarehq/mindcare/internal/llm"
	"github.com/mindcarehq/mindcare/internal/logging"
	"github.com/mindcarehq/mindcare/internal/users"
	"github.com/mindcarehq/mindcare/internal/validation"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// Handler provides HTTP handlers for the conversation API.
type Handler struct {
	svc *Service
}

// NewHandler creates a new chat handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes sets up the chat routes. All of them require auth.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/chat", users.RequireAuth(), h.PostMessage)
	r.GET("/chat/history", users.RequireAuth(), h.GetHistory)
}

// HistoryTurn is one prior turn supplied by the client as model context.
type HistoryTurn struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// PostMessageRequest is the payload for one conversation turn.
type PostMessageRequest struct {
	Message string        `json:"message" binding:"required"`
	History []HistoryTurn `json:"history"`
}

// PostMessage handles POST /chat
func (h *Handler) PostMessage(c *gin.Context) {
	u, _ := users.Current(c)

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "message is required",
		})
		return
	}
	if len(req.Message) > validation.MaxMessageLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "message is too long",
		})
		return
	}

	var history []llm.Message
	if req.History != nil {
		history = make([]llm.Message, 0, len(req.History))
		for _, t := range req.History {
			role := llm.RoleUser
			if t.Role == RoleAssistant {
				role = llm.RoleAssistant
			}
			history = append(history, llm.Message{Role: role, Content: t.Content})
		}
	}

	reply, err := h.svc.HandleTurn(c.Request.Context(), u.ID, req.Message, history)
	switch {
	case errors.Is(err, ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "message must not be empty",
		})
		return
	case errors.Is(err, ErrReplyUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "service_unavailable",
			"message": "The assistant is temporarily unavailable. Please try again shortly.",
		})
		return
	case err != nil:
		logging.L(c.Request.Context()).Error("turn failed", "user_id", u.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "persistence_error",
			"message": "Could not save the conversation. Please try again.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// GetHistory handles GET /chat/history
func (h *Handler) GetHistory(c *gin.Context) {
	u, _ := users.Current(c)
	ServeHistory(c, h.svc, u.ID)
}

// ServeHistory writes one transcript page for a user. Shared with the
// admin transcript endpoint.
func ServeHistory(c *gin.Context, svc *Service, userID string) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "limit must be between 1 and 200",
			})
			return
		}
		limit = n
	}

	msgs, next, err := svc.History(c.Request.Context(), userID, limit, c.Query("cursor"))
	if err != nil {
		if errors.Is(err, ErrPersistence) {
			logging.L(c.Request.Context()).Error("loading history failed", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "persistence_error",
				"message": "Could not load the conversation history.",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "invalid cursor",
		})
		return
	}
	if msgs == nil {
		msgs = []*Message{}
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":   msgs,
		"nextCursor": next,
	})
}

package report

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindcarehq/mindcare/internal/chat"
	"github.com/mindcarehq/mindcare/internal/logging"
	"github.com/mindcarehq/mindcare/internal/users"
)

// Handler provides the admin API: the risk report and per-user transcripts.
type Handler struct {
	svc  *Service
	chat *chat.Service
}

// NewHandler creates a new admin report handler.
func NewHandler(svc *Service, chatSvc *chat.Service) *Handler {
	return &Handler{svc: svc, chat: chatSvc}
}

// RegisterRoutes sets up the admin routes. All of them require admin rights.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin", users.RequireAdmin())
	admin.GET("/report", h.GetReport)
	admin.GET("/users/:id/history", h.GetUserHistory)
}

// GetReport handles GET /admin/report
func (h *Handler) GetReport(c *gin.Context) {
	entries, err := h.svc.Build(c.Request.Context())
	if err != nil {
		logging.L(c.Request.Context()).Error("building report failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "persistence_error",
			"message": "Could not build the risk report.",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": entries})
}

// GetUserHistory handles GET /admin/users/:id/history
func (h *Handler) GetUserHistory(c *gin.Context) {
	chat.ServeHistory(c, h.chat, c.Param("id"))
}

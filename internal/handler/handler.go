package handler

import (
	"net/http"

	"crypto-dashboard/internal/dashboard"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// SessionLister reports the dashboards a process is serving.
type SessionLister interface {
	Count() int
	Sessions() []dashboard.SessionInfo
}

type Handler struct {
	tracer   trace.Tracer
	sessions SessionLister
	apiKey   string
}

func New(tracer trace.Tracer, sessions SessionLister, apiKey string) *Handler {
	return &Handler{
		tracer:   tracer,
		sessions: sessions,
		apiKey:   apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api", APIKeyAuth(h.apiKey))
	api.GET("/sessions", h.ListSessions)
}

// Health reports liveness of the status listener.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

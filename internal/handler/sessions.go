package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// ListSessions returns every connected dashboard with its current selection.
func (h *Handler) ListSessions(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.list-sessions")
	defer span.End()

	sessions := h.sessions.Sessions()
	span.SetAttributes(attribute.Int("sessions", len(sessions)))

	c.JSON(http.StatusOK, gin.H{
		"count":    len(sessions),
		"sessions": sessions,
	})
}

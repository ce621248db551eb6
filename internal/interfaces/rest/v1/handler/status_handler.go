package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-notification-relay/internal/infrastructure/hub"
)

type StatusHandler struct {
	hub *hub.Hub
}

func NewStatusHandler(hubInstance *hub.Hub) *StatusHandler {
	return &StatusHandler{hub: hubInstance}
}

func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"hub_running": h.hub.IsRunning(),
		"connections": h.hub.ConnectionCount(),
	})
}

// Connections lists the connections currently eligible for broadcast.
func (h *StatusHandler) Connections(c *gin.Context) {
	connections := h.hub.Connections()
	connectionInfo := make([]gin.H, len(connections))

	for i, conn := range connections {
		connectionInfo[i] = gin.H{
			"id":   conn.ID(),
			"type": conn.Type(),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_connections": len(connections),
		"connections":       connectionInfo,
		"hub_running":       h.hub.IsRunning(),
	})
}

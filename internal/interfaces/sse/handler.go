package sse

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-notification-relay/internal/infrastructure/hub"
	"go-notification-relay/internal/infrastructure/logger"
)

type ServerSentEventHandler struct {
	hub               *hub.Hub
	logger            logger.Logger
	keepAliveInterval time.Duration
}

func NewServerSentEventHandler(hubInstance *hub.Hub, logger logger.Logger, keepAliveInterval time.Duration) *ServerSentEventHandler {
	return &ServerSentEventHandler{
		hub:               hubInstance,
		logger:            logger.WithField("handler", "sse"),
		keepAliveInterval: keepAliveInterval,
	}
}

// Connect streams broadcasts to the client until it disconnects or the
// connection is dropped by a failed delivery.
func (h *ServerSentEventHandler) Connect(c *gin.Context) {
	if !h.hub.IsRunning() {
		h.logger.Error("Hub is not running")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Service temporarily unavailable",
		})
		return
	}

	conn := hub.NewSSEConnection(c.Request.Context(), "sse-"+uuid.NewString(), c.Writer, h.logger, h.keepAliveInterval)
	c.Status(http.StatusOK)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	err := conn.SendEvent(ctx, "connected", map[string]any{
		"connection_id": conn.ID(),
		"timestamp":     time.Now().Format(time.RFC3339),
	})
	cancel()
	if err != nil {
		h.logger.Errorf("Failed to open SSE stream: %v", err)
		return
	}

	h.hub.Connect(conn)
	h.logger.Infof("SSE connection %s connected and registered", conn.ID())

	<-conn.Context().Done()

	h.hub.Remove(conn)
	_ = conn.Close()
	conn.Wait()
	h.logger.Infof("SSE connection %s disconnected", conn.ID())
}

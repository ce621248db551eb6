package websocket

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"go-notification-relay/internal/domain"
	"go-notification-relay/internal/infrastructure/hub"
	"go-notification-relay/internal/infrastructure/logger"
)

const echoTimeout = 5 * time.Second

// WebSocketHandler accepts WebSocket clients, registers them with the hub
// and runs their receive loop.
type WebSocketHandler struct {
	hub      *hub.Hub
	logger   logger.Logger
	upgrader websocket.Upgrader
	connOpts hub.WebSocketOptions
}

// NewWebSocketHandler creates a handler. An empty allowedOrigins accepts any origin.
func NewWebSocketHandler(
	hubInstance *hub.Hub,
	logger logger.Logger,
	connOpts hub.WebSocketOptions,
	allowedOrigins []string,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hubInstance,
		logger: logger.WithField("handler", "websocket"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		connOpts: connOpts,
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return slices.Contains(allowed, u.Scheme+"://"+u.Host)
	}
}

// Connect upgrades the request, registers the connection and echoes every
// text frame until the client goes away.
func (h *WebSocketHandler) Connect(c *gin.Context) {
	if !h.hub.IsRunning() {
		h.logger.Error("Hub is not running")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Service temporarily unavailable",
		})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("Failed to upgrade connection: %v", err)
		return
	}

	wsConn := hub.NewWebSocketConnection("ws-"+uuid.NewString(), conn, h.logger, h.connOpts)
	h.hub.Connect(wsConn)

	defer func() {
		h.hub.Remove(wsConn)
		_ = wsConn.Close()
		h.logger.Infof("WebSocket connection %s disconnected", wsConn.ID())
	}()

	for {
		text, err := wsConn.Receive()
		if err != nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), echoTimeout)
		err = wsConn.Send(ctx, domain.EchoMessage(text))
		cancel()
		if err != nil {
			h.logger.Warnf("Failed to echo to connection %s: %v", wsConn.ID(), err)
			return
		}
	}
}

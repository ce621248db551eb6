package websocket

import (
	"github.com/gin-gonic/gin"

	"go-notification-relay/internal/infrastructure/hub"
	"go-notification-relay/internal/infrastructure/logger"
)

// InitWebSocketRouter initializes WebSocket routes
func InitWebSocketRouter(
	logger logger.Logger,
	hubInstance *hub.Hub,
	rg *gin.RouterGroup,
	connOpts hub.WebSocketOptions,
	allowedOrigins []string,
) {
	wsHandler := NewWebSocketHandler(hubInstance, logger, connOpts, allowedOrigins)

	rg.GET("/ws", wsHandler.Connect)
}

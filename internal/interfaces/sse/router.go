package sse

import (
	"time"

	"github.com/gin-gonic/gin"

	"go-notification-relay/internal/infrastructure/hub"
	"go-notification-relay/internal/infrastructure/logger"
)

func InitSSERouter(logger logger.Logger, hubInstance *hub.Hub, rg *gin.RouterGroup, keepAliveInterval time.Duration) {
	sseHandler := NewServerSentEventHandler(hubInstance, logger, keepAliveInterval)

	rg.GET("/sse", SSEHeadersMiddleware(), sseHandler.Connect)
}

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"go-notification-relay/internal/infrastructure/config"
	"go-notification-relay/internal/infrastructure/hub"
	"go-notification-relay/internal/infrastructure/logger"
	"go-notification-relay/internal/infrastructure/metrics"
	"go-notification-relay/internal/interfaces/rest/middleware"
	"go-notification-relay/internal/interfaces/rest/v1/handler"
	"go-notification-relay/internal/interfaces/sse"
	"go-notification-relay/internal/interfaces/web"
	"go-notification-relay/internal/interfaces/websocket"
	"go-notification-relay/internal/port/inbound"
)

type routerDeps struct {
	cfg           *config.Config
	log           logger.Logger
	hub           *hub.Hub
	notifications inbound.NotificationUseCase
	registry      *prometheus.Registry
}

func InitRouter(deps routerDeps) http.Handler {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	rootGroup := router.Group("")
	rootGroup.GET("/", web.Index)
	rootGroup.GET("/metrics", gin.WrapH(metrics.Handler(deps.registry)))

	statusHandler := handler.NewStatusHandler(deps.hub)
	rootGroup.GET("/hub/status", statusHandler.Status)

	notificationHandler := handler.NewNotificationHandler(deps.notifications, deps.log)
	pushLimit := middleware.RateLimit(deps.cfg.PushRateLimit, deps.cfg.PushRateBurst)
	rootGroup.GET("/push/:message", pushLimit, notificationHandler.Push)

	apiGroup := rootGroup.Group("/api/v1")
	{
		apiGroup.GET("/connections", statusHandler.Connections)
		apiGroup.POST("/notifications", pushLimit, notificationHandler.Publish)
	}

	websocket.InitWebSocketRouter(deps.log, deps.hub, rootGroup, hub.WebSocketOptions{
		WriteTimeout: deps.cfg.WSWriteTimeout,
		PingInterval: deps.cfg.WSPingInterval,
		PongTimeout:  deps.cfg.WSPongTimeout,
	}, deps.cfg.WSAllowedOrigins)
	sse.InitSSERouter(deps.log, deps.hub, rootGroup, deps.cfg.SSEKeepAliveInterval)

	return router
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-notification-relay/internal/application/facade"
	"go-notification-relay/internal/infrastructure/hub"
	"go-notification-relay/internal/infrastructure/logger"
	"go-notification-relay/internal/port/inbound"
)

type NotificationHandler struct {
	notifications inbound.NotificationUseCase
	logger        logger.Logger
}

func NewNotificationHandler(notifications inbound.NotificationUseCase, logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        logger.WithField("handler", "notification"),
	}
}

// Push broadcasts the :message path parameter to every connected client.
func (h *NotificationHandler) Push(c *gin.Context) {
	message := c.Param("message")

	report, err := h.notifications.Push(c.Request.Context(), message)
	if err != nil {
		h.respondBroadcastError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "pushed",
		"report": report,
	})
}

// Publish broadcasts a structured notification built from the JSON body.
func (h *NotificationHandler) Publish(c *gin.Context) {
	var cmd inbound.PublishNotificationCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid notification format",
		})
		return
	}

	notification, report, err := h.notifications.Publish(c.Request.Context(), cmd)
	if err != nil {
		h.respondBroadcastError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"notification": notification,
		"report":       report,
	})
}

func (h *NotificationHandler) respondBroadcastError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, facade.ErrInvalidNotification):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, hub.ErrNotRunning):
		h.logger.Warnf("Broadcast rejected: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		h.logger.Errorf("Failed to broadcast: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to broadcast message"})
	}
}

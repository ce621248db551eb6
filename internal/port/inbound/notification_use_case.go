package inbound

import (
	"context"

	"go-notification-relay/internal/domain"
)

// PublishNotificationCommand is the input for a structured notification.
type PublishNotificationCommand struct {
	Message string        `json:"message" validate:"required,max=4096"`
	Sub     string        `json:"sub"     validate:"required,max=256"`
	Status  domain.Status `json:"status"  validate:"omitempty,oneof=success info warning error"`
}

// NotificationUseCase is what the HTTP triggers call.
type NotificationUseCase interface {
	// Push broadcasts message wrapped in the push notification text.
	Push(ctx context.Context, message string) (domain.BroadcastReport, error)
	// Publish builds a Notification and broadcasts its JSON encoding.
	Publish(ctx context.Context, cmd PublishNotificationCommand) (*domain.Notification, domain.BroadcastReport, error)
}

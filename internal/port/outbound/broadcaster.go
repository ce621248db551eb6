package outbound

import (
	"context"

	"go-notification-relay/internal/domain"
)

// Broadcaster delivers a raw text payload to every connected client.
type Broadcaster interface {
	Broadcast(ctx context.Context, payload string) (domain.BroadcastReport, error)
}

package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Status is the severity attached to a Notification.
type Status string

const (
	StatusSuccess Status = "success"
	StatusInfo    Status = "info"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusSuccess, StatusInfo, StatusWarning, StatusError:
		return true
	}
	return false
}

// Notification is a transient structured message. It is built when a
// broadcast is requested, sent once and then discarded.
type Notification struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	Sub       string `json:"sub"`
	Status    Status `json:"status"`
}

// NewNotification stamps a new notification with a random id and the clock's
// current time. An empty status defaults to StatusInfo.
func NewNotification(clock clockwork.Clock, message, sub string, status Status) (*Notification, error) {
	if status == "" {
		status = StatusInfo
	}
	if !status.Valid() {
		return nil, fmt.Errorf("invalid notification status %q", status)
	}

	return &Notification{
		ID:        uuid.NewString(),
		Timestamp: clock.Now().Format(time.RFC3339Nano),
		Message:   message,
		Sub:       sub,
		Status:    status,
	}, nil
}

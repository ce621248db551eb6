package facade

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"

	"go-notification-relay/internal/domain"
	"go-notification-relay/internal/infrastructure/logger"
	"go-notification-relay/internal/port/inbound"
	"go-notification-relay/internal/port/outbound"
)

var ErrInvalidNotification = errors.New("invalid notification")

type NotificationApplicationService struct {
	broadcaster outbound.Broadcaster
	validate    *validator.Validate
	clock       clockwork.Clock
	logger      logger.Logger
}

var _ inbound.NotificationUseCase = (*NotificationApplicationService)(nil)

func NewNotificationApplicationService(
	broadcaster outbound.Broadcaster,
	clock clockwork.Clock,
	logger logger.Logger,
) *NotificationApplicationService {
	return &NotificationApplicationService{
		broadcaster: broadcaster,
		validate:    validator.New(),
		clock:       clock,
		logger:      logger.WithField("service", "notification"),
	}
}

func (s *NotificationApplicationService) Push(ctx context.Context, message string) (domain.BroadcastReport, error) {
	report, err := s.broadcaster.Broadcast(ctx, domain.PushMessage(message))
	if err != nil {
		return report, fmt.Errorf("broadcast push notification: %w", err)
	}

	s.logger.Debugf("Push notification delivered to %d of %d connections", report.Delivered, report.Recipients)
	return report, nil
}

func (s *NotificationApplicationService) Publish(
	ctx context.Context,
	cmd inbound.PublishNotificationCommand,
) (*domain.Notification, domain.BroadcastReport, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, domain.BroadcastReport{}, fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}

	n, err := domain.NewNotification(s.clock, cmd.Message, cmd.Sub, cmd.Status)
	if err != nil {
		return nil, domain.BroadcastReport{}, fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return nil, domain.BroadcastReport{}, fmt.Errorf("encode notification: %w", err)
	}

	report, err := s.broadcaster.Broadcast(ctx, string(payload))
	if err != nil {
		return nil, report, fmt.Errorf("broadcast notification %s: %w", n.ID, err)
	}

	s.logger.Infof("Notification %s (%s/%s) delivered to %d of %d connections",
		n.ID, n.Sub, n.Status, report.Delivered, report.Recipients)
	return n, report, nil
}

package notification

import (
	"context"
	"fmt"
)

// NotificationService is the delivery transport the action dispatcher talks
// to. Send persists the notification and pushes it onto the live feed; a
// store failure is returned to the caller untouched (no retry here).
type NotificationService interface {
	Send(ctx context.Context, message string, metadata map[string]interface{}) error
	List(ctx context.Context, limit int64) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type NotificationServiceImpl struct {
	repo NotificationRepository
	hub  *Hub
}

func NewNotificationService(repo NotificationRepository, hub *Hub) NotificationService {
	return &NotificationServiceImpl{
		repo: repo,
		hub:  hub,
	}
}

func (s *NotificationServiceImpl) Send(ctx context.Context, message string, metadata map[string]interface{}) error {
	if message == "" {
		return fmt.Errorf("notification message is required")
	}

	notification := &Notification{
		Title:    "Automation",
		Message:  message,
		Type:     NotificationTypeAutomation,
		Metadata: metadata,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.hub.Broadcast("notification", notification)
	return nil
}

func (s *NotificationServiceImpl) List(ctx context.Context, limit int64) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.List(ctx, limit)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

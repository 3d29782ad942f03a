package service

import (
	"context"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/logger"
	"fixo-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

// Notify records an in-app notification. Delivery failures are logged
// and swallowed; notifications never fail the operation that raised them.
func (s *notificationService) Notify(ctx context.Context, userID, title, message string, attributes map[string]string) {
	n := &domain.Notification{
		UserID:     userID,
		Title:      title,
		Message:    message,
		Attributes: attributes,
	}
	if err := s.noteRepo.Create(ctx, n); err != nil {
		logger.Error("Failed to create notification", "user_id", userID, "title", title, "error", err)
	}
}

func (s *notificationService) ListNotifications(ctx context.Context, userID string, page, pageSize int) ([]domain.Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	notes, total, err := s.noteRepo.List(ctx, userID, int32(pageSize), int32((page-1)*pageSize))
	return notes, int(total), err
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userID)
}

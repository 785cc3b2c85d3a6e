package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/repository"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

// Service отдаёт пользователю его уведомления.
type Service struct {
	repo repository.NotificationRepository
}

func NewService(repo repository.NotificationRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]*entity.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	list, err := s.repo.List(ctx, userID, limit, offset, unreadOnly)
	if err != nil {
		return nil, apperror.Dependency(err, "не удалось получить уведомления")
	}
	return list, nil
}

// MarkAsRead отмечает уведомление прочитанным. Чужое уведомление выглядит как отсутствующее.
func (s *Service) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.ErrNotificationMissing
		}
		return apperror.Dependency(err, "не удалось загрузить уведомление")
	}
	if n.UserID != userID {
		return apperror.ErrNotificationMissing
	}
	if n.IsRead {
		return nil
	}

	if err := s.repo.MarkAsRead(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.ErrNotificationMissing
		}
		return apperror.Dependency(err, "не удалось обновить уведомление")
	}
	return nil
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, apperror.Dependency(err, "не удалось обновить уведомления")
	}
	return n, nil
}

func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperror.Dependency(err, "не удалось посчитать уведомления")
	}
	return count, nil
}

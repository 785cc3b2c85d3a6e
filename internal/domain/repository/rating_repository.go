package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/rental-backend/internal/domain/entity"
)

type RatingRepository interface {
	// Create возвращает ErrDuplicate при повторной оценке по той же заявке.
	Create(ctx context.Context, rating *entity.Rating) error
	Stats(ctx context.Context, ratedID uuid.UUID) (entity.RatingStats, error)
	ListByRated(ctx context.Context, ratedID uuid.UUID, limit, offset int) ([]*entity.Rating, error)
}

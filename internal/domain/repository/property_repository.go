package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *entity.Property) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)
	ListActive(ctx context.Context, limit, offset int) ([]*entity.Property, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.PropertyStatus) error
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/rental-backend/internal/domain/entity"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*entity.Transaction, error)
	// Settle закрывает эскроу в статусе held, иначе ErrStatusConflict.
	Settle(ctx context.Context, tx *entity.Transaction) error
}

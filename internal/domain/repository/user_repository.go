package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// UpdateTrustScore сохраняет оценку и снимает флаг устаревания.
	UpdateTrustScore(ctx context.Context, id uuid.UUID, score int) error
	MarkTrustScoreStale(ctx context.Context, id uuid.UUID) error
	ListStaleTrustScores(ctx context.Context, limit int) ([]uuid.UUID, error)
	UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status valueobject.VerificationStatus) error
}

// ProfileRepository хранит ролевые профили: tenants и landlords.
type ProfileRepository interface {
	FindTenant(ctx context.Context, id uuid.UUID) (*entity.Tenant, error)
	SaveTenant(ctx context.Context, tenant *entity.Tenant) error
	FindLandlord(ctx context.Context, id uuid.UUID) (*entity.Landlord, error)
	SaveLandlord(ctx context.Context, landlord *entity.Landlord) error
}

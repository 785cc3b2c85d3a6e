package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
)

type ApplicationRepository interface {
	// Create возвращает ErrDuplicate, если у пары арендатор/объект уже есть заявка.
	Create(ctx context.Context, app *entity.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Application, error)
	FindByTenantAndProperty(ctx context.Context, tenantID, propertyID uuid.UUID) (*entity.Application, error)
	// TransitionStatus записывает новый статус только если текущий входит в from,
	// иначе ErrStatusConflict.
	TransitionStatus(ctx context.Context, app *entity.Application, from []valueobject.ApplicationStatus) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]entity.ApplicationView, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.ApplicantView, error)
	// ListUnsettled возвращает решённые заявки, у которых эскроу всё ещё held.
	ListUnsettled(ctx context.Context, limit int) ([]*entity.Application, error)
	// ListApprovedNotRented возвращает одобренные заявки на объекты, не помеченные как rented.
	ListApprovedNotRented(ctx context.Context, limit int) ([]*entity.Application, error)
}

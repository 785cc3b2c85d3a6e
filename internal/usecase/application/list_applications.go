package application

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/repository"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

type ListTenantApplicationsUseCase struct {
	Deps
}

func NewListTenantApplicationsUseCase(deps Deps) *ListTenantApplicationsUseCase {
	return &ListTenantApplicationsUseCase{Deps: deps}
}

// Execute возвращает заявки арендатора, новые первыми.
func (uc *ListTenantApplicationsUseCase) Execute(ctx context.Context, actor valueobject.Actor) ([]entity.ApplicationView, error) {
	if !actor.Role.IsTenant() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "список заявок доступен только арендатору")
	}

	views, err := uc.Applications.ListByTenant(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Dependency(err, "не удалось получить заявки")
	}
	return views, nil
}

type ListPropertyApplicationsUseCase struct {
	Deps
}

func NewListPropertyApplicationsUseCase(deps Deps) *ListPropertyApplicationsUseCase {
	return &ListPropertyApplicationsUseCase{Deps: deps}
}

func (uc *ListPropertyApplicationsUseCase) Execute(ctx context.Context, actor valueobject.Actor, propertyID uuid.UUID) ([]entity.ApplicantView, error) {
	property, err := uc.findProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsAdmin() && !(actor.Role.IsLandlord() && property.IsOwnedBy(actor.ID)) {
		return nil, apperror.ErrForbidden
	}

	views, err := uc.Applications.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, apperror.Dependency(err, "не удалось получить заявки по объекту")
	}
	return views, nil
}

type GetApplicationOutput struct {
	Application *entity.Application
	Transaction *entity.Transaction
}

type GetApplicationUseCase struct {
	Deps
}

func NewGetApplicationUseCase(deps Deps) *GetApplicationUseCase {
	return &GetApplicationUseCase{Deps: deps}
}

// Execute отдаёт заявку арендатору, владельцу объекта или администратору.
func (uc *GetApplicationUseCase) Execute(ctx context.Context, actor valueobject.Actor, applicationID uuid.UUID) (*GetApplicationOutput, error) {
	app, err := uc.findApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	allowed := actor.Role.IsAdmin() || app.BelongsToTenant(actor.ID)
	if !allowed && actor.Role.IsLandlord() {
		property, err := uc.findProperty(ctx, app.PropertyID)
		if err != nil {
			return nil, err
		}
		allowed = property.IsOwnedBy(actor.ID)
	}
	if !allowed {
		return nil, apperror.ErrForbidden
	}

	out := &GetApplicationOutput{Application: app}
	escrow, err := uc.Transactions.FindByApplicationID(ctx, app.ID)
	switch {
	case err == nil:
		out.Transaction = escrow
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperror.Dependency(err, "не удалось загрузить транзакцию")
	}
	return out, nil
}

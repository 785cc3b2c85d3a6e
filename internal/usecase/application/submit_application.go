package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/repository"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/logger"
	"github.com/ignatzorin/rental-backend/internal/metrics"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
	"github.com/ignatzorin/rental-backend/internal/validation"
)

type SubmitInput struct {
	Actor              valueobject.Actor
	PropertyID         uuid.UUID
	Message            *string
	ProposedMoveInDate *time.Time
}

type SubmitOutput struct {
	Application *entity.Application
	Transaction *entity.Transaction
}

type SubmitApplicationUseCase struct {
	Deps
}

func NewSubmitApplicationUseCase(deps Deps) *SubmitApplicationUseCase {
	return &SubmitApplicationUseCase{Deps: deps}
}

func (uc *SubmitApplicationUseCase) Execute(ctx context.Context, in SubmitInput) (*SubmitOutput, error) {
	if !in.Actor.Role.IsTenant() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "подавать заявки могут только арендаторы")
	}
	if in.PropertyID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "property_id обязателен").WithDetail("fields", []string{"property_id"})
	}

	if err := validation.ValidateOptionalLength("message", in.Message, validation.MaxApplicationMessageLength); err != nil {
		return nil, err
	}

	now := uc.now()
	if in.ProposedMoveInDate != nil && in.ProposedMoveInDate.Before(startOfDay(now)) {
		return nil, apperror.New(apperror.ErrCodeValidation, "дата заезда не может быть в прошлом").
			WithDetail("fields", []string{"proposed_move_in_date"})
	}

	tenant, err := uc.Profiles.FindTenant(ctx, in.Actor.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		tenant = &entity.Tenant{ID: in.Actor.ID}
	case err != nil:
		return nil, apperror.Dependency(err, "не удалось загрузить профиль арендатора")
	}
	if !tenant.IsComplete() {
		return nil, apperror.New(apperror.ErrCodeProfileIncomplete, "заполните профиль полностью, чтобы подать заявку").
			WithDetail("profile_completion", tenant.ProfileCompletion)
	}

	property, err := uc.findProperty(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}
	if !property.IsActive() {
		metrics.ApplicationConflict("inactive_property")
		return nil, apperror.New(apperror.ErrCodeStateConflict, "объект сейчас недоступен для аренды").
			WithDetail("property_status", string(property.Status))
	}

	existing, err := uc.Applications.FindByTenantAndProperty(ctx, tenant.ID, property.ID)
	switch {
	case err == nil:
		metrics.ApplicationConflict("duplicate")
		return nil, duplicateError(existing)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperror.Dependency(err, "не удалось проверить существующие заявки")
	}

	app := entity.NewApplication(tenant.ID, property.ID, tenant.Documents, in.Message, in.ProposedMoveInDate, now)
	escrow := entity.NewHeldTransaction(app, property, now)

	err = uc.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.Applications.Create(ctx, app); err != nil {
			return err
		}
		return uc.Transactions.Create(ctx, escrow)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// параллельная заявка успела раньше
			if existing, findErr := uc.Applications.FindByTenantAndProperty(ctx, tenant.ID, property.ID); findErr == nil {
				metrics.ApplicationConflict("duplicate")
				return nil, duplicateError(existing)
			}
		}
		return nil, apperror.Dependency(err, "не удалось создать заявку")
	}

	metrics.ApplicationSubmitted()
	logger.Log.WithFields(logrus.Fields{
		"application_id": app.ID,
		"tenant_id":      app.TenantID,
		"property_id":    app.PropertyID,
		"gateway_ref":    escrow.GatewayRef,
	}).Info("application: заявка подана")

	uc.notify(ctx, property.LandlordID, EventApplicationSubmitted, map[string]any{
		"application_id": app.ID,
		"property_id":    property.ID,
		"property_title": property.Title,
		"tenant_id":      tenant.ID,
	})

	return &SubmitOutput{Application: app, Transaction: escrow}, nil
}

func duplicateError(existing *entity.Application) error {
	return apperror.New(apperror.ErrCodeDuplicate, "вы уже подали заявку на этот объект").
		WithDetail("existing_application", map[string]any{
			"id":     existing.ID,
			"status": string(existing.Status),
		})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

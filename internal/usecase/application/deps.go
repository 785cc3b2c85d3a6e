package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/repository"
	"github.com/ignatzorin/rental-backend/internal/logger"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

const (
	EventApplicationSubmitted   = "application_submitted"
	EventApplicationUnderReview = "application_under_review"
	EventApplicationApproved    = "application_approved"
	EventApplicationRejected    = "application_rejected"
)

// Notifier доставляет событие пользователю. Ошибка доставки не влияет на операцию.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event string, data map[string]any) error
}

// TrustRefresher пересчитывает оценки доверия участников решённой заявки.
type TrustRefresher interface {
	Refresh(ctx context.Context, userIDs ...uuid.UUID)
}

type Deps struct {
	Tx           repository.Transactor
	Applications repository.ApplicationRepository
	Transactions repository.TransactionRepository
	Properties   repository.PropertyRepository
	Profiles     repository.ProfileRepository
	Notifier     Notifier
	Trust        TrustRefresher
	Now          func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

func (d Deps) notify(ctx context.Context, userID uuid.UUID, event string, data map[string]any) {
	if d.Notifier == nil {
		return
	}
	if err := d.Notifier.Notify(ctx, userID, event, data); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"user_id": userID,
			"event":   event,
			"error":   err,
		}).Warn("application: не удалось отправить уведомление")
	}
}

func (d Deps) refreshTrust(ctx context.Context, userIDs ...uuid.UUID) {
	if d.Trust == nil {
		return
	}
	d.Trust.Refresh(ctx, userIDs...)
}

func (d Deps) findApplication(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	app, err := d.Applications.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.ErrApplicationNotFound
		}
		return nil, apperror.Dependency(err, "не удалось загрузить заявку")
	}
	return app, nil
}

func (d Deps) findProperty(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	property, err := d.Properties.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.ErrPropertyNotFound
		}
		return nil, apperror.Dependency(err, "не удалось загрузить объект")
	}
	return property, nil
}

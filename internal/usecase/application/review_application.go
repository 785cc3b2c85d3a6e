package application

import (
	"context"
	"errors"

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

type ApproveInput struct {
	Actor         valueobject.Actor
	ApplicationID uuid.UUID
}

type RejectInput struct {
	Actor         valueobject.Actor
	ApplicationID uuid.UUID
	Reason        string
	ReasonCode    string
}

type ApproveApplicationUseCase struct {
	Deps
}

func NewApproveApplicationUseCase(deps Deps) *ApproveApplicationUseCase {
	return &ApproveApplicationUseCase{Deps: deps}
}

func (uc *ApproveApplicationUseCase) Execute(ctx context.Context, in ApproveInput) (*entity.Application, error) {
	app, property, err := uc.authorizeOwner(ctx, in.Actor, in.ApplicationID)
	if err != nil {
		return nil, err
	}

	if err := app.Approve(in.Actor.ID, uc.now()); err != nil {
		metrics.ApplicationConflict("already_resolved")
		return nil, err
	}

	if err := uc.resolve(ctx, app, property); err != nil {
		return nil, err
	}

	metrics.ApplicationDecision(string(valueobject.ApplicationStatusApproved))
	uc.refreshTrust(ctx, app.TenantID, property.LandlordID)
	uc.notify(ctx, app.TenantID, EventApplicationApproved, map[string]any{
		"application_id": app.ID,
		"property_id":    property.ID,
		"property_title": property.Title,
	})
	return app, nil
}

type RejectApplicationUseCase struct {
	Deps
}

func NewRejectApplicationUseCase(deps Deps) *RejectApplicationUseCase {
	return &RejectApplicationUseCase{Deps: deps}
}

func (uc *RejectApplicationUseCase) Execute(ctx context.Context, in RejectInput) (*entity.Application, error) {
	app, property, err := uc.authorizeOwner(ctx, in.Actor, in.ApplicationID)
	if err != nil {
		return nil, err
	}

	if err := app.Reject(in.Actor.ID, validation.SanitizeText(in.Reason), in.ReasonCode, uc.now()); err != nil {
		if apperror.CodeOf(err) == apperror.ErrCodeAlreadyResolved {
			metrics.ApplicationConflict("already_resolved")
		}
		return nil, err
	}
	if err := validation.ValidateLength("reason", *app.RejectionReason, 1, validation.MaxRejectionReasonLength); err != nil {
		return nil, err
	}
	if err := validation.ValidateReasonCode(*app.ReasonCode); err != nil {
		return nil, err
	}

	if err := uc.resolve(ctx, app, property); err != nil {
		return nil, err
	}

	metrics.ApplicationDecision(string(valueobject.ApplicationStatusRejected))
	uc.refreshTrust(ctx, app.TenantID, property.LandlordID)
	uc.notify(ctx, app.TenantID, EventApplicationRejected, map[string]any{
		"application_id": app.ID,
		"property_id":    property.ID,
		"property_title": property.Title,
		"reason":         *app.RejectionReason,
		"reason_code":    *app.ReasonCode,
	})
	return app, nil
}

type StartReviewInput struct {
	Actor         valueobject.Actor
	ApplicationID uuid.UUID
}

// StartReviewUseCase переводит заявку в under_review.
type StartReviewUseCase struct {
	Deps
}

func NewStartReviewUseCase(deps Deps) *StartReviewUseCase {
	return &StartReviewUseCase{Deps: deps}
}

func (uc *StartReviewUseCase) Execute(ctx context.Context, in StartReviewInput) (*entity.Application, error) {
	app, property, err := uc.authorizeOwner(ctx, in.Actor, in.ApplicationID)
	if err != nil {
		return nil, err
	}

	if err := app.StartReview(in.Actor.ID, uc.now()); err != nil {
		metrics.ApplicationConflict("not_submitted")
		return nil, err
	}

	err = uc.Applications.TransitionStatus(ctx, app, []valueobject.ApplicationStatus{valueobject.ApplicationStatusSubmitted})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, uc.currentStateError(ctx, app.ID, apperror.ErrCodeStateConflict)
		}
		return nil, apperror.Dependency(err, "не удалось обновить заявку")
	}

	uc.notify(ctx, app.TenantID, EventApplicationUnderReview, map[string]any{
		"application_id": app.ID,
		"property_id":    property.ID,
		"property_title": property.Title,
	})
	return app, nil
}

// authorizeOwner пускает только арендодателя, которому принадлежит объект заявки.
func (d Deps) authorizeOwner(ctx context.Context, actor valueobject.Actor, applicationID uuid.UUID) (*entity.Application, *entity.Property, error) {
	if !actor.Role.IsLandlord() {
		return nil, nil, apperror.New(apperror.ErrCodeForbidden, "решение по заявке принимает только арендодатель")
	}

	app, err := d.findApplication(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}

	property, err := d.findProperty(ctx, app.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	if !property.IsOwnedBy(actor.ID) {
		return nil, nil, apperror.New(apperror.ErrCodeForbidden, "объект принадлежит другому арендодателю")
	}
	return app, property, nil
}

// resolve атомарно фиксирует решение: статус заявки (условно), эскроу и,
// при одобрении, статус объекта.
func (d Deps) resolve(ctx context.Context, app *entity.Application, property *entity.Property) error {
	escrow, err := d.Transactions.FindByApplicationID(ctx, app.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		logger.Log.WithField("application_id", app.ID).Warn("application: у заявки нет эскроу-записи")
		escrow = nil
	case err != nil:
		return apperror.Dependency(err, "не удалось загрузить эскроу")
	}

	now := d.now()
	err = d.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := d.Applications.TransitionStatus(ctx, app, valueobject.OpenApplicationStatuses); err != nil {
			return err
		}

		if escrow != nil && escrow.Status == valueobject.TransactionStatusHeld {
			if err := escrow.Settle(app.Status, now); err != nil {
				return err
			}
			if err := d.Transactions.Settle(ctx, escrow); err != nil {
				if !errors.Is(err, repository.ErrStatusConflict) {
					return err
				}
				logger.Log.WithField("transaction_id", escrow.ID).Warn("application: эскроу уже закрыт")
			}
		}

		if app.Status == valueobject.ApplicationStatusApproved {
			return d.Properties.UpdateStatus(ctx, property.ID, valueobject.PropertyStatusRented)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			metrics.ApplicationConflict("already_resolved")
			return d.currentStateError(ctx, app.ID, apperror.ErrCodeAlreadyResolved)
		}
		logger.Log.WithFields(logrus.Fields{"application_id": app.ID, "error": err}).Error("application: не удалось зафиксировать решение")
		return apperror.Dependency(err, "не удалось сохранить решение по заявке")
	}

	logger.Log.WithFields(logrus.Fields{
		"application_id": app.ID,
		"status":         app.Status,
		"reviewed_by":    app.ReviewedBy,
	}).Info("application: решение по заявке сохранено")
	return nil
}

// currentStateError перечитывает заявку после проигранного условного обновления.
func (d Deps) currentStateError(ctx context.Context, applicationID uuid.UUID, code apperror.ErrorCode) error {
	current, err := d.findApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	if code == apperror.ErrCodeAlreadyResolved {
		return entity.AlreadyResolvedError(current.Status)
	}
	return apperror.Newf(code, "заявка уже в статусе %s", current.Status).WithDetail("current_status", string(current.Status))
}

package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

// Application — заявка арендатора на конкретный объект.
type Application struct {
	ID                 uuid.UUID
	TenantID           uuid.UUID
	PropertyID         uuid.UUID
	Status             valueobject.ApplicationStatus
	Documents          valueobject.Documents
	Message            *string
	ProposedMoveInDate *time.Time
	RejectionReason    *string
	ReasonCode         *string
	ReviewedAt         *time.Time
	ReviewedBy         *uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func NewApplication(tenantID, propertyID uuid.UUID, documents valueobject.Documents, message *string, moveIn *time.Time, now time.Time) *Application {
	if message != nil {
		trimmed := strings.TrimSpace(*message)
		if trimmed == "" {
			message = nil
		} else {
			message = &trimmed
		}
	}

	return &Application{
		ID:                 uuid.New(),
		TenantID:           tenantID,
		PropertyID:         propertyID,
		Status:             valueobject.ApplicationStatusSubmitted,
		Documents:          documents.Clone(),
		Message:            message,
		ProposedMoveInDate: moveIn,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// AlreadyResolvedError сообщает клиенту актуальный статус заявки.
func AlreadyResolvedError(status valueobject.ApplicationStatus) error {
	return apperror.New(apperror.ErrCodeAlreadyResolved, fmt.Sprintf("заявка уже в статусе %s", status)).
		WithDetail("current_status", string(status))
}

func (a *Application) transition(next valueobject.ApplicationStatus, reviewer uuid.UUID, now time.Time) error {
	if !a.Status.CanTransitionTo(next) {
		return AlreadyResolvedError(a.Status)
	}
	a.Status = next
	a.ReviewedBy = &reviewer
	a.ReviewedAt = &now
	a.UpdatedAt = now
	return nil
}

func (a *Application) StartReview(reviewer uuid.UUID, now time.Time) error {
	if a.Status != valueobject.ApplicationStatusSubmitted {
		return apperror.New(apperror.ErrCodeStateConflict, fmt.Sprintf("заявка уже в статусе %s", a.Status)).
			WithDetail("current_status", string(a.Status))
	}
	a.Status = valueobject.ApplicationStatusUnderReview
	a.UpdatedAt = now
	return nil
}

func (a *Application) Approve(reviewer uuid.UUID, now time.Time) error {
	return a.transition(valueobject.ApplicationStatusApproved, reviewer, now)
}

func (a *Application) Reject(reviewer uuid.UUID, reason, code string, now time.Time) error {
	if !a.Status.CanTransitionTo(valueobject.ApplicationStatusRejected) {
		return AlreadyResolvedError(a.Status)
	}

	reason = strings.TrimSpace(reason)
	code = strings.TrimSpace(code)

	var missing []string
	if reason == "" {
		missing = append(missing, "reason")
	}
	if code == "" {
		missing = append(missing, "reason_code")
	}
	if len(missing) > 0 {
		return apperror.New(apperror.ErrCodeValidation, "обязательные поля: "+strings.Join(missing, ", ")).
			WithDetail("fields", missing)
	}

	if err := a.transition(valueobject.ApplicationStatusRejected, reviewer, now); err != nil {
		return err
	}
	a.RejectionReason = &reason
	a.ReasonCode = &code
	return nil
}

func (a *Application) IsOpen() bool {
	return a.Status.IsOpen()
}

func (a *Application) BelongsToTenant(userID uuid.UUID) bool {
	return a.TenantID == userID
}

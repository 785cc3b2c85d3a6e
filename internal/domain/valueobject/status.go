package valueobject

import (
	"fmt"

	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

type ApplicationStatus string

const (
	ApplicationStatusSubmitted   ApplicationStatus = "submitted"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusApproved    ApplicationStatus = "approved"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// OpenApplicationStatuses — состояния, из которых разрешено решение по заявке.
var OpenApplicationStatuses = []ApplicationStatus{ApplicationStatusSubmitted, ApplicationStatusUnderReview}

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusSubmitted, ApplicationStatusUnderReview, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

func (s ApplicationStatus) IsOpen() bool {
	return s == ApplicationStatusSubmitted || s == ApplicationStatusUnderReview
}

func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	transitions := map[ApplicationStatus][]ApplicationStatus{
		ApplicationStatusSubmitted:   {ApplicationStatusUnderReview, ApplicationStatusApproved, ApplicationStatusRejected},
		ApplicationStatusUnderReview: {ApplicationStatusApproved, ApplicationStatusRejected},
		ApplicationStatusApproved:    {},
		ApplicationStatusRejected:    {},
	}

	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func NewApplicationStatus(status string) (ApplicationStatus, error) {
	s := ApplicationStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус заявки")
	}
	return s, nil
}

// StringsOf переводит набор статусов в строки для pq.Array.
func StringsOf(statuses []ApplicationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

type TransactionStatus string

const (
	TransactionStatusHeld     TransactionStatus = "held"
	TransactionStatusReleased TransactionStatus = "released"
	TransactionStatusRefunded TransactionStatus = "refunded"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusHeld, TransactionStatusReleased, TransactionStatusRefunded:
		return true
	}
	return false
}

// TransactionStatusFor выводит статус эскроу из статуса заявки.
func TransactionStatusFor(app ApplicationStatus) TransactionStatus {
	switch app {
	case ApplicationStatusApproved:
		return TransactionStatusReleased
	case ApplicationStatusRejected:
		return TransactionStatusRefunded
	default:
		return TransactionStatusHeld
	}
}

type PropertyStatus string

const (
	PropertyStatusDraft    PropertyStatus = "draft"
	PropertyStatusActive   PropertyStatus = "active"
	PropertyStatusRented   PropertyStatus = "rented"
	PropertyStatusArchived PropertyStatus = "archived"
)

func (s PropertyStatus) IsValid() bool {
	switch s {
	case PropertyStatusDraft, PropertyStatusActive, PropertyStatusRented, PropertyStatusArchived:
		return true
	}
	return false
}

type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"
)

func NewVerificationStatus(status string) (VerificationStatus, error) {
	switch s := VerificationStatus(status); s {
	case VerificationStatusPending, VerificationStatusApproved, VerificationStatusRejected:
		return s, nil
	}
	return "", apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("некорректный статус верификации %q", status))
}

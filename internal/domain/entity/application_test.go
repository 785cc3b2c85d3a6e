package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

func newTestApplication() *Application {
	docs := valueobject.Documents{valueobject.DocumentIdentity: "id.pdf"}
	return NewApplication(uuid.New(), uuid.New(), docs, nil, nil, time.Now())
}

func TestNewApplication_CopiesDocuments(t *testing.T) {
	docs := valueobject.Documents{valueobject.DocumentIdentity: "id.pdf"}
	msg := "  хочу снять  "
	app := NewApplication(uuid.New(), uuid.New(), docs, &msg, nil, time.Now())

	docs[valueobject.DocumentEmploymentLetter] = "letter.pdf"

	assert.Equal(t, valueobject.ApplicationStatusSubmitted, app.Status)
	assert.False(t, app.Documents.Has(valueobject.DocumentEmploymentLetter))
	require.NotNil(t, app.Message)
	assert.Equal(t, "хочу снять", *app.Message)
}

func TestApplication_Approve(t *testing.T) {
	app := newTestApplication()
	reviewer := uuid.New()
	now := time.Now()

	require.NoError(t, app.Approve(reviewer, now))
	assert.Equal(t, valueobject.ApplicationStatusApproved, app.Status)
	assert.Equal(t, reviewer, *app.ReviewedBy)
	assert.Equal(t, now, *app.ReviewedAt)
	assert.Nil(t, app.RejectionReason)
}

func TestApplication_ApproveFromUnderReview(t *testing.T) {
	app := newTestApplication()
	require.NoError(t, app.StartReview(uuid.New(), time.Now()))

	require.NoError(t, app.Approve(uuid.New(), time.Now()))
	assert.Equal(t, valueobject.ApplicationStatusApproved, app.Status)
}

func TestApplication_TerminalStatesAreFinal(t *testing.T) {
	for _, status := range []valueobject.ApplicationStatus{valueobject.ApplicationStatusApproved, valueobject.ApplicationStatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			app := newTestApplication()
			app.Status = status

			err := app.Approve(uuid.New(), time.Now())
			require.Error(t, err)
			assert.Equal(t, apperror.ErrCodeAlreadyResolved, apperror.CodeOf(err))

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, string(status), appErr.Details["current_status"])

			err = app.Reject(uuid.New(), "reason", "CODE", time.Now())
			assert.Equal(t, apperror.ErrCodeAlreadyResolved, apperror.CodeOf(err))
			assert.Equal(t, status, app.Status)
		})
	}
}

func TestApplication_RejectRequiresReasonAndCode(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		code   string
		fields []string
	}{
		{name: "both missing", fields: []string{"reason", "reason_code"}},
		{name: "code missing", reason: "Income too low", fields: []string{"reason_code"}},
		{name: "reason blank", reason: "   ", code: "INCOME", fields: []string{"reason"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication()
			err := app.Reject(uuid.New(), tt.reason, tt.code, time.Now())

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperror.ErrCodeValidation, appErr.Code)
			assert.Equal(t, tt.fields, appErr.Details["fields"])
			assert.Equal(t, valueobject.ApplicationStatusSubmitted, app.Status)
			assert.Nil(t, app.RejectionReason)
			assert.Nil(t, app.ReasonCode)
		})
	}
}

func TestApplication_Reject(t *testing.T) {
	app := newTestApplication()

	require.NoError(t, app.Reject(uuid.New(), "Income too low", "INCOME", time.Now()))
	assert.Equal(t, valueobject.ApplicationStatusRejected, app.Status)
	assert.Equal(t, "Income too low", *app.RejectionReason)
	assert.Equal(t, "INCOME", *app.ReasonCode)
}

func TestApplication_RejectResolvedIgnoresMissingReason(t *testing.T) {
	app := newTestApplication()
	require.NoError(t, app.Approve(uuid.New(), time.Now()))

	err := app.Reject(uuid.New(), "", "", time.Now())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeAlreadyResolved, appErr.Code)
	assert.Equal(t, "approved", appErr.Details["current_status"])
	assert.Nil(t, app.RejectionReason)
}

func TestApplication_StartReviewOnlyFromSubmitted(t *testing.T) {
	app := newTestApplication()
	require.NoError(t, app.StartReview(uuid.New(), time.Now()))

	err := app.StartReview(uuid.New(), time.Now())
	assert.Equal(t, apperror.ErrCodeStateConflict, apperror.CodeOf(err))
}

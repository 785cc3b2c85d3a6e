package persistence

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/repository"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

var applicationRowColumns = []string{
	"id", "tenant_id", "property_id", "status", "documents", "message", "proposed_move_in_date",
	"rejection_reason", "reason_code", "reviewed_at", "reviewed_by", "created_at", "updated_at",
}

func TestApplicationRepository_CreateMapsUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepositoryAdapter(db)
	app := entity.NewApplication(uuid.New(), uuid.New(), nil, nil, nil, time.Now())

	mock.ExpectExec("INSERT INTO applications").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	err := repo.Create(context.Background(), app)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepositoryAdapter(db)
	id, tenantID, propertyID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM applications a WHERE a.id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(applicationRowColumns).AddRow(
			id.String(), tenantID.String(), propertyID.String(), "under_review",
			[]byte(`{"identity_document":"docs/id.pdf"}`), nil, nil, nil, nil, nil, nil, now, now,
		))

	app, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ApplicationStatusUnderReview, app.Status)
	assert.Equal(t, tenantID, app.TenantID)
	assert.True(t, app.Documents.Has(valueobject.DocumentIdentity))
	assert.Nil(t, app.ReviewedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepositoryAdapter(db)

	mock.ExpectQuery("FROM applications a").WillReturnRows(sqlmock.NewRows(applicationRowColumns))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestApplicationRepository_TransitionStatusConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepositoryAdapter(db)
	app := entity.NewApplication(uuid.New(), uuid.New(), nil, nil, nil, time.Now())
	require.NoError(t, app.Approve(uuid.New(), time.Now()))

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = ANY($8)")).
		WithArgs(app.ID, "approved", nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.TransitionStatus(context.Background(), app, valueobject.OpenApplicationStatuses)
	assert.ErrorIs(t, err, repository.ErrStatusConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_TransitionStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepositoryAdapter(db)
	app := entity.NewApplication(uuid.New(), uuid.New(), nil, nil, nil, time.Now())
	require.NoError(t, app.Reject(uuid.New(), "Income too low", "INCOME", time.Now()))

	mock.ExpectExec("UPDATE applications").
		WithArgs(app.ID, "rejected", "Income too low", "INCOME", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.TransitionStatus(context.Background(), app, valueobject.OpenApplicationStatuses))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_ListByTenant(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepositoryAdapter(db)
	tenantID, landlordID := uuid.New(), uuid.New()
	now := time.Now()

	columns := append(append([]string{}, applicationRowColumns...),
		"property_landlord_id", "property_title", "property_city", "property_address", "property_price",
		"property_currency", "property_status", "landlord_name", "landlord_trust_score",
		"landlord_verification_status", "landlord_guarantee_joined")

	mock.ExpectQuery("ORDER BY a.created_at DESC").
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			uuid.NewString(), tenantID.String(), uuid.NewString(), "submitted", []byte(`{}`),
			nil, nil, nil, nil, nil, nil, now, now,
			landlordID.String(), "Квартира", "Dakar", "Rue 10", 150000.0, "XOF", "active",
			"Awa", 80, "approved", true,
		))

	views, err := repo.ListByTenant(context.Background(), tenantID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Квартира", views[0].Property.Title)
	assert.Equal(t, 150000.0, views[0].Property.Rent.Amount)
	assert.Equal(t, landlordID, views[0].Landlord.ID)
	assert.Equal(t, 80, views[0].Landlord.TrustScore)
	assert.True(t, views[0].Landlord.GuaranteeJoined)
}

func TestTransactionRepository_SettleOnlyHeld(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepositoryAdapter(db)
	tx := &entity.Transaction{ID: uuid.New(), Status: valueobject.TransactionStatusReleased}

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = 'held'")).
		WithArgs(tx.ID, "released", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Settle(context.Background(), tx)
	assert.ErrorIs(t, err, repository.ErrStatusConflict)
}

func TestRatingRepository_Stats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRatingRepositoryAdapter(db)
	ratedID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(AVG(score), 0)")).
		WithArgs(ratedID).
		WillReturnRows(sqlmock.NewRows([]string{"count", "average"}).AddRow(5, 4.2))

	stats, err := repo.Stats(context.Background(), ratedID)
	require.NoError(t, err)
	assert.Equal(t, entity.RatingStats{Count: 5, Average: 4.2}, stats)
}

func TestUserRepository_FindByIDParsesRole(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepositoryAdapter(db)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery("FROM users WHERE id = \\$1").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "user_type", "verification_status", "trust_score", "trust_score_stale", "created_at", "updated_at",
		}).AddRow(id.String(), "Moussa", nil, "landlord", "approved", 72, false, now, now))

	user, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, valueobject.RoleLandlord, user.Role)
	assert.True(t, user.IsVerified())
	assert.Equal(t, 72, user.TrustScore)
}

func TestTransactor_CommitsAndSharesTx(t *testing.T) {
	db, mock := newMockDB(t)
	transactor := NewTransactor(db)
	props := NewPropertyRepositoryAdapter(db)
	propertyID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE properties SET status").
		WithArgs(propertyID, "rented").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := transactor.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return props.UpdateStatus(ctx, propertyID, valueobject.PropertyStatusRented)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	transactor := NewTransactor(db)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := transactor.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

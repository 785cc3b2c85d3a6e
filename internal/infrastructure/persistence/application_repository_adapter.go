package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/repository"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
)

const applicationColumns = `
	a.id, a.tenant_id, a.property_id, a.status, a.documents, a.message, a.proposed_move_in_date,
	a.rejection_reason, a.reason_code, a.reviewed_at, a.reviewed_by, a.created_at, a.updated_at`

type ApplicationRepositoryAdapter struct {
	db *sqlx.DB
}

func NewApplicationRepositoryAdapter(db *sqlx.DB) *ApplicationRepositoryAdapter {
	return &ApplicationRepositoryAdapter{db: db}
}

var _ repository.ApplicationRepository = (*ApplicationRepositoryAdapter)(nil)

func (r *ApplicationRepositoryAdapter) Create(ctx context.Context, app *entity.Application) error {
	query := `
		INSERT INTO applications (id, tenant_id, property_id, status, documents, message, proposed_move_in_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		app.ID, app.TenantID, app.PropertyID, string(app.Status), app.Documents,
		app.Message, app.ProposedMoveInDate, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("application repository: create: %w", err)
	}
	return nil
}

func (r *ApplicationRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	var row applicationRow
	query := `SELECT` + applicationColumns + ` FROM applications a WHERE a.id = $1`
	if err := executor(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("application repository: find by id: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ApplicationRepositoryAdapter) FindByTenantAndProperty(ctx context.Context, tenantID, propertyID uuid.UUID) (*entity.Application, error) {
	var row applicationRow
	query := `SELECT` + applicationColumns + `
		FROM applications a
		WHERE a.tenant_id = $1 AND a.property_id = $2
		ORDER BY a.created_at DESC
		LIMIT 1
	`
	if err := executor(ctx, r.db).GetContext(ctx, &row, query, tenantID, propertyID); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("application repository: find by tenant and property: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ApplicationRepositoryAdapter) TransitionStatus(ctx context.Context, app *entity.Application, from []valueobject.ApplicationStatus) error {
	query := `
		UPDATE applications
		SET status = $2, rejection_reason = $3, reason_code = $4, reviewed_at = $5, reviewed_by = $6, updated_at = $7
		WHERE id = $1 AND status = ANY($8)
	`
	res, err := executor(ctx, r.db).ExecContext(ctx, query,
		app.ID, string(app.Status), app.RejectionReason, app.ReasonCode,
		app.ReviewedAt, app.ReviewedBy, app.UpdatedAt, pq.Array(valueobject.StringsOf(from)),
	)
	if err != nil {
		return fmt.Errorf("application repository: transition status: %w", err)
	}
	return expectAffected(res, repository.ErrStatusConflict)
}

func (r *ApplicationRepositoryAdapter) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]entity.ApplicationView, error) {
	query := `SELECT` + applicationColumns + `,
		p.landlord_id AS property_landlord_id, p.title AS property_title, p.city AS property_city,
		p.address AS property_address, p.price AS property_price, p.currency AS property_currency,
		p.status AS property_status,
		u.name AS landlord_name, u.trust_score AS landlord_trust_score,
		u.verification_status AS landlord_verification_status,
		COALESCE(l.guarantee_joined, FALSE) AS landlord_guarantee_joined
		FROM applications a
		JOIN properties p ON p.id = a.property_id
		JOIN users u ON u.id = p.landlord_id
		LEFT JOIN landlords l ON l.id = p.landlord_id
		WHERE a.tenant_id = $1
		ORDER BY a.created_at DESC
	`
	var rows []applicationViewRow
	if err := executor(ctx, r.db).SelectContext(ctx, &rows, query, tenantID); err != nil {
		return nil, fmt.Errorf("application repository: list by tenant: %w", err)
	}

	views := make([]entity.ApplicationView, 0, len(rows))
	for i := range rows {
		views = append(views, rows[i].toView())
	}
	return views, nil
}

func (r *ApplicationRepositoryAdapter) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.ApplicantView, error) {
	query := `SELECT` + applicationColumns + `,
		u.name AS tenant_name, u.trust_score AS tenant_trust_score,
		COALESCE(t.profile_completion, 0) AS tenant_profile_completion
		FROM applications a
		JOIN users u ON u.id = a.tenant_id
		LEFT JOIN tenants t ON t.id = a.tenant_id
		WHERE a.property_id = $1
		ORDER BY a.created_at DESC
	`
	var rows []applicantViewRow
	if err := executor(ctx, r.db).SelectContext(ctx, &rows, query, propertyID); err != nil {
		return nil, fmt.Errorf("application repository: list by property: %w", err)
	}

	views := make([]entity.ApplicantView, 0, len(rows))
	for i := range rows {
		views = append(views, entity.ApplicantView{
			Application:       rows[i].toEntity(),
			TenantName:        rows[i].TenantName,
			TenantTrustScore:  rows[i].TenantTrustScore,
			ProfileCompletion: rows[i].TenantProfileCompletion,
		})
	}
	return views, nil
}

func (r *ApplicationRepositoryAdapter) ListUnsettled(ctx context.Context, limit int) ([]*entity.Application, error) {
	query := `SELECT` + applicationColumns + `
		FROM applications a
		JOIN transactions t ON t.application_id = a.id
		WHERE a.status IN ('approved', 'rejected') AND t.status = 'held'
		ORDER BY a.reviewed_at
		LIMIT $1
	`
	return r.selectApplications(ctx, query, limit)
}

func (r *ApplicationRepositoryAdapter) ListApprovedNotRented(ctx context.Context, limit int) ([]*entity.Application, error) {
	query := `SELECT` + applicationColumns + `
		FROM applications a
		JOIN properties p ON p.id = a.property_id
		WHERE a.status = 'approved' AND p.status <> 'rented'
		ORDER BY a.reviewed_at
		LIMIT $1
	`
	return r.selectApplications(ctx, query, limit)
}

func (r *ApplicationRepositoryAdapter) selectApplications(ctx context.Context, query string, args ...interface{}) ([]*entity.Application, error) {
	var rows []applicationRow
	if err := executor(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("application repository: select: %w", err)
	}

	apps := make([]*entity.Application, 0, len(rows))
	for i := range rows {
		apps = append(apps, rows[i].toEntity())
	}
	return apps, nil
}

type applicationRow struct {
	ID                 uuid.UUID             `db:"id"`
	TenantID           uuid.UUID             `db:"tenant_id"`
	PropertyID         uuid.UUID             `db:"property_id"`
	Status             string                `db:"status"`
	Documents          valueobject.Documents `db:"documents"`
	Message            *string               `db:"message"`
	ProposedMoveInDate *time.Time            `db:"proposed_move_in_date"`
	RejectionReason    *string               `db:"rejection_reason"`
	ReasonCode         *string               `db:"reason_code"`
	ReviewedAt         *time.Time            `db:"reviewed_at"`
	ReviewedBy         *uuid.UUID            `db:"reviewed_by"`
	CreatedAt          time.Time             `db:"created_at"`
	UpdatedAt          time.Time             `db:"updated_at"`
}

func (r *applicationRow) toEntity() *entity.Application {
	return &entity.Application{
		ID:                 r.ID,
		TenantID:           r.TenantID,
		PropertyID:         r.PropertyID,
		Status:             valueobject.ApplicationStatus(r.Status),
		Documents:          r.Documents,
		Message:            r.Message,
		ProposedMoveInDate: r.ProposedMoveInDate,
		RejectionReason:    r.RejectionReason,
		ReasonCode:         r.ReasonCode,
		ReviewedAt:         r.ReviewedAt,
		ReviewedBy:         r.ReviewedBy,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

type applicationViewRow struct {
	applicationRow
	PropertyLandlordID         uuid.UUID `db:"property_landlord_id"`
	PropertyTitle              string    `db:"property_title"`
	PropertyCity               string    `db:"property_city"`
	PropertyAddress            string    `db:"property_address"`
	PropertyPrice              float64   `db:"property_price"`
	PropertyCurrency           string    `db:"property_currency"`
	PropertyStatus             string    `db:"property_status"`
	LandlordName               string    `db:"landlord_name"`
	LandlordTrustScore         int       `db:"landlord_trust_score"`
	LandlordVerificationStatus string    `db:"landlord_verification_status"`
	LandlordGuaranteeJoined    bool      `db:"landlord_guarantee_joined"`
}

func (r *applicationViewRow) toView() entity.ApplicationView {
	return entity.ApplicationView{
		Application: r.toEntity(),
		Property: &entity.Property{
			ID:         r.PropertyID,
			LandlordID: r.PropertyLandlordID,
			Title:      r.PropertyTitle,
			City:       r.PropertyCity,
			Address:    r.PropertyAddress,
			Rent:       valueobject.Money{Amount: r.PropertyPrice, Currency: r.PropertyCurrency},
			Status:     valueobject.PropertyStatus(r.PropertyStatus),
		},
		Landlord: entity.LandlordSignals{
			ID:                 r.PropertyLandlordID,
			Name:               r.LandlordName,
			TrustScore:         r.LandlordTrustScore,
			VerificationStatus: valueobject.VerificationStatus(r.LandlordVerificationStatus),
			GuaranteeJoined:    r.LandlordGuaranteeJoined,
		},
	}
}

type applicantViewRow struct {
	applicationRow
	TenantName              string `db:"tenant_name"`
	TenantTrustScore        int    `db:"tenant_trust_score"`
	TenantProfileCompletion int    `db:"tenant_profile_completion"`
}

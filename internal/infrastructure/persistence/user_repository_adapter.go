package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/repository"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
)

type UserRepositoryAdapter struct {
	db *sqlx.DB
}

func NewUserRepositoryAdapter(db *sqlx.DB) *UserRepositoryAdapter {
	return &UserRepositoryAdapter{db: db}
}

var (
	_ repository.UserRepository    = (*UserRepositoryAdapter)(nil)
	_ repository.ProfileRepository = (*UserRepositoryAdapter)(nil)
)

func (r *UserRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var row userRow
	query := `
		SELECT id, name, email, user_type, verification_status, trust_score, trust_score_stale, created_at, updated_at
		FROM users WHERE id = $1
	`
	if err := executor(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("user repository: find by id: %w", err)
	}
	return row.toEntity(), nil
}

func (r *UserRepositoryAdapter) UpdateTrustScore(ctx context.Context, id uuid.UUID, score int) error {
	res, err := executor(ctx, r.db).ExecContext(ctx,
		`UPDATE users SET trust_score = $2, trust_score_stale = FALSE, updated_at = NOW() WHERE id = $1`, id, score)
	if err != nil {
		return fmt.Errorf("user repository: update trust score: %w", err)
	}
	return expectAffected(res, repository.ErrNotFound)
}

func (r *UserRepositoryAdapter) MarkTrustScoreStale(ctx context.Context, id uuid.UUID) error {
	_, err := executor(ctx, r.db).ExecContext(ctx, `UPDATE users SET trust_score_stale = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("user repository: mark trust score stale: %w", err)
	}
	return nil
}

func (r *UserRepositoryAdapter) ListStaleTrustScores(ctx context.Context, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT id FROM users WHERE trust_score_stale = TRUE ORDER BY updated_at LIMIT $1`
	if err := executor(ctx, r.db).SelectContext(ctx, &ids, query, limit); err != nil {
		return nil, fmt.Errorf("user repository: list stale trust scores: %w", err)
	}
	return ids, nil
}

func (r *UserRepositoryAdapter) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status valueobject.VerificationStatus) error {
	res, err := executor(ctx, r.db).ExecContext(ctx,
		`UPDATE users SET verification_status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("user repository: update verification: %w", err)
	}
	return expectAffected(res, repository.ErrNotFound)
}

func (r *UserRepositoryAdapter) FindTenant(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	var row tenantRow
	query := `SELECT id, profile_completion, documents, budget, preferred_location, updated_at FROM tenants WHERE id = $1`
	if err := executor(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("user repository: find tenant: %w", err)
	}
	return &entity.Tenant{
		ID:                row.ID,
		ProfileCompletion: row.ProfileCompletion,
		Documents:         row.Documents,
		Budget:            row.Budget,
		PreferredLocation: row.PreferredLocation,
		UpdatedAt:         row.UpdatedAt,
	}, nil
}

func (r *UserRepositoryAdapter) SaveTenant(ctx context.Context, t *entity.Tenant) error {
	query := `
		INSERT INTO tenants (id, profile_completion, documents, budget, preferred_location, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			profile_completion = EXCLUDED.profile_completion,
			documents = EXCLUDED.documents,
			budget = EXCLUDED.budget,
			preferred_location = EXCLUDED.preferred_location,
			updated_at = EXCLUDED.updated_at
	`
	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		t.ID, t.ProfileCompletion, t.Documents, t.Budget, t.PreferredLocation, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("user repository: save tenant: %w", err)
	}
	return nil
}

func (r *UserRepositoryAdapter) FindLandlord(ctx context.Context, id uuid.UUID) (*entity.Landlord, error) {
	var row landlordRow
	query := `SELECT id, guarantee_joined, guarantee_joined_at FROM landlords WHERE id = $1`
	if err := executor(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("user repository: find landlord: %w", err)
	}
	return &entity.Landlord{ID: row.ID, GuaranteeJoined: row.GuaranteeJoined, GuaranteeJoinedAt: row.GuaranteeJoinedAt}, nil
}

func (r *UserRepositoryAdapter) SaveLandlord(ctx context.Context, l *entity.Landlord) error {
	query := `
		INSERT INTO landlords (id, guarantee_joined, guarantee_joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			guarantee_joined = EXCLUDED.guarantee_joined,
			guarantee_joined_at = EXCLUDED.guarantee_joined_at
	`
	if _, err := executor(ctx, r.db).ExecContext(ctx, query, l.ID, l.GuaranteeJoined, l.GuaranteeJoinedAt); err != nil {
		return fmt.Errorf("user repository: save landlord: %w", err)
	}
	return nil
}

type userRow struct {
	ID                 uuid.UUID        `db:"id"`
	Name               string           `db:"name"`
	Email              *string          `db:"email"`
	Role               valueobject.Role `db:"user_type"`
	VerificationStatus string           `db:"verification_status"`
	TrustScore         int              `db:"trust_score"`
	TrustScoreStale    bool             `db:"trust_score_stale"`
	CreatedAt          time.Time        `db:"created_at"`
	UpdatedAt          time.Time        `db:"updated_at"`
}

func (r *userRow) toEntity() *entity.User {
	return &entity.User{
		ID:                 r.ID,
		Name:               r.Name,
		Email:              r.Email,
		Role:               r.Role,
		VerificationStatus: valueobject.VerificationStatus(r.VerificationStatus),
		TrustScore:         r.TrustScore,
		TrustScoreStale:    r.TrustScoreStale,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

type tenantRow struct {
	ID                uuid.UUID             `db:"id"`
	ProfileCompletion int                   `db:"profile_completion"`
	Documents         valueobject.Documents `db:"documents"`
	Budget            *float64              `db:"budget"`
	PreferredLocation *string               `db:"preferred_location"`
	UpdatedAt         time.Time             `db:"updated_at"`
}

type landlordRow struct {
	ID                uuid.UUID  `db:"id"`
	GuaranteeJoined   bool       `db:"guarantee_joined"`
	GuaranteeJoinedAt *time.Time `db:"guarantee_joined_at"`
}

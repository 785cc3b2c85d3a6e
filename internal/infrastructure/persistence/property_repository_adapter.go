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

const propertyColumns = `id, landlord_id, title, city, address, price, currency, status, created_at, updated_at`

type PropertyRepositoryAdapter struct {
	db *sqlx.DB
}

func NewPropertyRepositoryAdapter(db *sqlx.DB) *PropertyRepositoryAdapter {
	return &PropertyRepositoryAdapter{db: db}
}

var _ repository.PropertyRepository = (*PropertyRepositoryAdapter)(nil)

func (r *PropertyRepositoryAdapter) Create(ctx context.Context, p *entity.Property) error {
	query := `INSERT INTO properties (` + propertyColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		p.ID, p.LandlordID, p.Title, p.City, p.Address, p.Rent.Amount, p.Rent.Currency,
		string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("property repository: create: %w", err)
	}
	return nil
}

func (r *PropertyRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	var row propertyRow
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	if err := executor(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("property repository: find by id: %w", err)
	}
	return row.toEntity(), nil
}

func (r *PropertyRepositoryAdapter) ListActive(ctx context.Context, limit, offset int) ([]*entity.Property, error) {
	var rows []propertyRow
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE status = 'active' ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := executor(ctx, r.db).SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("property repository: list active: %w", err)
	}

	out := make([]*entity.Property, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}

func (r *PropertyRepositoryAdapter) UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.PropertyStatus) error {
	res, err := executor(ctx, r.db).ExecContext(ctx,
		`UPDATE properties SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("property repository: update status: %w", err)
	}
	return expectAffected(res, repository.ErrNotFound)
}

type propertyRow struct {
	ID         uuid.UUID `db:"id"`
	LandlordID uuid.UUID `db:"landlord_id"`
	Title      string    `db:"title"`
	City       string    `db:"city"`
	Address    string    `db:"address"`
	Price      float64   `db:"price"`
	Currency   string    `db:"currency"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *propertyRow) toEntity() *entity.Property {
	return &entity.Property{
		ID:         r.ID,
		LandlordID: r.LandlordID,
		Title:      r.Title,
		City:       r.City,
		Address:    r.Address,
		Rent:       valueobject.Money{Amount: r.Price, Currency: r.Currency},
		Status:     valueobject.PropertyStatus(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

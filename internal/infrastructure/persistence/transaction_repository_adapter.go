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

type TransactionRepositoryAdapter struct {
	db *sqlx.DB
}

func NewTransactionRepositoryAdapter(db *sqlx.DB) *TransactionRepositoryAdapter {
	return &TransactionRepositoryAdapter{db: db}
}

var _ repository.TransactionRepository = (*TransactionRepositoryAdapter)(nil)

func (r *TransactionRepositoryAdapter) Create(ctx context.Context, tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, application_id, tenant_id, landlord_id, property_id, amount, currency, status, gateway_ref, held_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		tx.ID, tx.ApplicationID, tx.TenantID, tx.LandlordID, tx.PropertyID,
		tx.Amount.Amount, tx.Amount.Currency, string(tx.Status), tx.GatewayRef, tx.HeldAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("transaction repository: create: %w", err)
	}
	return nil
}

func (r *TransactionRepositoryAdapter) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*entity.Transaction, error) {
	var row transactionRow
	query := `
		SELECT id, application_id, tenant_id, landlord_id, property_id, amount, currency, status,
		gateway_ref, held_at, released_at, refunded_at
		FROM transactions WHERE application_id = $1
	`
	if err := executor(ctx, r.db).GetContext(ctx, &row, query, applicationID); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("transaction repository: find by application: %w", err)
	}
	return row.toEntity(), nil
}

func (r *TransactionRepositoryAdapter) Settle(ctx context.Context, tx *entity.Transaction) error {
	query := `
		UPDATE transactions SET status = $2, released_at = $3, refunded_at = $4
		WHERE id = $1 AND status = 'held'
	`
	res, err := executor(ctx, r.db).ExecContext(ctx, query, tx.ID, string(tx.Status), tx.ReleasedAt, tx.RefundedAt)
	if err != nil {
		return fmt.Errorf("transaction repository: settle: %w", err)
	}
	return expectAffected(res, repository.ErrStatusConflict)
}

type transactionRow struct {
	ID            uuid.UUID  `db:"id"`
	ApplicationID uuid.UUID  `db:"application_id"`
	TenantID      uuid.UUID  `db:"tenant_id"`
	LandlordID    uuid.UUID  `db:"landlord_id"`
	PropertyID    uuid.UUID  `db:"property_id"`
	Amount        float64    `db:"amount"`
	Currency      string     `db:"currency"`
	Status        string     `db:"status"`
	GatewayRef    string     `db:"gateway_ref"`
	HeldAt        time.Time  `db:"held_at"`
	ReleasedAt    *time.Time `db:"released_at"`
	RefundedAt    *time.Time `db:"refunded_at"`
}

func (r *transactionRow) toEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:            r.ID,
		ApplicationID: r.ApplicationID,
		TenantID:      r.TenantID,
		LandlordID:    r.LandlordID,
		PropertyID:    r.PropertyID,
		Amount:        valueobject.Money{Amount: r.Amount, Currency: r.Currency},
		Status:        valueobject.TransactionStatus(r.Status),
		GatewayRef:    r.GatewayRef,
		HeldAt:        r.HeldAt,
		ReleasedAt:    r.ReleasedAt,
		RefundedAt:    r.RefundedAt,
	}
}

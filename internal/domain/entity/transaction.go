package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

// Transaction — эскроу-запись, удерживающая арендную плату по заявке.
type Transaction struct {
	ID            uuid.UUID
	ApplicationID uuid.UUID
	TenantID      uuid.UUID
	LandlordID    uuid.UUID
	PropertyID    uuid.UUID
	Amount        valueobject.Money
	Status        valueobject.TransactionStatus
	GatewayRef    string
	HeldAt        time.Time
	ReleasedAt    *time.Time
	RefundedAt    *time.Time
}

// NewHeldTransaction создаёт эскроу в статусе held по арендной плате объекта.
func NewHeldTransaction(app *Application, property *Property, now time.Time) *Transaction {
	return &Transaction{
		ID:            uuid.New(),
		ApplicationID: app.ID,
		TenantID:      app.TenantID,
		LandlordID:    property.LandlordID,
		PropertyID:    property.ID,
		Amount:        property.Rent,
		Status:        valueobject.TransactionStatusHeld,
		GatewayRef:    NewGatewayRef(),
		HeldAt:        now,
	}
}

// NewGatewayRef генерирует локальную ссылку платёжного шлюза.
func NewGatewayRef() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ESC-" + strings.ToUpper(raw[:16])
}

// Settle переводит эскроу в статус, соответствующий решению по заявке.
func (t *Transaction) Settle(app valueobject.ApplicationStatus, now time.Time) error {
	next := valueobject.TransactionStatusFor(app)
	if next == valueobject.TransactionStatusHeld {
		return apperror.New(apperror.ErrCodeStateConflict, "заявка ещё не рассмотрена")
	}
	if t.Status == next {
		return nil
	}
	if t.Status != valueobject.TransactionStatusHeld {
		return apperror.New(apperror.ErrCodeStateConflict, "эскроу уже закрыт").
			WithDetail("transaction_status", string(t.Status))
	}

	t.Status = next
	switch next {
	case valueobject.TransactionStatusReleased:
		t.ReleasedAt = &now
	case valueobject.TransactionStatusRefunded:
		t.RefundedAt = &now
	}
	return nil
}

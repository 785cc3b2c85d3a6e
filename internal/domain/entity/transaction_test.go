package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

func newTestProperty(t *testing.T) *Property {
	t.Helper()
	rent, err := valueobject.NewRent(150000, "XOF")
	require.NoError(t, err)
	p, err := NewProperty(uuid.New(), "Квартира у моря", "Dakar", "Rue 10", rent, time.Now())
	require.NoError(t, err)
	return p
}

func TestNewHeldTransaction(t *testing.T) {
	property := newTestProperty(t)
	app := NewApplication(uuid.New(), property.ID, nil, nil, nil, time.Now())

	tx := NewHeldTransaction(app, property, time.Now())

	assert.Equal(t, valueobject.TransactionStatusHeld, tx.Status)
	assert.Equal(t, 150000.0, tx.Amount.Amount)
	assert.Equal(t, property.LandlordID, tx.LandlordID)
	assert.True(t, strings.HasPrefix(tx.GatewayRef, "ESC-"))
	assert.Len(t, tx.GatewayRef, 20)
}

func TestTransaction_Settle(t *testing.T) {
	property := newTestProperty(t)
	app := NewApplication(uuid.New(), property.ID, nil, nil, nil, time.Now())

	released := NewHeldTransaction(app, property, time.Now())
	require.NoError(t, released.Settle(valueobject.ApplicationStatusApproved, time.Now()))
	assert.Equal(t, valueobject.TransactionStatusReleased, released.Status)
	assert.NotNil(t, released.ReleasedAt)

	refunded := NewHeldTransaction(app, property, time.Now())
	require.NoError(t, refunded.Settle(valueobject.ApplicationStatusRejected, time.Now()))
	assert.Equal(t, valueobject.TransactionStatusRefunded, refunded.Status)
	assert.NotNil(t, refunded.RefundedAt)
}

func TestTransaction_SettleNeverRegresses(t *testing.T) {
	property := newTestProperty(t)
	app := NewApplication(uuid.New(), property.ID, nil, nil, nil, time.Now())
	tx := NewHeldTransaction(app, property, time.Now())
	require.NoError(t, tx.Settle(valueobject.ApplicationStatusApproved, time.Now()))

	// повторное применение того же решения идемпотентно
	require.NoError(t, tx.Settle(valueobject.ApplicationStatusApproved, time.Now()))

	err := tx.Settle(valueobject.ApplicationStatusRejected, time.Now())
	assert.Equal(t, apperror.ErrCodeStateConflict, apperror.CodeOf(err))
	assert.Equal(t, valueobject.TransactionStatusReleased, tx.Status)

	err = tx.Settle(valueobject.ApplicationStatusSubmitted, time.Now())
	assert.Error(t, err)
}

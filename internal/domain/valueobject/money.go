package valueobject

import (
	"fmt"
	"strings"

	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

// DefaultCurrency используется, когда валюта объекта не указана.
var DefaultCurrency = "XOF"

type Money struct {
	Amount   float64
	Currency string
}

func NewMoney(amount float64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "сумма не может быть отрицательной")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if len(currency) != 3 {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "код валюты должен состоять из трёх букв")
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// Rent — арендная плата, она же сумма эскроу по заявке.
func NewRent(amount float64, currency string) (Money, error) {
	if amount <= 0 {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "арендная плата должна быть положительной").WithDetail("fields", []string{"price"})
	}
	return NewMoney(amount, currency)
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.Amount, m.Currency)
}

package repository

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("repository: запись не найдена")
	ErrStatusConflict = errors.New("repository: статус записи уже изменён")
	ErrDuplicate      = errors.New("repository: запись уже существует")
)

// Transactor выполняет fn в одной транзакции базы.
// Репозитории, вызванные с ctx из fn, работают внутри этой транзакции.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

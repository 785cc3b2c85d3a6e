package valueobject

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

// Role — закрытый набор ролей пользователя.
type Role struct {
	name string
}

var (
	RoleTenant   = Role{name: "tenant"}
	RoleLandlord = Role{name: "landlord"}
	RoleAdmin    = Role{name: "admin"}
)

// ParseRole возвращает роль по её строковому представлению.
func ParseRole(value string) (Role, error) {
	switch value {
	case RoleTenant.name:
		return RoleTenant, nil
	case RoleLandlord.name:
		return RoleLandlord, nil
	case RoleAdmin.name:
		return RoleAdmin, nil
	}
	return Role{}, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("неизвестная роль %q", value))
}

func (r Role) String() string { return r.name }

func (r Role) IsZero() bool { return r.name == "" }

func (r Role) IsTenant() bool { return r == RoleTenant }

func (r Role) IsLandlord() bool { return r == RoleLandlord }

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Scan читает роль из колонки user_type.
func (r *Role) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*r = Role{}
		return nil
	default:
		return fmt.Errorf("role: неподдерживаемый тип %T", src)
	}

	parsed, err := ParseRole(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) Value() (driver.Value, error) {
	if r.IsZero() {
		return nil, nil
	}
	return r.name, nil
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.name), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Actor — аутентифицированный пользователь, выполняющий операцию.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

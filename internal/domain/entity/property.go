package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

type Property struct {
	ID         uuid.UUID
	LandlordID uuid.UUID
	Title      string
	City       string
	Address    string
	Rent       valueobject.Money
	Status     valueobject.PropertyStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewProperty(landlordID uuid.UUID, title, city, address string, rent valueobject.Money, now time.Time) (*Property, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название объекта обязательно").WithDetail("fields", []string{"title"})
	}
	if rent.Amount <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "арендная плата должна быть положительной").WithDetail("fields", []string{"price"})
	}

	return &Property{
		ID:         uuid.New(),
		LandlordID: landlordID,
		Title:      title,
		City:       strings.TrimSpace(city),
		Address:    strings.TrimSpace(address),
		Rent:       rent,
		Status:     valueobject.PropertyStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (p *Property) IsActive() bool {
	return p.Status == valueobject.PropertyStatusActive
}

func (p *Property) IsOwnedBy(userID uuid.UUID) bool {
	return p.LandlordID == userID
}

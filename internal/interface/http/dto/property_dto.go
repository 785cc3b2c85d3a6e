package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
)

type CreatePropertyRequest struct {
	Title    string  `json:"title"`
	City     string  `json:"city"`
	Address  string  `json:"address"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

type PropertySummary struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	City     string    `json:"city"`
	Address  string    `json:"address"`
	Price    float64   `json:"price"`
	Currency string    `json:"currency"`
	Status   string    `json:"status"`
}

type PropertyResponse struct {
	PropertySummary
	LandlordID uuid.UUID `json:"landlord_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToPropertySummary(p *entity.Property) PropertySummary {
	if p == nil {
		return PropertySummary{}
	}
	return PropertySummary{
		ID:       p.ID,
		Title:    p.Title,
		City:     p.City,
		Address:  p.Address,
		Price:    p.Rent.Amount,
		Currency: p.Rent.Currency,
		Status:   string(p.Status),
	}
}

func ToPropertyResponse(p *entity.Property) PropertyResponse {
	return PropertyResponse{
		PropertySummary: ToPropertySummary(p),
		LandlordID:      p.LandlordID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func ToPropertiesResponse(items []*entity.Property) []PropertyResponse {
	out := make([]PropertyResponse, 0, len(items))
	for _, p := range items {
		out = append(out, ToPropertyResponse(p))
	}
	return out
}

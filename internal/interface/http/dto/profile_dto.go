package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
)

type UpdateTenantRequest struct {
	Budget            *float64 `json:"budget"`
	PreferredLocation *string  `json:"preferred_location"`
}

type SetVerificationRequest struct {
	Status string `json:"status"`
}

type TenantResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProfileCompletion int             `json:"profile_completion"`
	Documents         map[string]bool `json:"documents"`
	Budget            *float64        `json:"budget"`
	PreferredLocation *string         `json:"preferred_location"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToTenantResponse отдаёт только факт наличия документов, пути хранилища наружу не выходят.
func ToTenantResponse(t *entity.Tenant) TenantResponse {
	docs := make(map[string]bool, len(t.Documents))
	for kind := range t.Documents {
		docs[string(kind)] = true
	}
	return TenantResponse{
		ID:                t.ID,
		ProfileCompletion: t.ProfileCompletion,
		Documents:         docs,
		Budget:            t.Budget,
		PreferredLocation: t.PreferredLocation,
		UpdatedAt:         t.UpdatedAt,
	}
}

type LandlordResponse struct {
	ID                uuid.UUID  `json:"id"`
	GuaranteeJoined   bool       `json:"guarantee_joined"`
	GuaranteeJoinedAt *time.Time `json:"guarantee_joined_at"`
}

func ToLandlordResponse(l *entity.Landlord) LandlordResponse {
	return LandlordResponse{ID: l.ID, GuaranteeJoined: l.GuaranteeJoined, GuaranteeJoinedAt: l.GuaranteeJoinedAt}
}

type UserResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Role               string    `json:"user_type"`
	VerificationStatus string    `json:"verification_status"`
	TrustScore         int       `json:"trust_score"`
}

func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Role:               u.Role.String(),
		VerificationStatus: string(u.VerificationStatus),
		TrustScore:         u.TrustScore,
	}
}

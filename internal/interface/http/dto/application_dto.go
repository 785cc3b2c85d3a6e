package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

const dateLayout = "2006-01-02"

type SubmitApplicationRequest struct {
	PropertyID         string  `json:"property_id"`
	Message            *string `json:"message"`
	ProposedMoveInDate *string `json:"proposed_move_in_date"`
}

type RejectApplicationRequest struct {
	Reason     string `json:"reason"`
	ReasonCode string `json:"reason_code"`
}

// ParsePropertyID проверяет, что property_id передан и является UUID.
func ParsePropertyID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, apperror.New(apperror.ErrCodeValidation, "property_id обязателен").
			WithDetail("fields", []string{"property_id"})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.New(apperror.ErrCodeValidation, "property_id должен быть валидным UUID").
			WithDetail("fields", []string{"property_id"})
	}
	return id, nil
}

// ParseMoveInDate принимает дату YYYY-MM-DD или RFC3339.
func ParseMoveInDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, apperror.New(apperror.ErrCodeValidation, "некорректная дата proposed_move_in_date").
		WithDetail("fields", []string{"proposed_move_in_date"})
}

type ApplicationSummary struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type TransactionSummary struct {
	ID         uuid.UUID `json:"id"`
	Status     string    `json:"status"`
	GatewayRef string    `json:"gateway_ref"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
}

type SubmitApplicationResponse struct {
	Application ApplicationSummary `json:"application"`
	Transaction TransactionSummary `json:"transaction"`
}

func ToSubmitApplicationResponse(app *entity.Application, tx *entity.Transaction) SubmitApplicationResponse {
	return SubmitApplicationResponse{
		Application: ApplicationSummary{ID: app.ID, Status: string(app.Status), CreatedAt: app.CreatedAt},
		Transaction: ToTransactionSummary(tx),
	}
}

func ToTransactionSummary(tx *entity.Transaction) TransactionSummary {
	return TransactionSummary{
		ID:         tx.ID,
		Status:     string(tx.Status),
		GatewayRef: tx.GatewayRef,
		Amount:     tx.Amount.Amount,
		Currency:   tx.Amount.Currency,
	}
}

type DecisionResponse struct {
	ID              uuid.UUID  `json:"id"`
	Status          string     `json:"status"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	ReasonCode      *string    `json:"reason_code,omitempty"`
}

func ToDecisionResponse(app *entity.Application) DecisionResponse {
	return DecisionResponse{
		ID:              app.ID,
		Status:          string(app.Status),
		ReviewedAt:      app.ReviewedAt,
		RejectionReason: app.RejectionReason,
		ReasonCode:      app.ReasonCode,
	}
}

type ApplicationResponse struct {
	ID                 uuid.UUID           `json:"id"`
	TenantID           uuid.UUID           `json:"tenant_id"`
	PropertyID         uuid.UUID           `json:"property_id"`
	Status             string              `json:"status"`
	Documents          map[string]string   `json:"documents"`
	Message            *string             `json:"message"`
	ProposedMoveInDate *string             `json:"proposed_move_in_date"`
	RejectionReason    *string             `json:"rejection_reason"`
	ReasonCode         *string             `json:"reason_code"`
	ReviewedAt         *time.Time          `json:"reviewed_at"`
	ReviewedBy         *uuid.UUID          `json:"reviewed_by"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	Transaction        *TransactionSummary `json:"transaction,omitempty"`
}

func ToApplicationResponse(app *entity.Application, tx *entity.Transaction) ApplicationResponse {
	resp := ApplicationResponse{
		ID:              app.ID,
		TenantID:        app.TenantID,
		PropertyID:      app.PropertyID,
		Status:          string(app.Status),
		Documents:       make(map[string]string, len(app.Documents)),
		Message:         app.Message,
		RejectionReason: app.RejectionReason,
		ReasonCode:      app.ReasonCode,
		ReviewedAt:      app.ReviewedAt,
		ReviewedBy:      app.ReviewedBy,
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}
	for kind, ref := range app.Documents {
		resp.Documents[string(kind)] = ref
	}
	if app.ProposedMoveInDate != nil {
		date := app.ProposedMoveInDate.Format(dateLayout)
		resp.ProposedMoveInDate = &date
	}
	if tx != nil {
		summary := ToTransactionSummary(tx)
		resp.Transaction = &summary
	}
	return resp
}

type LandlordSignalsResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	TrustScore         int       `json:"trust_score"`
	VerificationStatus string    `json:"verification_status"`
	GuaranteeJoined    bool      `json:"guarantee_joined"`
}

type TenantApplicationResponse struct {
	ApplicationResponse
	Property PropertySummary         `json:"property"`
	Landlord LandlordSignalsResponse `json:"landlord"`
}

func ToTenantApplicationsResponse(views []entity.ApplicationView) []TenantApplicationResponse {
	out := make([]TenantApplicationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, TenantApplicationResponse{
			ApplicationResponse: ToApplicationResponse(v.Application, nil),
			Property:            ToPropertySummary(v.Property),
			Landlord: LandlordSignalsResponse{
				ID:                 v.Landlord.ID,
				Name:               v.Landlord.Name,
				TrustScore:         v.Landlord.TrustScore,
				VerificationStatus: string(v.Landlord.VerificationStatus),
				GuaranteeJoined:    v.Landlord.GuaranteeJoined,
			},
		})
	}
	return out
}

type ApplicantResponse struct {
	ApplicationResponse
	Tenant ApplicantSignals `json:"tenant"`
}

type ApplicantSignals struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	TrustScore        int       `json:"trust_score"`
	ProfileCompletion int       `json:"profile_completion"`
}

func ToApplicantsResponse(views []entity.ApplicantView) []ApplicantResponse {
	out := make([]ApplicantResponse, 0, len(views))
	for _, v := range views {
		out = append(out, ApplicantResponse{
			ApplicationResponse: ToApplicationResponse(v.Application, nil),
			Tenant: ApplicantSignals{
				ID:                v.Application.TenantID,
				Name:              v.TenantName,
				TrustScore:        v.TenantTrustScore,
				ProfileCompletion: v.ProfileCompletion,
			},
		})
	}
	return out
}

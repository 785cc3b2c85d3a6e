package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
)

func TestCalculateTrustScore_VerifiedCompleteTenant(t *testing.T) {
	score := CalculateTrustScore(TrustInputs{
		Role:               valueobject.RoleTenant,
		VerificationStatus: valueobject.VerificationStatusApproved,
		Ratings:            entity.RatingStats{Count: 5, Average: 4.2},
		ProfileCompletion:  100,
	})

	assert.Equal(t, 97, score.Score)
	assert.Equal(t, TrustBreakdown{Base: 50, VerificationBonus: 20, RatingImpact: 12, RoleBonus: 15}, score.Breakdown)
	assert.Equal(t, 5, score.RatingStats.Count)
}

func TestCalculateTrustScore_Table(t *testing.T) {
	tests := []struct {
		name   string
		in     TrustInputs
		expect int
	}{
		{
			name:   "new tenant without ratings",
			in:     TrustInputs{Role: valueobject.RoleTenant, VerificationStatus: valueobject.VerificationStatusPending},
			expect: 50,
		},
		{
			name:   "incomplete tenant gets no completion bonus",
			in:     TrustInputs{Role: valueobject.RoleTenant, ProfileCompletion: 80},
			expect: 50,
		},
		{
			name:   "landlord in guarantee programme",
			in:     TrustInputs{Role: valueobject.RoleLandlord, GuaranteeJoined: true, VerificationStatus: valueobject.VerificationStatusApproved},
			expect: 80,
		},
		{
			name:   "landlord completion is ignored",
			in:     TrustInputs{Role: valueobject.RoleLandlord, ProfileCompletion: 100},
			expect: 50,
		},
		{
			name:   "tenant guarantee flag is ignored",
			in:     TrustInputs{Role: valueobject.RoleTenant, GuaranteeJoined: true},
			expect: 50,
		},
		{
			name:   "admin has no role bonus",
			in:     TrustInputs{Role: valueobject.RoleAdmin, ProfileCompletion: 100, GuaranteeJoined: true},
			expect: 50,
		},
		{
			name:   "poor ratings",
			in:     TrustInputs{Role: valueobject.RoleTenant, Ratings: entity.RatingStats{Count: 3, Average: 1.0}},
			expect: 30,
		},
		{
			name:   "neutral ratings",
			in:     TrustInputs{Role: valueobject.RoleTenant, Ratings: entity.RatingStats{Count: 2, Average: 3.0}},
			expect: 50,
		},
		{
			name: "perfect everything is capped",
			in: TrustInputs{
				Role:               valueobject.RoleTenant,
				VerificationStatus: valueobject.VerificationStatusApproved,
				Ratings:            entity.RatingStats{Count: 10, Average: 5},
				ProfileCompletion:  100,
			},
			expect: 100,
		},
		{
			name:   "rejected verification gives no bonus",
			in:     TrustInputs{Role: valueobject.RoleTenant, VerificationStatus: valueobject.VerificationStatusRejected},
			expect: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, CalculateTrustScore(tt.in).Score)
		})
	}
}

func TestCalculateTrustScore_AlwaysInRange(t *testing.T) {
	extremes := []entity.RatingStats{
		{Count: 1, Average: -100},
		{Count: 1, Average: 1},
		{Count: 1, Average: 100},
	}
	for _, stats := range extremes {
		score := CalculateTrustScore(TrustInputs{Role: valueobject.RoleTenant, Ratings: stats})
		assert.GreaterOrEqual(t, score.Score, 0)
		assert.LessOrEqual(t, score.Score, 100)
	}

	assert.Equal(t, 0, CalculateTrustScore(TrustInputs{Role: valueobject.RoleTenant, Ratings: extremes[0]}).Score)
}

func TestCalculateTrustScore_Idempotent(t *testing.T) {
	in := TrustInputs{
		Role:               valueobject.RoleLandlord,
		VerificationStatus: valueobject.VerificationStatusApproved,
		Ratings:            entity.RatingStats{Count: 7, Average: 3.64},
		GuaranteeJoined:    true,
	}
	assert.Equal(t, CalculateTrustScore(in), CalculateTrustScore(in))
}

func TestProfileCompletion(t *testing.T) {
	budget := 200000.0
	zero := 0.0
	location := "Dakar"
	empty := ""

	tests := []struct {
		name   string
		tenant *entity.Tenant
		expect int
	}{
		{name: "nil tenant", tenant: nil, expect: 0},
		{name: "empty profile", tenant: &entity.Tenant{}, expect: 0},
		{name: "budget only", tenant: &entity.Tenant{Budget: &budget}, expect: 25},
		{name: "zero budget gets nothing", tenant: &entity.Tenant{Budget: &zero, PreferredLocation: &location}, expect: 25},
		{name: "empty location gets nothing", tenant: &entity.Tenant{Budget: &budget, PreferredLocation: &empty}, expect: 25},
		{
			name: "documents only",
			tenant: &entity.Tenant{Documents: valueobject.Documents{
				valueobject.DocumentIdentity:         "id.pdf",
				valueobject.DocumentEmploymentLetter: "letter.pdf",
			}},
			expect: 50,
		},
		{
			name: "complete",
			tenant: &entity.Tenant{
				Budget:            &budget,
				PreferredLocation: &location,
				Documents: valueobject.Documents{
					valueobject.DocumentIdentity:         "id.pdf",
					valueobject.DocumentEmploymentLetter: "letter.pdf",
				},
			},
			expect: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ProfileCompletion(tt.tenant))
		})
	}
}

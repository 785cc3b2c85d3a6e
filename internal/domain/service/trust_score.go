package service

import (
	"math"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
)

const (
	trustBase              = 50
	verificationBonus      = 20
	neutralRating          = 3.0
	ratingPointsPerStar    = 10
	tenantCompletionBonus  = 15
	landlordGuaranteeBonus = 10
	minTrustScore          = 0
	maxTrustScore          = 100
)

// TrustInputs — снимок данных, от которых зависит оценка доверия.
// ProfileCompletion учитывается только для арендатора, GuaranteeJoined только для арендодателя.
type TrustInputs struct {
	Role               valueobject.Role
	VerificationStatus valueobject.VerificationStatus
	Ratings            entity.RatingStats
	ProfileCompletion  int
	GuaranteeJoined    bool
}

type TrustBreakdown struct {
	Base              int `json:"base"`
	VerificationBonus int `json:"verification_bonus"`
	RatingImpact      int `json:"rating_impact"`
	RoleBonus         int `json:"role_bonus"`
}

type TrustScore struct {
	Score       int                `json:"score"`
	Breakdown   TrustBreakdown     `json:"breakdown"`
	RatingStats entity.RatingStats `json:"rating_stats"`
}

// CalculateTrustScore пересчитывает оценку целиком из входных данных.
func CalculateTrustScore(in TrustInputs) TrustScore {
	breakdown := TrustBreakdown{Base: trustBase}

	if in.VerificationStatus == valueobject.VerificationStatusApproved {
		breakdown.VerificationBonus = verificationBonus
	}

	if in.Ratings.Count > 0 {
		breakdown.RatingImpact = int(math.Round((in.Ratings.Average - neutralRating) * ratingPointsPerStar))
	}

	switch {
	case in.Role.IsTenant() && in.ProfileCompletion == 100:
		breakdown.RoleBonus = tenantCompletionBonus
	case in.Role.IsLandlord() && in.GuaranteeJoined:
		breakdown.RoleBonus = landlordGuaranteeBonus
	}

	total := breakdown.Base + breakdown.VerificationBonus + breakdown.RatingImpact + breakdown.RoleBonus

	return TrustScore{
		Score:       clamp(total, minTrustScore, maxTrustScore),
		Breakdown:   breakdown,
		RatingStats: in.Ratings,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

const (
	budgetWeight            = 25
	preferredLocationWeight = 25
	identityDocumentWeight  = 30
	employmentLetterWeight  = 20
)

// ProfileCompletion считает заполненность профиля арендатора в процентах.
func ProfileCompletion(t *entity.Tenant) int {
	if t == nil {
		return 0
	}

	completion := 0
	if t.Budget != nil && *t.Budget > 0 {
		completion += budgetWeight
	}
	if t.PreferredLocation != nil && *t.PreferredLocation != "" {
		completion += preferredLocationWeight
	}
	if t.Documents.Has(valueobject.DocumentIdentity) {
		completion += identityDocumentWeight
	}
	if t.Documents.Has(valueobject.DocumentEmploymentLetter) {
		completion += employmentLetterWeight
	}
	return completion
}

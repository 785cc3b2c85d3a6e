package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
)

type CreateRatingRequest struct {
	Score   int     `json:"score"`
	Comment *string `json:"comment"`
}

type RatingResponse struct {
	ID            uuid.UUID `json:"id"`
	RaterID       uuid.UUID `json:"rater_id"`
	RatedID       uuid.UUID `json:"rated_id"`
	ApplicationID uuid.UUID `json:"application_id"`
	Score         int       `json:"score"`
	Comment       *string   `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

func ToRatingResponse(r *entity.Rating) RatingResponse {
	return RatingResponse{
		ID:            r.ID,
		RaterID:       r.RaterID,
		RatedID:       r.RatedID,
		ApplicationID: r.ApplicationID,
		Score:         r.Score,
		Comment:       r.Comment,
		CreatedAt:     r.CreatedAt,
	}
}

func ToRatingsResponse(items []*entity.Rating) []RatingResponse {
	out := make([]RatingResponse, 0, len(items))
	for _, r := range items {
		out = append(out, ToRatingResponse(r))
	}
	return out
}

package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

type Rating struct {
	ID            uuid.UUID
	RaterID       uuid.UUID
	RatedID       uuid.UUID
	ApplicationID uuid.UUID
	Score         int
	Comment       *string
	CreatedAt     time.Time
}

func NewRating(raterID, ratedID, applicationID uuid.UUID, score int, comment *string, now time.Time) (*Rating, error) {
	if score < 1 || score > 5 {
		return nil, apperror.New(apperror.ErrCodeValidation, "оценка должна быть от 1 до 5").WithDetail("fields", []string{"score"})
	}
	if raterID == ratedID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя оценить самого себя")
	}
	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		comment = &trimmed
		if trimmed == "" {
			comment = nil
		}
	}

	return &Rating{
		ID:            uuid.New(),
		RaterID:       raterID,
		RatedID:       ratedID,
		ApplicationID: applicationID,
		Score:         score,
		Comment:       comment,
		CreatedAt:     now,
	}, nil
}

// RatingStats — агрегат оценок пользователя.
type RatingStats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

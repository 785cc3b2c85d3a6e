package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/repository"
)

type RatingRepositoryAdapter struct {
	db *sqlx.DB
}

func NewRatingRepositoryAdapter(db *sqlx.DB) *RatingRepositoryAdapter {
	return &RatingRepositoryAdapter{db: db}
}

var _ repository.RatingRepository = (*RatingRepositoryAdapter)(nil)

func (r *RatingRepositoryAdapter) Create(ctx context.Context, rating *entity.Rating) error {
	query := `
		INSERT INTO ratings (id, rater_id, rated_id, application_id, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		rating.ID, rating.RaterID, rating.RatedID, rating.ApplicationID, rating.Score, rating.Comment, rating.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("rating repository: create: %w", err)
	}
	return nil
}

// Stats возвращает количество и средний балл. Без оценок — нули.
func (r *RatingRepositoryAdapter) Stats(ctx context.Context, ratedID uuid.UUID) (entity.RatingStats, error) {
	var row struct {
		Count   int     `db:"count"`
		Average float64 `db:"average"`
	}
	query := `SELECT COUNT(*) AS count, COALESCE(AVG(score), 0) AS average FROM ratings WHERE rated_id = $1`
	if err := executor(ctx, r.db).GetContext(ctx, &row, query, ratedID); err != nil {
		return entity.RatingStats{}, fmt.Errorf("rating repository: stats: %w", err)
	}
	return entity.RatingStats{Count: row.Count, Average: row.Average}, nil
}

func (r *RatingRepositoryAdapter) ListByRated(ctx context.Context, ratedID uuid.UUID, limit, offset int) ([]*entity.Rating, error) {
	var rows []ratingRow
	query := `
		SELECT id, rater_id, rated_id, application_id, score, comment, created_at
		FROM ratings WHERE rated_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := executor(ctx, r.db).SelectContext(ctx, &rows, query, ratedID, limit, offset); err != nil {
		return nil, fmt.Errorf("rating repository: list: %w", err)
	}

	out := make([]*entity.Rating, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Rating{
			ID:            row.ID,
			RaterID:       row.RaterID,
			RatedID:       row.RatedID,
			ApplicationID: row.ApplicationID,
			Score:         row.Score,
			Comment:       row.Comment,
			CreatedAt:     row.CreatedAt,
		})
	}
	return out, nil
}

type ratingRow struct {
	ID            uuid.UUID `db:"id"`
	RaterID       uuid.UUID `db:"rater_id"`
	RatedID       uuid.UUID `db:"rated_id"`
	ApplicationID uuid.UUID `db:"application_id"`
	Score         int       `db:"score"`
	Comment       *string   `db:"comment"`
	CreatedAt     time.Time `db:"created_at"`
}

package rating

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/repository"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/logger"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
	"github.com/ignatzorin/rental-backend/internal/validation"
)

const maxListLimit = 100

type TrustRefresher interface {
	Refresh(ctx context.Context, userIDs ...uuid.UUID)
}

type RateInput struct {
	Actor         valueobject.Actor
	ApplicationID uuid.UUID
	Score         int
	Comment       *string
}

type Service struct {
	applications repository.ApplicationRepository
	properties   repository.PropertyRepository
	ratings      repository.RatingRepository
	trust        TrustRefresher
	now          func() time.Time
}

func NewService(applications repository.ApplicationRepository, properties repository.PropertyRepository, ratings repository.RatingRepository, trust TrustRefresher) *Service {
	return &Service{
		applications: applications,
		properties:   properties,
		ratings:      ratings,
		trust:        trust,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Rate оставляет отзыв второй стороне одобренной заявки.
// Каждый участник может оценить сделку один раз.
func (s *Service) Rate(ctx context.Context, in RateInput) (*entity.Rating, error) {
	in.Comment = validation.SanitizeOptional(in.Comment)
	if err := validation.ValidateOptionalLength("comment", in.Comment, validation.MaxRatingCommentLength); err != nil {
		return nil, err
	}

	app, err := s.applications.FindByID(ctx, in.ApplicationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.ErrApplicationNotFound
		}
		return nil, apperror.Dependency(err, "не удалось загрузить заявку")
	}

	property, err := s.properties.FindByID(ctx, app.PropertyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.ErrPropertyNotFound
		}
		return nil, apperror.Dependency(err, "не удалось загрузить объект")
	}

	var ratedID uuid.UUID
	switch in.Actor.ID {
	case app.TenantID:
		ratedID = property.LandlordID
	case property.LandlordID:
		ratedID = app.TenantID
	default:
		return nil, apperror.New(apperror.ErrCodeForbidden, "оценивать могут только участники сделки")
	}

	if app.Status != valueobject.ApplicationStatusApproved {
		return nil, apperror.New(apperror.ErrCodeStateConflict, "оценить можно только одобренную заявку").
			WithDetail("current_status", string(app.Status))
	}

	r, err := entity.NewRating(in.Actor.ID, ratedID, app.ID, in.Score, in.Comment, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.ratings.Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.New(apperror.ErrCodeStateConflict, "вы уже оценили эту сделку")
		}
		return nil, apperror.Dependency(err, "не удалось сохранить оценку")
	}

	logger.Log.WithFields(logrus.Fields{
		"rating_id":      r.ID,
		"application_id": app.ID,
		"rated_id":       ratedID,
		"score":          r.Score,
	}).Info("rating: отзыв сохранён")

	if s.trust != nil {
		s.trust.Refresh(ctx, ratedID)
	}
	return r, nil
}

// List возвращает отзывы о пользователе, новые первыми.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Rating, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	ratings, err := s.ratings.ListByRated(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperror.Dependency(err, "не удалось получить отзывы")
	}
	return ratings, nil
}

package trustscore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rental-backend/internal/domain/repository"
	"github.com/ignatzorin/rental-backend/internal/domain/service"
	"github.com/ignatzorin/rental-backend/internal/logger"
	"github.com/ignatzorin/rental-backend/internal/metrics"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
)

// Cache хранит рассчитанные оценки для публичного чтения.
type Cache interface {
	Get(ctx context.Context, userID uuid.UUID) (*service.TrustScore, bool)
	Set(ctx context.Context, userID uuid.UUID, score service.TrustScore)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type noopCache struct{}

func (noopCache) Get(context.Context, uuid.UUID) (*service.TrustScore, bool) { return nil, false }
func (noopCache) Set(context.Context, uuid.UUID, service.TrustScore)         {}
func (noopCache) Invalidate(context.Context, uuid.UUID)                      {}

type Calculator struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	ratings  repository.RatingRepository
	cache    Cache
}

func NewCalculator(users repository.UserRepository, profiles repository.ProfileRepository, ratings repository.RatingRepository, cache Cache) *Calculator {
	if cache == nil {
		cache = noopCache{}
	}
	return &Calculator{users: users, profiles: profiles, ratings: ratings, cache: cache}
}

// Compute собирает входные данные и считает оценку заново.
// Отсутствие ролевого профиля означает отсутствие бонуса.
func (c *Calculator) Compute(ctx context.Context, userID uuid.UUID) (*service.TrustScore, error) {
	user, err := c.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Dependency(err, "не удалось загрузить пользователя")
	}

	stats, err := c.ratings.Stats(ctx, userID)
	if err != nil {
		return nil, apperror.Dependency(err, "не удалось загрузить оценки пользователя")
	}

	in := service.TrustInputs{
		Role:               user.Role,
		VerificationStatus: user.VerificationStatus,
		Ratings:            stats,
	}

	switch {
	case user.Role.IsTenant():
		tenant, err := c.profiles.FindTenant(ctx, userID)
		switch {
		case err == nil:
			in.ProfileCompletion = tenant.ProfileCompletion
		case !errors.Is(err, repository.ErrNotFound):
			return nil, apperror.Dependency(err, "не удалось загрузить профиль арендатора")
		}
	case user.Role.IsLandlord():
		landlord, err := c.profiles.FindLandlord(ctx, userID)
		switch {
		case err == nil:
			in.GuaranteeJoined = landlord.GuaranteeJoined
		case !errors.Is(err, repository.ErrNotFound):
			return nil, apperror.Dependency(err, "не удалось загрузить профиль арендодателя")
		}
	}

	score := service.CalculateTrustScore(in)
	return &score, nil
}

// Get отдаёт оценку из кэша или считает её.
func (c *Calculator) Get(ctx context.Context, userID uuid.UUID) (*service.TrustScore, error) {
	if cached, ok := c.cache.Get(ctx, userID); ok {
		return cached, nil
	}

	score, err := c.Compute(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, userID, *score)
	return score, nil
}

// UpdateStoredScore пересчитывает оценку и сохраняет её в записи пользователя.
func (c *Calculator) UpdateStoredScore(ctx context.Context, userID uuid.UUID) (*service.TrustScore, error) {
	score, err := c.Compute(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := c.users.UpdateTrustScore(ctx, userID, score.Score); err != nil {
		c.cache.Invalidate(ctx, userID)
		return nil, apperror.Dependency(err, "не удалось сохранить оценку доверия")
	}

	c.cache.Set(ctx, userID, *score)
	return score, nil
}

// Refresh пересчитывает оценки без возврата ошибки вызывающему.
// Неудача повторяется один раз, после чего пользователь помечается
// как trust_score_stale и достаётся фоновой сверке.
func (c *Calculator) Refresh(ctx context.Context, userIDs ...uuid.UUID) {
	for _, userID := range userIDs {
		_, err := c.UpdateStoredScore(ctx, userID)
		if err == nil {
			metrics.TrustRecomputation("ok")
			continue
		}
		logger.Log.WithFields(logrus.Fields{"user_id": userID, "error": err}).Debug("trust score: повторный пересчёт")

		if _, err = c.UpdateStoredScore(ctx, userID); err == nil {
			metrics.TrustRecomputation("retried")
			continue
		}
		metrics.TrustRecomputation("failed")
		logger.Log.WithFields(logrus.Fields{"user_id": userID, "error": err}).Warn("trust score: пересчёт не удался, оценка помечена устаревшей")

		if err := c.users.MarkTrustScoreStale(ctx, userID); err != nil {
			logger.Log.WithFields(logrus.Fields{"user_id": userID, "error": err}).Error("trust score: не удалось пометить оценку устаревшей")
		}
	}
}

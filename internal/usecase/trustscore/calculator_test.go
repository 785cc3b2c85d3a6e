package trustscore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/service"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
	"github.com/ignatzorin/rental-backend/internal/usecase/fakes"
	"github.com/ignatzorin/rental-backend/internal/usecase/trustscore"
)

type mapCache struct {
	items map[uuid.UUID]service.TrustScore
}

func newMapCache() *mapCache { return &mapCache{items: map[uuid.UUID]service.TrustScore{}} }

func (c *mapCache) Get(_ context.Context, id uuid.UUID) (*service.TrustScore, bool) {
	s, ok := c.items[id]
	return &s, ok
}
func (c *mapCache) Set(_ context.Context, id uuid.UUID, s service.TrustScore) { c.items[id] = s }
func (c *mapCache) Invalidate(_ context.Context, id uuid.UUID)               { delete(c.items, id) }

func newCalculator(store *fakes.Store, cache trustscore.Cache) *trustscore.Calculator {
	users := fakes.NewUserRepo(store)
	return trustscore.NewCalculator(users, users, fakes.NewRatingRepo(store), cache)
}

func seedTenant(store *fakes.Store, completion int, verification valueobject.VerificationStatus, scores ...int) uuid.UUID {
	id := uuid.New()
	store.PutUser(&entity.User{ID: id, Name: "Fatou", Role: valueobject.RoleTenant, VerificationStatus: verification, TrustScore: 50})
	store.PutTenant(&entity.Tenant{ID: id, ProfileCompletion: completion})
	for _, s := range scores {
		store.PutRating(&entity.Rating{ID: uuid.New(), RaterID: uuid.New(), RatedID: id, ApplicationID: uuid.New(), Score: s, CreatedAt: time.Now()})
	}
	return id
}

func TestCompute_VerifiedCompleteTenant(t *testing.T) {
	store := fakes.NewStore()
	// среднее 4.2
	id := seedTenant(store, 100, valueobject.VerificationStatusApproved, 5, 4, 4, 4, 4)

	score, err := newCalculator(store, nil).Compute(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 97, score.Score)
	assert.Equal(t, 5, score.RatingStats.Count)
	assert.InDelta(t, 4.2, score.RatingStats.Average, 0.0001)
}

func TestCompute_IsIdempotent(t *testing.T) {
	store := fakes.NewStore()
	id := seedTenant(store, 75, valueobject.VerificationStatusPending, 2, 3)
	calc := newCalculator(store, nil)

	first, err := calc.Compute(context.Background(), id)
	require.NoError(t, err)
	second, err := calc.Compute(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompute_LandlordWithoutProfileGetsNoBonus(t *testing.T) {
	store := fakes.NewStore()
	id := uuid.New()
	store.PutUser(&entity.User{ID: id, Role: valueobject.RoleLandlord, VerificationStatus: valueobject.VerificationStatusApproved})

	score, err := newCalculator(store, nil).Compute(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 70, score.Score)

	store.PutLandlord(&entity.Landlord{ID: id, GuaranteeJoined: true})
	score, err = newCalculator(store, nil).Compute(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 80, score.Score)
	assert.Equal(t, 10, score.Breakdown.RoleBonus)
}

func TestCompute_UnknownUser(t *testing.T) {
	_, err := newCalculator(fakes.NewStore(), nil).Compute(context.Background(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestCompute_PropagatesLookupFailure(t *testing.T) {
	store := fakes.NewStore()
	id := seedTenant(store, 100, valueobject.VerificationStatusApproved)
	store.Errors["RatingRepo.Stats"] = errors.New("connection reset")

	_, err := newCalculator(store, nil).Compute(context.Background(), id)
	assert.Equal(t, apperror.ErrCodeDependencyFailure, apperror.CodeOf(err))
}

func TestUpdateStoredScore_PersistsAndCaches(t *testing.T) {
	store := fakes.NewStore()
	id := seedTenant(store, 100, valueobject.VerificationStatusApproved, 5, 4, 4, 4, 4)
	cache := newMapCache()

	score, err := newCalculator(store, cache).UpdateStoredScore(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 97, store.User(id).TrustScore)
	assert.Equal(t, *score, cache.items[id])
}

func TestGet_UsesCache(t *testing.T) {
	store := fakes.NewStore()
	id := seedTenant(store, 0, valueobject.VerificationStatusPending)
	cache := newMapCache()
	cache.items[id] = service.TrustScore{Score: 42}

	score, err := newCalculator(store, cache).Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 42, score.Score)
}

func TestRefresh_MarksStaleAfterRetry(t *testing.T) {
	store := fakes.NewStore()
	id := seedTenant(store, 100, valueobject.VerificationStatusApproved)
	store.Errors["UserRepo.UpdateTrustScore"] = errors.New("deadlock detected")

	newCalculator(store, nil).Refresh(context.Background(), id)

	user := store.User(id)
	assert.True(t, user.TrustScoreStale)
	assert.Equal(t, 50, user.TrustScore)
}

func TestRefresh_UpdatesEveryUser(t *testing.T) {
	store := fakes.NewStore()
	tenant := seedTenant(store, 100, valueobject.VerificationStatusApproved)
	landlord := uuid.New()
	store.PutUser(&entity.User{ID: landlord, Role: valueobject.RoleLandlord})

	newCalculator(store, nil).Refresh(context.Background(), tenant, landlord)

	assert.Equal(t, 85, store.User(tenant).TrustScore)
	assert.Equal(t, 50, store.User(landlord).TrustScore)
	assert.False(t, store.User(tenant).TrustScoreStale)
}

package rating_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
	"github.com/ignatzorin/rental-backend/internal/usecase/fakes"
	"github.com/ignatzorin/rental-backend/internal/usecase/rating"
)

type deal struct {
	store    *fakes.Store
	trust    *fakes.TrustRefresher
	svc      *rating.Service
	tenant   valueobject.Actor
	landlord valueobject.Actor
	app      *entity.Application
}

func newDeal(status valueobject.ApplicationStatus) *deal {
	store := fakes.NewStore()
	d := &deal{
		store:    store,
		trust:    &fakes.TrustRefresher{},
		tenant:   valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleTenant},
		landlord: valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleLandlord},
	}
	property := &entity.Property{ID: uuid.New(), LandlordID: d.landlord.ID, Status: valueobject.PropertyStatusRented}
	store.PutProperty(property)

	d.app = entity.NewApplication(d.tenant.ID, property.ID, nil, nil, nil, time.Now())
	d.app.Status = status
	store.PutApplication(d.app)

	d.svc = rating.NewService(fakes.NewApplicationRepo(store), fakes.NewPropertyRepo(store), fakes.NewRatingRepo(store), d.trust)
	return d
}

func TestRate_TenantRatesLandlord(t *testing.T) {
	d := newDeal(valueobject.ApplicationStatusApproved)
	comment := " отличный хозяин "

	r, err := d.svc.Rate(context.Background(), rating.RateInput{Actor: d.tenant, ApplicationID: d.app.ID, Score: 5, Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, d.landlord.ID, r.RatedID)
	assert.Equal(t, "отличный хозяин", *r.Comment)
	assert.Equal(t, []uuid.UUID{d.landlord.ID}, d.trust.Users)

	list, err := d.svc.List(context.Background(), d.landlord.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].Score)
}

func TestRate_LandlordRatesTenant(t *testing.T) {
	d := newDeal(valueobject.ApplicationStatusApproved)

	r, err := d.svc.Rate(context.Background(), rating.RateInput{Actor: d.landlord, ApplicationID: d.app.ID, Score: 4})
	require.NoError(t, err)
	assert.Equal(t, d.tenant.ID, r.RatedID)
}

func TestRate_OncePerApplication(t *testing.T) {
	d := newDeal(valueobject.ApplicationStatusApproved)
	in := rating.RateInput{Actor: d.tenant, ApplicationID: d.app.ID, Score: 3}

	_, err := d.svc.Rate(context.Background(), in)
	require.NoError(t, err)

	_, err = d.svc.Rate(context.Background(), in)
	assert.Equal(t, apperror.ErrCodeStateConflict, apperror.CodeOf(err))
}

func TestRate_Rules(t *testing.T) {
	tests := []struct {
		name   string
		status valueobject.ApplicationStatus
		actor  func(d *deal) valueobject.Actor
		score  int
		code   apperror.ErrorCode
	}{
		{"не одобрена", valueobject.ApplicationStatusRejected, func(d *deal) valueobject.Actor { return d.tenant }, 4, apperror.ErrCodeStateConflict},
		{"посторонний", valueobject.ApplicationStatusApproved, func(*deal) valueobject.Actor {
			return valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleTenant}
		}, 4, apperror.ErrCodeForbidden},
		{"оценка вне диапазона", valueobject.ApplicationStatusApproved, func(d *deal) valueobject.Actor { return d.tenant }, 6, apperror.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeal(tt.status)
			_, err := d.svc.Rate(context.Background(), rating.RateInput{Actor: tt.actor(d), ApplicationID: d.app.ID, Score: tt.score})
			assert.Equal(t, tt.code, apperror.CodeOf(err))
			assert.Empty(t, d.trust.Users)
		})
	}
}

func TestRate_CommentTooLong(t *testing.T) {
	d := newDeal(valueobject.ApplicationStatusApproved)
	comment := strings.Repeat("a", 1001)

	_, err := d.svc.Rate(context.Background(), rating.RateInput{Actor: d.tenant, ApplicationID: d.app.ID, Score: 4, Comment: &comment})
	assert.True(t, apperror.IsValidation(err))
}

func TestRate_UnknownApplication(t *testing.T) {
	d := newDeal(valueobject.ApplicationStatusApproved)

	_, err := d.svc.Rate(context.Background(), rating.RateInput{Actor: d.tenant, ApplicationID: uuid.New(), Score: 4})
	assert.True(t, apperror.IsNotFound(err))
}

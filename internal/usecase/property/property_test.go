package property_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
	"github.com/ignatzorin/rental-backend/internal/usecase/fakes"
	"github.com/ignatzorin/rental-backend/internal/usecase/property"
)

func TestCreate_ActiveWithDefaultCurrency(t *testing.T) {
	store := fakes.NewStore()
	svc := property.NewService(fakes.NewPropertyRepo(store), "XOF")
	landlord := valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleLandlord}

	p, err := svc.Create(context.Background(), property.CreateInput{
		Actor: landlord, Title: "Villa Almadies", City: "Dakar", Address: "Route des Almadies", Price: 450000,
	})
	require.NoError(t, err)
	assert.Equal(t, valueobject.PropertyStatusActive, p.Status)
	assert.Equal(t, "XOF", p.Rent.Currency)

	got, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Villa Almadies", got.Title)

	list, err := svc.ListActive(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreate_Validation(t *testing.T) {
	svc := property.NewService(fakes.NewPropertyRepo(fakes.NewStore()), "")
	landlord := valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleLandlord}
	valid := property.CreateInput{Actor: landlord, Title: "Studio Mermoz", City: "Dakar", Address: "Rue 4", Price: 10}

	tests := []struct {
		name  string
		edit  func(in *property.CreateInput)
		field string
	}{
		{name: "zero price", edit: func(in *property.CreateInput) { in.Price = 0 }, field: "price"},
		{name: "blank title", edit: func(in *property.CreateInput) { in.Title = " " }, field: "title"},
		{name: "short title", edit: func(in *property.CreateInput) { in.Title = "ab" }, field: "title"},
		{name: "missing city", edit: func(in *property.CreateInput) { in.City = "" }, field: "city"},
		{name: "missing address", edit: func(in *property.CreateInput) { in.Address = "" }, field: "address"},
		{name: "bad currency", edit: func(in *property.CreateInput) { in.Currency = "EURO" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)

			_, err := svc.Create(context.Background(), in)
			require.True(t, apperror.IsValidation(err), "%v", err)
			if tt.field != "" {
				var appErr *apperror.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, []string{tt.field}, appErr.Details["fields"])
			}
		})
	}
}

func TestCreate_TenantForbidden(t *testing.T) {
	svc := property.NewService(fakes.NewPropertyRepo(fakes.NewStore()), "")

	_, err := svc.Create(context.Background(), property.CreateInput{
		Actor: valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleTenant}, Title: "x", Price: 10,
	})
	assert.True(t, apperror.IsForbidden(err))
}

func TestGet_NotFound(t *testing.T) {
	svc := property.NewService(fakes.NewPropertyRepo(fakes.NewStore()), "")

	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

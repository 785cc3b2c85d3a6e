package property

import (
	"context"
	"errors"
	"strings"
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

type CreateInput struct {
	Actor    valueobject.Actor
	Title    string
	City     string
	Address  string
	Price    float64
	Currency string
}

type Service struct {
	properties      repository.PropertyRepository
	defaultCurrency string
	now             func() time.Time
}

func NewService(properties repository.PropertyRepository, defaultCurrency string) *Service {
	if defaultCurrency == "" {
		defaultCurrency = valueobject.DefaultCurrency
	}
	return &Service{
		properties:      properties,
		defaultCurrency: defaultCurrency,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Create публикует объект арендодателя сразу в статусе active.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Property, error) {
	if !in.Actor.Role.IsLandlord() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "размещать объекты могут только арендодатели")
	}

	if err := validateListing(in); err != nil {
		return nil, err
	}

	currency := strings.TrimSpace(in.Currency)
	if currency == "" {
		currency = s.defaultCurrency
	}
	rent, err := valueobject.NewRent(in.Price, currency)
	if err != nil {
		return nil, err
	}

	property, err := entity.NewProperty(in.Actor.ID, in.Title, in.City, in.Address, rent, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.properties.Create(ctx, property); err != nil {
		return nil, apperror.Dependency(err, "не удалось сохранить объект")
	}

	logger.Log.WithFields(logrus.Fields{
		"property_id": property.ID,
		"landlord_id": property.LandlordID,
	}).Info("property: объект опубликован")
	return property, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.ErrPropertyNotFound
		}
		return nil, apperror.Dependency(err, "не удалось загрузить объект")
	}
	return property, nil
}

// ListActive возвращает доступные для аренды объекты, новые первыми.
func (s *Service) ListActive(ctx context.Context, limit, offset int) ([]*entity.Property, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	properties, err := s.properties.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, apperror.Dependency(err, "не удалось получить список объектов")
	}
	return properties, nil
}

func validateListing(in CreateInput) error {
	if err := validation.ValidateLength("title", validation.SanitizeText(in.Title), validation.MinPropertyTitleLength, validation.MaxPropertyTitleLength); err != nil {
		return err
	}
	if err := validation.ValidateLength("city", validation.SanitizeText(in.City), 1, validation.MaxCityLength); err != nil {
		return err
	}
	return validation.ValidateLength("address", validation.SanitizeText(in.Address), 1, validation.MaxAddressLength)
}

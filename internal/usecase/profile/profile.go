package profile

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/repository"
	"github.com/ignatzorin/rental-backend/internal/domain/service"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/logger"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
	"github.com/ignatzorin/rental-backend/internal/validation"
)

// DocumentStore сохраняет файл документа и возвращает ссылку на него.
type DocumentStore interface {
	Save(ctx context.Context, userID uuid.UUID, kind valueobject.DocumentKind, r io.Reader) (string, int64, error)
	Delete(ctx context.Context, relativePath string) error
}

type TrustRefresher interface {
	Refresh(ctx context.Context, userIDs ...uuid.UUID)
}

type Deps struct {
	Users     repository.UserRepository
	Profiles  repository.ProfileRepository
	Documents DocumentStore
	Trust     TrustRefresher
	Now       func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

type UpdateTenantInput struct {
	Budget            *float64
	PreferredLocation *string
}

// Service управляет ролевыми профилями и статусом верификации.
type Service struct {
	Deps
}

func NewService(deps Deps) *Service {
	return &Service{Deps: deps}
}

// Tenant возвращает профиль арендатора; отсутствующий профиль отдаётся пустым.
func (s *Service) Tenant(ctx context.Context, actor valueobject.Actor) (*entity.Tenant, error) {
	if !actor.Role.IsTenant() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "профиль доступен только арендатору")
	}
	return s.loadTenant(ctx, actor.ID)
}

func (s *Service) UpdateTenant(ctx context.Context, actor valueobject.Actor, in UpdateTenantInput) (*entity.Tenant, error) {
	tenant, err := s.Tenant(ctx, actor)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateBudget(in.Budget); err != nil {
		return nil, err
	}
	if in.Budget != nil {
		budget := *in.Budget
		tenant.Budget = &budget
	}
	if in.PreferredLocation != nil {
		location := validation.SanitizeText(*in.PreferredLocation)
		if err := validation.ValidateLength("preferred_location", location, 0, validation.MaxLocationLength); err != nil {
			return nil, err
		}
		tenant.PreferredLocation = &location
	}

	if err := s.saveTenant(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// UploadDocument сохраняет документ указанного типа, заменяя предыдущий.
func (s *Service) UploadDocument(ctx context.Context, actor valueobject.Actor, kind valueobject.DocumentKind, r io.Reader) (*entity.Tenant, error) {
	tenant, err := s.Tenant(ctx, actor)
	if err != nil {
		return nil, err
	}

	ref, size, err := s.Documents.Save(ctx, actor.ID, kind, r)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.Dependency(err, "не удалось сохранить документ")
	}

	previous := tenant.Documents[kind]
	if tenant.Documents == nil {
		tenant.Documents = valueobject.Documents{}
	}
	tenant.Documents[kind] = ref

	if err := s.saveTenant(ctx, tenant); err != nil {
		_ = s.Documents.Delete(ctx, ref)
		return nil, err
	}
	if previous != "" && previous != ref {
		if err := s.Documents.Delete(ctx, previous); err != nil {
			logger.Log.WithFields(logrus.Fields{"path": previous, "error": err}).Warn("profile: не удалось удалить старый документ")
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"tenant_id": actor.ID,
		"kind":      kind,
		"size":      size,
	}).Info("profile: документ загружен")
	return tenant, nil
}

// JoinGuarantee подключает арендодателя к гарантийной программе.
func (s *Service) JoinGuarantee(ctx context.Context, actor valueobject.Actor) (*entity.Landlord, error) {
	if !actor.Role.IsLandlord() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "гарантийная программа доступна только арендодателям")
	}

	landlord, err := s.Profiles.FindLandlord(ctx, actor.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		landlord = &entity.Landlord{ID: actor.ID}
	case err != nil:
		return nil, apperror.Dependency(err, "не удалось загрузить профиль арендодателя")
	}

	if !landlord.JoinGuarantee(s.now()) {
		return landlord, nil
	}
	if err := s.Profiles.SaveLandlord(ctx, landlord); err != nil {
		return nil, apperror.Dependency(err, "не удалось сохранить профиль арендодателя")
	}
	s.refresh(ctx, actor.ID)
	return landlord, nil
}

// SetVerification меняет статус верификации пользователя. Только для администратора.
func (s *Service) SetVerification(ctx context.Context, actor valueobject.Actor, userID uuid.UUID, status valueobject.VerificationStatus) (*entity.User, error) {
	if !actor.Role.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Dependency(err, "не удалось загрузить пользователя")
	}
	if user.VerificationStatus == status {
		return user, nil
	}

	if err := s.Users.UpdateVerificationStatus(ctx, userID, status); err != nil {
		return nil, apperror.Dependency(err, "не удалось обновить статус верификации")
	}
	user.VerificationStatus = status

	logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"status":  status,
		"admin":   actor.ID,
	}).Info("profile: статус верификации изменён")
	s.refresh(ctx, userID)
	return user, nil
}

func (s *Service) loadTenant(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	tenant, err := s.Profiles.FindTenant(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return &entity.Tenant{ID: id, Documents: valueobject.Documents{}}, nil
	case err != nil:
		return nil, apperror.Dependency(err, "не удалось загрузить профиль арендатора")
	}
	return tenant, nil
}

// saveTenant пересчитывает заполненность и, если она изменилась, оценку доверия.
func (s *Service) saveTenant(ctx context.Context, tenant *entity.Tenant) error {
	before := tenant.ProfileCompletion
	tenant.ProfileCompletion = service.ProfileCompletion(tenant)
	tenant.UpdatedAt = s.now()

	if err := s.Profiles.SaveTenant(ctx, tenant); err != nil {
		tenant.ProfileCompletion = before
		return apperror.Dependency(err, "не удалось сохранить профиль арендатора")
	}
	if tenant.ProfileCompletion != before {
		s.refresh(ctx, tenant.ID)
	}
	return nil
}

func (s *Service) refresh(ctx context.Context, userID uuid.UUID) {
	if s.Trust != nil {
		s.Trust.Refresh(ctx, userID)
	}
}

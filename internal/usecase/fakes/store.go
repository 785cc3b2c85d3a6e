// Package fakes содержит in-memory реализации репозиториев для тестов usecase-слоя.
package fakes

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/repository"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
)

// Store хранит копии сущностей, как это делала бы база.
// Errors позволяет подменить результат метода по имени "Repo.Method".
type Store struct {
	mu           sync.Mutex
	users        map[uuid.UUID]entity.User
	tenants      map[uuid.UUID]entity.Tenant
	landlords    map[uuid.UUID]entity.Landlord
	properties   map[uuid.UUID]entity.Property
	applications map[uuid.UUID]entity.Application
	transactions map[uuid.UUID]entity.Transaction
	ratings      []entity.Rating

	Errors map[string]error
}

func NewStore() *Store {
	return &Store{
		users:        make(map[uuid.UUID]entity.User),
		tenants:      make(map[uuid.UUID]entity.Tenant),
		landlords:    make(map[uuid.UUID]entity.Landlord),
		properties:   make(map[uuid.UUID]entity.Property),
		applications: make(map[uuid.UUID]entity.Application),
		transactions: make(map[uuid.UUID]entity.Transaction),
		Errors:       make(map[string]error),
	}
}

func (s *Store) fail(name string) error {
	return s.Errors[name]
}

func (s *Store) PutUser(u *entity.User)         { s.mu.Lock(); s.users[u.ID] = *u; s.mu.Unlock() }
func (s *Store) PutTenant(t *entity.Tenant)     { s.mu.Lock(); s.tenants[t.ID] = *t; s.mu.Unlock() }
func (s *Store) PutLandlord(l *entity.Landlord) { s.mu.Lock(); s.landlords[l.ID] = *l; s.mu.Unlock() }
func (s *Store) PutProperty(p *entity.Property) { s.mu.Lock(); s.properties[p.ID] = *p; s.mu.Unlock() }
func (s *Store) PutRating(r *entity.Rating)     { s.mu.Lock(); s.ratings = append(s.ratings, *r); s.mu.Unlock() }

func (s *Store) PutApplication(a *entity.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applications[a.ID] = *a
}

func (s *Store) PutTransaction(t *entity.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[t.ID] = *t
}

func (s *Store) User(id uuid.UUID) entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *Store) Tenant(id uuid.UUID) entity.Tenant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tenants[id]
}

func (s *Store) Landlord(id uuid.UUID) entity.Landlord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.landlords[id]
}

func (s *Store) Property(id uuid.UUID) entity.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.properties[id]
}

func (s *Store) Application(id uuid.UUID) entity.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applications[id]
}

func (s *Store) ApplicationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.applications)
}

func (s *Store) TransactionFor(applicationID uuid.UUID) (entity.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transactions {
		if t.ApplicationID == applicationID {
			return t, true
		}
	}
	return entity.Transaction{}, false
}

func (s *Store) snapshot() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := NewStore()
	for k, v := range s.users {
		cp.users[k] = v
	}
	for k, v := range s.tenants {
		cp.tenants[k] = v
	}
	for k, v := range s.landlords {
		cp.landlords[k] = v
	}
	for k, v := range s.properties {
		cp.properties[k] = v
	}
	for k, v := range s.applications {
		cp.applications[k] = v
	}
	for k, v := range s.transactions {
		cp.transactions[k] = v
	}
	cp.ratings = append(cp.ratings, s.ratings...)
	return cp
}

func (s *Store) restore(from *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.tenants, s.landlords = from.users, from.tenants, from.landlords
	s.properties, s.applications, s.transactions = from.properties, from.applications, from.transactions
	s.ratings = from.ratings
}

// Transactor откатывает изменения Store, если fn вернула ошибку.
// BeforeBegin имитирует конкурентную запись, зафиксированную до начала транзакции.
type Transactor struct {
	s           *Store
	Commits     int
	BeforeBegin func()
}

func NewTransactor(s *Store) *Transactor {
	return &Transactor{s: s}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.BeforeBegin != nil {
		t.BeforeBegin()
	}
	snap := t.s.snapshot()
	if err := fn(ctx); err != nil {
		t.s.restore(snap)
		return err
	}
	t.Commits++
	return nil
}

type ApplicationRepo struct{ s *Store }

func NewApplicationRepo(s *Store) *ApplicationRepo { return &ApplicationRepo{s: s} }

var _ repository.ApplicationRepository = (*ApplicationRepo)(nil)

func (r *ApplicationRepo) Create(ctx context.Context, app *entity.Application) error {
	if err := r.s.fail("ApplicationRepo.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.applications {
		if a.TenantID == app.TenantID && a.PropertyID == app.PropertyID {
			return repository.ErrDuplicate
		}
	}
	r.s.applications[app.ID] = *app
	return nil
}

func (r *ApplicationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	if err := r.s.fail("ApplicationRepo.FindByID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *ApplicationRepo) FindByTenantAndProperty(ctx context.Context, tenantID, propertyID uuid.UUID) (*entity.Application, error) {
	if err := r.s.fail("ApplicationRepo.FindByTenantAndProperty"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.applications {
		if a.TenantID == tenantID && a.PropertyID == propertyID {
			found := a
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *ApplicationRepo) TransitionStatus(ctx context.Context, app *entity.Application, from []valueobject.ApplicationStatus) error {
	if err := r.s.fail("ApplicationRepo.TransitionStatus"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.applications[app.ID]
	if !ok {
		return repository.ErrStatusConflict
	}
	for _, st := range from {
		if current.Status == st {
			r.s.applications[app.ID] = *app
			return nil
		}
	}
	return repository.ErrStatusConflict
}

func (r *ApplicationRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]entity.ApplicationView, error) {
	if err := r.s.fail("ApplicationRepo.ListByTenant"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var views []entity.ApplicationView
	for _, a := range r.s.applications {
		if a.TenantID != tenantID {
			continue
		}
		app := a
		p := r.s.properties[a.PropertyID]
		landlord := r.s.users[p.LandlordID]
		views = append(views, entity.ApplicationView{
			Application: &app,
			Property:    &p,
			Landlord: entity.LandlordSignals{
				ID:                 landlord.ID,
				Name:               landlord.Name,
				TrustScore:         landlord.TrustScore,
				VerificationStatus: landlord.VerificationStatus,
				GuaranteeJoined:    r.s.landlords[p.LandlordID].GuaranteeJoined,
			},
		})
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].Application.CreatedAt.After(views[j].Application.CreatedAt)
	})
	return views, nil
}

func (r *ApplicationRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.ApplicantView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var views []entity.ApplicantView
	for _, a := range r.s.applications {
		if a.PropertyID != propertyID {
			continue
		}
		app := a
		views = append(views, entity.ApplicantView{
			Application:       &app,
			TenantName:        r.s.users[a.TenantID].Name,
			TenantTrustScore:  r.s.users[a.TenantID].TrustScore,
			ProfileCompletion: r.s.tenants[a.TenantID].ProfileCompletion,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].Application.CreatedAt.After(views[j].Application.CreatedAt)
	})
	return views, nil
}

func (r *ApplicationRepo) ListUnsettled(ctx context.Context, limit int) ([]*entity.Application, error) {
	if err := r.s.fail("ApplicationRepo.ListUnsettled"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Application
	for _, t := range r.s.transactions {
		a, ok := r.s.applications[t.ApplicationID]
		if ok && a.Status.IsTerminal() && t.Status == valueobject.TransactionStatusHeld && len(out) < limit {
			app := a
			out = append(out, &app)
		}
	}
	return out, nil
}

func (r *ApplicationRepo) ListApprovedNotRented(ctx context.Context, limit int) ([]*entity.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Application
	for _, a := range r.s.applications {
		if a.Status == valueobject.ApplicationStatusApproved &&
			r.s.properties[a.PropertyID].Status != valueobject.PropertyStatusRented && len(out) < limit {
			app := a
			out = append(out, &app)
		}
	}
	return out, nil
}

type TransactionRepo struct{ s *Store }

func NewTransactionRepo(s *Store) *TransactionRepo { return &TransactionRepo{s: s} }

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

func (r *TransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	if err := r.s.fail("TransactionRepo.Create"); err != nil {
		return err
	}
	r.s.PutTransaction(tx)
	return nil
}

func (r *TransactionRepo) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*entity.Transaction, error) {
	if err := r.s.fail("TransactionRepo.FindByApplicationID"); err != nil {
		return nil, err
	}
	t, ok := r.s.TransactionFor(applicationID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *TransactionRepo) Settle(ctx context.Context, tx *entity.Transaction) error {
	if err := r.s.fail("TransactionRepo.Settle"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.transactions[tx.ID]
	if !ok || current.Status != valueobject.TransactionStatusHeld {
		return repository.ErrStatusConflict
	}
	r.s.transactions[tx.ID] = *tx
	return nil
}

type PropertyRepo struct{ s *Store }

func NewPropertyRepo(s *Store) *PropertyRepo { return &PropertyRepo{s: s} }

var _ repository.PropertyRepository = (*PropertyRepo)(nil)

func (r *PropertyRepo) Create(ctx context.Context, p *entity.Property) error {
	if err := r.s.fail("PropertyRepo.Create"); err != nil {
		return err
	}
	r.s.PutProperty(p)
	return nil
}

func (r *PropertyRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	if err := r.s.fail("PropertyRepo.FindByID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.properties[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *PropertyRepo) ListActive(ctx context.Context, limit, offset int) ([]*entity.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Property
	for _, p := range r.s.properties {
		if p.Status == valueobject.PropertyStatusActive {
			prop := p
			out = append(out, &prop)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *PropertyRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.PropertyStatus) error {
	if err := r.s.fail("PropertyRepo.UpdateStatus"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.properties[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	r.s.properties[id] = p
	return nil
}

type UserRepo struct{ s *Store }

func NewUserRepo(s *Store) *UserRepo { return &UserRepo{s: s} }

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.ProfileRepository = (*UserRepo)(nil)
)

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if err := r.s.fail("UserRepo.FindByID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) UpdateTrustScore(ctx context.Context, id uuid.UUID, score int) error {
	if err := r.s.fail("UserRepo.UpdateTrustScore"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.TrustScore = score
	u.TrustScoreStale = false
	r.s.users[id] = u
	return nil
}

func (r *UserRepo) MarkTrustScoreStale(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := r.s.users[id]
	u.TrustScoreStale = true
	r.s.users[id] = u
	return nil
}

func (r *UserRepo) ListStaleTrustScores(ctx context.Context, limit int) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []uuid.UUID
	for id, u := range r.s.users {
		if u.TrustScoreStale && len(ids) < limit {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *UserRepo) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status valueobject.VerificationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.VerificationStatus = status
	r.s.users[id] = u
	return nil
}

func (r *UserRepo) FindTenant(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	if err := r.s.fail("UserRepo.FindTenant"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tenants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.Documents = t.Documents.Clone()
	return &t, nil
}

func (r *UserRepo) SaveTenant(ctx context.Context, t *entity.Tenant) error {
	if err := r.s.fail("UserRepo.SaveTenant"); err != nil {
		return err
	}
	cp := *t
	cp.Documents = t.Documents.Clone()
	r.s.PutTenant(&cp)
	return nil
}

func (r *UserRepo) FindLandlord(ctx context.Context, id uuid.UUID) (*entity.Landlord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.landlords[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (r *UserRepo) SaveLandlord(ctx context.Context, l *entity.Landlord) error {
	r.s.PutLandlord(l)
	return nil
}

type RatingRepo struct{ s *Store }

func NewRatingRepo(s *Store) *RatingRepo { return &RatingRepo{s: s} }

var _ repository.RatingRepository = (*RatingRepo)(nil)

func (r *RatingRepo) Create(ctx context.Context, rating *entity.Rating) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.ratings {
		if existing.RaterID == rating.RaterID && existing.ApplicationID == rating.ApplicationID {
			return repository.ErrDuplicate
		}
	}
	r.s.ratings = append(r.s.ratings, *rating)
	return nil
}

func (r *RatingRepo) Stats(ctx context.Context, ratedID uuid.UUID) (entity.RatingStats, error) {
	if err := r.s.fail("RatingRepo.Stats"); err != nil {
		return entity.RatingStats{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var stats entity.RatingStats
	sum := 0
	for _, rt := range r.s.ratings {
		if rt.RatedID == ratedID {
			stats.Count++
			sum += rt.Score
		}
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	return stats, nil
}

func (r *RatingRepo) ListByRated(ctx context.Context, ratedID uuid.UUID, limit, offset int) ([]*entity.Rating, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Rating
	for i := len(r.s.ratings) - 1; i >= 0; i-- {
		if r.s.ratings[i].RatedID == ratedID {
			rt := r.s.ratings[i]
			out = append(out, &rt)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakePlanRepo mirrors the store's fallback path: archive, then insert.
type fakePlanRepo struct {
	mu    sync.Mutex
	plans []*domain.WorkoutPlan

	insertErr      error // returned by the insert step of Regenerate
	transientReads int   // GetActiveByUserID fails this many times first
	activeReads    int
}

func (r *fakePlanRepo) copyOf(p *domain.WorkoutPlan) *domain.WorkoutPlan {
	cp := *p
	cp.PlanData = *p.PlanData.Clone()
	cp.AppliedEditKeys = append([]string(nil), p.AppliedEditKeys...)
	return &cp
}

func (r *fakePlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plans {
		if p.ID == id {
			return r.copyOf(p), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePlanRepo) GetActiveByUserID(_ context.Context, userID string) (*domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeReads++
	if r.transientReads > 0 {
		r.transientReads--
		return nil, domain.ErrTransientIO
	}
	for _, p := range r.plans {
		if p.UserID == userID && p.Status == domain.PlanStatusActive {
			return r.copyOf(p), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePlanRepo) ListByUserID(_ context.Context, userID string) ([]domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.WorkoutPlan{}
	for _, p := range r.plans {
		if p.UserID == userID {
			out = append(out, *r.copyOf(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakePlanRepo) GetByIdempotencyKey(_ context.Context, userID, key string) (*domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plans {
		if key != "" && p.UserID == userID && p.IdempotencyKey == key {
			return r.copyOf(p), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePlanRepo) Regenerate(_ context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, p := range r.plans {
		if p.UserID == plan.UserID && p.IsActive() {
			if err := p.Archive(now); err != nil {
				return nil, err
			}
		}
	}
	if r.insertErr != nil {
		return nil, r.insertErr
	}

	plan.ID = primitive.NewObjectID()
	plan.Status = domain.PlanStatusActive
	// Strictly increasing so newest-first ordering is deterministic.
	plan.CreatedAt = now.Add(time.Duration(len(r.plans)) * time.Millisecond)
	plan.UpdatedAt = plan.CreatedAt
	r.plans = append(r.plans, r.copyOf(plan))
	return plan, nil
}

func (r *fakePlanRepo) ReplacePlanData(_ context.Context, planID primitive.ObjectID, userID string, data *domain.PlanData, editKey string) (*domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plans {
		if p.ID != planID || p.UserID != userID {
			continue
		}
		if p.HasAppliedEdit(editKey) {
			return r.copyOf(p), nil
		}
		if p.Status != domain.PlanStatusActive {
			return nil, repository.ErrConflict
		}
		p.PlanData = *data.Clone()
		if data.PlanName != "" {
			p.PlanName = data.PlanName
		}
		if editKey != "" {
			p.AppliedEditKeys = append(p.AppliedEditKeys, editKey)
		}
		p.UpdatedAt = time.Now().UTC()
		return r.copyOf(p), nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakePlanRepo) activeCount(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.plans {
		if p.UserID == userID && p.Status == domain.PlanStatusActive {
			n++
		}
	}
	return n
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*domain.UserProfile{}}
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	stored := profile.Snapshot()
	if prev, ok := r.profiles[profile.UserID]; ok {
		stored.ID = prev.ID
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.ID = primitive.NewObjectID()
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.profiles[profile.UserID] = stored
	return stored.Snapshot(), nil
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p.Snapshot(), nil
}

func (r *fakeProfileRepo) UpdateBasics(_ context.Context, userID, fullName string, level domain.FitnessLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return repository.ErrNotFound
	}
	p.FullName = fullName
	p.FitnessLevel = level
	return nil
}

type fakeCompletionRepo struct {
	mu          sync.Mutex
	completions []domain.WorkoutCompletion
}

func (r *fakeCompletionRepo) Create(_ context.Context, c *domain.WorkoutCompletion) (*domain.WorkoutCompletion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ClientRequestID != "" {
		for i := range r.completions {
			existing := r.completions[i]
			if existing.UserID == c.UserID && existing.ClientRequestID == c.ClientRequestID {
				return &existing, repository.ErrDuplicate
			}
		}
	}
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	if c.WorkoutDate.IsZero() {
		c.WorkoutDate = c.CreatedAt
	}
	r.completions = append(r.completions, *c)
	return c, nil
}

func (r *fakeCompletionRepo) ListByUserID(_ context.Context, userID string) ([]domain.WorkoutCompletion, error) {
	return r.filter(func(c domain.WorkoutCompletion) bool { return c.UserID == userID }), nil
}

func (r *fakeCompletionRepo) ListByPlanID(_ context.Context, userID string, planID primitive.ObjectID) ([]domain.WorkoutCompletion, error) {
	return r.filter(func(c domain.WorkoutCompletion) bool { return c.UserID == userID && c.PlanID == planID }), nil
}

func (r *fakeCompletionRepo) filter(keep func(domain.WorkoutCompletion) bool) []domain.WorkoutCompletion {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.WorkoutCompletion{}
	for _, c := range r.completions {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

type fakeMeasurementRepo struct {
	mu           sync.Mutex
	measurements []domain.BodyMeasurement
}

func (r *fakeMeasurementRepo) Create(_ context.Context, m *domain.BodyMeasurement) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()
	if m.MeasurementDate.IsZero() {
		m.MeasurementDate = m.CreatedAt
	}
	r.measurements = append(r.measurements, *m)
	return m.ID, nil
}

func (r *fakeMeasurementRepo) ListByUserID(_ context.Context, userID string) ([]domain.BodyMeasurement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.BodyMeasurement{}
	for _, m := range r.measurements {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MeasurementDate.Before(out[j].MeasurementDate) })
	return out, nil
}

type fakeExportRepo struct {
	mu      sync.Mutex
	exports []domain.PlanExport
	err     error
}

func (r *fakeExportRepo) Create(_ context.Context, e *domain.PlanExport) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return primitive.NilObjectID, r.err
	}
	e.ID = primitive.NewObjectID()
	e.ExportedAt = time.Now().UTC()
	r.exports = append(r.exports, *e)
	return e.ID, nil
}

func (r *fakeExportRepo) GetLatestByPlanID(_ context.Context, planID primitive.ObjectID) (*domain.PlanExport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.exports) - 1; i >= 0; i-- {
		if r.exports[i].PlanID == planID {
			e := r.exports[i]
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) PutObject(_ context.Context, key, _ string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), body...)
	return nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/" + key + "?sig=abc", nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	r.users[user.Email] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/metrics"
	"fittrack/planner/internal/planstore"
	"fittrack/planner/internal/repository"
	"fittrack/planner/internal/storage"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatEditResult is the outcome of a conversational plan edit.
type ChatEditResult struct {
	Message string              `json:"message"`
	Updated bool                `json:"updated"`
	Plan    *domain.WorkoutPlan `json:"plan,omitempty"`
}

// ExportResult points at a plan snapshot in object storage.
type ExportResult struct {
	Export      *domain.PlanExport `json:"export"`
	DownloadURL string             `json:"downloadUrl"`
}

type PlanService interface {
	GetActivePlan(ctx context.Context, userID string) (*domain.WorkoutPlan, error)
	GetPlan(ctx context.Context, userID string, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	ListPlans(ctx context.Context, userID string) ([]domain.WorkoutPlan, error)

	// Onboard stores the profile and creates the first (or a replacement) plan from it.
	Onboard(ctx context.Context, userID string, profile *domain.UserProfile, idempotencyKey string) (*domain.WorkoutPlan, error)
	// RegenerateFromProfile generates a new plan from the stored profile.
	RegenerateFromProfile(ctx context.Context, userID, idempotencyKey string) (*domain.WorkoutPlan, error)
	// Regenerate archives the active plan and stores planData as the new active plan.
	Regenerate(ctx context.Context, userID string, planData *domain.PlanData, snapshot *domain.UserProfile, idempotencyKey string) (*domain.WorkoutPlan, error)

	EditExercise(ctx context.Context, userID string, pos planstore.Position, index int, field, value, editKey string) (*domain.WorkoutPlan, error)
	AddExercise(ctx context.Context, userID string, pos planstore.Position, exercise *domain.Exercise, editKey string) (*domain.WorkoutPlan, error)
	RemoveExercise(ctx context.Context, userID string, pos planstore.Position, index int, editKey string) (*domain.WorkoutPlan, error)
	ChatEdit(ctx context.Context, userID, instruction, editKey string) (*ChatEditResult, error)

	ExportPlan(ctx context.Context, userID string, planID primitive.ObjectID) (*ExportResult, error)
}

type PlanServiceDeps struct {
	Plans    repository.PlanRepository
	Profiles repository.ProfileRepository
	Exports  repository.ExportRepository
	Coach    PlanCoach
	Storage  storage.FileStorage // nil disables exports
	Metrics  *metrics.Manager

	Store        StoreOptions
	CoachTimeout time.Duration
	URLExpiry    time.Duration
	Now          func() time.Time
}

// planService implements the PlanService interface.
type planService struct {
	plans    repository.PlanRepository
	profiles repository.ProfileRepository
	exports  repository.ExportRepository
	coach    PlanCoach
	storage  storage.FileStorage
	metrics  *metrics.Manager

	store        StoreOptions
	coachTimeout time.Duration
	urlExpiry    time.Duration
	now          func() time.Time
}

// NewPlanService creates a new instance of planService.
func NewPlanService(deps PlanServiceDeps) PlanService {
	if deps.CoachTimeout <= 0 {
		deps.CoachTimeout = 60 * time.Second
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &planService{
		plans:        deps.Plans,
		profiles:     deps.Profiles,
		exports:      deps.Exports,
		coach:        deps.Coach,
		storage:      deps.Storage,
		metrics:      deps.Metrics,
		store:        deps.Store.withDefaults(),
		coachTimeout: deps.CoachTimeout,
		urlExpiry:    deps.URLExpiry,
		now:          deps.Now,
	}
}

// GetActivePlan returns the plan the user follows, or domain.ErrNoPlan.
func (s *planService) GetActivePlan(ctx context.Context, userID string) (*domain.WorkoutPlan, error) {
	plan, err := read(ctx, s.store, func(ctx context.Context) (*domain.WorkoutPlan, error) {
		return s.plans.GetActiveByUserID(ctx, userID)
	})
	if err != nil {
		return nil, notFoundAs(err, domain.ErrNoPlan)
	}
	return plan, nil
}

// GetPlan returns any plan of the user. Plans of other users look missing.
func (s *planService) GetPlan(ctx context.Context, userID string, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := read(ctx, s.store, func(ctx context.Context) (*domain.WorkoutPlan, error) {
		return s.plans.GetByID(ctx, planID)
	})
	if err != nil {
		return nil, notFoundAs(err, domain.ErrNotFound)
	}
	if plan.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return plan, nil
}

// ListPlans returns the plan history, newest first.
func (s *planService) ListPlans(ctx context.Context, userID string) ([]domain.WorkoutPlan, error) {
	return read(ctx, s.store, func(ctx context.Context) ([]domain.WorkoutPlan, error) {
		return s.plans.ListByUserID(ctx, userID)
	})
}

func (s *planService) Onboard(ctx context.Context, userID string, profile *domain.UserProfile, idempotencyKey string) (*domain.WorkoutPlan, error) {
	if existing, ok := s.replayed(ctx, userID, idempotencyKey); ok {
		return existing, nil
	}

	profile.UserID = userID
	if profile.FitnessLevel == "" && profile.FitnessAssessment != nil {
		profile.FitnessLevel = profile.FitnessAssessment.Level()
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	stored, err := write(ctx, s.store, func(ctx context.Context) (*domain.UserProfile, error) {
		return s.profiles.Upsert(ctx, profile)
	})
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	return s.generateAndStore(ctx, stored, idempotencyKey)
}

func (s *planService) RegenerateFromProfile(ctx context.Context, userID, idempotencyKey string) (*domain.WorkoutPlan, error) {
	if existing, ok := s.replayed(ctx, userID, idempotencyKey); ok {
		return existing, nil
	}

	profile, err := read(ctx, s.store, func(ctx context.Context) (*domain.UserProfile, error) {
		return s.profiles.GetByUserID(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, validationErr("complete onboarding before regenerating a plan")
		}
		return nil, err
	}
	return s.generateAndStore(ctx, profile, idempotencyKey)
}

func (s *planService) generateAndStore(ctx context.Context, profile *domain.UserProfile, idempotencyKey string) (*domain.WorkoutPlan, error) {
	genCtx, cancel := context.WithTimeout(ctx, s.coachTimeout)
	defer cancel()

	data, err := s.coach.GeneratePlan(genCtx, profile)
	if err != nil {
		return nil, err
	}
	if err := planstore.ValidatePlanData(data); err != nil {
		log.WithFields(log.Fields{"user": profile.UserID}).Warnf("generated plan rejected: %s", err)
		return nil, err
	}

	return s.Regenerate(ctx, profile.UserID, data, profile.Snapshot(), idempotencyKey)
}

func (s *planService) Regenerate(ctx context.Context, userID string, planData *domain.PlanData, snapshot *domain.UserProfile, idempotencyKey string) (*domain.WorkoutPlan, error) {
	if err := planstore.ValidatePlanData(planData); err != nil {
		return nil, err
	}
	if existing, ok := s.replayed(ctx, userID, idempotencyKey); ok {
		return existing, nil
	}

	plan := &domain.WorkoutPlan{
		UserID:          userID,
		PlanName:        planData.PlanName,
		PlanData:        *planData.Clone(),
		ProfileSnapshot: snapshot,
		IdempotencyKey:  idempotencyKey,
	}

	created, err := write(ctx, s.store, func(ctx context.Context) (*domain.WorkoutPlan, error) {
		return s.plans.Regenerate(ctx, plan)
	})
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		// A concurrent request with the same key won the race.
		if existing, ok := s.replayed(ctx, userID, idempotencyKey); ok {
			return existing, nil
		}
		return nil, ErrConflict
	case errors.Is(err, repository.ErrConflict):
		return nil, ErrConflict
	case err != nil:
		log.WithFields(log.Fields{"user": userID}).Errorf("regenerate plan: %s", err)
		return nil, fmt.Errorf("regenerate plan: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CounterPlanRegenerations.Inc()
	}
	log.WithFields(log.Fields{
		"user":  userID,
		"plan":  created.ID.Hex(),
		"weeks": created.PlanData.TotalWeeks(),
	}).Info("new active plan stored")
	return created, nil
}

// replayed finds the plan an earlier request with the same key created.
func (s *planService) replayed(ctx context.Context, userID, key string) (*domain.WorkoutPlan, bool) {
	if key == "" {
		return nil, false
	}
	plan, err := read(ctx, s.store, func(ctx context.Context) (*domain.WorkoutPlan, error) {
		return s.plans.GetByIdempotencyKey(ctx, userID, key)
	})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.WithFields(log.Fields{"user": userID}).Warnf("idempotency lookup failed: %s", err)
		}
		return nil, false
	}
	return plan, true
}

func (s *planService) EditExercise(ctx context.Context, userID string, pos planstore.Position, index int, field, value, editKey string) (*domain.WorkoutPlan, error) {
	return s.mutateActive(ctx, userID, editKey, func(data *domain.PlanData) (*domain.PlanData, error) {
		return planstore.ApplyExerciseEdit(data, pos.Week, pos.Day, index, field, value)
	})
}

// AddExercise appends exercise, or the editor's default exercise when nil.
func (s *planService) AddExercise(ctx context.Context, userID string, pos planstore.Position, exercise *domain.Exercise, editKey string) (*domain.WorkoutPlan, error) {
	ex := domain.NewDefaultExercise()
	if exercise != nil {
		ex = *exercise
	}
	return s.mutateActive(ctx, userID, editKey, func(data *domain.PlanData) (*domain.PlanData, error) {
		return planstore.AddExercise(data, pos.Week, pos.Day, ex)
	})
}

func (s *planService) RemoveExercise(ctx context.Context, userID string, pos planstore.Position, index int, editKey string) (*domain.WorkoutPlan, error) {
	return s.mutateActive(ctx, userID, editKey, func(data *domain.PlanData) (*domain.PlanData, error) {
		return planstore.RemoveExercise(data, pos.Week, pos.Day, index)
	})
}

func (s *planService) mutateActive(ctx context.Context, userID, editKey string, mutate func(*domain.PlanData) (*domain.PlanData, error)) (*domain.WorkoutPlan, error) {
	plan, err := s.GetActivePlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if plan.HasAppliedEdit(editKey) {
		return plan, nil
	}

	data, err := mutate(&plan.PlanData)
	if err != nil {
		return nil, err
	}
	return s.replaceData(ctx, plan, data, editKey)
}

func (s *planService) replaceData(ctx context.Context, plan *domain.WorkoutPlan, data *domain.PlanData, editKey string) (*domain.WorkoutPlan, error) {
	updated, err := write(ctx, s.store, func(ctx context.Context) (*domain.WorkoutPlan, error) {
		return s.plans.ReplacePlanData(ctx, plan.ID, plan.UserID, data, editKey)
	})
	switch {
	case errors.Is(err, repository.ErrConflict):
		// The plan was archived between our read and the write.
		return nil, ErrConflict
	case err != nil:
		return nil, notFoundAs(err, domain.ErrNoPlan)
	}
	return updated, nil
}

func (s *planService) ChatEdit(ctx context.Context, userID, instruction, editKey string) (*ChatEditResult, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, validationErr("message is required")
	}

	plan, err := s.GetActivePlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if plan.HasAppliedEdit(editKey) {
		return &ChatEditResult{Message: "This change is already part of your plan.", Updated: true, Plan: plan}, nil
	}

	genCtx, cancel := context.WithTimeout(ctx, s.coachTimeout)
	defer cancel()
	res, err := s.coach.EditPlan(genCtx, &plan.PlanData, instruction)
	if err != nil {
		return nil, err
	}
	if !res.Changed() {
		return &ChatEditResult{Message: res.Message, Plan: plan}, nil
	}

	candidate, err := planstore.ApplyWholePlanReplacement(plan, res.PlanData, s.now().UTC())
	if err != nil {
		log.WithFields(log.Fields{"user": userID, "plan": plan.ID.Hex()}).Warnf("edited plan rejected: %s", err)
		return nil, err
	}

	updated, err := s.replaceData(ctx, plan, &candidate.PlanData, editKey)
	if err != nil {
		return nil, err
	}
	return &ChatEditResult{Message: res.Message, Updated: true, Plan: updated}, nil
}

// ExportPlan writes a JSON snapshot of the plan to object storage.
func (s *planService) ExportPlan(ctx context.Context, userID string, planID primitive.ObjectID) (*ExportResult, error) {
	if s.storage == nil || s.exports == nil {
		return nil, ErrExportDisabled
	}

	plan, err := s.GetPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}

	key := storage.PlanExportKey(userID, plan.ID.Hex())
	const contentType = "application/json"
	if err := s.storage.PutObject(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("%w: upload export: %v", domain.ErrTransientIO, err)
	}

	export := &domain.PlanExport{
		PlanID:      plan.ID,
		UserID:      userID,
		S3ObjectKey: key,
		ContentType: contentType,
		Size:        int64(len(body)),
	}
	if _, err := write(ctx, s.store, func(ctx context.Context) (primitive.ObjectID, error) {
		return s.exports.Create(ctx, export)
	}); err != nil {
		// Drop the orphaned object.
		if delErr := s.storage.DeleteObject(ctx, key); delErr != nil {
			log.Warnf("failed to delete orphaned export %s: %s", key, delErr)
		}
		return nil, fmt.Errorf("save export metadata: %w", err)
	}

	url, err := s.storage.GeneratePresignedDownloadURL(ctx, key, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: presign export: %v", domain.ErrTransientIO, err)
	}
	return &ExportResult{Export: export, DownloadURL: url}, nil
}

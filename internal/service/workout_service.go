package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/metrics"
	"fittrack/planner/internal/planstore"
	"fittrack/planner/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutView is one workout day of the active plan with paging hints.
type WorkoutView struct {
	PlanID      primitive.ObjectID `json:"planId"`
	PlanName    string             `json:"planName"`
	Position    planstore.Position `json:"position"`
	TotalWeeks  int                `json:"totalWeeks"`
	Day         *domain.WorkoutDay `json:"day"`
	Exercises   []ExerciseView     `json:"exercises"`
	HasPrevious bool               `json:"hasPrevious"`
	HasNext     bool               `json:"hasNext"`
}

// ExerciseView is a prescribed exercise with its resolved weight flag, so
// clients know whether to ask for a weight per set.
type ExerciseView struct {
	domain.Exercise
	UsesWeights bool `json:"uses_weights"`
}

// CompletionInput is a finished workout reported by the client.
type CompletionInput struct {
	WeekNumber         int                        `json:"week_number"`
	DayNumber          int                        `json:"day_number"`
	WorkoutDate        *time.Time                 `json:"workout_date,omitempty"`
	ExercisesCompleted []domain.CompletedExercise `json:"exercises_completed"`
	DurationMinutes    *int                       `json:"duration_minutes,omitempty"`
	Notes              string                     `json:"notes,omitempty"`
	ClientRequestID    string                     `json:"client_request_id,omitempty"`
}

// HistoryEntry is a completion with its derived volume.
type HistoryEntry struct {
	domain.WorkoutCompletion
	Volume float64 `json:"volume"`
}

// PlanOverview is a plan with the days already done.
type PlanOverview struct {
	Plan            *domain.WorkoutPlan `json:"plan"`
	CompletedDays   []string            `json:"completedDays"` // "week-day"
	CurrentWeek     int                 `json:"currentWeek"`
	ProgressPercent int                 `json:"progressPercent"`
}

type WorkoutService interface {
	NextWorkout(ctx context.Context, userID string, override *planstore.Position) (*WorkoutView, error)
	AdjacentWorkout(ctx context.Context, userID string, from planstore.Position, dir planstore.Direction) (*WorkoutView, error)
	// CompleteWorkout appends a completion. created is false when ClientRequestID
	// matched an earlier request and the stored record is returned instead.
	CompleteWorkout(ctx context.Context, userID string, input CompletionInput) (completion *domain.WorkoutCompletion, created bool, err error)
	History(ctx context.Context, userID string) ([]HistoryEntry, error)
	// PlanOverview describes planID, or the active plan when planID is nil.
	PlanOverview(ctx context.Context, userID string, planID primitive.ObjectID) (*PlanOverview, error)
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	plans       PlanService
	completions repository.CompletionRepository
	metrics     *metrics.Manager
	store       StoreOptions
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(plans PlanService, completions repository.CompletionRepository, m *metrics.Manager, store StoreOptions) WorkoutService {
	return &workoutService{
		plans:       plans,
		completions: completions,
		metrics:     m,
		store:       store.withDefaults(),
	}
}

func (s *workoutService) planCompletions(ctx context.Context, plan *domain.WorkoutPlan) ([]domain.WorkoutCompletion, error) {
	return read(ctx, s.store, func(ctx context.Context) ([]domain.WorkoutCompletion, error) {
		return s.completions.ListByPlanID(ctx, plan.UserID, plan.ID)
	})
}

func (s *workoutService) NextWorkout(ctx context.Context, userID string, override *planstore.Position) (*WorkoutView, error) {
	plan, err := s.plans.GetActivePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	var completions []domain.WorkoutCompletion
	if override == nil {
		if completions, err = s.planCompletions(ctx, plan); err != nil {
			return nil, err
		}
	}

	pos, err := planstore.ResolveNextWorkout(&plan.PlanData, completions, override)
	if err != nil {
		return nil, err
	}
	return viewOf(plan, pos)
}

func (s *workoutService) AdjacentWorkout(ctx context.Context, userID string, from planstore.Position, dir planstore.Direction) (*WorkoutView, error) {
	plan, err := s.plans.GetActivePlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	pos, ok := planstore.AdjacentDay(&plan.PlanData, from, dir)
	if !ok {
		return nil, fmt.Errorf("no workout next to %s: %w", from, domain.ErrNotFound)
	}
	return viewOf(plan, pos)
}

func viewOf(plan *domain.WorkoutPlan, pos planstore.Position) (*WorkoutView, error) {
	day, err := planstore.LocateDay(&plan.PlanData, pos.Week, pos.Day)
	if err != nil {
		return nil, err
	}
	exercises := make([]ExerciseView, 0, len(day.Exercises))
	for _, ex := range day.Exercises {
		exercises = append(exercises, ExerciseView{Exercise: ex, UsesWeights: ex.UsesWeights()})
	}
	_, hasPrev := planstore.AdjacentDay(&plan.PlanData, pos, planstore.Previous)
	_, hasNext := planstore.AdjacentDay(&plan.PlanData, pos, planstore.Next)
	return &WorkoutView{
		PlanID:      plan.ID,
		PlanName:    plan.PlanName,
		Position:    pos,
		TotalWeeks:  plan.PlanData.TotalWeeks(),
		Day:         day,
		Exercises:   exercises,
		HasPrevious: hasPrev,
		HasNext:     hasNext,
	}, nil
}

func (s *workoutService) CompleteWorkout(ctx context.Context, userID string, input CompletionInput) (*domain.WorkoutCompletion, bool, error) {
	if err := validateCompletion(input); err != nil {
		return nil, false, err
	}

	plan, err := s.plans.GetActivePlan(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if _, err := planstore.LocateDay(&plan.PlanData, input.WeekNumber, input.DayNumber); err != nil {
		return nil, false, validationErr("week %d day %d is not part of the active plan", input.WeekNumber, input.DayNumber)
	}

	completion := &domain.WorkoutCompletion{
		UserID:             userID,
		PlanID:             plan.ID,
		WeekNumber:         input.WeekNumber,
		DayNumber:          input.DayNumber,
		ExercisesCompleted: input.ExercisesCompleted,
		DurationMinutes:    input.DurationMinutes,
		Notes:              input.Notes,
		ClientRequestID:    input.ClientRequestID,
	}
	if input.WorkoutDate != nil {
		completion.WorkoutDate = input.WorkoutDate.UTC()
	}

	stored, err := write(ctx, s.store, func(ctx context.Context) (*domain.WorkoutCompletion, error) {
		return s.completions.Create(ctx, completion)
	})
	if errors.Is(err, repository.ErrDuplicate) && stored != nil {
		return stored, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("save completion: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CounterCompletions.Inc()
	}
	log.WithFields(log.Fields{
		"user":     userID,
		"position": planstore.Position{Week: stored.WeekNumber, Day: stored.DayNumber}.String(),
	}).Debug("workout completed")
	return stored, true, nil
}

func validateCompletion(input CompletionInput) error {
	if input.WeekNumber < 1 || input.DayNumber < 1 {
		return validationErr("week_number and day_number must be positive")
	}
	if input.DurationMinutes != nil && *input.DurationMinutes < 0 {
		return validationErr("duration_minutes cannot be negative")
	}
	for i, ex := range input.ExercisesCompleted {
		if strings.TrimSpace(ex.Name) == "" {
			return validationErr("exercise %d has no name", i)
		}
		for j, set := range ex.Sets {
			if set.Reps < 0 || set.Weight < 0 {
				return validationErr("%s set %d: reps and weight cannot be negative", ex.Name, j+1)
			}
		}
	}
	return nil
}

func (s *workoutService) History(ctx context.Context, userID string) ([]HistoryEntry, error) {
	completions, err := read(ctx, s.store, func(ctx context.Context) ([]domain.WorkoutCompletion, error) {
		return s.completions.ListByUserID(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	sorted := planstore.SortNewestFirst(completions)
	entries := make([]HistoryEntry, 0, len(sorted))
	for i := range sorted {
		entries = append(entries, HistoryEntry{
			WorkoutCompletion: sorted[i],
			Volume:            planstore.CompletionVolume(&sorted[i]),
		})
	}
	return entries, nil
}

func (s *workoutService) PlanOverview(ctx context.Context, userID string, planID primitive.ObjectID) (*PlanOverview, error) {
	var (
		plan *domain.WorkoutPlan
		err  error
	)
	if planID == primitive.NilObjectID {
		plan, err = s.plans.GetActivePlan(ctx, userID)
	} else {
		plan, err = s.plans.GetPlan(ctx, userID, planID)
	}
	if err != nil {
		return nil, err
	}

	completions, err := s.planCompletions(ctx, plan)
	if err != nil {
		return nil, err
	}

	done := planstore.CompletedDays(completions)
	keys := make([]planstore.Position, 0, len(done))
	for pos := range done {
		keys = append(keys, pos)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Week != keys[j].Week {
			return keys[i].Week < keys[j].Week
		}
		return keys[i].Day < keys[j].Day
	})
	completed := make([]string, len(keys))
	for i, pos := range keys {
		completed[i] = pos.String()
	}

	return &PlanOverview{
		Plan:            plan,
		CompletedDays:   completed,
		CurrentWeek:     planstore.LatestCompletedWeek(completions),
		ProgressPercent: planstore.ProgressPercent(len(completions), plan.PlanData.TotalWeeks()),
	}, nil
}

package service

import (
	"context"
	"errors"
	"time"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/planstore"
	"fittrack/planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressStats is the dashboard summary.
type ProgressStats struct {
	planstore.Stats
	ProgressPercent int  `json:"progressPercent"`
	TotalWeeks      int  `json:"totalWeeks"`
	HasActivePlan   bool `json:"hasActivePlan"`
}

// MeasurementInput is a new body measurement.
type MeasurementInput struct {
	MeasurementDate   *time.Time `json:"measurement_date,omitempty"`
	Weight            float64    `json:"weight"`
	BodyFatPercentage *float64   `json:"body_fat_percentage,omitempty"`
	Notes             string     `json:"notes,omitempty"`
}

// MeasurementSummary lists measurements for charting plus the latest values.
type MeasurementSummary struct {
	Measurements  []domain.BodyMeasurement `json:"measurements"` // oldest first
	LatestWeight  *float64                 `json:"latestWeight"`
	LatestBodyFat *float64                 `json:"latestBodyFat"`
}

type ProgressService interface {
	Stats(ctx context.Context, userID string, now time.Time) (*ProgressStats, error)
	AddMeasurement(ctx context.Context, userID string, input MeasurementInput) (*domain.BodyMeasurement, error)
	Measurements(ctx context.Context, userID string) (*MeasurementSummary, error)
}

type progressService struct {
	plans        PlanService
	completions  repository.CompletionRepository
	measurements repository.MeasurementRepository
	store        StoreOptions
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(plans PlanService, completions repository.CompletionRepository, measurements repository.MeasurementRepository, store StoreOptions) ProgressService {
	return &progressService{
		plans:        plans,
		completions:  completions,
		measurements: measurements,
		store:        store.withDefaults(),
	}
}

// Stats counts every completion of the user, across plans, and measures
// progress against the active plan's length. No active plan means 0 weeks.
func (s *progressService) Stats(ctx context.Context, userID string, now time.Time) (*ProgressStats, error) {
	completions, err := read(ctx, s.store, func(ctx context.Context) ([]domain.WorkoutCompletion, error) {
		return s.completions.ListByUserID(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	totalWeeks := 0
	plan, err := s.plans.GetActivePlan(ctx, userID)
	switch {
	case err == nil:
		totalWeeks = plan.PlanData.TotalWeeks()
	case !errors.Is(err, domain.ErrNoPlan):
		return nil, err
	}

	stats := planstore.ComputeStats(completions, now)
	return &ProgressStats{
		Stats:           stats,
		ProgressPercent: planstore.ProgressPercent(stats.WorkoutsCompleted, totalWeeks),
		TotalWeeks:      totalWeeks,
		HasActivePlan:   plan != nil,
	}, nil
}

func (s *progressService) AddMeasurement(ctx context.Context, userID string, input MeasurementInput) (*domain.BodyMeasurement, error) {
	if input.Weight <= 0 {
		return nil, validationErr("weight must be positive")
	}
	if bf := input.BodyFatPercentage; bf != nil && (*bf < 0 || *bf > 100) {
		return nil, validationErr("body fat percentage must be between 0 and 100")
	}

	m := &domain.BodyMeasurement{
		UserID:            userID,
		Weight:            input.Weight,
		BodyFatPercentage: input.BodyFatPercentage,
		Notes:             input.Notes,
	}
	if input.MeasurementDate != nil {
		m.MeasurementDate = input.MeasurementDate.UTC()
	}

	id, err := write(ctx, s.store, func(ctx context.Context) (primitive.ObjectID, error) {
		return s.measurements.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	m.ID = id
	return m, nil
}

func (s *progressService) Measurements(ctx context.Context, userID string) (*MeasurementSummary, error) {
	list, err := read(ctx, s.store, func(ctx context.Context) ([]domain.BodyMeasurement, error) {
		return s.measurements.ListByUserID(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	summary := &MeasurementSummary{Measurements: list}
	if n := len(list); n > 0 {
		w := list[n-1].Weight
		summary.LatestWeight = &w
	}
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].BodyFatPercentage != nil {
			bf := *list[i].BodyFatPercentage
			summary.LatestBodyFat = &bf
			break
		}
	}
	return summary, nil
}

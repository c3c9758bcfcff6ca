package planstore

import (
	"fmt"
	"strings"

	"fittrack/planner/internal/domain"

	"go.uber.org/multierr"
)

// MaxDaysPerWeek bounds the number of workout days in one week.
const MaxDaysPerWeek = 7

// ValidationError lists every structural problem found in a plan document.
// It matches domain.ErrInvalidPlanData with errors.Is.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrInvalidPlanData, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidPlanData
}

// ValidatePlanData checks the numbering and shape rules a stored plan relies on.
// Documents coming from the plan-generation service must pass before they are persisted.
func ValidatePlanData(plan *domain.PlanData) error {
	if plan == nil {
		return &ValidationError{Problems: []string{"plan document is missing"}}
	}

	var errs error
	if strings.TrimSpace(plan.PlanName) == "" {
		errs = multierr.Append(errs, fmt.Errorf("plan_name is empty"))
	}
	if len(plan.Weeks) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("plan has no weeks"))
	}

	for wi, week := range plan.Weeks {
		if week.WeekNumber != wi+1 {
			errs = multierr.Append(errs, fmt.Errorf("weeks[%d]: week_number %d, want %d", wi, week.WeekNumber, wi+1))
		}
		if len(week.Workouts) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("week %d has no workouts", week.WeekNumber))
		}
		if len(week.Workouts) > MaxDaysPerWeek {
			errs = multierr.Append(errs, fmt.Errorf("week %d has %d workouts, max %d", week.WeekNumber, len(week.Workouts), MaxDaysPerWeek))
		}
		for di, day := range week.Workouts {
			errs = multierr.Append(errs, validateDay(week.WeekNumber, di, day))
		}
	}

	if errs == nil {
		return nil
	}
	problems := make([]string, 0)
	for _, err := range multierr.Errors(errs) {
		problems = append(problems, err.Error())
	}
	return &ValidationError{Problems: problems}
}

func validateDay(weekNumber, index int, day domain.WorkoutDay) error {
	var errs error
	if day.DayNumber != index+1 {
		errs = multierr.Append(errs, fmt.Errorf("week %d workouts[%d]: day_number %d, want %d", weekNumber, index, day.DayNumber, index+1))
	}
	if strings.TrimSpace(day.WorkoutTitle) == "" {
		errs = multierr.Append(errs, fmt.Errorf("week %d day %d: workout_title is empty", weekNumber, day.DayNumber))
	}
	if len(day.Exercises) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("week %d day %d: no exercises", weekNumber, day.DayNumber))
	}
	for ei, ex := range day.Exercises {
		errs = multierr.Append(errs, validateExercise(fmt.Sprintf("week %d day %d exercises[%d]", weekNumber, day.DayNumber, ei), ex))
	}
	return errs
}

// validateExercise applies the per-exercise rules; where prefixes each problem.
func validateExercise(where string, ex domain.Exercise) error {
	var errs error
	if strings.TrimSpace(ex.Name) == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s: name is empty", where))
	}
	if ex.Sets < 1 {
		errs = multierr.Append(errs, fmt.Errorf("%s: sets %d < 1", where, ex.Sets))
	}
	if strings.TrimSpace(ex.Reps) == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s: reps is empty", where))
	}
	if ex.RestSeconds != nil && *ex.RestSeconds < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s: negative rest_seconds", where))
	}
	return errs
}

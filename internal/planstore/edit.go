package planstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fittrack/planner/internal/domain"
)

// Editable exercise fields accepted by ApplyExerciseEdit.
const (
	FieldName          = "name"
	FieldSets          = "sets"
	FieldReps          = "reps"
	FieldRestSeconds   = "rest_seconds"
	FieldInstructions  = "instructions"
	FieldCanUseWeights = "can_use_weights"
)

// ApplyExerciseEdit returns a copy of plan with one field of one exercise
// changed. The input document is never modified.
func ApplyExerciseEdit(plan *domain.PlanData, week, day, index int, field, value string) (*domain.PlanData, error) {
	out := plan.Clone()
	target, err := locateExercise(out, week, day, index)
	if err != nil {
		return nil, err
	}
	if err := setField(target, field, value); err != nil {
		return nil, err
	}
	return out, nil
}

// AddExercise appends an exercise to the given day of a copy of plan.
func AddExercise(plan *domain.PlanData, week, day int, ex domain.Exercise) (*domain.PlanData, error) {
	if err := validateExercise("new exercise", ex); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEdit, err)
	}
	out := plan.Clone()
	d, err := LocateDay(out, week, day)
	if err != nil {
		return nil, err
	}
	d.Exercises = append(d.Exercises, ex.Clone())
	return out, nil
}

// RemoveExercise drops the exercise at index from the given day of a copy of plan.
func RemoveExercise(plan *domain.PlanData, week, day, index int) (*domain.PlanData, error) {
	out := plan.Clone()
	d, err := LocateDay(out, week, day)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(d.Exercises) {
		return nil, fmt.Errorf("exercise %d in week %d day %d: %w", index, week, day, domain.ErrNotFound)
	}
	d.Exercises = append(d.Exercises[:index:index], d.Exercises[index+1:]...)
	return out, nil
}

// ApplyWholePlanReplacement swaps the plan document after validating it.
// On error the given plan is returned untouched.
func ApplyWholePlanReplacement(plan *domain.WorkoutPlan, newData *domain.PlanData, now time.Time) (*domain.WorkoutPlan, error) {
	if plan == nil {
		return nil, domain.ErrNoPlan
	}
	if err := ValidatePlanData(newData); err != nil {
		return plan, err
	}
	updated := *plan
	updated.PlanData = *newData.Clone()
	if newData.PlanName != "" {
		updated.PlanName = newData.PlanName
	}
	updated.UpdatedAt = now
	return &updated, nil
}

func locateExercise(plan *domain.PlanData, week, day, index int) (*domain.Exercise, error) {
	d, err := LocateDay(plan, week, day)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(d.Exercises) {
		return nil, fmt.Errorf("exercise %d in week %d day %d: %w", index, week, day, domain.ErrNotFound)
	}
	return &d.Exercises[index], nil
}

func setField(ex *domain.Exercise, field, value string) error {
	switch field {
	case FieldName:
		name := strings.TrimSpace(value)
		if name == "" {
			return fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidEdit)
		}
		ex.Name = name
	case FieldSets:
		sets, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || sets < 1 {
			return fmt.Errorf("%w: sets must be a whole number >= 1, got %q", domain.ErrInvalidEdit, value)
		}
		ex.Sets = sets
	case FieldReps:
		reps := strings.TrimSpace(value)
		if reps == "" {
			return fmt.Errorf("%w: reps cannot be empty", domain.ErrInvalidEdit)
		}
		ex.Reps = reps
	case FieldRestSeconds:
		if strings.TrimSpace(value) == "" {
			ex.RestSeconds = nil
			return nil
		}
		rest, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || rest < 0 {
			return fmt.Errorf("%w: rest_seconds must be a whole number >= 0, got %q", domain.ErrInvalidEdit, value)
		}
		ex.RestSeconds = &rest
	case FieldInstructions:
		ex.Instructions = value
	case FieldCanUseWeights:
		if strings.TrimSpace(value) == "" {
			ex.CanUseWeights = nil
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: can_use_weights must be true or false, got %q", domain.ErrInvalidEdit, value)
		}
		ex.CanUseWeights = &b
	default:
		return fmt.Errorf("%w: unknown field %q", domain.ErrInvalidEdit, field)
	}
	return nil
}

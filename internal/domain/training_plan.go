// internal/domain/training_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanStatus tracks the lifecycle of a workout plan.
type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusArchived PlanStatus = "archived"
)

// WorkoutPlan is a generated multi-week training schedule owned by one user.
// At most one plan per user is active; the others are archived.
type WorkoutPlan struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"userId" json:"userId"`
	PlanName        string             `bson:"planName" json:"planName"`
	PlanData        PlanData           `bson:"planData" json:"planData"`
	Status          PlanStatus         `bson:"status" json:"status"`
	ProfileSnapshot *UserProfile       `bson:"profileSnapshot,omitempty" json:"profileSnapshot,omitempty"`
	IdempotencyKey  string             `bson:"idempotencyKey,omitempty" json:"-"`
	AppliedEditKeys []string           `bson:"appliedEditKeys,omitempty" json:"-"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsActive reports whether this is the plan the user is currently following.
func (p *WorkoutPlan) IsActive() bool {
	return p.Status == PlanStatusActive
}

// Archive moves the plan to the archived state. The transition is one-way.
func (p *WorkoutPlan) Archive(now time.Time) error {
	if p.Status != PlanStatusActive {
		return ErrInvalidTransition
	}
	p.Status = PlanStatusArchived
	p.UpdatedAt = now
	return nil
}

// HasAppliedEdit reports whether an edit with the given idempotency key was already stored.
func (p *WorkoutPlan) HasAppliedEdit(key string) bool {
	if key == "" {
		return false
	}
	for _, k := range p.AppliedEditKeys {
		if k == key {
			return true
		}
	}
	return false
}

// PlanData is the plan document produced by the plan-generation service.
// It is persisted as a single embedded document.
type PlanData struct {
	PlanName string `bson:"plan_name" json:"plan_name"`
	Overview string `bson:"overview" json:"overview"`
	Weeks    []Week `bson:"weeks" json:"weeks"`
}

// TotalWeeks is the number of weeks in the document.
func (d *PlanData) TotalWeeks() int {
	return len(d.Weeks)
}

// Clone returns a deep copy so edits never alias the source document.
func (d *PlanData) Clone() *PlanData {
	if d == nil {
		return nil
	}
	out := &PlanData{
		PlanName: d.PlanName,
		Overview: d.Overview,
	}
	if d.Weeks != nil {
		out.Weeks = make([]Week, len(d.Weeks))
		for i := range d.Weeks {
			out.Weeks[i] = d.Weeks[i].clone()
		}
	}
	return out
}

// Week groups the workout days of one training week.
type Week struct {
	WeekNumber int          `bson:"week_number" json:"week_number"`
	Focus      string       `bson:"focus,omitempty" json:"focus,omitempty"`
	Workouts   []WorkoutDay `bson:"workouts" json:"workouts"`
}

func (w Week) clone() Week {
	out := w
	if w.Workouts != nil {
		out.Workouts = make([]WorkoutDay, len(w.Workouts))
		for i := range w.Workouts {
			out.Workouts[i] = w.Workouts[i].clone()
		}
	}
	return out
}

// WorkoutDay is a single session within a week.
type WorkoutDay struct {
	DayNumber    int        `bson:"day_number" json:"day_number"`
	DayName      string     `bson:"day_name,omitempty" json:"day_name,omitempty"`
	WorkoutTitle string     `bson:"workout_title" json:"workout_title"`
	Exercises    []Exercise `bson:"exercises" json:"exercises"`
}

func (d WorkoutDay) clone() WorkoutDay {
	out := d
	if d.Exercises != nil {
		out.Exercises = make([]Exercise, len(d.Exercises))
		for i := range d.Exercises {
			out.Exercises[i] = d.Exercises[i].Clone()
		}
	}
	return out
}

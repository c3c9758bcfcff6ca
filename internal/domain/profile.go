package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/multierr"
)

// FitnessLevel is the self-assessed training experience of a user.
type FitnessLevel string

const (
	FitnessBeginner     FitnessLevel = "beginner"
	FitnessIntermediate FitnessLevel = "intermediate"
	FitnessAdvanced     FitnessLevel = "advanced"
)

// Valid reports whether the level is one of the known values.
func (l FitnessLevel) Valid() bool {
	switch l {
	case FitnessBeginner, FitnessIntermediate, FitnessAdvanced:
		return true
	}
	return false
}

const MaxSecondaryGoals = 3

// UserProfile is the onboarding result for a user. One profile per user,
// upserted by UserID and never deleted.
type UserProfile struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            string             `bson:"userId" json:"userId"`
	FullName          string             `bson:"fullName,omitempty" json:"full_name,omitempty"`
	FitnessLevel      FitnessLevel       `bson:"fitnessLevel" json:"fitness_level"`
	FitnessAssessment *Assessment        `bson:"fitnessAssessment,omitempty" json:"fitness_assessment,omitempty"`
	PrimaryGoal       string             `bson:"primaryGoal" json:"primary_goal"`
	SecondaryGoals    []string           `bson:"secondaryGoals" json:"secondary_goals"`
	Equipment         []string           `bson:"equipment" json:"available_equipment"`
	DaysPerWeek       int                `bson:"daysPerWeek" json:"days_per_week"`
	SessionDuration   int                `bson:"sessionDuration" json:"session_duration"`
	RestDays          []string           `bson:"restDays" json:"rest_days"`
	Restrictions      string             `bson:"restrictions,omitempty" json:"restrictions,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updated_at"`
}

// Assessment holds the onboarding questionnaire answers.
type Assessment struct {
	ExerciseFrequency int    `bson:"exerciseFrequency" json:"exerciseFrequency"` // sessions per week, 0-7
	Pushups           string `bson:"pushups" json:"pushups"`                     // no | difficulty | easily
	Squats            string `bson:"squats" json:"squats"`                       // no | difficulty | easily
	EnergyLevel       string `bson:"energyLevel" json:"energyLevel"`             // low | moderate | high
	ProgramExperience string `bson:"programExperience" json:"programExperience"` // never | tried | completed
}

// Score returns the questionnaire score (max 11).
func (a Assessment) Score() int {
	score := 0

	switch {
	case a.ExerciseFrequency >= 5:
		score += 3
	case a.ExerciseFrequency >= 3:
		score += 2
	case a.ExerciseFrequency >= 1:
		score++
	}

	score += graded(a.Pushups, "easily", "difficulty")
	score += graded(a.Squats, "easily", "difficulty")
	score += graded(a.EnergyLevel, "high", "moderate")
	score += graded(a.ProgramExperience, "completed", "tried")
	return score
}

// Level maps the score to a fitness level: 0-4 beginner, 5-8 intermediate, 9+ advanced.
func (a Assessment) Level() FitnessLevel {
	score := a.Score()
	if score >= 9 {
		return FitnessAdvanced
	}
	if score >= 5 {
		return FitnessIntermediate
	}
	return FitnessBeginner
}

func graded(answer, full, partial string) int {
	switch answer {
	case full:
		return 2
	case partial:
		return 1
	}
	return 0
}

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// Validate checks the onboarding rules and reports every violation at once.
func (p *UserProfile) Validate() error {
	var errs []error

	if p.UserID == "" {
		errs = append(errs, errors.New("user id is required"))
	}
	if !p.FitnessLevel.Valid() {
		errs = append(errs, fmt.Errorf("unknown fitness level %q", p.FitnessLevel))
	}
	if strings.TrimSpace(p.PrimaryGoal) == "" {
		errs = append(errs, errors.New("primary goal is required"))
	}
	if len(p.SecondaryGoals) > MaxSecondaryGoals {
		errs = append(errs, fmt.Errorf("at most %d secondary goals allowed", MaxSecondaryGoals))
	}
	seen := make(map[string]bool, len(p.SecondaryGoals))
	for _, g := range p.SecondaryGoals {
		if g == p.PrimaryGoal {
			errs = append(errs, fmt.Errorf("secondary goal %q duplicates the primary goal", g))
		}
		if seen[g] {
			errs = append(errs, fmt.Errorf("secondary goal %q listed twice", g))
		}
		seen[g] = true
	}
	if p.DaysPerWeek < 1 || p.DaysPerWeek > 7 {
		errs = append(errs, fmt.Errorf("days per week must be 1-7, got %d", p.DaysPerWeek))
	}
	if p.SessionDuration <= 0 {
		errs = append(errs, errors.New("session duration must be positive"))
	}
	for _, d := range p.RestDays {
		if !weekdays[strings.ToLower(d)] {
			errs = append(errs, fmt.Errorf("unknown rest day %q", d))
		}
	}

	if err := multierr.Combine(errs...); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// Snapshot copies the profile for embedding into a generated plan.
func (p *UserProfile) Snapshot() *UserProfile {
	cp := *p
	cp.SecondaryGoals = append([]string(nil), p.SecondaryGoals...)
	cp.Equipment = append([]string(nil), p.Equipment...)
	cp.RestDays = append([]string(nil), p.RestDays...)
	if p.FitnessAssessment != nil {
		a := *p.FitnessAssessment
		cp.FitnessAssessment = &a
	}
	return &cp
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutCompletion is a logged record of a user performing one workout day.
// Completions are append-only and never invalidated by later plan edits.
type WorkoutCompletion struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID             string              `bson:"userId" json:"userId"`
	PlanID             primitive.ObjectID  `bson:"planId" json:"planId"`
	WeekNumber         int                 `bson:"weekNumber" json:"week_number"`
	DayNumber          int                 `bson:"dayNumber" json:"day_number"`
	WorkoutDate        time.Time           `bson:"workoutDate" json:"workout_date"`
	ExercisesCompleted []CompletedExercise `bson:"exercisesCompleted" json:"exercises_completed"`
	DurationMinutes    *int                `bson:"durationMinutes,omitempty" json:"duration_minutes,omitempty"`
	Notes              string              `bson:"notes,omitempty" json:"notes,omitempty"`
	ClientRequestID    string              `bson:"clientRequestId,omitempty" json:"-"`
	CreatedAt          time.Time           `bson:"createdAt" json:"created_at"`
}

// CompletedExercise holds the sets logged for one exercise.
type CompletedExercise struct {
	Name string   `bson:"name" json:"name"`
	Sets []SetLog `bson:"sets" json:"sets"`
}

// SetLog is a single performed set.
type SetLog struct {
	Reps   int     `bson:"reps" json:"reps"`
	Weight float64 `bson:"weight" json:"weight"`
}

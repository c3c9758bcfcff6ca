package planstore_test

import (
	"testing"
	"time"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/planstore"

	"github.com/stretchr/testify/assert"
)

func TestComputeStats_Volume(t *testing.T) {
	now := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	completions := []domain.WorkoutCompletion{
		{
			WorkoutDate: now,
			ExercisesCompleted: []domain.CompletedExercise{
				{Name: "Squat", Sets: []domain.SetLog{{Reps: 10, Weight: 0}, {Reps: 8, Weight: 20}}},
			},
		},
	}

	stats := planstore.ComputeStats(completions, now)
	assert.Equal(t, 1, stats.WorkoutsCompleted)
	assert.Equal(t, 160.0, stats.TotalVolume)
}

func TestComputeStats_VolumeIgnoresOrderAndNegatives(t *testing.T) {
	now := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	a := domain.WorkoutCompletion{
		WorkoutDate: now,
		ExercisesCompleted: []domain.CompletedExercise{
			{Name: "Bench", Sets: []domain.SetLog{{Reps: 5, Weight: 60}, {Reps: 5, Weight: 62.5}}},
			{Name: "Row", Sets: []domain.SetLog{{Reps: -3, Weight: 40}}},
		},
	}
	b := domain.WorkoutCompletion{
		WorkoutDate: now.AddDate(0, 0, -1),
		ExercisesCompleted: []domain.CompletedExercise{
			{Name: "Deadlift", Sets: []domain.SetLog{{Reps: 3, Weight: 100}, {Reps: 3, Weight: -10}}},
		},
	}

	forward := planstore.ComputeStats([]domain.WorkoutCompletion{a, b}, now)
	backward := planstore.ComputeStats([]domain.WorkoutCompletion{b, a}, now)
	assert.Equal(t, forward, backward)
	assert.Equal(t, 300.0+312.5+300.0, forward.TotalVolume)
}

func TestStreak(t *testing.T) {
	now := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	days := func(offsets ...int) []domain.WorkoutCompletion {
		out := make([]domain.WorkoutCompletion, 0, len(offsets))
		for _, o := range offsets {
			out = append(out, domain.WorkoutCompletion{WorkoutDate: now.AddDate(0, 0, -o)})
		}
		return out
	}

	tests := []struct {
		name        string
		completions []domain.WorkoutCompletion
		want        int
	}{
		{"no history", nil, 0},
		{"three consecutive days", days(0, 1, 2), 3},
		{"gap breaks chain after first", days(0, 3), 1},
		{"stale history", days(2, 3, 4), 0},
		{"yesterday still counts", days(1, 2), 2},
		{"same day twice", days(0, 0, 1), 3},
		{"unordered input", days(2, 0, 1, 5), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, planstore.Streak(tt.completions, now))
		})
	}
}

func TestStreak_WholeDaysNotCalendarDays(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	// 47 hours apart spans two calendar days but only one whole day
	completions := []domain.WorkoutCompletion{
		{WorkoutDate: now.Add(-time.Hour)},
		{WorkoutDate: now.Add(-48 * time.Hour)},
	}
	assert.Equal(t, 2, planstore.Streak(completions, now))
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 50, planstore.ProgressPercent(8, 4))
	assert.Equal(t, 0, planstore.ProgressPercent(0, 4))
	assert.Equal(t, 100, planstore.ProgressPercent(40, 4))
	assert.Equal(t, 19, planstore.ProgressPercent(3, 4))
	assert.Equal(t, 100, planstore.ProgressPercent(3, 0))
	assert.Equal(t, 0, planstore.ProgressPercent(0, 0))
}

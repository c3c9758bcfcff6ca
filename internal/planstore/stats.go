package planstore

import (
	"math"
	"time"

	"fittrack/planner/internal/domain"
)

// WorkoutsPerWeekTarget is the fixed weekly target used for progress percent.
// It does not follow the profile's days-per-week setting.
const WorkoutsPerWeekTarget = 4

// Stats summarises a user's completion history.
type Stats struct {
	WorkoutsCompleted int     `json:"workoutsCompleted"`
	TotalVolume       float64 `json:"totalVolume"`
	CurrentStreak     int     `json:"currentStreak"`
}

// ComputeStats counts completions, sums volume and measures the current streak as of now.
func ComputeStats(completions []domain.WorkoutCompletion, now time.Time) Stats {
	stats := Stats{WorkoutsCompleted: len(completions)}
	for i := range completions {
		stats.TotalVolume += CompletionVolume(&completions[i])
	}
	stats.CurrentStreak = Streak(completions, now)
	return stats
}

// CompletionVolume is the sum of reps*weight over every logged set.
// Negative reps or weight count as zero.
func CompletionVolume(c *domain.WorkoutCompletion) float64 {
	var volume float64
	for _, ex := range c.ExercisesCompleted {
		for _, set := range ex.Sets {
			reps := math.Max(float64(set.Reps), 0)
			weight := math.Max(set.Weight, 0)
			volume += reps * weight
		}
	}
	return volume
}

// Streak counts consecutive completions, newest first, while adjacent entries
// are at most one whole day apart. The chain is only alive if the most recent
// completion is at most one day before now. Two completions on the same day
// both count.
func Streak(completions []domain.WorkoutCompletion, now time.Time) int {
	if len(completions) == 0 {
		return 0
	}
	sorted := SortNewestFirst(completions)

	if daysBetween(now, sorted[0].WorkoutDate) > 1 {
		return 0
	}
	streak := 1
	for i := 0; i < len(sorted)-1; i++ {
		if daysBetween(sorted[i].WorkoutDate, sorted[i+1].WorkoutDate) > 1 {
			break
		}
		streak++
	}
	return streak
}

// daysBetween is the number of whole 24h periods from earlier to later, truncated.
func daysBetween(later, earlier time.Time) int {
	return int(later.Sub(earlier) / (24 * time.Hour))
}

// ProgressPercent is min(100, round(done / (weeks*4) * 100)).
// A plan with no weeks uses a denominator of 1.
func ProgressPercent(workoutsCompleted, totalWeeks int) int {
	target := totalWeeks * WorkoutsPerWeekTarget
	if target <= 0 {
		target = 1
	}
	pct := int(math.Round(float64(workoutsCompleted) / float64(target) * 100))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

package planstore

import (
	"errors"
	"sort"

	"fittrack/planner/internal/domain"
)

// ResolveNextWorkout determines which day the user should train next.
//
// An explicit override (manual navigation) wins and is only checked for
// existence. Otherwise the most recent completion is advanced by one day,
// rolling into the next week once the week's day count is reached. With no
// history the answer is week 1, day 1. A position beyond the end of the
// plan yields ErrNoPlan, which callers treat as "plan complete".
func ResolveNextWorkout(plan *domain.PlanData, completions []domain.WorkoutCompletion, override *Position) (Position, error) {
	if plan == nil {
		return Position{}, domain.ErrNoPlan
	}

	if override != nil {
		if _, err := LocateDay(plan, override.Week, override.Day); err != nil {
			return Position{}, err
		}
		return *override, nil
	}

	next := Position{Week: 1, Day: 1}
	if last, ok := MostRecent(completions); ok {
		dayCount := 0
		if week, err := LocateWeek(plan, last.WeekNumber); err == nil {
			dayCount = len(week.Workouts)
		}
		if last.DayNumber < dayCount {
			next = Position{Week: last.WeekNumber, Day: last.DayNumber + 1}
		} else {
			next = Position{Week: last.WeekNumber + 1, Day: 1}
		}
	}

	if _, err := LocateDay(plan, next.Week, next.Day); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Position{}, domain.ErrNoPlan
		}
		return Position{}, err
	}
	return next, nil
}

// AdjacentDay pages to the previous or next day across week boundaries.
// It reports false at either end of the plan or when from does not exist.
func AdjacentDay(plan *domain.PlanData, from Position, dir Direction) (Position, bool) {
	if _, err := LocateDay(plan, from.Week, from.Day); err != nil {
		return Position{}, false
	}
	week, err := LocateWeek(plan, from.Week)
	if err != nil {
		return Position{}, false
	}

	switch dir {
	case Previous:
		if from.Day > 1 {
			return Position{Week: from.Week, Day: from.Day - 1}, true
		}
		prev, err := LocateWeek(plan, from.Week-1)
		if err != nil || len(prev.Workouts) == 0 {
			return Position{}, false
		}
		return Position{Week: prev.WeekNumber, Day: prev.Workouts[len(prev.Workouts)-1].DayNumber}, true
	case Next:
		if from.Day < len(week.Workouts) {
			return Position{Week: from.Week, Day: from.Day + 1}, true
		}
		nxt, err := LocateWeek(plan, from.Week+1)
		if err != nil || len(nxt.Workouts) == 0 {
			return Position{}, false
		}
		return Position{Week: nxt.WeekNumber, Day: 1}, true
	}
	return Position{}, false
}

// MostRecent returns the latest completion by workout date, breaking ties by
// creation time.
func MostRecent(completions []domain.WorkoutCompletion) (domain.WorkoutCompletion, bool) {
	if len(completions) == 0 {
		return domain.WorkoutCompletion{}, false
	}
	sorted := SortNewestFirst(completions)
	return sorted[0], true
}

// SortNewestFirst returns a copy of completions ordered by workout date descending.
func SortNewestFirst(completions []domain.WorkoutCompletion) []domain.WorkoutCompletion {
	sorted := make([]domain.WorkoutCompletion, len(completions))
	copy(sorted, completions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].WorkoutDate.Equal(sorted[j].WorkoutDate) {
			return sorted[i].WorkoutDate.After(sorted[j].WorkoutDate)
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// CompletedDays returns the set of positions that have at least one completion.
func CompletedDays(completions []domain.WorkoutCompletion) map[Position]bool {
	done := make(map[Position]bool, len(completions))
	for _, c := range completions {
		done[Position{Week: c.WeekNumber, Day: c.DayNumber}] = true
	}
	return done
}

// LatestCompletedWeek is the highest week with a completion, or 1 with none.
func LatestCompletedWeek(completions []domain.WorkoutCompletion) int {
	week := 1
	for _, c := range completions {
		if c.WeekNumber > week {
			week = c.WeekNumber
		}
	}
	return week
}

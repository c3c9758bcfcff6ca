// Package planstore holds the rules for reading and mutating a workout plan
// document: locating days, deriving the next workout, computing progress
// statistics and applying structural edits. It performs no I/O.
package planstore

import (
	"fmt"

	"fittrack/planner/internal/domain"
)

// Position addresses a workout day by its natural 1-based week and day numbers.
type Position struct {
	Week int `json:"week"`
	Day  int `json:"day"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d-%d", p.Week, p.Day)
}

// Direction selects the neighbour returned by AdjacentDay.
type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

// LocateWeek returns the first week whose week_number matches.
func LocateWeek(plan *domain.PlanData, weekNumber int) (*domain.Week, error) {
	if plan == nil {
		return nil, domain.ErrNotFound
	}
	for i := range plan.Weeks {
		if plan.Weeks[i].WeekNumber == weekNumber {
			return &plan.Weeks[i], nil
		}
	}
	return nil, fmt.Errorf("week %d: %w", weekNumber, domain.ErrNotFound)
}

// LocateDay finds the week by week_number and then the day by day_number.
// Lookups are by number, never by array position.
func LocateDay(plan *domain.PlanData, weekNumber, dayNumber int) (*domain.WorkoutDay, error) {
	week, err := LocateWeek(plan, weekNumber)
	if err != nil {
		return nil, err
	}
	for i := range week.Workouts {
		if week.Workouts[i].DayNumber == dayNumber {
			return &week.Workouts[i], nil
		}
	}
	return nil, fmt.Errorf("week %d day %d: %w", weekNumber, dayNumber, domain.ErrNotFound)
}

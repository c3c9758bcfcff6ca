package service_test

import (
	"fmt"
	"testing"
	"time"

	"go.uber.org/goleak"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/metrics"
	"fittrack/planner/internal/service"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testUser = "64b000000000000000000001"

var testStore = service.StoreOptions{
	Timeout:       time.Second,
	ReadRetries:   3,
	RetryInterval: time.Millisecond,
}

func planData(weeks, days int) *domain.PlanData {
	data := &domain.PlanData{
		PlanName: "Strength Builder",
		Overview: "Progressive full body plan.",
	}
	for w := 1; w <= weeks; w++ {
		week := domain.Week{WeekNumber: w}
		for d := 1; d <= days; d++ {
			week.Workouts = append(week.Workouts, domain.WorkoutDay{
				DayNumber:    d,
				WorkoutTitle: fmt.Sprintf("W%d D%d", w, d),
				Exercises: []domain.Exercise{
					{Name: "Squat", Sets: 3, Reps: "8-10"},
					{Name: "Push Up", Sets: 3, Reps: "12"},
				},
			})
		}
		data.Weeks = append(data.Weeks, week)
	}
	return data
}

func onboardingProfile() *domain.UserProfile {
	return &domain.UserProfile{
		FitnessLevel:    domain.FitnessIntermediate,
		PrimaryGoal:     "build muscle",
		SecondaryGoals:  []string{"endurance"},
		Equipment:       []string{"barbell"},
		DaysPerWeek:     3,
		SessionDuration: 60,
		RestDays:        []string{"Sunday"},
	}
}

type planFixture struct {
	plans    *fakePlanRepo
	profiles *fakeProfileRepo
	exports  *fakeExportRepo
	storage  *fakeStorage
	metrics  *metrics.Manager
	svc      service.PlanService
}

func newPlanFixture(coach service.PlanCoach) *planFixture {
	f := &planFixture{
		plans:    &fakePlanRepo{},
		profiles: newFakeProfileRepo(),
		exports:  &fakeExportRepo{},
		storage:  newFakeStorage(),
		metrics:  metrics.NewTestManager(),
	}
	f.svc = service.NewPlanService(service.PlanServiceDeps{
		Plans:        f.plans,
		Profiles:     f.profiles,
		Exports:      f.exports,
		Coach:        coach,
		Storage:      f.storage,
		Metrics:      f.metrics,
		Store:        testStore,
		CoachTimeout: time.Second,
		URLExpiry:    time.Minute,
	})
	return f
}

package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/service"
)

func TestProfileService_UpdateProfile(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := service.NewProfileService(repo, testStore)
	ctx := context.Background()

	profile := onboardingProfile()
	profile.UserID = testUser
	_, err := repo.Upsert(ctx, profile)
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, testUser, " Sam Lee ", "Advanced")
	require.NoError(t, err)
	assert.Equal(t, "Sam Lee", updated.FullName)
	assert.Equal(t, domain.FitnessAdvanced, updated.FitnessLevel)
	assert.Equal(t, "build muscle", updated.PrimaryGoal)

	_, err = svc.UpdateProfile(ctx, testUser, "Sam", "elite")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateProfile(ctx, "nobody", "Sam", domain.FitnessBeginner)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileService_GetProfile_Missing(t *testing.T) {
	svc := service.NewProfileService(newFakeProfileRepo(), testStore)

	_, err := svc.GetProfile(context.Background(), testUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileService_FitnessLevelFromAssessment(t *testing.T) {
	svc := service.NewProfileService(newFakeProfileRepo(), testStore)

	tests := []struct {
		name       string
		assessment domain.Assessment
		level      domain.FitnessLevel
		score      int
	}{
		{"nothing", domain.Assessment{}, domain.FitnessBeginner, 0},
		{"some activity", domain.Assessment{ExerciseFrequency: 3, Pushups: "difficulty", Squats: "difficulty", EnergyLevel: "moderate"}, domain.FitnessIntermediate, 5},
		{"just below advanced", domain.Assessment{ExerciseFrequency: 5, Pushups: "easily", Squats: "easily", ProgramExperience: "tried"}, domain.FitnessIntermediate, 8},
		{"maxed", domain.Assessment{ExerciseFrequency: 7, Pushups: "easily", Squats: "easily", EnergyLevel: "high", ProgramExperience: "completed"}, domain.FitnessAdvanced, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, score := svc.FitnessLevelFromAssessment(tt.assessment)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.score, score)
		})
	}
}

package coach_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fittrack/planner/internal/coach"
	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/metrics"
)

const samplePlan = `{
  "plan_name": "Strength Starter",
  "overview": "Four weeks of full body work.",
  "weeks": [
    {
      "week_number": 1,
      "workouts": [
        {
          "day_number": 1,
          "day_name": "Monday",
          "workout_title": "Full Body A",
          "exercises": [
            {"name": "Goblet Squat", "sets": 3, "reps": "10-12", "rest_seconds": 60, "can_use_weights": true},
            {"name": "Plank", "sets": 3, "reps": "30s", "can_use_weights": false}
          ]
        }
      ]
    }
  ]
}`

func testProfile() *domain.UserProfile {
	return &domain.UserProfile{
		UserID:          "user-1",
		FitnessLevel:    domain.FitnessBeginner,
		PrimaryGoal:     "build strength",
		SecondaryGoals:  []string{"mobility"},
		Equipment:       []string{"dumbbells", "bench"},
		DaysPerWeek:     3,
		SessionDuration: 45,
		RestDays:        []string{"sunday"},
	}
}

func TestExtractJSON(t *testing.T) {
	raw, err := coach.ExtractJSON("Sure! ```json\n{\"a\": {\"b\": 1}}\n``` Enjoy.")
	require.NoError(t, err)
	assert.Equal(t, `{"a": {"b": 1}}`, raw)

	_, err = coach.ExtractJSON("no json here")
	assert.ErrorIs(t, err, domain.ErrInvalidPlanData)

	_, err = coach.ExtractJSON("} backwards {")
	assert.ErrorIs(t, err, domain.ErrInvalidPlanData)
}

func TestCoach_GeneratePlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockTextGenerator(ctrl)
	m := metrics.NewTestManager()
	c := coach.New(gen, m)

	gen.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, "- Goal: build strength")
			assert.Contains(t, prompt, "- Equipment: dumbbells, bench")
			assert.Contains(t, prompt, "3 days/week, 45 mins/session")
			assert.Contains(t, prompt, "Return ONLY valid JSON")
			return "Here is your plan:\n" + samplePlan + "\nGood luck!", nil
		}).Times(1)

	plan, err := c.GeneratePlan(context.Background(), testProfile())
	require.NoError(t, err)
	assert.Equal(t, "Strength Starter", plan.PlanName)
	require.Len(t, plan.Weeks, 1)
	day := plan.Weeks[0].Workouts[0]
	assert.Equal(t, "Full Body A", day.WorkoutTitle)
	require.Len(t, day.Exercises, 2)
	require.NotNil(t, day.Exercises[0].RestSeconds)
	assert.Equal(t, 60, *day.Exercises[0].RestSeconds)
	assert.True(t, day.Exercises[0].UsesWeights())
	assert.False(t, day.Exercises[1].UsesWeights())

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterPlanGenerations.WithLabelValues("generate", "ok")))
}

func TestCoach_GeneratePlan_MistypedField(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockTextGenerator(ctrl)
	m := metrics.NewTestManager()
	c := coach.New(gen, m)

	bad := strings.Replace(samplePlan, `"sets": 3, "reps": "10-12"`, `"sets": "three", "reps": "10-12"`, 1)
	gen.EXPECT().GenerateContent(gomock.Any(), gomock.Any()).Return(bad, nil)

	plan, err := c.GeneratePlan(context.Background(), testProfile())
	assert.Nil(t, plan)
	assert.ErrorIs(t, err, domain.ErrInvalidPlanData)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterPlanGenerations.WithLabelValues("generate", "invalid")))
}

func TestCoach_GeneratePlan_DropsExtraKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockTextGenerator(ctrl)
	c := coach.New(gen, nil)

	extra := strings.Replace(samplePlan, `"overview"`, `"difficulty": "easy", "nutrition_tips": ["eat protein"], "overview"`, 1)
	extra = strings.Replace(extra, `"workout_title"`, `"estimated_duration": 45, "warmup": {"minutes": 5}, "workout_title"`, 1)
	extra = strings.Replace(extra, `"name": "Plank"`, `"form_tips": ["brace"], "name": "Plank"`, 1)
	gen.EXPECT().GenerateContent(gomock.Any(), gomock.Any()).Return(extra, nil)

	plan, err := c.GeneratePlan(context.Background(), testProfile())
	require.NoError(t, err)
	assert.Equal(t, "Strength Starter", plan.PlanName)
	require.Len(t, plan.Weeks, 1)
	day := plan.Weeks[0].Workouts[0]
	assert.Equal(t, "Full Body A", day.WorkoutTitle)
	require.Len(t, day.Exercises, 2)
	assert.Equal(t, "Plank", day.Exercises[1].Name)
}

func TestCoach_GeneratePlan_GeneratorError(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockTextGenerator(ctrl)
	m := metrics.NewTestManager()
	c := coach.New(gen, m)

	gen.EXPECT().GenerateContent(gomock.Any(), gomock.Any()).Return("", errors.New("quota exceeded"))

	_, err := c.GeneratePlan(context.Background(), testProfile())
	assert.ErrorIs(t, err, domain.ErrTransientIO)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterPlanGenerations.WithLabelValues("generate", "error")))
}

func TestCoach_EditPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockTextGenerator(ctrl)
	c := coach.New(gen, nil)

	current := &domain.PlanData{PlanName: "Old", Weeks: []domain.Week{{WeekNumber: 1}}}

	gen.EXPECT().
		GenerateContent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, `"plan_name":"Old"`)
			assert.Contains(t, prompt, `"swap squats for lunges"`)
			return `{"response_message": "Done!", "suggested_action": "update_plan", "modified_plan_data": ` + samplePlan + `}`, nil
		})

	res, err := c.EditPlan(context.Background(), current, "swap squats for lunges")
	require.NoError(t, err)
	assert.Equal(t, "Done!", res.Message)
	assert.Equal(t, coach.ActionUpdatePlan, res.Action)
	assert.True(t, res.Changed())
	assert.Equal(t, "Strength Starter", res.PlanData.PlanName)
}

func TestCoach_EditPlan_Conversational(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockTextGenerator(ctrl)
	c := coach.New(gen, nil)

	gen.EXPECT().GenerateContent(gomock.Any(), gomock.Any()).
		Return(`{"response_message": "I can only help with training.", "suggested_action": "none"}`, nil)

	res, err := c.EditPlan(context.Background(), &domain.PlanData{}, "pancake recipe?")
	require.NoError(t, err)
	assert.Equal(t, coach.ActionNone, res.Action)
	assert.False(t, res.Changed())
	assert.Nil(t, res.PlanData)
}

func TestCoach_EditPlan_UnknownAction(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockTextGenerator(ctrl)
	c := coach.New(gen, nil)

	gen.EXPECT().GenerateContent(gomock.Any(), gomock.Any()).
		Return(`{"response_message": "ok", "suggested_action": "delete_everything"}`, nil)

	_, err := c.EditPlan(context.Background(), &domain.PlanData{}, "wipe it")
	assert.ErrorIs(t, err, domain.ErrInvalidPlanData)
}

package coach

import (
	"fmt"
	"strings"

	"fittrack/planner/internal/domain"
)

const jsonOnlySuffix = "\n\nIMPORTANT: Return ONLY valid JSON. No markdown formatting, no code blocks, no intro/outro text."

const planSchema = `{
  "plan_name": "string",
  "overview": "string",
  "weeks": [
    {
      "week_number": 1,
      "focus": "string",
      "workouts": [
        {
          "day_number": 1,
          "day_name": "Monday",
          "workout_title": "string",
          "exercises": [
            {
              "name": "string",
              "sets": 3,
              "reps": "10-12",
              "rest_seconds": 60,
              "instructions": "Brief 1-sentence explanation of how to perform the exercise.",
              "can_use_weights": true
            }
          ]
        }
      ]
    }
  ]
}`

func planPrompt(p *domain.UserProfile) string {
	var b strings.Builder
	b.WriteString("Create a 4-week workout plan for a user with:\n")
	fmt.Fprintf(&b, "- Goal: %s\n", p.PrimaryGoal)
	if len(p.SecondaryGoals) > 0 {
		fmt.Fprintf(&b, "- Secondary goals: %s\n", strings.Join(p.SecondaryGoals, ", "))
	}
	fmt.Fprintf(&b, "- Level: %s\n", p.FitnessLevel)
	equipment := "bodyweight only"
	if len(p.Equipment) > 0 {
		equipment = strings.Join(p.Equipment, ", ")
	}
	fmt.Fprintf(&b, "- Equipment: %s\n", equipment)
	fmt.Fprintf(&b, "- Schedule: %d days/week, %d mins/session.\n", p.DaysPerWeek, p.SessionDuration)
	if len(p.RestDays) > 0 {
		fmt.Fprintf(&b, "- Rest days: %s\n", strings.Join(p.RestDays, ", "))
	}
	if p.Restrictions != "" {
		fmt.Fprintf(&b, "- Restrictions: %s\n", p.Restrictions)
	}
	b.WriteString("\nReturn JSON format:\n")
	b.WriteString(planSchema)
	return b.String()
}

func editPrompt(planJSON, instruction string) string {
	return fmt.Sprintf(`You are an AI Fitness Coach. The user has an active workout plan.
Current Plan Data: %s

User Request: %q

Task:
1. Analyze how to modify the plan based on the request.
2. Apply the necessary changes to the "Current Plan Data" JSON structure.
3. Return a JSON response with a "response_message" for the user and a "suggested_action".

Format:
{
  "response_message": "Friendly response explaining the change.",
  "suggested_action": "update_plan",
  "modified_plan_data": <the complete updated plan data object, all weeks and days>
}

If the request is conversational or you cannot perform the action, return "suggested_action": "none" and a message without "modified_plan_data".
Do NOT answer questions unrelated to fitness, nutrition, or the user's workout plan. Politely refuse and redirect to training.`, planJSON, instruction)
}

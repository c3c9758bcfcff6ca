package coach

import (
	"encoding/json"
	"fmt"
	"strings"

	"fittrack/planner/internal/domain"
)

// ExtractJSON returns the text between the first '{' and the last '}'.
// Models tend to wrap JSON in prose or code fences.
func ExtractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON object found in response", domain.ErrInvalidPlanData)
	}
	return text[start : end+1], nil
}

func decodePlan(text string) (*domain.PlanData, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var plan domain.PlanData
	if err := sanitizeUnmarshal(raw, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

type editResponse struct {
	ResponseMessage  string           `json:"response_message"`
	SuggestedAction  EditAction       `json:"suggested_action"`
	ModifiedPlanData *domain.PlanData `json:"modified_plan_data,omitempty"`
}

func decodeEdit(text string) (*EditResult, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var resp editResponse
	if err := sanitizeUnmarshal(raw, &resp); err != nil {
		return nil, err
	}

	switch resp.SuggestedAction {
	case ActionUpdatePlan, ActionNone:
	case "":
		resp.SuggestedAction = ActionNone
	default:
		return nil, fmt.Errorf("%w: unknown suggested action %q", domain.ErrInvalidPlanData, resp.SuggestedAction)
	}

	return &EditResult{
		Message:  resp.ResponseMessage,
		Action:   resp.SuggestedAction,
		PlanData: resp.ModifiedPlanData,
	}, nil
}

// sanitizeUnmarshal drops keys outside the plan shape but rejects mistyped
// values such as numeric sets sent as strings. Structure is checked later
// by planstore.ValidatePlanData.
func sanitizeUnmarshal(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidPlanData, err)
	}
	return nil
}

package service

import (
	"context"

	"fittrack/planner/internal/coach"
	"fittrack/planner/internal/domain"
)

//go:generate mockgen -source=$GOFILE -destination=coach_mocks_test.go -package=service_test

// PlanCoach generates and edits plan documents. *coach.Coach implements it.
type PlanCoach interface {
	GeneratePlan(ctx context.Context, profile *domain.UserProfile) (*domain.PlanData, error)
	EditPlan(ctx context.Context, current *domain.PlanData, instruction string) (*coach.EditResult, error)
}

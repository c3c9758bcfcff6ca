package repository

import (
	"context"

	"fittrack/planner/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDuplicate    = RepositoryError("duplicate record")
	// ErrConflict is returned when a write would break the single-active-plan rule.
	ErrConflict = RepositoryError("conflicting active plan")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository stores accounts of the built-in identity provider.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ProfileRepository stores one onboarding profile per user.
type ProfileRepository interface {
	Upsert(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateBasics(ctx context.Context, userID, fullName string, level domain.FitnessLevel) error
}

// PlanRepository stores workout plans, one document per plan.
type PlanRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetActiveByUserID(ctx context.Context, userID string) (*domain.WorkoutPlan, error)
	ListByUserID(ctx context.Context, userID string) ([]domain.WorkoutPlan, error)
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*domain.WorkoutPlan, error)

	// Regenerate archives the user's active plan and inserts plan as the new
	// active one as a single unit. The user never ends up with two active plans.
	Regenerate(ctx context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error)

	// ReplacePlanData swaps the embedded document of an active plan. A non-empty
	// editKey already applied to the plan makes the call a no-op.
	ReplacePlanData(ctx context.Context, planID primitive.ObjectID, userID string, data *domain.PlanData, editKey string) (*domain.WorkoutPlan, error)
}

// CompletionRepository stores append-only workout completions.
type CompletionRepository interface {
	// Create inserts the completion. When ClientRequestID was already used by
	// the same user the stored record is returned with ErrDuplicate.
	Create(ctx context.Context, completion *domain.WorkoutCompletion) (*domain.WorkoutCompletion, error)
	ListByUserID(ctx context.Context, userID string) ([]domain.WorkoutCompletion, error)
	ListByPlanID(ctx context.Context, userID string, planID primitive.ObjectID) ([]domain.WorkoutCompletion, error)
}

// MeasurementRepository stores append-only body measurements.
type MeasurementRepository interface {
	Create(ctx context.Context, m *domain.BodyMeasurement) (primitive.ObjectID, error)
	ListByUserID(ctx context.Context, userID string) ([]domain.BodyMeasurement, error) // ascending by date
}

// ExportRepository stores metadata about plan snapshots written to object storage.
type ExportRepository interface {
	Create(ctx context.Context, export *domain.PlanExport) (primitive.ObjectID, error)
	GetLatestByPlanID(ctx context.Context, planID primitive.ObjectID) (*domain.PlanExport, error)
}

package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	planCollectionName = "workout_plans"

	activePlanIndex      = "uniq_active_plan_per_user"
	planIdempotencyIndex = "uniq_plan_idempotency_key"

	// maxAppliedEditKeys bounds the remembered edit keys per plan.
	maxAppliedEditKeys = 50
)

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new WorkoutPlan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		client:     db.Client(),
		collection: db.Collection(planCollectionName),
	}
}

// GetByID retrieves a single plan by its ID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetActiveByUserID retrieves the plan the user is currently following.
func (r *mongoPlanRepository) GetActiveByUserID(ctx context.Context, userID string) (*domain.WorkoutPlan, error) {
	return r.findOne(ctx, bson.M{"userId": userID, "status": domain.PlanStatusActive})
}

// GetByIdempotencyKey finds the plan created by an earlier request with the same key.
func (r *mongoPlanRepository) GetByIdempotencyKey(ctx context.Context, userID, key string) (*domain.WorkoutPlan, error) {
	if key == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"userId": userID, "idempotencyKey": key})
}

func (r *mongoPlanRepository) findOne(ctx context.Context, filter bson.M) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapErr(err)
	}
	return &plan, nil
}

// ListByUserID returns every plan of the user, newest first.
func (r *mongoPlanRepository) ListByUserID(ctx context.Context, userID string) ([]domain.WorkoutPlan, error) {
	plans := []domain.WorkoutPlan{}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, wrapErr(err)
	}
	return plans, nil
}

// Regenerate archives the current active plan and inserts the new one inside
// a transaction. Standalone servers without transaction support fall back to
// archive-then-insert; the partial unique index still rejects a second
// active plan, and an insert failure is returned to the caller.
func (r *mongoPlanRepository) Regenerate(ctx context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error) {
	if plan.UserID == "" || plan.PlanName == "" {
		return nil, errors.New("plan requires userId and planName")
	}
	now := time.Now().UTC()
	plan.ID = primitive.NewObjectID()
	plan.Status = domain.PlanStatusActive
	plan.CreatedAt = now
	plan.UpdatedAt = now

	session, err := r.client.StartSession()
	if err != nil {
		return nil, wrapErr(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, r.archiveAndInsert(sc, plan, now)
	})
	if err != nil && transactionsUnsupported(err) {
		err = r.archiveAndInsert(ctx, plan, now)
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *mongoPlanRepository) archiveAndInsert(ctx context.Context, plan *domain.WorkoutPlan, now time.Time) error {
	filter := bson.M{"userId": plan.UserID, "status": domain.PlanStatusActive}
	update, err := archiveUpdate(now)
	if err != nil {
		return err
	}
	if _, err := r.collection.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("archive active plan: %w", wrapErr(err))
	}

	if _, err := r.collection.InsertOne(ctx, plan); err != nil {
		return fmt.Errorf("insert plan: %w", insertError(err))
	}
	return nil
}

// archiveUpdate is the $set applied to active plans on regeneration, taken
// from the domain transition so both agree on the archived state.
func archiveUpdate(now time.Time) (bson.M, error) {
	transition := domain.WorkoutPlan{Status: domain.PlanStatusActive}
	if err := transition.Archive(now); err != nil {
		return nil, err
	}
	return bson.M{"$set": bson.M{"status": transition.Status, "updatedAt": transition.UpdatedAt}}, nil
}

func insertError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return wrapErr(err)
	}
	if strings.Contains(err.Error(), planIdempotencyIndex) {
		return repository.ErrDuplicate
	}
	return repository.ErrConflict
}

// ReplacePlanData swaps the embedded plan document of an active plan.
func (r *mongoPlanRepository) ReplacePlanData(ctx context.Context, planID primitive.ObjectID, userID string, data *domain.PlanData, editKey string) (*domain.WorkoutPlan, error) {
	filter := bson.M{"_id": planID, "userId": userID, "status": domain.PlanStatusActive}
	set := bson.M{
		"planData":  data,
		"updatedAt": time.Now().UTC(),
	}
	if data.PlanName != "" {
		set["planName"] = data.PlanName
	}
	update := bson.M{"$set": set}
	if editKey != "" {
		filter["appliedEditKeys"] = bson.M{"$ne": editKey}
		update["$push"] = bson.M{
			"appliedEditKeys": bson.M{"$each": bson.A{editKey}, "$slice": -maxAppliedEditKeys},
		}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.WorkoutPlan
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, wrapErr(err)
	}

	// Nothing matched: unknown plan, not ours, archived, or a replayed edit.
	existing, getErr := r.GetByID(ctx, planID)
	if getErr != nil {
		return nil, getErr
	}
	if existing.UserID != userID {
		return nil, repository.ErrNotFound
	}
	if existing.HasAppliedEdit(editKey) {
		return existing, nil
	}
	return nil, repository.ErrConflict
}

// EnsurePlanIndexes creates the plan indexes, including the partial unique
// index that allows only one active plan per user.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().
				SetName(activePlanIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.PlanStatusActive}),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "idempotencyKey", Value: 1}},
			Options: options.Index().
				SetName(planIdempotencyIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"idempotencyKey": bson.M{"$type": "string"}}),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("indexes for %s: %w", collection.Name(), err)
	}
	return nil
}

package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const completionCollectionName = "workout_completions"

// mongoCompletionRepository implements repository.CompletionRepository
type mongoCompletionRepository struct {
	collection *mongo.Collection
}

// NewMongoCompletionRepository creates a new WorkoutCompletion repository.
func NewMongoCompletionRepository(db *mongo.Database) repository.CompletionRepository {
	return &mongoCompletionRepository{
		collection: db.Collection(completionCollectionName),
	}
}

// Create appends a completion. A ClientRequestID seen before for the same
// user yields the stored completion together with repository.ErrDuplicate.
func (r *mongoCompletionRepository) Create(ctx context.Context, completion *domain.WorkoutCompletion) (*domain.WorkoutCompletion, error) {
	if completion.UserID == "" || completion.PlanID == primitive.NilObjectID {
		return nil, errors.New("completion requires userId and planId")
	}
	completion.ID = primitive.NewObjectID()
	completion.CreatedAt = time.Now().UTC()
	if completion.WorkoutDate.IsZero() {
		completion.WorkoutDate = completion.CreatedAt
	}

	_, err := r.collection.InsertOne(ctx, completion)
	if err == nil {
		return completion, nil
	}
	if !mongo.IsDuplicateKeyError(err) || completion.ClientRequestID == "" {
		return nil, wrapErr(err)
	}

	var existing domain.WorkoutCompletion
	filter := bson.M{"userId": completion.UserID, "clientRequestId": completion.ClientRequestID}
	if err := r.collection.FindOne(ctx, filter).Decode(&existing); err != nil {
		return nil, wrapErr(err)
	}
	return &existing, repository.ErrDuplicate
}

// ListByUserID returns the user's completions, most recent workout first.
func (r *mongoCompletionRepository) ListByUserID(ctx context.Context, userID string) ([]domain.WorkoutCompletion, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// ListByPlanID returns the completions logged against one plan.
func (r *mongoCompletionRepository) ListByPlanID(ctx context.Context, userID string, planID primitive.ObjectID) ([]domain.WorkoutCompletion, error) {
	return r.find(ctx, bson.M{"userId": userID, "planId": planID})
}

func (r *mongoCompletionRepository) find(ctx context.Context, filter bson.M) ([]domain.WorkoutCompletion, error) {
	completions := []domain.WorkoutCompletion{}
	findOptions := options.Find().SetSort(bson.D{
		{Key: "workoutDate", Value: -1},
		{Key: "createdAt", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &completions); err != nil {
		return nil, wrapErr(err)
	}
	return completions, nil
}

// EnsureCompletionIndexes creates necessary indexes for the completions collection.
func EnsureCompletionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "workoutDate", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "planId", Value: 1}},
			Options: options.Index(),
		},
		{
			// Retries of the same client request collapse onto one record.
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "clientRequestId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"clientRequestId": bson.M{"$type": "string"}}),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("indexes for %s: %w", collection.Name(), err)
	}
	return nil
}

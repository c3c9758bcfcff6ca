package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const profileCollectionName = "user_profiles"

type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new UserProfile repository.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// Upsert writes the profile keyed by user id and returns the stored document.
// CreatedAt is only set when the profile is first inserted.
func (r *mongoProfileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	if profile.UserID == "" {
		return nil, errors.New("profile requires userId")
	}
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"fullName":          profile.FullName,
			"fitnessLevel":      profile.FitnessLevel,
			"fitnessAssessment": profile.FitnessAssessment,
			"primaryGoal":       profile.PrimaryGoal,
			"secondaryGoals":    profile.SecondaryGoals,
			"equipment":         profile.Equipment,
			"daysPerWeek":       profile.DaysPerWeek,
			"sessionDuration":   profile.SessionDuration,
			"restDays":          profile.RestDays,
			"restrictions":      profile.Restrictions,
			"updatedAt":         now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.UserProfile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"userId": profile.UserID}, update, opts).Decode(&stored)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &stored, nil
}

// GetByUserID retrieves the profile of a user.
func (r *mongoProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapErr(err)
	}
	return &profile, nil
}

// UpdateBasics changes the fields editable from the profile screen.
func (r *mongoProfileRepository) UpdateBasics(ctx context.Context, userID, fullName string, level domain.FitnessLevel) error {
	update := bson.M{
		"$set": bson.M{
			"fullName":     fullName,
			"fitnessLevel": level,
			"updatedAt":    time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"userId": userID}, update)
	if err != nil {
		return wrapErr(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProfileIndexes makes user id the natural key of the collection.
func EnsureProfileIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("indexes for %s: %w", collection.Name(), err)
	}
	return nil
}

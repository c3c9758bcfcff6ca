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

const measurementCollectionName = "body_measurements"

type mongoMeasurementRepository struct {
	collection *mongo.Collection
}

// NewMongoMeasurementRepository creates a new BodyMeasurement repository.
func NewMongoMeasurementRepository(db *mongo.Database) repository.MeasurementRepository {
	return &mongoMeasurementRepository{
		collection: db.Collection(measurementCollectionName),
	}
}

// Create inserts a measurement.
func (r *mongoMeasurementRepository) Create(ctx context.Context, m *domain.BodyMeasurement) (primitive.ObjectID, error) {
	if m.UserID == "" {
		return primitive.NilObjectID, errors.New("measurement requires userId")
	}
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()
	if m.MeasurementDate.IsZero() {
		m.MeasurementDate = m.CreatedAt
	}

	result, err := r.collection.InsertOne(ctx, m)
	if err != nil {
		return primitive.NilObjectID, wrapErr(err)
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted measurement ID")
	}
	return insertedID, nil
}

// ListByUserID returns measurements oldest first, the order charts plot them in.
func (r *mongoMeasurementRepository) ListByUserID(ctx context.Context, userID string) ([]domain.BodyMeasurement, error) {
	measurements := []domain.BodyMeasurement{}
	findOptions := options.Find().SetSort(bson.D{
		{Key: "measurementDate", Value: 1},
		{Key: "createdAt", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &measurements); err != nil {
		return nil, wrapErr(err)
	}
	return measurements, nil
}

// EnsureMeasurementIndexes creates necessary indexes for the measurements collection.
func EnsureMeasurementIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "measurementDate", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("indexes for %s: %w", collection.Name(), err)
	}
	return nil
}

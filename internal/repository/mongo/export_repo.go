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

const exportCollectionName = "plan_exports"

// mongoExportRepository implements repository.ExportRepository
type mongoExportRepository struct {
	collection *mongo.Collection
}

// NewMongoExportRepository creates a new PlanExport repository backed by MongoDB.
func NewMongoExportRepository(db *mongo.Database) repository.ExportRepository {
	return &mongoExportRepository{
		collection: db.Collection(exportCollectionName),
	}
}

// Create inserts export metadata into the database.
func (r *mongoExportRepository) Create(ctx context.Context, export *domain.PlanExport) (primitive.ObjectID, error) {
	if export.PlanID == primitive.NilObjectID || export.UserID == "" || export.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("export requires planId, userId, and s3ObjectKey")
	}

	export.ID = primitive.NewObjectID()
	export.ExportedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, export)
	if err != nil {
		return primitive.NilObjectID, wrapErr(err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetLatestByPlanID retrieves the most recent export of a plan.
func (r *mongoExportRepository) GetLatestByPlanID(ctx context.Context, planID primitive.ObjectID) (*domain.PlanExport, error) {
	var export domain.PlanExport
	findOneOptions := options.FindOne().SetSort(bson.D{{Key: "exportedAt", Value: -1}})

	err := r.collection.FindOne(ctx, bson.M{"planId": planID}, findOneOptions).Decode(&export)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapErr(err)
	}
	return &export, nil
}

// EnsureExportIndexes creates necessary indexes for the exports collection.
func EnsureExportIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "exportedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "s3ObjectKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("indexes for %s: %w", collection.Name(), err)
	}
	return nil
}

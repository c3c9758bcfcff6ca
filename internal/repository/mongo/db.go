package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fittrack/planner/internal/domain"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/multierr"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// The initial connect can succeed against an unresponsive server, so ping the primary.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection. Failures are
// collected so one broken collection does not hide the others.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	return multierr.Combine(
		EnsureUserIndexes(ctx, db.Collection(userCollectionName)),
		EnsureProfileIndexes(ctx, db.Collection(profileCollectionName)),
		EnsurePlanIndexes(ctx, db.Collection(planCollectionName)),
		EnsureCompletionIndexes(ctx, db.Collection(completionCollectionName)),
		EnsureMeasurementIndexes(ctx, db.Collection(measurementCollectionName)),
		EnsureExportIndexes(ctx, db.Collection(exportCollectionName)),
	)
}

// wrapErr marks network failures and timeouts as transient so callers may retry reads.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrTransientIO, err)
	}
	return err
}

// illegalOperation is the server code for "transactions need a replica set".
const illegalOperation = 20

func transactionsUnsupported(err error) bool {
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorCode(illegalOperation)
	}
	return false
}

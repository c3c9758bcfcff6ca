package mongo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/repository"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func duplicateKey(index string) error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: fmt.Sprintf("E11000 duplicate key error collection: fittrack.workout_plans index: %s dup key", index),
	}}}
}

func TestWrapErr(t *testing.T) {
	assert.NoError(t, wrapErr(nil))
	assert.ErrorIs(t, wrapErr(context.DeadlineExceeded), domain.ErrTransientIO)
	assert.ErrorIs(t, wrapErr(fmt.Errorf("find: %w", context.DeadlineExceeded)), domain.ErrTransientIO)

	plain := errors.New("bad query")
	assert.Equal(t, plain, wrapErr(plain))
}

func TestInsertError(t *testing.T) {
	assert.ErrorIs(t, insertError(duplicateKey(planIdempotencyIndex)), repository.ErrDuplicate)
	assert.ErrorIs(t, insertError(duplicateKey(activePlanIndex)), repository.ErrConflict)
	assert.ErrorIs(t, insertError(context.DeadlineExceeded), domain.ErrTransientIO)
}

func TestTransactionsUnsupported(t *testing.T) {
	assert.True(t, transactionsUnsupported(mongo.CommandError{Code: illegalOperation, Message: "Transaction numbers are only allowed on a replica set member or mongos"}))
	assert.True(t, transactionsUnsupported(fmt.Errorf("start: %w", mongo.CommandError{Code: illegalOperation})))
	assert.False(t, transactionsUnsupported(mongo.CommandError{Code: 11000}))
	assert.False(t, transactionsUnsupported(errors.New("boom")))
}

func TestArchiveUpdate(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	update, err := archiveUpdate(now)
	assert.NoError(t, err)
	set, ok := update["$set"].(bson.M)
	if assert.True(t, ok) {
		assert.Equal(t, domain.PlanStatusArchived, set["status"])
		assert.Equal(t, now, set["updatedAt"])
	}
}

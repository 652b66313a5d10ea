package databases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cybermitra/guardian-api/databases"
	"github.com/cybermitra/guardian-api/databases/mocks"
)

func lockFixture() (*mocks.CollectionHelper, databases.SchedulerLockDatabase) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	dbHelper.On("Collection", "schedulerLocks").Return(collectionHelper)
	return collectionHelper, databases.NewSchedulerLockDatabase(dbHelper)
}

func TestSchedulerLockDatabase_TryAcquireLock(t *testing.T) {
	ctx := context.Background()

	t.Run("acquired", func(t *testing.T) {
		coll, locks := lockFixture()
		coll.On("UpdateOne", ctx, mock.MatchedBy(func(f bson.M) bool {
			return f["_id"] == "stale_case_digest"
		}), mock.Anything, mock.Anything).Return(&mongo.UpdateResult{UpsertedCount: 1}, nil)

		ok, err := locks.TryAcquireLock(ctx, "stale_case_digest", "web.1", time.Minute)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("held elsewhere", func(t *testing.T) {
		coll, locks := lockFixture()
		dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}
		coll.On("UpdateOne", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil, dup)

		ok, err := locks.TryAcquireLock(ctx, "stale_case_digest", "web.2", time.Minute)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("database error", func(t *testing.T) {
		coll, locks := lockFixture()
		coll.On("UpdateOne", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))

		ok, err := locks.TryAcquireLock(ctx, "stale_case_digest", "web.1", time.Minute)
		assert.EqualError(t, err, "mocked-error")
		assert.False(t, ok)
	})
}

func TestSchedulerLockDatabase_ReleaseLock(t *testing.T) {
	ctx := context.Background()
	coll, locks := lockFixture()
	coll.On("DeleteOne", ctx, bson.M{"_id": "stale_case_digest", "owner": "web.1"}).Return(int64(1), nil)

	assert.NoError(t, locks.ReleaseLock(ctx, "stale_case_digest", "web.1"))
	coll.AssertExpectations(t)
}

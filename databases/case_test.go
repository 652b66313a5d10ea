package databases_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cybermitra/guardian-api/config"
	"github.com/cybermitra/guardian-api/databases"
	"github.com/cybermitra/guardian-api/databases/mocks"
	"github.com/cybermitra/guardian-api/models"
)

func TestNewCaseDatabase(t *testing.T) {
	_ = os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	_ = os.Setenv("DB_NAME", "test")
	conf := config.New()

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	caseDB := databases.NewCaseDatabase(db)

	assert.NotEmpty(t, caseDB)
}

func TestCaseDatabase_FindOne(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelperErr databases.SingleResultHelper
	var srHelperCorrect databases.SingleResultHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelperErr = &mocks.SingleResultHelper{}
	srHelperCorrect = &mocks.SingleResultHelper{}

	srHelperErr.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(errors.New("mocked-error"))

	srHelperCorrect.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Case)
		(*arg).CaseNumber = "CAS-12345"
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": true}).
		Return(srHelperErr)

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": false}).
		Return(srHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "cases").Return(collectionHelper)

	caseDba := databases.NewCaseDatabase(dbHelper)

	cs, err := caseDba.FindOne(context.Background(), bson.M{"error": true})

	assert.Empty(t, cs)
	assert.EqualError(t, err, "mocked-error")

	cs, err = caseDba.FindOne(context.Background(), bson.M{"error": false})

	assert.Equal(t, &models.Case{CaseNumber: "CAS-12345"}, cs)
	assert.NoError(t, err)
}

func TestCaseDatabase_Find(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Case)
		*arg = []models.Case{{CaseNumber: "CAS-00001"}, {CaseNumber: "CAS-00002"}}
	})
	collectionHelper.On("Find", context.Background(), bson.M{}).Return(cursor, nil)
	collectionHelper.On("Find", context.Background(), bson.M{"error": true}).Return(nil, errors.New("mocked-error"))
	dbHelper.On("Collection", "cases").Return(collectionHelper)

	caseDba := databases.NewCaseDatabase(dbHelper)

	cases, err := caseDba.Find(context.Background(), bson.M{})
	require.NoError(t, err)
	assert.Len(t, cases, 2)

	cases, err = caseDba.Find(context.Background(), bson.M{"error": true})
	assert.Nil(t, cases)
	assert.EqualError(t, err, "mocked-error")
}

func TestCaseDatabase_InsertOne(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	result := &mocks.InsertOneResultHelper{}

	id := primitive.NewObjectID()
	result.On("Decode").Return(id)
	collectionHelper.On("InsertOne", context.Background(), mock.AnythingOfType("models.Case")).Return(result, nil)
	dbHelper.On("Collection", "cases").Return(collectionHelper)

	caseDba := databases.NewCaseDatabase(dbHelper)

	got, err := caseDba.InsertOne(context.Background(), models.Case{Title: "Phishing attempt"})
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), got)
}

func TestCaseDatabase_InsertOneError(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("InsertOne", context.Background(), mock.Anything).Return(nil, errors.New("mocked-error"))
	dbHelper.On("Collection", "cases").Return(collectionHelper)

	caseDba := databases.NewCaseDatabase(dbHelper)

	got, err := caseDba.InsertOne(context.Background(), models.Case{})
	assert.Empty(t, got)
	assert.EqualError(t, err, "mocked-error")
}

func TestCaseDatabase_UpdateOne(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	filter := bson.M{"_id": "abc"}
	update := bson.M{"$set": bson.M{"title": "t"}}
	collectionHelper.On("UpdateOne", context.Background(), filter, update).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)
	dbHelper.On("Collection", "cases").Return(collectionHelper)

	caseDba := databases.NewCaseDatabase(dbHelper)

	matched, err := caseDba.UpdateOne(context.Background(), filter, update)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)
}

func TestCaseDatabase_DeleteAndCount(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	filter := bson.M{"_id": "abc"}
	collectionHelper.On("DeleteOne", context.Background(), filter).Return(int64(1), nil)
	collectionHelper.On("CountDocuments", context.Background(), bson.M{"status": "active"}).Return(int64(7), nil)
	dbHelper.On("Collection", "cases").Return(collectionHelper)

	caseDba := databases.NewCaseDatabase(dbHelper)

	deleted, err := caseDba.DeleteOne(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	count, err := caseDba.CountDocuments(context.Background(), bson.M{"status": "active"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, databases.IsNotFound(mongo.ErrNoDocuments))
	assert.False(t, databases.IsNotFound(errors.New("boom")))
}

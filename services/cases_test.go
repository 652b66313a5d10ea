package services_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	dbmocks "github.com/cybermitra/guardian-api/databases/mocks"
	"github.com/cybermitra/guardian-api/events"
	evmocks "github.com/cybermitra/guardian-api/events/mocks"
	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/services"
)

var caseNumberPattern = regexp.MustCompile(`^CAS-\d{5}$`)

func phishingCase() models.NewCaseData {
	return models.NewCaseData{
		Title:  "Phishing attempt",
		Victim: models.Victim{Name: "A. Sharma", Email: "a.sharma@example.com"},
	}
}

func TestCreateCase(t *testing.T) {
	db := newMemCaseDB()
	pub := &evmocks.Publisher{}
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool { return e.Type == events.CaseCreated })).Return(nil)
	store := services.NewCaseStore(db, pub, "CAS-")
	store.Clock = fixedClock()

	resp, err := store.CreateCase(context.Background(), phishingCase(), "creator1")
	require.NoError(t, err)
	assert.Regexp(t, caseNumberPattern, resp.CaseNumber)

	c, err := store.GetCaseByID(context.Background(), resp.CaseID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusUnverified, c.Status)
	assert.Nil(t, c.AssignedTo)
	assert.Equal(t, primitive.NewDateTimeFromTime(fixedNow), c.DateOpened)
	assert.Equal(t, "creator1", c.CreatedBy)
	assert.Equal(t, models.PriorityMedium, c.Priority)
	assert.Equal(t, "INR", c.Currency)
	assert.Nil(t, c.DateClosed)
	pub.AssertExpectations(t)
}

func TestCreateCase_ValidationIssuesNoStoreCalls(t *testing.T) {
	tests := []struct {
		name string
		data models.NewCaseData
	}{
		{"missing title", models.NewCaseData{Victim: models.Victim{Name: "A. Sharma"}}},
		{"blank title", models.NewCaseData{Title: "   ", Victim: models.Victim{Name: "A. Sharma"}}},
		{"missing victim name", models.NewCaseData{Title: "Phishing attempt"}},
		{"bad priority", models.NewCaseData{Title: "t", Victim: models.Victim{Name: "v"}, Priority: "urgent"}},
		{"negative amount", models.NewCaseData{Title: "t", Victim: models.Victim{Name: "v"}, AmountInvolved: -1}},
		{"bad victim email", models.NewCaseData{Title: "t", Victim: models.Victim{Name: "v", Email: "nope"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &dbmocks.CaseDatabase{}
			store := services.NewCaseStore(db, nil, "CAS-")

			_, err := store.CreateCase(context.Background(), tt.data, "creator1")
			assert.ErrorIs(t, err, services.ErrValidation)
			db.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
			db.AssertNotCalled(t, "CountDocuments", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateCase_CaseNumberProbes(t *testing.T) {
	db := &dbmocks.CaseDatabase{}
	db.On("CountDocuments", mock.Anything, bson.M{"caseNumber": "CAS-00001"}).Return(int64(1), nil).Once()
	db.On("CountDocuments", mock.Anything, bson.M{"caseNumber": "CAS-00002"}).Return(int64(0), nil).Once()
	db.On("InsertOne", mock.Anything, mock.MatchedBy(func(c models.Case) bool { return c.CaseNumber == "CAS-00002" })).
		Return("65f2c0a1b2c3d4e5f6a7b8c9", nil)

	next := 0
	store := services.NewCaseStore(db, nil, "CAS-")
	store.Intn = func(n int) int { next++; return next }

	resp, err := store.CreateCase(context.Background(), phishingCase(), "creator1")
	require.NoError(t, err)
	assert.Equal(t, "CAS-00002", resp.CaseNumber)
	assert.Equal(t, "65f2c0a1b2c3d4e5f6a7b8c9", resp.CaseID)
	db.AssertExpectations(t)
}

func TestCreateCase_CaseNumberProbesExhausted(t *testing.T) {
	db := &dbmocks.CaseDatabase{}
	db.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil).Times(5)
	db.On("InsertOne", mock.Anything, mock.Anything).Return("65f2c0a1b2c3d4e5f6a7b8c9", nil)

	store := services.NewCaseStore(db, nil, "CAS-")
	store.Intn = func(n int) int { return 42 }

	resp, err := store.CreateCase(context.Background(), phishingCase(), "creator1")
	require.NoError(t, err)
	assert.Equal(t, "CAS-00042", resp.CaseNumber)
	db.AssertNumberOfCalls(t, "CountDocuments", 5)
}

func TestGetCaseByID_NotFound(t *testing.T) {
	db := &dbmocks.CaseDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	store := services.NewCaseStore(db, nil, "CAS-")

	_, err := store.GetCaseByID(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = store.GetCaseByID(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, services.ErrNotFound)
	db.AssertNumberOfCalls(t, "FindOne", 1)
}

func TestGetCaseByID_StoreFailure(t *testing.T) {
	db := &dbmocks.CaseDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))
	store := services.NewCaseStore(db, nil, "CAS-")

	_, err := store.GetCaseByID(context.Background(), primitive.NewObjectID().Hex())
	require.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrNotFound)
}

func TestGetAllCases_EmptyIsNotNil(t *testing.T) {
	db := &dbmocks.CaseDatabase{}
	db.On("Find", mock.Anything, bson.M{}, mock.Anything).Return(nil, nil)
	store := services.NewCaseStore(db, nil, "CAS-")

	cases, err := store.GetAllCases(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cases)
	assert.Empty(t, cases)
}

func TestSearchCases(t *testing.T) {
	db := &dbmocks.CaseDatabase{}
	db.On("Find", mock.Anything, mock.MatchedBy(func(f bson.M) bool {
		re, ok := f["caseNumber"].(primitive.Regex)
		return ok && re.Pattern == `^CAS-001` && re.Options == "i"
	}), mock.Anything).Return([]models.Case{{CaseNumber: "CAS-00123"}}, nil)
	store := services.NewCaseStore(db, nil, "CAS-")

	cases, err := store.SearchCases(context.Background(), " CAS-001 ")
	require.NoError(t, err)
	assert.Len(t, cases, 1)

	_, err = store.SearchCases(context.Background(), "")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestUpdateCase_RefreshesUpdatedAt(t *testing.T) {
	db := &dbmocks.CaseDatabase{}
	id := primitive.NewObjectID()
	var captured bson.M
	db.On("UpdateOne", mock.Anything, bson.M{"_id": id}, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(2).(bson.M) }).
		Return(int64(1), nil)
	store := services.NewCaseStore(db, nil, "CAS-")
	store.Clock = fixedClock()

	require.NoError(t, store.UpdateCase(context.Background(), id.Hex(), bson.M{"description": "more detail"}))
	set := captured["$set"].(bson.M)
	assert.Equal(t, "more detail", set["description"])
	assert.Equal(t, primitive.NewDateTimeFromTime(fixedNow), set["updatedAt"])
}

func TestUpdateCase_NotFound(t *testing.T) {
	db := &dbmocks.CaseDatabase{}
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
	store := services.NewCaseStore(db, nil, "CAS-")

	err := store.UpdateCase(context.Background(), primitive.NewObjectID().Hex(), bson.M{"title": "x"})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUpdateCaseDetails_StripsWorkflowFields(t *testing.T) {
	db := &dbmocks.CaseDatabase{}
	var captured bson.M
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(2).(bson.M) }).
		Return(int64(1), nil)
	store := services.NewCaseStore(db, events.Discard{}, "CAS-")

	err := store.UpdateCaseDetails(context.Background(), "actor", primitive.NewObjectID().Hex(), map[string]interface{}{
		"title":      "Phishing attempt (SMS)",
		"priority":   "high",
		"status":     "closed",
		"assignedTo": "someone",
		"createdBy":  "someone else",
		"caseNumber": "CAS-99999",
		"dateClosed": "2024-01-01",
	})
	require.NoError(t, err)
	set := captured["$set"].(bson.M)
	assert.Equal(t, "Phishing attempt (SMS)", set["title"])
	assert.Equal(t, "high", set["priority"])
	for _, k := range []string{"status", "assignedTo", "createdBy", "caseNumber", "dateClosed"} {
		assert.NotContains(t, set, k)
	}
}

func TestUpdateCaseDetails_Validation(t *testing.T) {
	tests := []map[string]interface{}{
		{"title": ""},
		{"priority": "urgent"},
		{"priority": 3.0},
		{"amountInvolved": -5.0},
		{"victim": map[string]interface{}{"email": "x@example.com"}},
		{"source": "fax"},
	}
	for _, raw := range tests {
		db := &dbmocks.CaseDatabase{}
		store := services.NewCaseStore(db, nil, "CAS-")
		err := store.UpdateCaseDetails(context.Background(), "actor", primitive.NewObjectID().Hex(), raw)
		assert.ErrorIs(t, err, services.ErrValidation, "%v", raw)
		db.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestUpdateCaseDetails_WrongTypesRejected(t *testing.T) {
	tests := []map[string]interface{}{
		{"tags": "urgent"},
		{"description": 5.0},
		{"metadata": "x"},
		{"victim": map[string]interface{}{"name": "A", "phone": 98.0}},
		{"victim": "Asha"},
		{"amountInvolved": "1200"},
		{"caseType": true},
		{"currency": "RUPEES"},
	}
	for _, raw := range tests {
		db := &dbmocks.CaseDatabase{}
		store := services.NewCaseStore(db, nil, "CAS-")
		err := store.UpdateCaseDetails(context.Background(), "actor", primitive.NewObjectID().Hex(), raw)
		assert.ErrorIs(t, err, services.ErrValidation, "%v", raw)
		db.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestUpdateCaseDetails_TypedSet(t *testing.T) {
	db := &dbmocks.CaseDatabase{}
	var captured bson.M
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(2).(bson.M) }).
		Return(int64(1), nil)
	store := services.NewCaseStore(db, events.Discard{}, "CAS-")

	err := store.UpdateCaseDetails(context.Background(), "actor", primitive.NewObjectID().Hex(), map[string]interface{}{
		"tags":           []interface{}{"upi", "sms"},
		"metadata":       map[string]interface{}{"channel": "sms"},
		"victim":         map[string]interface{}{"name": " Asha Rao ", "phone": "9800000000"},
		"amountInvolved": 1200.0,
		"currency":       "inr",
	})
	require.NoError(t, err)
	set := captured["$set"].(bson.M)
	assert.Equal(t, []string{"upi", "sms"}, set["tags"])
	assert.Equal(t, map[string]interface{}{"channel": "sms"}, set["metadata"])
	assert.Equal(t, models.Victim{Name: "Asha Rao", Phone: "9800000000"}, set["victim"])
	assert.Equal(t, 1200.0, set["amountInvolved"])
	assert.Equal(t, "INR", set["currency"])
	assert.NotContains(t, set, "title")
}

func TestDeleteCase(t *testing.T) {
	db := &dbmocks.CaseDatabase{}
	id := primitive.NewObjectID()
	db.On("DeleteOne", mock.Anything, bson.M{"_id": id}).Return(int64(1), nil).Once()
	db.On("DeleteOne", mock.Anything, bson.M{"_id": id}).Return(int64(0), nil).Once()
	store := services.NewCaseStore(db, nil, "CAS-")

	require.NoError(t, store.DeleteCase(context.Background(), "actor", id.Hex()))
	assert.ErrorIs(t, store.DeleteCase(context.Background(), "actor", id.Hex()), services.ErrNotFound)
}

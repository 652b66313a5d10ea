package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cybermitra/guardian-api/api/handlers"
	"github.com/cybermitra/guardian-api/databases"
	"github.com/cybermitra/guardian-api/databases/mocks"
	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/services"
)

func TestUser_MeHandler(t *testing.T) {
	me := models.User{ID: primitive.NewObjectID(), Username: "asha", Role: models.RoleInvestigator, PasswordHash: "hash"}
	db := &mocks.UserDatabase{}
	db.On("FindOne", mock.Anything, databases.ByID(me.ID)).Return(&me, nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(handlers.User{Users: &services.Users{DB: db}}.MeHandler).ServeHTTP(rr, newRequest(t, "GET", "/api/v1/users/me", "", me.ID.Hex()))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"username":"asha"`)
	assert.NotContains(t, rr.Body.String(), "hash")
}

func TestUser_UpdateMeHandler(t *testing.T) {
	me := models.User{ID: primitive.NewObjectID(), FirstName: "Asha"}
	db := &mocks.UserDatabase{}
	db.On("UpdateOne", mock.Anything, databases.ByID(me.ID), mock.MatchedBy(func(u bson.M) bool {
		return u["$set"].(bson.M)["department"] == "Cyber Cell"
	})).Return(int64(1), nil)
	db.On("FindOne", mock.Anything, databases.ByID(me.ID)).Return(&me, nil)
	u := handlers.User{Users: &services.Users{DB: db}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UpdateMeHandler).ServeHTTP(rr, newRequest(t, "PATCH", "/", `{"department": " Cyber Cell "}`, me.ID.Hex()))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	http.HandlerFunc(u.UpdateMeHandler).ServeHTTP(rr, newRequest(t, "PATCH", "/", `{"firstName": ""}`, me.ID.Hex()))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUser_UsersHandler(t *testing.T) {
	db := &mocks.UserDatabase{}
	db.On("Find", mock.Anything, bson.M{"role": bson.M{"$in": []string{models.RoleAdmin, models.RoleGuest}}}, mock.Anything).
		Return([]models.User{{Username: "a"}}, nil)
	db.On("Find", mock.Anything, bson.M{}, mock.Anything).Return(nil, errors.New("mocked-error"))
	u := handlers.User{Users: &services.Users{DB: db}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UsersHandler).ServeHTTP(rr, newRequest(t, "GET", "/api/v1/users?role=Admin,Guest", "", "u1"))
	assert.Equal(t, http.StatusOK, rr.Code)
	var got []models.User
	decodeJSON(t, rr.Body, &got)
	assert.Len(t, got, 1)

	rr = httptest.NewRecorder()
	http.HandlerFunc(u.UsersHandler).ServeHTTP(rr, newRequest(t, "GET", "/api/v1/users", "", "u1"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestUser_AssignableUsersHandler(t *testing.T) {
	db := &mocks.UserDatabase{}
	db.On("Find", mock.Anything, bson.M{"role": bson.M{"$in": services.AssignableRoles}}, mock.Anything).Return([]models.User{
		{ID: primitive.NewObjectID(), Username: "active", Role: models.RoleInvestigator, IsActive: true},
		{ID: primitive.NewObjectID(), Username: "gone", Role: models.RoleInvestigator, IsActive: false},
	}, nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(handlers.User{Users: &services.Users{DB: db}}.AssignableUsersHandler).ServeHTTP(rr, newRequest(t, "GET", "/", "", "u1"))

	assert.Equal(t, http.StatusOK, rr.Code)
	var got []models.AssignableUser
	decodeJSON(t, rr.Body, &got)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "active", got[0].Username)
	}
}

func TestUser_CreateUserHandler_Forbidden(t *testing.T) {
	actor := models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin, IsActive: true}
	db := &mocks.UserDatabase{}
	db.On("FindOne", mock.Anything, databases.ByID(actor.ID)).Return(&actor, nil)

	body := `{"email": "new@cybermitra.in", "username": "new", "firstName": "N", "lastName": "U", "role": "Investigator"}`
	rr := httptest.NewRecorder()
	http.HandlerFunc(handlers.User{Users: &services.Users{DB: db}}.CreateUserHandler).ServeHTTP(rr, newRequest(t, "POST", "/", body, actor.ID.Hex()))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	db.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestUser_CreateUserHandler_Conflict(t *testing.T) {
	actor := models.User{ID: primitive.NewObjectID(), Role: models.RoleSuperAdmin, IsActive: true}
	db := &mocks.UserDatabase{}
	db.On("FindOne", mock.Anything, databases.ByID(actor.ID)).Return(&actor, nil)
	db.On("CountDocuments", mock.Anything, bson.M{"email": "taken@cybermitra.in"}).Return(int64(1), nil)

	body := `{"email": "Taken@cybermitra.in", "username": "t", "firstName": "T", "lastName": "U", "role": "Guest"}`
	rr := httptest.NewRecorder()
	http.HandlerFunc(handlers.User{Users: &services.Users{DB: db}}.CreateUserHandler).ServeHTTP(rr, newRequest(t, "POST", "/", body, actor.ID.Hex()))

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestUser_UserByIDHandler_NotFound(t *testing.T) {
	db := &mocks.UserDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(nil, databases.ErrNoDocuments)

	id := primitive.NewObjectID().Hex()
	req := mux.SetURLVars(newRequest(t, "GET", "/", "", "u1"), map[string]string{"userId": id})
	rr := httptest.NewRecorder()
	http.HandlerFunc(handlers.User{Users: &services.Users{DB: db}}.UserByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

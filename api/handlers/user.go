package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/cybermitra/guardian-api/api"
	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/services"
)

// User exported for testing purposes
type User struct {
	Users *services.Users
}

// MeHandler returns the signed-in user's profile
func (u User) MeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := u.Users.GetUserProfile(ctx, api.UserID(r))
	if err != nil {
		serviceError(w, "failed to get user profile", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateMeHandler updates the signed-in user's profile and returns it
func (u User) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	var data models.ProfileUpdateData
	if !decode(w, r, &data, false) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	uid := api.UserID(r)
	if err := u.Users.UpdateUserProfile(ctx, uid, data); err != nil {
		serviceError(w, "failed to update user profile", err)
		return
	}
	user, err := u.Users.GetUserProfile(ctx, uid)
	if err != nil {
		serviceError(w, "failed to get user profile", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UsersHandler lists users, optionally filtered by ?role=a,b
func (u User) UsersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var (
		users []models.User
		err   error
	)
	if role := r.URL.Query().Get("role"); role != "" {
		users, err = u.Users.GetUsersByRole(ctx, strings.Split(role, ","))
	} else {
		users, err = u.Users.GetAllUsers(ctx)
	}
	if err != nil {
		serviceError(w, "failed to get users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// AssignableUsersHandler lists the users a case can be assigned to
func (u User) AssignableUsersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	users, err := u.Users.GetAssignableUsers(ctx)
	if err != nil {
		serviceError(w, "failed to get assignable users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// CreateUserHandler provisions a staff account
func (u User) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var data models.NewUserData
	if !decode(w, r, &data, false) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	id, err := u.Users.CreateNewUser(ctx, api.UserID(r), data)
	if err != nil {
		serviceError(w, "failed to create user", err)
		return
	}
	created(w, id)
}

// UserByIDHandler returns a single user
func (u User) UserByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := u.Users.GetUserProfile(ctx, mux.Vars(r)["userId"])
	if err != nil {
		serviceError(w, "failed to get user by ID", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

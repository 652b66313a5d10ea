package handlers

import (
	"net/http"

	"github.com/cybermitra/guardian-api/api"
	"github.com/cybermitra/guardian-api/config"
	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/services"
)

// Auth exported for testing purposes
type Auth struct {
	Identity      *services.Identity
	Authenticator *api.Authenticator
}

func (a Auth) respondWithToken(w http.ResponseWriter, r *http.Request, user *models.User) {
	token, err := a.Authenticator.IssueToken(r, user)
	if err != nil {
		config.ErrorStatus("failed to issue token", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.TokenResponse{
		Token:              token,
		UserID:             user.ID.Hex(),
		NeedsPasswordReset: user.NeedsPasswordReset,
	})
}

// TokenHandler exchanges basic credentials for a bearer token
func (a Auth) TokenHandler(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		config.ErrorStatus("basic auth failed", http.StatusUnauthorized, w, nil)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := a.Identity.Authenticate(ctx, email, password)
	if err != nil {
		serviceError(w, "failed to sign in", err)
		return
	}
	a.respondWithToken(w, r, user)
}

// SendEmailLinkHandler emails a sign-in link
func (a Auth) SendEmailLinkHandler(w http.ResponseWriter, r *http.Request) {
	var req models.EmailRequest
	if !decode(w, r, &req, false) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := a.Identity.SendSignInLink(ctx, req.Email); err != nil {
		serviceError(w, "failed to send sign-in link", err)
		return
	}
	writeJSON(w, http.StatusAccepted, models.SuccessResponse{Success: true, Message: "sign-in link sent"})
}

// CompleteEmailLinkHandler redeems a sign-in link for a bearer token
func (a Auth) CompleteEmailLinkHandler(w http.ResponseWriter, r *http.Request) {
	var req models.EmailLinkSignInRequest
	if !decode(w, r, &req, false) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := a.Identity.CompleteSignInLink(ctx, req.Email, req.Token)
	if err != nil {
		serviceError(w, "failed to complete sign-in", err)
		return
	}
	a.respondWithToken(w, r, user)
}

// SendPasswordResetHandler emails a password reset link
func (a Auth) SendPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	var req models.EmailRequest
	if !decode(w, r, &req, false) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := a.Identity.SendPasswordReset(ctx, req.Email); err != nil {
		serviceError(w, "failed to send password reset", err)
		return
	}
	writeJSON(w, http.StatusAccepted, models.SuccessResponse{Success: true, Message: "password reset email sent"})
}

// ConfirmPasswordResetHandler sets a new password from a reset token
func (a Auth) ConfirmPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetRequest
	if !decode(w, r, &req, false) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := a.Identity.ConfirmPasswordReset(ctx, req.Token, req.Password); err != nil {
		serviceError(w, "failed to reset password", err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// ChangePasswordHandler changes the signed-in user's password
func (a Auth) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if !decode(w, r, &req, false) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := a.Identity.ChangePassword(ctx, api.UserID(r), req.CurrentPassword, req.NewPassword); err != nil {
		serviceError(w, "failed to change password", err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// LogoutHandler revokes the bearer token of the request
func (a Auth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := a.Authenticator.Revoke(r); err != nil {
		config.ErrorStatus("failed to revoke token", http.StatusBadRequest, w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true, Message: "token revoked"})
}

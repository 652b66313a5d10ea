package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Auth token purposes
const (
	TokenPurposePasswordReset = "password-reset"
	TokenPurposeEmailSignIn   = "email-signin"
)

// AuthToken is a single-use, hashed token emailed to a user
type AuthToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	Purpose   string             `bson:"purpose"`
	TokenHash string             `bson:"tokenHash"`
	ExpiresAt time.Time          `bson:"expiresAt"`
	UsedAt    *time.Time         `bson:"usedAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// TokenResponse is returned once a user has signed in
type TokenResponse struct {
	Token              string `json:"token"`
	UserID             string `json:"_id"`
	NeedsPasswordReset bool   `json:"needsPasswordReset"`
}

// EmailRequest carries a bare email address
type EmailRequest struct {
	Email string `json:"email"`
}

// EmailLinkSignInRequest completes an emailed sign-in link. Email is the
// address the client kept while the link was pending.
type EmailLinkSignInRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// PasswordResetRequest confirms a password reset
type PasswordResetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ChangePasswordRequest re-authenticates with the current password before changing it
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

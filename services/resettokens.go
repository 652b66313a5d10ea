package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/cybermitra/guardian-api/databases"
	"github.com/cybermitra/guardian-api/mailer"
	"github.com/cybermitra/guardian-api/models"
	templates "github.com/cybermitra/guardian-api/templates/html"
)

// ResetTokenTTL is how long an emailed password reset link stays valid
const ResetTokenTTL = time.Hour

// ResetTokens issues and redeems single-use password reset tokens. Only the
// sha256 of a token is stored.
type ResetTokens struct {
	DB         databases.TokenDatabase
	Mailer     mailer.Mailer
	WebBaseURL string
	Clock      Clock
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (t *ResetTokens) issue(ctx context.Context, userID primitive.ObjectID) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := t.record(ctx, userID, models.TokenPurposePasswordReset, token, ResetTokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

// record stores the hash of a single-use token
func (t *ResetTokens) record(ctx context.Context, userID primitive.ObjectID, purpose, token string, ttl time.Duration) error {
	now := t.Clock.now()
	_, err := t.DB.InsertOne(ctx, models.AuthToken{
		UserID:    userID,
		Purpose:   purpose,
		TokenHash: hashToken(token),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("failed to store %s token: %w", purpose, err)
	}
	return nil
}

// claim marks an unused, unexpired token used. Only one caller can claim a
// given token; everyone else gets invalid-action-code.
func (t *ResetTokens) claim(ctx context.Context, filter bson.M) (time.Time, error) {
	now := t.Clock.now()
	filter["usedAt"] = bson.M{"$exists": false}
	filter["expiresAt"] = bson.M{"$gt": now}
	matched, err := t.DB.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"usedAt": now}})
	if err != nil {
		return now, fmt.Errorf("failed to claim token: %w", err)
	}
	if matched == 0 {
		return now, authError(CodeInvalidActionCode, errors.New("token already used or expired"))
	}
	return now, nil
}

func (t *ResetTokens) link(token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", t.WebBaseURL, url.QueryEscape(token))
}

// Send issues a token for user and emails the reset link. welcome switches the
// wording for freshly created accounts.
func (t *ResetTokens) Send(ctx context.Context, user *models.User, welcome bool) error {
	token, err := t.issue(ctx, user.ID)
	if err != nil {
		return err
	}
	link := t.link(token)

	subject := "Reset your Guardian password"
	body := "We received a request to reset your password. The link below is valid for one hour."
	label := "Reset password"
	if welcome {
		subject = "Welcome to CyberMitra Guardian"
		body = fmt.Sprintf("Hi %s,\nAn account has been created for you with the role %s. Choose a password to sign in. The link below is valid for one hour.", user.FirstName, user.Role)
		label = "Set password"
	}

	return t.Mailer.Send(ctx, mailer.Message{
		ToEmail:   user.Email,
		ToName:    user.FirstName + " " + user.LastName,
		Subject:   subject,
		HTML:      templates.RenderActionEmail(subject, body, label, link),
		PlainText: body + "\n\n" + link,
	})
}

// Redeem marks an unexpired, unused token used and runs consume for its owner
func (t *ResetTokens) Redeem(ctx context.Context, token string, consume func(userID primitive.ObjectID) error) error {
	if token == "" {
		return authError(CodeInvalidActionCode, nil)
	}
	rec, err := t.DB.FindOne(ctx, bson.M{
		"tokenHash": hashToken(token),
		"purpose":   models.TokenPurposePasswordReset,
		"usedAt":    bson.M{"$exists": false},
	})
	if err != nil {
		if databases.IsNotFound(err) {
			return authError(CodeInvalidActionCode, nil)
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if !t.Clock.now().Before(rec.ExpiresAt) {
		return authError(CodeInvalidActionCode, fmt.Errorf("token expired"))
	}
	if _, err := t.claim(ctx, bson.M{"_id": rec.ID}); err != nil {
		return err
	}
	if err := consume(rec.UserID); err != nil {
		// hand the token back so the user can retry the same link
		if _, uerr := t.DB.UpdateOne(context.WithoutCancel(ctx), bson.M{"_id": rec.ID}, bson.M{"$unset": bson.M{"usedAt": ""}}); uerr != nil {
			zap.S().Warnw("failed to release reset token", "tokenId", rec.ID.Hex(), "error", uerr)
		}
		return err
	}
	return nil
}

// Purge deletes tokens that are expired or already used
func (t *ResetTokens) Purge(ctx context.Context) (int64, error) {
	return t.DB.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"expiresAt": bson.M{"$lt": t.Clock.now()}},
		bson.M{"usedAt": bson.M{"$exists": true}},
	}})
}

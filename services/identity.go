package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cybermitra/guardian-api/databases"
	"github.com/cybermitra/guardian-api/mailer"
	"github.com/cybermitra/guardian-api/models"
	templates "github.com/cybermitra/guardian-api/templates/html"
)

const (
	// MaxLoginFailures is how many failed sign-ins an email may have per LoginWindow
	MaxLoginFailures = 5
	// LoginWindow is the throttling window for failed sign-ins
	LoginWindow = 15 * time.Minute
	// SignInLinkTTL is how long an emailed sign-in link stays valid
	SignInLinkTTL = 15 * time.Minute

	signInPurpose = "email-signin"
)

type signInClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Identity verifies credentials and runs the emailed sign-in and reset flows
type Identity struct {
	Users      *Users
	Resets     *ResetTokens
	Mailer     mailer.Mailer
	Secret     []byte
	WebBaseURL string
	Clock      Clock

	failures *cache.Cache
}

// NewIdentity wires the identity flows
func NewIdentity(users *Users, resets *ResetTokens, m mailer.Mailer, secret, webBaseURL string) *Identity {
	return &Identity{
		Users:      users,
		Resets:     resets,
		Mailer:     m,
		Secret:     []byte(secret),
		WebBaseURL: webBaseURL,
		failures:   cache.New(LoginWindow, 2*LoginWindow),
	}
}

func (s *Identity) checkEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return authError(CodeInvalidEmail, nil)
	}
	return nil
}

func (s *Identity) throttled(email string) bool {
	if s.failures == nil {
		return false
	}
	n, ok := s.failures.Get(email)
	return ok && n.(int) >= MaxLoginFailures
}

func (s *Identity) recordFailure(email, code string) {
	loginFailures.WithLabelValues(code).Inc()
	if s.failures == nil {
		return
	}
	if err := s.failures.Add(email, 1, cache.DefaultExpiration); err != nil {
		_, _ = s.failures.IncrementInt(email, 1)
	}
}

// Authenticate checks an email and password. Repeated failures for the same
// email are throttled with too-many-requests.
func (s *Identity) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}
	if s.throttled(email) {
		loginFailures.WithLabelValues(CodeTooManyRequests).Inc()
		return nil, authError(CodeTooManyRequests, ErrTooManyRequests)
	}

	user, err := s.Users.findByEmail(ctx, email)
	if err != nil {
		if databases.IsNotFound(err) {
			s.recordFailure(email, CodeUserNotFound)
			return nil, authError(CodeUserNotFound, ErrUnauthenticated)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive {
		s.recordFailure(email, CodeUserNotFound)
		return nil, authError(CodeUserNotFound, ErrUnauthenticated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(email, CodeWrongPassword)
		return nil, authError(CodeWrongPassword, ErrUnauthenticated)
	}

	if s.failures != nil {
		s.failures.Delete(email)
	}
	s.Users.RecordLogin(ctx, user.ID.Hex())
	return user, nil
}

// SendSignInLink emails a short-lived signed sign-in link
func (s *Identity) SendSignInLink(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := s.checkEmail(email); err != nil {
		return err
	}
	user, err := s.Users.findByEmail(ctx, email)
	if err != nil {
		if databases.IsNotFound(err) {
			return authError(CodeUserNotFound, nil)
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	now := s.Clock.now()
	jti := uuid.NewString()
	if err := s.Resets.record(ctx, user.ID, models.TokenPurposeEmailSignIn, jti, SignInLinkTTL); err != nil {
		return err
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, signInClaims{
		Email:   email,
		Purpose: signInPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SignInLinkTTL)),
		},
	}).SignedString(s.Secret)
	if err != nil {
		return fmt.Errorf("failed to sign sign-in link: %w", err)
	}

	link := fmt.Sprintf("%s/auth/email-link?token=%s", s.WebBaseURL, url.QueryEscape(token))
	subject := "Your Guardian sign-in link"
	body := "Use the link below to sign in. It expires in 15 minutes and can only be used from the browser that requested it."
	return s.Mailer.Send(ctx, mailer.Message{
		ToEmail:   email,
		ToName:    user.FirstName + " " + user.LastName,
		Subject:   subject,
		HTML:      templates.RenderActionEmail(subject, body, "Sign in", link),
		PlainText: body + "\n\n" + link,
	})
}

// CompleteSignInLink verifies an emailed link against the email the client kept
// while the link was pending. Each link signs in once.
func (s *Identity) CompleteSignInLink(ctx context.Context, email, token string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}

	claims := &signInClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.Clock.now))
	if err != nil {
		return nil, authError(CodeInvalidActionCode, err)
	}
	if claims.Purpose != signInPurpose {
		return nil, authError(CodeInvalidActionCode, errors.New("wrong token purpose"))
	}
	if claims.Email != email {
		return nil, authError(CodeInvalidEmail, errors.New("email does not match the sign-in link"))
	}
	if claims.ID == "" {
		return nil, authError(CodeInvalidActionCode, errors.New("sign-in link has no id"))
	}
	if _, err := s.Resets.claim(ctx, bson.M{
		"tokenHash": hashToken(claims.ID),
		"purpose":   models.TokenPurposeEmailSignIn,
	}); err != nil {
		return nil, err
	}

	user, err := s.Users.GetUserProfile(ctx, claims.Subject)
	if err != nil {
		if isNotFound(err) {
			return nil, authError(CodeUserNotFound, err)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, authError(CodeUserNotFound, nil)
	}
	s.Users.RecordLogin(ctx, user.ID.Hex())
	return user, nil
}

// SendPasswordReset emails a password reset link
func (s *Identity) SendPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := s.checkEmail(email); err != nil {
		return err
	}
	user, err := s.Users.findByEmail(ctx, email)
	if err != nil {
		if databases.IsNotFound(err) {
			return authError(CodeUserNotFound, nil)
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	return s.Resets.Send(ctx, user, false)
}

// ConfirmPasswordReset redeems a reset token and sets the new password
func (s *Identity) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if err := checkVar("password", newPassword, "min=8"); err != nil {
		return err
	}
	return s.Resets.Redeem(ctx, token, func(userID primitive.ObjectID) error {
		return s.Users.setPassword(ctx, userID, newPassword)
	})
}

// ChangePassword re-authenticates with the current password before setting a new one
func (s *Identity) ChangePassword(ctx context.Context, uid, currentPassword, newPassword string) error {
	if err := checkVar("newPassword", newPassword, "min=8"); err != nil {
		return err
	}
	user, err := s.Users.GetUserProfile(ctx, uid)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return authError(CodeWrongPassword, ErrUnauthenticated)
	}
	if err := s.Users.setPassword(ctx, user.ID, newPassword); err != nil {
		return err
	}
	zap.S().Infow("password changed", "userId", uid)
	return nil
}

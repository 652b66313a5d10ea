package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"

	"github.com/cybermitra/guardian-api/config"
	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/services"
)

const (
	// TokenTTL is how long an issued bearer token stays valid
	TokenTTL = 24 * time.Hour
	// credentialTTL bounds how long a basic auth success is remembered
	credentialTTL = 5 * time.Minute
)

// ErrNoBearerToken is returned by Revoke when the request carries no bearer token
var ErrNoBearerToken = errors.New("no bearer token")

// Authenticator guards the API with go-guardian. Basic credentials are checked
// against the identity service and bearer tokens live in an in-process cache.
type Authenticator struct {
	Identity *services.Identity

	guardian auth.Authenticator
}

// NewAuthenticator sets up the basic and cached bearer strategies. ctx bounds
// the lifetime of the cache janitors.
func NewAuthenticator(ctx context.Context, identity *services.Identity) *Authenticator {
	a := &Authenticator{Identity: identity}
	a.guardian = auth.New()
	basicStrategy := basic.New(a.validateUser, store.NewFIFO(ctx, credentialTTL))
	tokenStrategy := bearer.New(bearer.NoOpAuthenticate, store.NewFIFO(ctx, TokenTTL))

	a.guardian.EnableStrategy(basic.StrategyKey, basicStrategy)
	a.guardian.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
	return a
}

func (a *Authenticator) validateUser(ctx context.Context, r *http.Request, email, password string) (auth.Info, error) {
	user, err := a.Identity.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return userInfo(user), nil
}

func userInfo(user *models.User) auth.Info {
	return auth.NewDefaultUser(user.Email, user.ID.Hex(), []string{user.Role}, nil)
}

// Middleware rejects requests without valid credentials. Websocket clients,
// which cannot set headers, may pass the bearer token as ?token=.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") == "" {
			if token := r.URL.Query().Get("token"); token != "" {
				r = r.Clone(r.Context())
				r.Header.Set("Authorization", "Bearer "+token)
			}
		}
		info, err := a.guardian.Authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized", "url", r.URL.Path)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugw("user authenticated", "userId", info.ID())
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), info)))
	})
}

// IssueToken creates a bearer token for user
func (a *Authenticator) IssueToken(r *http.Request, user *models.User) (string, error) {
	token := uuid.New().String()
	tokenStrategy := a.guardian.Strategy(bearer.CachedStrategyKey)
	if err := auth.Append(tokenStrategy, token, userInfo(user), r); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

// Revoke invalidates the bearer token carried by r and returns it
func (a *Authenticator) Revoke(r *http.Request) (string, error) {
	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	if token == "" || strings.HasPrefix(token, "Basic ") {
		return "", ErrNoBearerToken
	}
	tokenStrategy := a.guardian.Strategy(bearer.CachedStrategyKey)
	if err := auth.Revoke(tokenStrategy, token, r); err != nil {
		return "", fmt.Errorf("failed to revoke token: %w", err)
	}
	return token, nil
}

// RequireRole admits only active users holding one of roles. The role is read
// from the user store on every request so demotions apply immediately.
func (a *Authenticator) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := UserID(r)
			ctx, cancel := WithQueryTimeout(r.Context())
			defer cancel()

			user, err := a.lookup(ctx, uid)
			if err != nil {
				config.ErrorStatus("forbidden", http.StatusForbidden, w, err)
				return
			}
			if !user.IsActive || !hasRole(user.Role, roles) {
				config.ErrorStatus("forbidden", http.StatusForbidden, w, fmt.Errorf("role %q may not access %s", user.Role, r.URL.Path))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *Authenticator) lookup(ctx context.Context, uid string) (*models.User, error) {
	if uid == "" {
		return nil, errors.New("anonymous request")
	}
	return a.Identity.Users.GetUserProfile(ctx, uid)
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/cybermitra/guardian-api/api"
	"github.com/cybermitra/guardian-api/databases"
	mocksdb "github.com/cybermitra/guardian-api/databases/mocks"
	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/services"
)

func testUser(t *testing.T, role string) models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	return models.User{
		ID:           primitive.NewObjectID(),
		Email:        "officer@cybermitra.in",
		Role:         role,
		IsActive:     true,
		PasswordHash: string(hash),
	}
}

func newTestAuthenticator(t *testing.T, user models.User) (*api.Authenticator, *mocksdb.UserDatabase) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db := &mocksdb.UserDatabase{}
	db.On("FindOne", mock.Anything, bson.M{"email": user.Email}).Return(&user, nil)
	db.On("FindOne", mock.Anything, databases.ByID(user.ID)).Return(&user, nil)
	db.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)

	identity := services.NewIdentity(&services.Users{DB: db}, nil, nil, "secret", "")
	return api.NewAuthenticator(ctx, identity), db
}

// echoUser writes the authenticated user id
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(api.UserID(r)))
})

func TestMiddleware_RejectsAnonymous(t *testing.T) {
	a, _ := newTestAuthenticator(t, testUser(t, models.RoleInvestigator))

	rr := httptest.NewRecorder()
	a.Middleware(echoUser).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error": "unauthorized"}`, rr.Body.String())
}

func TestMiddleware_BasicAuth(t *testing.T) {
	user := testUser(t, models.RoleInvestigator)
	a, _ := newTestAuthenticator(t, user)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
	req.SetBasicAuth(user.Email, "s3cret-pass")
	rr := httptest.NewRecorder()
	a.Middleware(echoUser).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, user.ID.Hex(), rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
	req.SetBasicAuth(user.Email, "wrong-pass")
	rr = httptest.NewRecorder()
	a.Middleware(echoUser).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestIssueAndRevokeToken(t *testing.T) {
	user := testUser(t, models.RoleInvestigator)
	a, _ := newTestAuthenticator(t, user)

	token, err := a.IssueToken(httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", nil), &user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	bearer := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return req
	}

	rr := httptest.NewRecorder()
	a.Middleware(echoUser).ServeHTTP(rr, bearer())
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, user.ID.Hex(), rr.Body.String())

	// websocket clients pass the token in the query string
	rr = httptest.NewRecorder()
	a.Middleware(echoUser).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/ws?token="+token, nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	revoked, err := a.Revoke(bearer())
	require.NoError(t, err)
	assert.Equal(t, token, revoked)

	rr = httptest.NewRecorder()
	a.Middleware(echoUser).ServeHTTP(rr, bearer())
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRevoke_NoToken(t *testing.T) {
	a, _ := newTestAuthenticator(t, testUser(t, models.RoleInvestigator))

	_, err := a.Revoke(httptest.NewRequest(http.MethodDelete, "/api/v1/auth/logout", nil))
	assert.ErrorIs(t, err, api.ErrNoBearerToken)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		active bool
		want   int
	}{
		{"super admin", models.RoleSuperAdmin, true, http.StatusOK},
		{"investigator", models.RoleInvestigator, true, http.StatusForbidden},
		{"inactive super admin", models.RoleSuperAdmin, false, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := testUser(t, tt.role)
			user.IsActive = tt.active
			a, _ := newTestAuthenticator(t, user)

			token, err := a.IssueToken(httptest.NewRequest(http.MethodPost, "/", nil), &user)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/cases/x", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			rr := httptest.NewRecorder()
			a.Middleware(a.RequireRole(models.RoleSuperAdmin)(echoUser)).ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestRequireRole_Anonymous(t *testing.T) {
	a, _ := newTestAuthenticator(t, testUser(t, models.RoleSuperAdmin))

	rr := httptest.NewRecorder()
	a.RequireRole(models.RoleSuperAdmin)(echoUser).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestTimeoutMiddleware(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	rr := httptest.NewRecorder()
	api.TimeoutMiddleware(10*time.Millisecond)(slow).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "Request timeout")

	rr = httptest.NewRecorder()
	api.TimeoutMiddleware(time.Second)(echoUser).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestWithQueryTimeout(t *testing.T) {
	ctx, cancel := api.WithQueryTimeout(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(api.QueryTimeout), deadline, time.Second)
}

package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cybermitra/guardian-api/api/handlers"
	"github.com/cybermitra/guardian-api/config"
	"github.com/cybermitra/guardian-api/databases/mocks"
	"github.com/cybermitra/guardian-api/events"
	"github.com/cybermitra/guardian-api/mailer"
)

func newTestApp() *handlers.App {
	conf := config.Config{CaseNumberPrefix: "CAS-", JWTSecret: "secret"}
	a := &handlers.App{
		Config:   conf,
		Services: handlers.NewServices(conf, &mocks.DatabaseHelper{}, nil, mailer.Noop{}, events.Discard{}),
	}
	a.Router = a.New()
	return a
}

func TestApp_HealthCheck(t *testing.T) {
	a := newTestApp()

	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"alive": true}`, rr.Body.String())
}

func TestApp_ProtectedRoutesRejectAnonymous(t *testing.T) {
	a := newTestApp()

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/cases"},
		{http.MethodPost, "/api/v1/cases/65f2c0ffee0000000000abcd/assign"},
		{http.MethodDelete, "/api/v1/cases/65f2c0ffee0000000000abcd"},
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodGet, "/api/v1/dashboard"},
		{http.MethodGet, "/api/v1/ws"},
	} {
		rr := httptest.NewRecorder()
		a.Router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, tt.path)
	}
}

func TestApp_TokenRouteIsPublic(t *testing.T) {
	a := newTestApp()

	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", nil))

	// no basic credentials: rejected by the handler rather than the middleware
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "basic auth failed")
}

func TestApp_Metrics(t *testing.T) {
	a := newTestApp()

	a.Router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil))

	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `route="/api/v1/cases"`)
	assert.Contains(t, rr.Body.String(), `status="401"`)
}

func TestApp_InitializeRequiresJWTSecret(t *testing.T) {
	a := handlers.App{Config: config.Config{URL: "mongodb://127.0.0.1:27017", DatabaseName: "test"}}
	err := a.Initialize(context.Background())
	assert.ErrorIs(t, err, config.ErrMissingJWTSecret)
	assert.Nil(t, a.Database())
}

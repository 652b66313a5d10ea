package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cybermitra/guardian-api/api/handlers"
	"github.com/cybermitra/guardian-api/databases/mocks"
	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/services"
)

func TestDashboard_DashboardHandler_SourcesDown(t *testing.T) {
	cases := &mocks.CaseDatabase{}
	cases.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))
	alerts := &mocks.AlertDatabase{}
	alerts.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), errors.New("mocked-error"))
	alerts.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))
	users := &mocks.UserDatabase{}
	users.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(4), nil)

	d := handlers.Dashboard{Dashboard: &services.Dashboard{
		Cases:  services.NewCaseStore(cases, nil, "CAS-"),
		Alerts: &services.Alerts{DB: alerts},
		Users:  &services.Users{DB: users},
	}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(d.DashboardHandler).ServeHTTP(rr, newRequest(t, "GET", "/api/v1/dashboard", "", "u1"))

	assert.Equal(t, http.StatusOK, rr.Code)
	var got models.DashboardData
	decodeJSON(t, rr.Body, &got)
	assert.Equal(t, 4, got.Stats.Users.Total)
	assert.Equal(t, 0, got.Stats.Cases.Total)
	assert.Empty(t, got.RecentAlerts)
}

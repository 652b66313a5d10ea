package config

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybermitra/guardian-api/models"
)

func TestNew(t *testing.T) {
	os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	os.Setenv("DB_NAME", "test")
	defer os.Unsetenv("DB_URI")
	defer os.Unsetenv("DB_NAME")
	conf := New()

	assert.NotEmpty(t, conf)
	assert.Equal(t, "mongodb://127.0.0.1:27017", conf.URL)
	assert.Equal(t, "test", conf.DatabaseName)
}

func TestNewDefaults(t *testing.T) {
	os.Unsetenv("STORAGE_BACKEND")
	os.Unsetenv("CASE_NUMBER_PREFIX")
	os.Setenv("REQUEST_TIMEOUT", "not-a-duration")
	defer os.Unsetenv("REQUEST_TIMEOUT")

	conf := New()

	assert.Equal(t, "cloudinary", conf.StorageBackend)
	assert.Equal(t, "CAS-", conf.CaseNumberPrefix)
	assert.Equal(t, 30*time.Second, conf.RequestTimeout)
	assert.Equal(t, 3, conf.StaleCaseDays)
	assert.True(t, conf.MinioUseSSL)
}

func TestErrorStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorStatus("error it borked", http.StatusBadRequest, rr, errors.New("bad request"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body models.ErrorMessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "error it borked", body.Response.Message)
	assert.Equal(t, "bad request", body.Response.Error)
}

func TestSetLoggerSetsDevelopmentLogger(t *testing.T) {
	l, err := setLogger("development")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1))
}

func TestSetLoggerSetsProductionLogger(t *testing.T) {
	l, err := setLogger("production")
	assert.NoError(t, err)
	assert.False(t, l.Core().Enabled(-1))
	assert.True(t, l.Core().Enabled(0))
}

func TestSetLoggerSetsLocalLogger(t *testing.T) {
	l, err := setLogger("local")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(0))
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, (&Config{}).Validate(), ErrMissingJWTSecret)
	assert.ErrorIs(t, (&Config{JWTSecret: "  "}).Validate(), ErrMissingJWTSecret)
	assert.NoError(t, (&Config{JWTSecret: "s3cret"}).Validate())
}

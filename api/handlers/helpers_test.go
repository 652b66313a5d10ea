package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/shaj13/go-guardian/auth"
	"github.com/stretchr/testify/require"

	"github.com/cybermitra/guardian-api/api"
)

// newRequest builds a request signed in as uid
func newRequest(t *testing.T, method, target, body, uid string) *http.Request {
	req, err := http.NewRequest(method, target, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if uid == "" {
		return req
	}
	return signedIn(req, uid)
}

func signedIn(req *http.Request, uid string) *http.Request {
	info := auth.NewDefaultUser("officer@cybermitra.in", uid, nil, nil)
	return req.WithContext(api.WithPrincipal(req.Context(), info))
}

func decodeJSON(t *testing.T, body io.Reader, v interface{}) {
	require.NoError(t, json.NewDecoder(body).Decode(v))
}

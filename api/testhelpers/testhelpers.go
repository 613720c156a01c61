// Package testhelpers holds request and response helpers shared by the HTTP
// handler tests.
package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/models"
)

// Ids of the callers attached by AsSuperAdmin and AsViewer
const (
	SuperAdminID = "5fc51f36c72ff10004dca381"
	ViewerID     = "5fc51f36c72ff10004dca382"
)

// Envelope mirrors the response envelope with the payload left raw
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// AsRole attaches a caller to the request as the auth middleware would
func AsRole(req *http.Request, id, name, role string) *http.Request {
	return req.WithContext(api.WithPrincipal(req.Context(), api.Principal{ID: id, Name: name, Role: role}))
}

// AsSuperAdmin attaches a SuperAdmin named "Admin"
func AsSuperAdmin(req *http.Request) *http.Request {
	return AsRole(req, SuperAdminID, "Admin", models.RoleSuperAdmin)
}

// AsViewer attaches a Viewer named "Viewer"
func AsViewer(req *http.Request) *http.Request {
	return AsRole(req, ViewerID, "Viewer", models.RoleViewer)
}

// DecodeEnvelope decodes a recorded response and, when data is not nil, its
// payload
func DecodeEnvelope(t testing.TB, rr *httptest.ResponseRecorder, data interface{}) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/linesmerrill/case-tracker-api/api/handlers"
	"github.com/linesmerrill/case-tracker-api/api/testhelpers"
)

var fixedNow = time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)

var testClock = handlers.Clock{Now: func() time.Time { return fixedNow }, Location: time.UTC}

// mockedID is also the id of the SuperAdmin attached by asAdmin
const mockedID = testhelpers.SuperAdminID

var (
	asAdmin  = testhelpers.AsSuperAdmin
	asViewer = testhelpers.AsViewer
)

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data interface{}) testhelpers.Envelope {
	t.Helper()
	return testhelpers.DecodeEnvelope(t, rr, data)
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/api/handlers"
)

func TestMetricsHandler_GetMetricsDashboard(t *testing.T) {
	mc := api.NewMetrics()
	at := time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)
	mc.Record("GET", "/api/v1/cases", http.StatusOK, 20*time.Millisecond, at)
	mc.Record("GET", "/api/v1/case/"+mockedID+"/report", http.StatusOK, 300*time.Millisecond, at)
	mc.Record("GET", "/api/v1/case/"+mockedID+"/report", http.StatusNotFound, 100*time.Millisecond, at)
	m := handlers.MetricsHandler{Metrics: mc}

	req, _ := http.NewRequest("GET", "/api/v1/metrics?limit=1", nil)
	rr := serve(m.GetMetricsDashboard, asAdmin(req))
	require.Equal(t, http.StatusOK, rr.Code)

	var got struct {
		Summary map[string]int64 `json:"summary"`
		Routes  []struct {
			Path       string `json:"path"`
			Count      int64  `json:"count"`
			ErrorCount int64  `json:"errorCount"`
			AvgTime    int64  `json:"avgTime"`
		} `json:"routes"`
	}
	decodeEnvelope(t, rr, &got)
	assert.Equal(t, int64(3), got.Summary["totalRequests"])
	assert.Equal(t, int64(1), got.Summary["totalErrors"])
	require.Len(t, got.Routes, 1)
	assert.Equal(t, "/api/v1/case/:id/report", got.Routes[0].Path)
	assert.Equal(t, int64(200), got.Routes[0].AvgTime)
	assert.Equal(t, int64(1), got.Routes[0].ErrorCount)
}

package handlers

import (
	"net/http"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/config"
)

// MetricsHandler handles metrics dashboard requests
type MetricsHandler struct {
	Metrics *api.MetricsCollector
}

type routeMetricsResponse struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	Count      int64  `json:"count"`
	ErrorCount int64  `json:"errorCount"`
	AvgTime    int64  `json:"avgTime"`
	MaxTime    int64  `json:"maxTime"`
	LastSeen   string `json:"lastSeen"`
}

// GetMetricsDashboard returns per-route metrics, slowest first, with
// durations in milliseconds
func (m MetricsHandler) GetMetricsDashboard(w http.ResponseWriter, r *http.Request) {
	routes := m.Metrics.Routes()
	var total, errs int64
	for _, route := range routes {
		total += route.Count
		errs += route.ErrorCount
	}
	if limit := getLimit(r); limit > 0 && limit < len(routes) {
		routes = routes[:limit]
	}

	out := make([]routeMetricsResponse, 0, len(routes))
	for _, route := range routes {
		out = append(out, routeMetricsResponse{
			Method:     route.Method,
			Path:       route.Path,
			Count:      route.Count,
			ErrorCount: route.ErrorCount,
			AvgTime:    route.AverageTime.Milliseconds(),
			MaxTime:    route.MaxTime.Milliseconds(),
			LastSeen:   route.LastSeen.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	config.WriteData(w, http.StatusOK, map[string]interface{}{
		"summary": map[string]int64{"totalRequests": total, "totalErrors": errs},
		"routes":  out,
	})
}

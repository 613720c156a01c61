package api

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// RouteMetrics aggregates request timings for one method and route
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AverageTime time.Duration `json:"averageTime"`
	MaxTime     time.Duration `json:"maxTime"`
	LastSeen    time.Time     `json:"lastSeen"`
}

// MetricsCollector keeps per-route request metrics in memory
type MetricsCollector struct {
	mu     sync.RWMutex
	routes map[string]*RouteMetrics
}

// NewMetrics creates an empty collector
func NewMetrics() *MetricsCollector {
	return &MetricsCollector{routes: map[string]*RouteMetrics{}}
}

var idSegment = regexp.MustCompile(`^[0-9a-fA-F]{24}$|^[0-9a-fA-F-]{36}$|^\d+$`)

// normalizeRoutePath replaces ids in a path so all requests to one route
// are counted together
func normalizeRoutePath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if idSegment.MatchString(p) {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

// Record adds one finished request
func (mc *MetricsCollector) Record(method, path string, status int, d time.Duration, at time.Time) {
	path = normalizeRoutePath(path)
	key := method + " " + path

	mc.mu.Lock()
	defer mc.mu.Unlock()
	rm, ok := mc.routes[key]
	if !ok {
		rm = &RouteMetrics{Method: method, Path: path}
		mc.routes[key] = rm
	}
	rm.Count++
	if status >= 400 {
		rm.ErrorCount++
	}
	rm.TotalTime += d
	rm.AverageTime = rm.TotalTime / time.Duration(rm.Count)
	if d > rm.MaxTime {
		rm.MaxTime = d
	}
	rm.LastSeen = at
}

// Routes returns a copy of every route's metrics, slowest average first
func (mc *MetricsCollector) Routes() []RouteMetrics {
	mc.mu.RLock()
	out := make([]RouteMetrics, 0, len(mc.routes))
	for _, rm := range mc.routes {
		out = append(out, *rm)
	}
	mc.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageTime != out[j].AverageTime {
			return out[i].AverageTime > out[j].AverageTime
		}
		return out[i].Method+out[i].Path < out[j].Method+out[j].Path
	})
	return out
}

package api

import (
	"net/http"

	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/models"
)

// Admin sections a client can show in its navigation
const (
	SectionDashboard  = "dashboard"
	SectionCases      = "cases"
	SectionCrimeHeads = "crime-heads"
	SectionReasons    = "reasons"
	SectionUsers      = "users"
	SectionMetrics    = "metrics"
)

// VisibleSections lists the admin sections the given role may open. The role
// is always passed in by the caller rather than read from any session.
func VisibleSections(role string) []string {
	switch role {
	case models.RoleSuperAdmin:
		return []string{SectionDashboard, SectionCases, SectionCrimeHeads, SectionReasons, SectionUsers, SectionMetrics}
	case models.RoleViewer:
		return []string{SectionDashboard, SectionCases}
	default:
		return []string{}
	}
}

// ValidRole reports whether role names a known role
func ValidRole(role string) bool {
	return role == models.RoleSuperAdmin || role == models.RoleViewer
}

// RequireRole rejects callers whose role is not one of roles. It must run
// behind the auth middleware.
func RequireRole(next http.Handler, roles ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, nil)
			return
		}
		for _, role := range roles {
			if p.Role == role {
				next.ServeHTTP(w, r)
				return
			}
		}
		config.ErrorStatus("forbidden", http.StatusForbidden, w, nil)
	})
}

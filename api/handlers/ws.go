package handlers

import (
	"net/http"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/api/hub"
	"github.com/linesmerrill/case-tracker-api/config"
)

// Alerts streams deadline digests to connected dashboards
type Alerts struct {
	Hub *hub.Hub
}

// AlertsSocketHandler upgrades an authenticated request to a websocket
func (a Alerts) AlertsSocketHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := api.PrincipalFrom(r.Context())
	if !ok {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, nil)
		return
	}
	a.Hub.ServeWS(w, r, p.ID)
}

// tokenFromQuery lets a websocket handshake carry its bearer token as
// ?token=, since browsers cannot set headers on it
func tokenFromQuery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := r.URL.Query().Get("token"); token != "" && r.Header.Get("Authorization") == "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		next.ServeHTTP(w, r)
	})
}

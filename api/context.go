package api

import (
	"context"
	"time"

	"github.com/linesmerrill/case-tracker-api/models"
)

// QueryTimeout is the default timeout for database queries
const QueryTimeout = 10 * time.Second

// WithQueryTimeout creates a context with query timeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

// Principal is the authenticated caller of a request
type Principal struct {
	ID   string
	Name string
	Role string
}

// IsSuperAdmin reports whether the caller may change data
func (p Principal) IsSuperAdmin() bool {
	return p.Role == models.RoleSuperAdmin
}

type principalKey struct{}

// WithPrincipal stores the caller on the context
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller stored by the auth middleware
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

package middleware

import (
	"fmt"
	"net/http"

	"github.com/saleshq/calapi/internal/auth"
	"github.com/saleshq/calapi/internal/policy"
)

const gateAuthorize = "authorize"

// Authorize checks the Principal's role against the route's allowed-role set.
// An empty set means any authenticated role. Runs after tenant binding, so on
// routes where both conditions fail the caller observes the tenant mismatch.
func (p *Pipeline) Authorize(route policy.Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				p.reject(w, r, &GateError{
					Kind:   KindOrderViolation,
					Gate:   gateAuthorize,
					Reason: fmt.Errorf("route %q: no principal in context; authenticate gate did not run", route.Name),
				})
				return
			}

			if len(route.Roles) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := policy.Authorize(p.enforcer, principal.Role, route)
			if err != nil {
				p.reject(w, r, &GateError{
					Kind:   KindInternal,
					Gate:   gateAuthorize,
					Reason: err,
				})
				return
			}
			if !allowed {
				p.reject(w, r, &GateError{
					Kind:   KindForbidden,
					Gate:   gateAuthorize,
					Reason: fmt.Errorf("role %s not permitted on route %q", principal.Role, route.Name),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/saleshq/calapi/internal/auth"
	"github.com/saleshq/calapi/internal/policy"
	"github.com/saleshq/calapi/internal/repository"
	"github.com/saleshq/calapi/internal/services/company"
)

const gateBindTenant = "bind_tenant"

// BindTenant derives the company scope from the authenticated Principal and
// binds it into the request context as the authoritative scope for every
// downstream data access. This is the security-critical gate: no combination
// of valid credential, wrong role, and guessed identifier may ever reach
// another company's data.
//
// The tenant id comes exclusively from the verified credential, never from
// request parameters. When the route carries a validated event id, the gate
// also resolves the event's owning company and rejects the request when the
// event is missing or foreign; the two cases are indistinguishable to the
// caller by design.
func (p *Pipeline) BindTenant(route policy.Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			principal, ok := auth.PrincipalFromContext(ctx)
			if !ok {
				p.reject(w, r, &GateError{
					Kind:   KindOrderViolation,
					Gate:   gateBindTenant,
					Reason: fmt.Errorf("route %q: no principal in context; authenticate gate did not run", route.Name),
				})
				return
			}

			record, err := p.directory.Lookup(ctx, principal.CompanyID)
			if err != nil {
				if errors.Is(err, company.ErrCompanyNotFound) {
					p.reject(w, r, &GateError{
						Kind:   KindForbidden,
						Gate:   gateBindTenant,
						Reason: fmt.Errorf("principal %s references unknown company %s", principal.UserID, principal.CompanyID),
					})
					return
				}
				p.reject(w, r, &GateError{
					Kind:   KindInternal,
					Gate:   gateBindTenant,
					Reason: fmt.Errorf("company lookup: %w", err),
				})
				return
			}
			if record.Suspended {
				p.reject(w, r, &GateError{
					Kind:   KindForbidden,
					Gate:   gateBindTenant,
					Reason: fmt.Errorf("company %s is suspended", record.ID),
				})
				return
			}

			// Per-resource ownership check: binding the scope alone does not
			// prove the referenced event belongs to it.
			if eventID, hasID := auth.EventIDFromContext(ctx); hasID {
				owner, err := p.events.OwnerCompany(ctx, eventID)
				if err != nil {
					if errors.Is(err, repository.ErrEventNotFound) {
						p.reject(w, r, &GateError{
							Kind:   KindTenantMismatch,
							Gate:   gateBindTenant,
							Reason: fmt.Errorf("event %s does not exist", eventID),
						})
						return
					}
					p.reject(w, r, &GateError{
						Kind:   KindInternal,
						Gate:   gateBindTenant,
						Reason: fmt.Errorf("ownership lookup: %w", err),
					})
					return
				}
				if owner != principal.CompanyID {
					p.reject(w, r, &GateError{
						Kind:   KindTenantMismatch,
						Gate:   gateBindTenant,
						Reason: fmt.Errorf("event %s belongs to another company", eventID),
					})
					return
				}
			}

			ctx = auth.SetCompanyID(ctx, principal.CompanyID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Package policy defines the static per-route authorization policy table and
// the Casbin enforcer built from it. The table is constructed once at startup,
// validated, and never mutated afterwards, so concurrent request handling
// reads it without synchronization.
package policy

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/saleshq/calapi/internal/auth"
)

// Route is the immutable policy for one (method, pattern) pair.
type Route struct {
	// Name identifies the route in logs and policy errors.
	Name string
	// Method is the HTTP verb.
	Method string
	// Pattern is the chi route pattern (e.g., /api/events/{eventID}).
	Pattern string
	// Roles is the allowed-role set. Empty means any authenticated role.
	Roles []auth.Role
	// TenantScoped marks routes that operate on company-owned data and
	// therefore require the tenant context gate.
	TenantScoped bool
	// IDParam names the path parameter that must be a well-formed event id,
	// or empty when the pattern carries none.
	IDParam string
}

// Table is the route policy table the pipeline composer consumes.
type Table []Route

// EventRoutes returns the calendar-event route table: the five CRUD verbs plus
// the salesman-only report action, all tenant scoped.
func EventRoutes() Table {
	crudRoles := []auth.Role{auth.RoleOwner, auth.RoleAdmin, auth.RoleSalesman}

	return Table{
		{
			Name:         "events.list",
			Method:       http.MethodGet,
			Pattern:      "/api/events",
			Roles:        crudRoles,
			TenantScoped: true,
		},
		{
			Name:         "events.create",
			Method:       http.MethodPost,
			Pattern:      "/api/events",
			Roles:        crudRoles,
			TenantScoped: true,
		},
		{
			Name:         "events.report",
			Method:       http.MethodPost,
			Pattern:      "/api/events/report",
			Roles:        []auth.Role{auth.RoleSalesman},
			TenantScoped: true,
		},
		{
			Name:         "events.get",
			Method:       http.MethodGet,
			Pattern:      "/api/events/{eventID}",
			Roles:        crudRoles,
			TenantScoped: true,
			IDParam:      "eventID",
		},
		{
			Name:         "events.update",
			Method:       http.MethodPut,
			Pattern:      "/api/events/{eventID}",
			Roles:        crudRoles,
			TenantScoped: true,
			IDParam:      "eventID",
		},
		{
			Name:         "events.delete",
			Method:       http.MethodDelete,
			Pattern:      "/api/events/{eventID}",
			Roles:        crudRoles,
			TenantScoped: true,
			IDParam:      "eventID",
		},
	}
}

// Validate checks the table is internally consistent. Called once at startup;
// any error here is a programming mistake, not a runtime condition.
func (t Table) Validate() error {
	seen := make(map[string]string, len(t))

	for _, route := range t {
		if route.Name == "" {
			return fmt.Errorf("policy: route %s %s has no name", route.Method, route.Pattern)
		}
		if route.Method == "" || route.Pattern == "" {
			return fmt.Errorf("policy: route %q needs both method and pattern", route.Name)
		}
		if !strings.HasPrefix(route.Pattern, "/") {
			return fmt.Errorf("policy: route %q pattern must start with /", route.Name)
		}

		key := route.Method + " " + route.Pattern
		if other, dup := seen[key]; dup {
			return fmt.Errorf("policy: routes %q and %q both claim %s", other, route.Name, key)
		}
		seen[key] = route.Name

		for _, role := range route.Roles {
			if _, err := auth.ParseRole(string(role)); err != nil {
				return fmt.Errorf("policy: route %q: %w", route.Name, err)
			}
		}

		if route.IDParam != "" && !strings.Contains(route.Pattern, "{"+route.IDParam+"}") {
			return fmt.Errorf("policy: route %q validates param %q but pattern %q does not carry it",
				route.Name, route.IDParam, route.Pattern)
		}
	}

	return nil
}

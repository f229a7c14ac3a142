package policy

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/saleshq/calapi/internal/auth"
)

//go:embed model.conf
var casbinModelContent string

// NewEnforcer builds a memory-only Casbin enforcer from the route table.
// Policy rows are generated once here; nothing mutates the enforcer after
// construction, so Enforce calls need no synchronization.
//
// Routes with an empty role set get no rows: "any authenticated role" is
// decided by the authorize gate before the enforcer is consulted.
func NewEnforcer(table Table) (casbin.IEnforcer, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	m, err := model.NewModelFromString(casbinModelContent)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	for _, route := range table {
		obj := CasbinObject(route.Pattern)
		for _, role := range route.Roles {
			if _, err := enforcer.AddPolicy(role.Subject(), obj, route.Method); err != nil {
				return nil, fmt.Errorf("add policy for route %q: %w", route.Name, err)
			}
		}
	}

	return enforcer, nil
}

// CasbinObject converts a chi route pattern into the keyMatch2 object form
// (/api/events/{eventID} becomes /api/events/:eventID).
func CasbinObject(pattern string) string {
	obj := strings.ReplaceAll(pattern, "{", ":")
	return strings.ReplaceAll(obj, "}", "")
}

// Authorize evaluates one role against a route. Pure with respect to the
// request: role plus static policy in, decision out.
func Authorize(enforcer casbin.IEnforcer, role auth.Role, route Route) (bool, error) {
	allowed, err := enforcer.Enforce(role.Subject(), CasbinObject(route.Pattern), route.Method)
	if err != nil {
		return false, fmt.Errorf("enforce %q on %s %s: %w", role, route.Method, route.Pattern, err)
	}
	return allowed, nil
}

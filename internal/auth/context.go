package auth

import "context"

// Principal captures identity metadata propagated through the request context.
// It is built from a verified credential and is immutable for the lifetime of
// one request; this subsystem never persists it.
type Principal struct {
	// UserID is the stable subject identifier of the caller.
	UserID string
	// Role is the caller's single CRM role.
	Role Role
	// CompanyID identifies the tenant the caller belongs to.
	CompanyID string
	// Email is optional and present when the credential carries it.
	Email string
	// Name is optional display name.
	Name string
}

type principalContextKey struct{}

// SetPrincipal stores the authenticated principal on the context for downstream consumers.
func SetPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// PrincipalFromContext retrieves the authenticated principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(Principal)
	return principal, ok
}

type companyContextKey struct{}

// SetCompanyID binds the authoritative tenant scope on the context. Every
// downstream data access must use this id and no other.
func SetCompanyID(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, companyContextKey{}, companyID)
}

// CompanyIDFromContext retrieves the bound tenant scope from the context.
func CompanyIDFromContext(ctx context.Context) (string, bool) {
	companyID, ok := ctx.Value(companyContextKey{}).(string)
	return companyID, ok
}

type eventIDContextKey struct{}

// SetEventID stores a validated event identifier on the context.
func SetEventID(ctx context.Context, eventID string) context.Context {
	return context.WithValue(ctx, eventIDContextKey{}, eventID)
}

// EventIDFromContext retrieves the validated event identifier from the context.
func EventIDFromContext(ctx context.Context) (string, bool) {
	eventID, ok := ctx.Value(eventIDContextKey{}).(string)
	return eventID, ok
}

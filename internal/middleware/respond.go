package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Kind classifies why a gate rejected a request. Kinds are distinct for logs
// and tests even where the wire rendering is identical.
type Kind string

const (
	// KindUnauthenticated covers any missing or invalid credential.
	KindUnauthenticated Kind = "unauthenticated"
	// KindUnavailable is a credential verification that timed out.
	KindUnavailable Kind = "unavailable"
	// KindMalformedIdentifier is a path id that fails the format check.
	KindMalformedIdentifier Kind = "malformed_identifier"
	// KindTenantMismatch is a resource that is absent or owned by a company
	// other than the bound one. Rendered identically to KindForbidden so the
	// caller cannot probe for resource existence.
	KindTenantMismatch Kind = "tenant_mismatch"
	// KindForbidden is a role outside the route's allowed set, or a
	// suspended or deleted company.
	KindForbidden Kind = "forbidden"
	// KindOrderViolation means a gate ran without its required upstream
	// context. A programming error: unreachable under correct composition.
	KindOrderViolation Kind = "order_violation"
	// KindInternal is an infrastructure failure inside a gate.
	KindInternal Kind = "internal"
)

// GateError is the terminal outcome of a failed gate.
type GateError struct {
	Kind Kind
	// Gate names the failing stage for logs.
	Gate string
	// Reason is logged, never sent to the caller.
	Reason error
}

func (e *GateError) Error() string {
	return fmt.Sprintf("gate %s rejected request: %s (%v)", e.Gate, e.Kind, e.Reason)
}

func (e *GateError) Unwrap() error {
	return e.Reason
}

// statusForKind maps each kind to its response status. TenantMismatch and
// Forbidden share 403; not-found is never distinguishable from forbidden.
func statusForKind(kind Kind) int {
	switch kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindMalformedIdentifier:
		return http.StatusBadRequest
	case KindTenantMismatch, KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// messageForKind is the generic wire message per kind. TenantMismatch and
// Forbidden must stay byte-identical.
func messageForKind(kind Kind) string {
	switch kind {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUnavailable:
		return "authentication unavailable"
	case KindMalformedIdentifier:
		return "malformed event id"
	case KindTenantMismatch, KindForbidden:
		return "forbidden"
	default:
		return "internal error"
	}
}

// reject terminates the chain with the gate's error. No later gate or handler
// runs after this writes.
func (p *Pipeline) reject(w http.ResponseWriter, r *http.Request, gerr *GateError) {
	fields := []zap.Field{
		zap.String("gate", gerr.Gate),
		zap.String("kind", string(gerr.Kind)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(gerr.Reason),
	}

	switch gerr.Kind {
	case KindOrderViolation:
		// Loud: this is a composition bug, not user input.
		p.logger.Error("pipeline order violation", fields...)
	case KindInternal, KindUnavailable:
		p.logger.Warn("gate failure", fields...)
	default:
		p.logger.Debug("request rejected", fields...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusForKind(gerr.Kind))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": messageForKind(gerr.Kind)})
}

package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saleshq/calapi/internal/auth"
)

const gateValidateID = "validate_id"

// canonicalUUIDLength pins the accepted form to the hyphenated 36-character
// representation; uuid.Parse alone would also accept braced, URN, and bare
// hex variants the storage layer never produces.
const canonicalUUIDLength = 36

// ValidateID checks that the named path parameter is a canonical UUID before
// any tenant-scoped lookup can touch it, and records the normalized id in the
// request context. Pure validation: no I/O.
func (p *Pipeline) ValidateID(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, param)

			if len(raw) != canonicalUUIDLength {
				p.reject(w, r, &GateError{
					Kind:   KindMalformedIdentifier,
					Gate:   gateValidateID,
					Reason: fmt.Errorf("param %q is not a canonical uuid", param),
				})
				return
			}

			id, err := uuid.Parse(raw)
			if err != nil {
				p.reject(w, r, &GateError{
					Kind:   KindMalformedIdentifier,
					Gate:   gateValidateID,
					Reason: fmt.Errorf("param %q: %w", param, err),
				})
				return
			}

			ctx := auth.SetEventID(r.Context(), id.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

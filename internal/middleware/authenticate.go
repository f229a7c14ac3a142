package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/saleshq/calapi/internal/auth"
)

const gateAuthenticate = "authenticate"

// Authenticate extracts the bearer credential and verifies it, attaching the
// resulting Principal to the request context. Every verification failure
// renders the same unauthenticated response; only a verification that did not
// resolve within the deadline is reported as unavailable instead.
func (p *Pipeline) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		credential, ok := bearerCredential(r)
		if !ok {
			p.reject(w, r, &GateError{
				Kind:   KindUnauthenticated,
				Gate:   gateAuthenticate,
				Reason: errors.New("missing bearer credential"),
			})
			return
		}

		ctx := r.Context()
		vctx, cancel := context.WithTimeout(ctx, p.verifyTimeout)
		defer cancel()

		// Run the verifier in its own goroutine so a misbehaving remote
		// implementation cannot hold the request past the deadline.
		type verifyResult struct {
			principal auth.Principal
			err       error
		}
		resultCh := make(chan verifyResult, 1)
		go func() {
			principal, err := p.verifier.Verify(vctx, credential)
			resultCh <- verifyResult{principal: principal, err: err}
		}()

		var principal auth.Principal
		select {
		case <-vctx.Done():
			p.reject(w, r, &GateError{
				Kind:   KindUnavailable,
				Gate:   gateAuthenticate,
				Reason: vctx.Err(),
			})
			return
		case res := <-resultCh:
			if res.err != nil {
				kind := KindUnauthenticated
				if errors.Is(res.err, context.DeadlineExceeded) {
					kind = KindUnavailable
				}
				p.reject(w, r, &GateError{Kind: kind, Gate: gateAuthenticate, Reason: res.err})
				return
			}
			principal = res.principal
		}

		ctx = auth.SetPrincipal(ctx, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerCredential extracts the token from an "Authorization: Bearer <t>"
// header.
func bearerCredential(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	credential := strings.TrimSpace(parts[1])
	if credential == "" {
		return "", false
	}
	return credential, true
}

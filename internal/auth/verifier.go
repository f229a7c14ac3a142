package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/saleshq/calapi/internal/config"
)

// ErrInvalidCredential is returned for any credential the verifier rejects.
// The cause (bad signature, expiry, malformed claims) is wrapped for logging
// but must never be surfaced to the caller.
var ErrInvalidCredential = errors.New("invalid credential")

// TokenVerifier turns a raw credential into an authenticated Principal.
// Implementations may perform blocking work (e.g., consult a remote store);
// they must honor ctx cancellation.
type TokenVerifier interface {
	Verify(ctx context.Context, credential string) (Principal, error)
}

// tokenClaims is the JWT claim set calapi issues and accepts.
type tokenClaims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	CompanyID string `json:"company_id"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
}

// JWTVerifier validates HS256 tokens against process-wide trust material.
type JWTVerifier struct {
	secret   []byte
	parser   *jwt.Parser
	issuer   string
	audience string
}

// NewJWTVerifier constructs a verifier from the auth configuration. It fails
// fast when the shared secret is missing or too short to be safe.
func NewJWTVerifier(cfg config.AuthConfig) (*JWTVerifier, error) {
	if cfg.HMACSecret == "" {
		return nil, errors.New("auth: AUTH_HMAC_SECRET is required")
	}
	if len(cfg.HMACSecret) < 32 {
		return nil, errors.New("auth: AUTH_HMAC_SECRET must be at least 32 bytes")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithLeeway(cfg.ClockSkew),
		jwt.WithExpirationRequired(),
	)

	return &JWTVerifier{
		secret:   []byte(cfg.HMACSecret),
		parser:   parser,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}, nil
}

// Verify parses and validates the credential and builds the Principal from
// its claims. Every rejection wraps ErrInvalidCredential.
func (v *JWTVerifier) Verify(ctx context.Context, credential string) (Principal, error) {
	if err := ctx.Err(); err != nil {
		return Principal{}, err
	}

	claims := &tokenClaims{}
	if _, err := v.parser.ParseWithClaims(credential, claims, v.keyFunc); err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	return principalFromClaims(claims)
}

func (v *JWTVerifier) keyFunc(token *jwt.Token) (interface{}, error) {
	return v.secret, nil
}

func principalFromClaims(claims *tokenClaims) (Principal, error) {
	if claims.Subject == "" {
		return Principal{}, fmt.Errorf("%w: missing subject", ErrInvalidCredential)
	}

	role, err := ParseRole(claims.Role)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	companyID, err := uuid.Parse(claims.CompanyID)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: malformed company_id claim", ErrInvalidCredential)
	}

	return Principal{
		UserID:    claims.Subject,
		Role:      role,
		CompanyID: companyID.String(),
		Email:     claims.Email,
		Name:      claims.Name,
	}, nil
}

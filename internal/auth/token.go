package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/saleshq/calapi/internal/config"
)

// TokenOptions describes the token to mint.
type TokenOptions struct {
	Subject   string
	Role      Role
	CompanyID string
	Email     string
	Name      string
	TTL       time.Duration
}

// MintToken signs an HS256 token carrying the calapi claim set. Used by the
// token command and by tests; production credentials come from the same code
// path so minted and verified claims cannot drift.
func MintToken(cfg config.AuthConfig, opts TokenOptions) (string, error) {
	if cfg.HMACSecret == "" {
		return "", errors.New("auth: AUTH_HMAC_SECRET is required")
	}
	if opts.Subject == "" {
		return "", errors.New("auth: token subject is required")
	}
	if _, err := ParseRole(string(opts.Role)); err != nil {
		return "", fmt.Errorf("auth: %w", err)
	}
	if _, err := uuid.Parse(opts.CompanyID); err != nil {
		return "", errors.New("auth: company id must be a valid UUID")
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	now := time.Now()
	claims := &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			Subject:   opts.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Role:      string(opts.Role),
		CompanyID: opts.CompanyID,
		Email:     opts.Email,
		Name:      opts.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.HMACSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

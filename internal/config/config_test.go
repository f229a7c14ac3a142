package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.ServerAddr)
	assert.Equal(t, 25, cfg.MaxDBConnections)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "calapi", cfg.Auth.Issuer)
	assert.Equal(t, "calapi", cfg.Auth.Audience)
	assert.Equal(t, 5*time.Second, cfg.Auth.VerifyTimeout)
	assert.Equal(t, 30*time.Second, cfg.Auth.ClockSkew)
	assert.Equal(t, 512, cfg.CompanyCache.Size)
	assert.Equal(t, time.Minute, cfg.CompanyCache.TTL)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	t.Setenv("DATABASE_URL", "file::memory:?cache=shared")
	t.Setenv("SERVER_ADDR", "0.0.0.0:9090")
	t.Setenv("DEBUG", "true")
	t.Setenv("AUTH_HMAC_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("AUTH_ISSUER", "calapi-staging")
	t.Setenv("AUTH_AUDIENCE", "calapi-api")
	t.Setenv("AUTH_VERIFY_TIMEOUT", "2s")
	t.Setenv("COMPANY_CACHE_SIZE", "64")
	t.Setenv("COMPANY_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file::memory:?cache=shared", cfg.DatabaseURL)
	assert.Equal(t, "0.0.0.0:9090", cfg.ServerAddr)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.Auth.HMACSecret)
	assert.Equal(t, "calapi-staging", cfg.Auth.Issuer)
	assert.Equal(t, "calapi-api", cfg.Auth.Audience)
	assert.Equal(t, 2*time.Second, cfg.Auth.VerifyTimeout)
	assert.Equal(t, 64, cfg.CompanyCache.Size)
	assert.Equal(t, 30*time.Second, cfg.CompanyCache.TTL)
}

func TestLoad_InvalidDurationFallsBackToDefault(t *testing.T) {
	t.Setenv("AUTH_VERIFY_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Auth.VerifyTimeout)
}

func TestLoad_RejectsNegativeTimeout(t *testing.T) {
	t.Setenv("AUTH_VERIFY_TIMEOUT", "-1s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_VERIFY_TIMEOUT")
}

func TestLoad_RejectsNegativeClockSkew(t *testing.T) {
	t.Setenv("AUTH_CLOCK_SKEW", "-5s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_CLOCK_SKEW")
}

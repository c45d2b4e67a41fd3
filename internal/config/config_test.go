package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/identity")
	t.Setenv("SESSION_SIGNING_KEY", strings.Repeat("k", 32))
	t.Setenv("IDP_ISSUER", "https://idp.example.com")
	t.Setenv("IDP_JWKS_URL", "https://idp.example.com/jwks")
	t.Setenv("BACKEND_API_URL", "https://api.example.com/")
}

func TestLoad_RequiresBackendAPIURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BACKEND_API_URL", "")

	_, err := Load()
	require.ErrorContains(t, err, "BACKEND_API_URL")
}

func TestLoad_TrimsBackendAPIURL(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", cfg.BackendAPIURL)
}

func TestLoad_SessionDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "arp_session", cfg.SessionCookieName)
	require.Equal(t, "720h0m0s", cfg.SessionTTL.String())
	require.Equal(t, 600, cfg.RateLimitRPM)
}

func TestLoad_RejectsShortSigningKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_SIGNING_KEY", "too-short")

	_, err := Load()
	require.ErrorContains(t, err, "SESSION_SIGNING_KEY")
}

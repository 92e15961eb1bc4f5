package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/storegate/auth-server/internal/config"
)

func TestEnvConfig(t *testing.T) {
	cfg := config.New()

	t.Run("port is prefixed with a colon", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		require.Equal(t, ":9090", cfg.GetPort())

		t.Setenv("PORT", ":7070")
		require.Equal(t, ":7070", cfg.GetPort())
	})

	t.Run("environment defaults to DEV", func(t *testing.T) {
		t.Setenv("ENV", "")
		require.Equal(t, "DEV", cfg.GetEnv())

		t.Setenv("ENV", "production")
		require.Equal(t, "production", cfg.GetEnv())
	})
}

func TestAuthConfig(t *testing.T) {
	cfg := config.New()

	t.Run("expiry defaults", func(t *testing.T) {
		t.Setenv("AUTH_ACCESS_TOKEN_EXPIRE_MINUTES", "")
		t.Setenv("AUTH_REFRESH_TOKEN_EXPIRE_MINUTES", "")
		t.Setenv("ROLE_SCOPES_CACHE_TTL_MINUTES", "")

		require.Equal(t, 15*time.Minute, cfg.GetAccessTokenExpiry())
		require.Equal(t, 24*time.Hour, cfg.GetRefreshTokenExpiry())
		require.Equal(t, time.Hour, cfg.GetRoleScopesCacheTTL())
	})

	t.Run("expiry overrides", func(t *testing.T) {
		t.Setenv("AUTH_ACCESS_TOKEN_EXPIRE_MINUTES", "5")
		require.Equal(t, 5*time.Minute, cfg.GetAccessTokenExpiry())
	})

	t.Run("invalid expiry falls back to the default", func(t *testing.T) {
		t.Setenv("AUTH_ACCESS_TOKEN_EXPIRE_MINUTES", "not-a-number")
		require.Equal(t, 15*time.Minute, cfg.GetAccessTokenExpiry())

		t.Setenv("AUTH_ACCESS_TOKEN_EXPIRE_MINUTES", "-3")
		require.Equal(t, 15*time.Minute, cfg.GetAccessTokenExpiry())
	})

	t.Run("signing secrets have no default", func(t *testing.T) {
		t.Setenv("AUTH_SECRET_KEY", "")
		t.Setenv("AUTH_REFRESH_SECRET_KEY", "")
		require.Empty(t, cfg.GetAccessTokenSecret())
		require.Empty(t, cfg.GetRefreshTokenSecret())
	})
}

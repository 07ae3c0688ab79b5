package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("AEVON_ENV", "production")
	t.Setenv("AEVON_JWT_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoadAcceptsConfiguredSecret(t *testing.T) {
	t.Setenv("AEVON_ENV", "production")
	t.Setenv("AEVON_JWT_SECRET", "a-real-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "a-real-secret", cfg.JWTSecret)
}

func TestLoadDevelopmentFallbackSecret(t *testing.T) {
	t.Setenv("AEVON_ENV", "development")
	t.Setenv("AEVON_JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadTimeouts(t *testing.T) {
	t.Setenv("AEVON_ENV", "development")
	t.Setenv("AEVON_HTTP_READ_TIMEOUT", "30s")
	t.Setenv("AEVON_HTTP_WRITE_TIMEOUT", "nonsense")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.HTTPReadTimeout)
	// Unparseable values fall back to the default.
	assert.Equal(t, 15*time.Second, cfg.HTTPWriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.HTTPIdleTimeout)
}

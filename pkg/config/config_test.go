package config_test

import (
	"testing"
	"time"

	"github.com/minibank/ledger/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("JWT_EXPIRY", "2h")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Jwt.Expiry)
}

func TestLoadMissingEnvFileIsNotFatal(t *testing.T) {
	cfg, err := config.Load("does-not-exist.env")
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Server.Host)
	assert.NotEmpty(t, cfg.Jwt.Secret)
}

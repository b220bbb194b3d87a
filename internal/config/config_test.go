package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"API_BASE_URL", "VITE_API_BASE_URL", "TOKEN_STORE", "TOKEN_KEY", "SHELL_PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.API.BaseURL)
	assert.Equal(t, "/api/auth/login/", cfg.API.LoginPath)
	assert.Equal(t, "Token", cfg.API.AuthScheme)
	assert.Equal(t, StoreBolt, cfg.Token.Store)
	assert.Equal(t, "token", cfg.Token.Key)
	assert.Equal(t, "127.0.0.1:5173", cfg.Address())
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_BASE_URL", "")
	t.Setenv("VITE_API_BASE_URL", "https://school.example")
	t.Setenv("TOKEN_STORE", "Redis")
	t.Setenv("API_TIMEOUT", "3")
	t.Setenv("HEALTH_INTERVAL", "30s")
	t.Setenv("REDIS_DB", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://school.example", cfg.API.BaseURL)
	assert.Equal(t, StoreRedis, cfg.Token.Store)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Health.Interval)
	assert.Equal(t, 4, cfg.Redis.DB)

	t.Setenv("API_BASE_URL", "http://override:9000")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "http://override:9000", cfg.API.BaseURL)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TOKEN_STORE", "sqlite")
	_, err := Load()
	assert.ErrorContains(t, err, "TOKEN_STORE")

	t.Setenv("TOKEN_STORE", "")
	t.Setenv("API_BASE_URL", "school.example")
	_, err = Load()
	assert.ErrorContains(t, err, "API_BASE_URL")
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.ListenAddr)
	assert.Equal(t, DealsSQLite, cfg.Storage.Deals)
	assert.Equal(t, SessionsMemory, cfg.Storage.Sessions)
	assert.Equal(t, 24*time.Hour, cfg.Storage.SessionTTL)
	assert.Equal(t, "gemini-1.5-pro", cfg.AI.Gemini.Model)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 2, cfg.Workers.Assist)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VALUATOR_HTTP_LISTEN_ADDR", ":9090")
	t.Setenv("VALUATOR_STORAGE_SESSIONS", "redis")
	t.Setenv("VALUATOR_AI_TIMEOUT", "5s")
	t.Setenv("VALUATOR_AI_PROVIDER", "anthropic")
	t.Setenv("VALUATOR_AI_ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.ListenAddr)
	assert.Equal(t, SessionsRedis, cfg.Storage.Sessions)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "sk-test", cfg.AI.APIKey())
}

func TestValidate(t *testing.T) {
	base := Config{
		Storage: StorageConfig{Deals: DealsSQLite, Sessions: SessionsMemory},
		AI:      AIConfig{Provider: ProviderNone},
	}
	require.NoError(t, base.Validate())

	pg := base
	pg.Storage.Deals = DealsPostgres
	assert.ErrorIs(t, pg.Validate(), ErrInvalid)
	pg.Database.URL = "postgres://localhost/valuator"
	assert.NoError(t, pg.Validate())

	bad := base
	bad.AI.Provider = "openai"
	assert.ErrorIs(t, bad.Validate(), ErrInvalid)

	bad = base
	bad.Storage.Sessions = "disk"
	assert.ErrorIs(t, bad.Validate(), ErrInvalid)
}

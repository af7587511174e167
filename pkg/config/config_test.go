package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(PathEnvVar, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 8081, cfg.GRPCPort)
	assert.Equal(t, 12, cfg.Recommend.Limit)
	assert.Equal(t, 5*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, uint32(3), cfg.Breaker.Failures)
	assert.Empty(t, cfg.Chat.URL)
	assert.Equal(t, 24*time.Hour, cfg.Session.IdleTTL)
	assert.Equal(t, 10*time.Minute, cfg.Session.SweepInterval)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "custom.yaml")
	yml := "http_port: 9000\nlog_level: debug\nchat:\n  url: http://chat.local\n  timeout: 3s\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv(PathEnvVar, path)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("RECOMMEND_LIMIT", "5")
	t.Setenv("STORE_IN_MEMORY", "true")
	t.Setenv("SESSION_IDLE_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.HTTPPort, "env wins over file")
	assert.Equal(t, "debug", cfg.LogLevel, "file wins over defaults")
	assert.Equal(t, "http://chat.local", cfg.Chat.URL)
	assert.Equal(t, 3*time.Second, cfg.Chat.Timeout)
	assert.Equal(t, 5, cfg.Recommend.Limit)
	assert.True(t, cfg.Store.InMemory)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
}

func TestValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, defaults().Validate())
	})

	t.Run("bad port", func(t *testing.T) {
		c := defaults()
		c.HTTPPort = 0
		require.Error(t, c.Validate())
	})

	t.Run("bad limit", func(t *testing.T) {
		c := defaults()
		c.Recommend.Limit = 0
		require.Error(t, c.Validate())
	})

	t.Run("bad session ttl", func(t *testing.T) {
		c := defaults()
		c.Session.IdleTTL = 0
		require.Error(t, c.Validate())
	})

	t.Run("store path optional in memory", func(t *testing.T) {
		c := defaults()
		c.Store.Path = ""
		require.Error(t, c.Validate())
		c.Store.InMemory = true
		require.NoError(t, c.Validate())
	})
}

func TestEnvKeyIgnoresForeignVariables(t *testing.T) {
	assert.Equal(t, "", envKey("HOME"))
	assert.Equal(t, "catalog.url", envKey("CATALOG_URL"))
}

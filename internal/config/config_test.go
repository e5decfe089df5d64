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
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "./web/shopping-list.html", cfg.Server.PagePath)

	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "./listkeeper.db", cfg.Storage.Path)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr())

	assert.Equal(t, "2024-08-01-preview", cfg.Azure.APIVersion)
	assert.Equal(t, "azure", cfg.Assistant.DefaultProvider)
	assert.Equal(t, "gemini-1.5-flash", cfg.Assistant.Gemini.Model)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 8080
storage:
  driver: memory
azure:
  endpoint: https://example.openai.azure.com
  deployment: gpt-4o
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "https://example.openai.azure.com", cfg.Azure.Endpoint)
	assert.Equal(t, "gpt-4o", cfg.Azure.Deployment)
	// File values merge over defaults without clobbering them.
	assert.Equal(t, "2024-08-01-preview", cfg.Azure.APIVersion)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("AZURE_OPENAI_KEY", "secret")
	t.Setenv("ASSISTANT_PROVIDER", "gemini")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "secret", cfg.Azure.Key)
	assert.Equal(t, "gemini", cfg.Assistant.DefaultProvider)
}

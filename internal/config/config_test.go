package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 2*time.Second, cfg.Lookup.UsernameDelay)
	assert.Equal(t, 2500*time.Millisecond, cfg.Lookup.AnalysisDelay)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, time.Hour, cfg.Store.TTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OSINT_HTTP_PORT", "9090")
	t.Setenv("OSINT_LOOKUP_USERNAME_DELAY", "150ms")
	t.Setenv("OSINT_LOGGING_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 150*time.Millisecond, cfg.Lookup.UsernameDelay)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile(t *testing.T) {
	fileCfg := map[string]any{
		"http":   map[string]any{"port": 7070, "allowed_origins": "http://a.test, http://b.test"},
		"lookup": map[string]any{"analysis_delay": "1s", "seed": 42},
	}
	raw, err := yaml.Marshal(fileCfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.HTTP.Port)
	assert.Equal(t, time.Second, cfg.Lookup.AnalysisDelay)
	assert.Equal(t, int64(42), cfg.Lookup.Seed)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowedOrigins())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("port out of range", func(t *testing.T) {
		cfg := Default()
		cfg.HTTP.Port = 70000
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})

	t.Run("unknown log format", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Format = "xml"
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative delay", func(t *testing.T) {
		cfg := Default()
		cfg.Lookup.AnalysisDelay = -time.Second
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero workers", func(t *testing.T) {
		cfg := Default()
		cfg.Lookup.BatchWorkers = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("credentials with wildcard origin", func(t *testing.T) {
		cfg := Default()
		cfg.HTTP.AllowCredentials = true
		assert.ErrorContains(t, cfg.Validate(), "http.allow_credentials")

		cfg.HTTP.AllowedOriginsCSV = "https://portal.example"
		assert.NoError(t, cfg.Validate())
	})
}

func TestAllowCredentialsFromEnv(t *testing.T) {
	t.Setenv("OSINT_HTTP_ALLOWED_ORIGINS", "https://portal.example, http://localhost:5173")
	t.Setenv("OSINT_HTTP_ALLOW_CREDENTIALS", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.HTTP.AllowCredentials)
	assert.Equal(t, []string{"https://portal.example", "http://localhost:5173"}, cfg.HTTP.AllowedOrigins())
	assert.False(t, Default().HTTP.AllowCredentials)
}

func TestAllowedOriginsEmpty(t *testing.T) {
	assert.Nil(t, HTTPConfig{}.AllowedOrigins())
	assert.Equal(t, "127.0.0.1:80", HTTPConfig{Host: "127.0.0.1", Port: 80}.Addr())
}

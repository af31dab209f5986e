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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://ifconfig.co/", cfg.URL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "Mozilla/5.0", cfg.UserAgent)
	assert.Equal(t, ".", cfg.LogDir)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "request_history.db", cfg.HistoryPath)
	assert.Equal(t, 30*24*time.Hour, cfg.HistoryRetention)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REQSCHED_URL", "http://example.test/ping")
	t.Setenv("REQSCHED_REQUEST_TIMEOUT", "2s")
	t.Setenv("REQSCHED_LOG_DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://example.test/ping", cfg.URL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.Debug)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
url: http://example.test/from-file
request:
  timeout: 5s
  user_agent: reqsched-test
history:
  retention: 24h
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://example.test/from-file", cfg.URL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "reqsched-test", cfg.UserAgent)
	assert.Equal(t, 24*time.Hour, cfg.HistoryRetention)

	// Unset keys keep their defaults
	assert.Equal(t, "request_history.db", cfg.HistoryPath)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

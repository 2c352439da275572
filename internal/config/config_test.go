package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileWithDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: "9090"
processing:
  resampler: lanczos
export:
  endpoint: localhost:9000
  bucket: exports
retry:
  attempts: 5
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.ListenAddr())
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "lanczos", cfg.Processing.Resampler)
	assert.Equal(t, 16, cfg.Studio.QueueSize)
	assert.True(t, cfg.Export.Enabled())
	assert.Equal(t, "exports", cfg.Export.Bucket)

	strategy := cfg.DefaultRetryStrategy()
	assert.Equal(t, 5, strategy.Attempts)
	assert.Equal(t, 500*time.Millisecond, strategy.Delay)
	assert.InDelta(t, 2.0, strategy.Backoff, 1e-9)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \"9090\"\n")
	t.Setenv("SERVER_ADDR", "7070")
	t.Setenv("PROCESSING_RESAMPLER", "lanczos3")

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Addr)
	assert.Equal(t, "lanczos3", cfg.Processing.Resampler)
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	_, err := Load(missing, true)
	assert.Error(t, err)

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "8080", cfg.Server.Addr)
	assert.Equal(t, int64(64<<20), cfg.Server.MaxUploadSize)
	assert.False(t, cfg.Export.Enabled())
}

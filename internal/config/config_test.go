package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "samvad-netkit", cfg.AppName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, OutputJSON, cfg.OutputFormat)
	assert.NotEmpty(t, cfg.UserAgent)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")
	t.Setenv("USER_AGENT", "  probe/2  ")
	t.Setenv("OUTPUT_FORMAT", "YAML")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "probe/2", cfg.UserAgent)
	assert.Equal(t, OutputYAML, cfg.OutputFormat)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		t.Setenv("HTTP_TIMEOUT_SECONDS", "0")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("output format", func(t *testing.T) {
		t.Setenv("OUTPUT_FORMAT", "xml")
		_, err := Load()
		assert.Error(t, err)
	})
}

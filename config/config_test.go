package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, OutputFormatText, cfg.OutputFormat)
	assert.Equal(t, DefaultListActiveInterval, cfg.Polling.ListActive)
	assert.Equal(t, DefaultListIdleInterval, cfg.Polling.ListIdle)
	assert.Equal(t, DefaultStatusInterval, cfg.Polling.Status)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("RECAP_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RECAP_CONFIG_DIR", dir)

	content := `api_base_url: http://recap.internal:9000
timeout: 30s
output_format: json
polling:
  list_active: 1s
  list_idle: 5s
  status: 500ms
debug: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://recap.internal:9000", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, OutputFormatJSON, cfg.OutputFormat)
	assert.Equal(t, time.Second, cfg.Polling.ListActive)
	assert.Equal(t, 5*time.Second, cfg.Polling.ListIdle)
	assert.Equal(t, 500*time.Millisecond, cfg.Polling.Status)
	assert.True(t, cfg.Debug)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RECAP_CONFIG_DIR", dir)

	content := "api_base_url: http://from-file:8000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0600))

	t.Setenv("RECAP_API_BASE_URL", "http://from-env:8000")
	t.Setenv("RECAP_TIMEOUT", "15s")
	t.Setenv("RECAP_STATUS_INTERVAL", "1s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8000", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, time.Second, cfg.Polling.Status)
}

func TestLoadConfigRejectsBadFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RECAP_CONFIG_DIR", dir)

	content := "timeout: not-a-duration\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0600))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CLIConfig)
	}{
		{"empty base url", func(c *CLIConfig) { c.APIBaseURL = "" }},
		{"zero timeout", func(c *CLIConfig) { c.Timeout = 0 }},
		{"bad output format", func(c *CLIConfig) { c.OutputFormat = "xml" }},
		{"zero status interval", func(c *CLIConfig) { c.Polling.Status = 0 }},
		{"active slower than idle", func(c *CLIConfig) {
			c.Polling.ListActive = 20 * time.Second
			c.Polling.ListIdle = 10 * time.Second
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Setenv("RECAP_CONFIG_DIR", t.TempDir())

	cfg := DefaultConfig()
	cfg.APIBaseURL = "http://recap.internal:9000"
	cfg.OutputFormat = OutputFormatYAML
	cfg.Polling.Status = 4 * time.Second
	require.NoError(t, SaveConfig(cfg))

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg.APIBaseURL, loaded.APIBaseURL)
	assert.Equal(t, cfg.OutputFormat, loaded.OutputFormat)
	assert.Equal(t, cfg.Polling.Status, loaded.Polling.Status)
}

func TestOutputFormatIsValid(t *testing.T) {
	assert.True(t, OutputFormatText.IsValid())
	assert.True(t, OutputFormatJSON.IsValid())
	assert.True(t, OutputFormatYAML.IsValid())
	assert.False(t, OutputFormat("xml").IsValid())
	assert.False(t, OutputFormat("").IsValid())
}

// Package config provides CLI configuration management for the recap command-line tool.
// It supports loading configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// OutputFormat defines the supported output formats for CLI results.
type OutputFormat string

const (
	// OutputFormatText is human-readable plain text output.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON is JSON-formatted output for machine processing.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML is YAML-formatted output for machine processing.
	OutputFormatYAML OutputFormat = "yaml"
)

// Default configuration values.
const (
	DefaultAPIBaseURL   = "http://localhost:8000"
	DefaultTimeout      = 60 * time.Second
	DefaultOutputFormat = OutputFormatText
	DefaultConfigDir    = ".recap"
	DefaultConfigFile   = "config.yaml"

	// Polling cadence defaults. These mirror the dashboard's reference
	// values; they are tunable, not part of the backend contract.
	DefaultListActiveInterval = 3 * time.Second
	DefaultListIdleInterval   = 10 * time.Second
	DefaultStatusInterval     = 2 * time.Second

	DefaultListLimit  = 20
	DefaultSearchTopK = 5
)

// PollingConfig holds the poll intervals used by the track package.
type PollingConfig struct {
	// ListActive is the list poll interval while any meeting is still
	// PENDING or PROCESSING.
	ListActive time.Duration `yaml:"list_active"`

	// ListIdle is the list poll interval when nothing is in flight.
	ListIdle time.Duration `yaml:"list_idle"`

	// Status is the fixed interval for single-meeting status polling.
	Status time.Duration `yaml:"status"`
}

// CLIConfig holds the CLI configuration settings.
type CLIConfig struct {
	// APIBaseURL is the base URL of the Recap backend (scheme://host:port).
	APIBaseURL string `yaml:"api_base_url"`

	// Timeout is the default timeout for API requests.
	Timeout time.Duration `yaml:"timeout"`

	// OutputFormat specifies the default output format for commands.
	OutputFormat OutputFormat `yaml:"output_format"`

	// Polling holds the poll cadence settings.
	Polling PollingConfig `yaml:"polling"`

	// Debug enables verbose debug logging.
	Debug bool `yaml:"debug,omitempty"`

	// JSONLogs switches log output to JSON (for scripting).
	JSONLogs bool `yaml:"json_logs,omitempty"`
}

// DefaultConfig returns a CLIConfig with default values.
func DefaultConfig() *CLIConfig {
	return &CLIConfig{
		APIBaseURL:   DefaultAPIBaseURL,
		Timeout:      DefaultTimeout,
		OutputFormat: DefaultOutputFormat,
		Polling: PollingConfig{
			ListActive: DefaultListActiveInterval,
			ListIdle:   DefaultListIdleInterval,
			Status:     DefaultStatusInterval,
		},
	}
}

// ConfigDir returns the configuration directory path.
// Uses $RECAP_CONFIG_DIR if set, otherwise ~/.recap
func ConfigDir() (string, error) {
	if dir := os.Getenv("RECAP_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// LoadConfig loads the CLI configuration from file and environment variables.
// Configuration is loaded in this order (later sources override earlier):
// 1. Default values
// 2. Config file (~/.recap/config.yaml or $RECAP_CONFIG_DIR/config.yaml)
// 3. Environment variables (RECAP_API_BASE_URL, RECAP_TIMEOUT, RECAP_OUTPUT_FORMAT, ...)
func LoadConfig() (*CLIConfig, error) {
	cfg := DefaultConfig()

	configPath, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("getting config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// fileConfig mirrors CLIConfig with durations as strings for YAML round-tripping.
type fileConfig struct {
	APIBaseURL   string       `yaml:"api_base_url"`
	Timeout      string       `yaml:"timeout"`
	OutputFormat OutputFormat `yaml:"output_format"`
	Polling      struct {
		ListActive string `yaml:"list_active"`
		ListIdle   string `yaml:"list_idle"`
		Status     string `yaml:"status"`
	} `yaml:"polling"`
	Debug    bool `yaml:"debug"`
	JSONLogs bool `yaml:"json_logs"`
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *CLIConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fileCfg fileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.APIBaseURL != "" {
		cfg.APIBaseURL = fileCfg.APIBaseURL
	}
	if fileCfg.Timeout != "" {
		timeout, err := time.ParseDuration(fileCfg.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout: %w", err)
		}
		cfg.Timeout = timeout
	}
	if fileCfg.OutputFormat != "" {
		cfg.OutputFormat = fileCfg.OutputFormat
	}
	if err := overlayInterval(&cfg.Polling.ListActive, fileCfg.Polling.ListActive, "polling.list_active"); err != nil {
		return err
	}
	if err := overlayInterval(&cfg.Polling.ListIdle, fileCfg.Polling.ListIdle, "polling.list_idle"); err != nil {
		return err
	}
	if err := overlayInterval(&cfg.Polling.Status, fileCfg.Polling.Status, "polling.status"); err != nil {
		return err
	}
	cfg.Debug = fileCfg.Debug
	cfg.JSONLogs = fileCfg.JSONLogs

	return nil
}

// overlayInterval parses an optional duration string onto dst.
func overlayInterval(dst *time.Duration, raw, name string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	*dst = d
	return nil
}

// loadFromEnv overlays environment variables onto the configuration.
func loadFromEnv(cfg *CLIConfig) {
	if v := os.Getenv("RECAP_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}

	if v := os.Getenv("RECAP_TIMEOUT"); v != "" {
		if timeout, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = timeout
		}
	}

	if v := os.Getenv("RECAP_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = OutputFormat(v)
	}

	if v := os.Getenv("RECAP_LIST_ACTIVE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Polling.ListActive = d
		}
	}

	if v := os.Getenv("RECAP_LIST_IDLE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Polling.ListIdle = d
		}
	}

	if v := os.Getenv("RECAP_STATUS_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Polling.Status = d
		}
	}

	if v := os.Getenv("RECAP_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}

	if v := os.Getenv("RECAP_JSON_LOGS"); v == "true" || v == "1" {
		cfg.JSONLogs = true
	}
}

// Validate checks that the configuration is valid.
func (c *CLIConfig) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if !c.OutputFormat.IsValid() {
		return fmt.Errorf("invalid output_format: %q (must be text, json, or yaml)", c.OutputFormat)
	}

	if c.Polling.ListActive <= 0 || c.Polling.ListIdle <= 0 || c.Polling.Status <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}

	if c.Polling.ListActive > c.Polling.ListIdle {
		return fmt.Errorf("polling.list_active must not exceed polling.list_idle")
	}

	return nil
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// SaveConfig saves the configuration to the config file.
func SaveConfig(cfg *CLIConfig) error {
	configDir, err := ConfigDir()
	if err != nil {
		return fmt.Errorf("getting config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	var fileCfg fileConfig
	fileCfg.APIBaseURL = cfg.APIBaseURL
	fileCfg.Timeout = cfg.Timeout.String()
	fileCfg.OutputFormat = cfg.OutputFormat
	fileCfg.Polling.ListActive = cfg.Polling.ListActive.String()
	fileCfg.Polling.ListIdle = cfg.Polling.ListIdle.String()
	fileCfg.Polling.Status = cfg.Polling.Status.String()
	fileCfg.Debug = cfg.Debug
	fileCfg.JSONLogs = cfg.JSONLogs

	data, err := yaml.Marshal(&fileCfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	configPath := filepath.Join(configDir, DefaultConfigFile)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Package cmd provides CLI commands for the recap tool.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/otherjamesbrown/recap-cli/client"
	"github.com/otherjamesbrown/recap-cli/config"
	"github.com/otherjamesbrown/recap-cli/credentials"
	"github.com/otherjamesbrown/recap-cli/pkg/buildinfo"
	"github.com/otherjamesbrown/recap-cli/pkg/logging"
	"github.com/otherjamesbrown/recap-cli/track"
)

// Deps holds the dependencies shared by all commands. Tests substitute the
// function fields to inject fixtures.
type Deps struct {
	Config     *config.CLIConfig
	LoadConfig func() (*config.CLIConfig, error)
	NewClient  func(cfg *config.CLIConfig) (*client.Client, error)
}

// DefaultDeps returns the production dependencies.
func DefaultDeps() *Deps {
	return &Deps{
		LoadConfig: config.LoadConfig,
		NewClient:  newAPIClient,
	}
}

// resolve loads configuration once and caches it on the Deps.
func (d *Deps) resolve() (*config.CLIConfig, error) {
	if d.Config != nil {
		return d.Config, nil
	}
	cfg, err := d.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	d.Config = cfg
	return cfg, nil
}

// apiClient builds the backend client for cfg.
func (d *Deps) apiClient(cfg *config.CLIConfig) (*client.Client, error) {
	if d.NewClient != nil {
		return d.NewClient(cfg)
	}
	return newAPIClient(cfg)
}

// newAPIClient constructs the production client: stored API key if one
// exists, debug logging when enabled.
func newAPIClient(cfg *config.CLIConfig) (*client.Client, error) {
	opts := client.DefaultOptions()
	opts.Timeout = cfg.Timeout
	opts.UserAgent = buildinfo.UserAgent("recap-cli")

	apiKey, err := resolveAPIKey()
	if err != nil {
		return nil, err
	}
	opts.APIKey = apiKey

	if cfg.Debug {
		opts.Logger = logging.NewLogger(&logging.Config{
			Level:      logging.LevelDebug,
			Component:  "client",
			JSONFormat: cfg.JSONLogs,
		})
		opts.Metrics = client.NewMetrics("recap", prometheus.DefaultRegisterer)
	}

	return client.NewClient(cfg.APIBaseURL, opts), nil
}

// trackMetrics returns poller instrumentation in debug mode, nil otherwise.
func trackMetrics(cfg *config.CLIConfig) *track.Metrics {
	if cfg == nil || !cfg.Debug {
		return nil
	}
	return track.NewMetrics("recap", prometheus.DefaultRegisterer)
}

// resolveAPIKey returns the configured API key, or "" when auth is not set
// up. A missing credentials file is not an error; a broken keyring is.
func resolveAPIKey() (string, error) {
	store, err := credentials.NewStore()
	if err != nil {
		// No keyring and no env key; run unauthenticated.
		return "", nil
	}
	key, err := store.ActiveAPIKey()
	if err != nil && !errors.Is(err, credentials.ErrNoCredentials) {
		return "", fmt.Errorf("reading stored API key: %w", err)
	}
	return key, nil
}

// outputFormat picks the effective format: per-command flag first, then the
// configured default.
func outputFormat(cfg *config.CLIConfig, override string) config.OutputFormat {
	if override != "" {
		return config.OutputFormat(override)
	}
	if cfg != nil && cfg.OutputFormat != "" {
		return cfg.OutputFormat
	}
	return config.OutputFormatText
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printYAML writes v as YAML.
func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(v)
}

var statusTitler = cases.Title(language.English)

// statusLabel renders a wire status like "PROCESSING" as "Processing" for
// table output.
func statusLabel(s client.Status) string {
	if s == "" {
		return "-"
	}
	return statusTitler.String(strings.ToLower(string(s)))
}

// truncate shortens s to max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// formatAge renders a timestamp as a compact relative age for tables.
func formatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

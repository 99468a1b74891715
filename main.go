// Package main provides the recap CLI entry point.
// recap is the command-line interface for the Recap meeting-intelligence
// backend: upload recordings, follow processing jobs, and query what was
// said and decided.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/recap-cli/cmd"
	"github.com/otherjamesbrown/recap-cli/config"
	"github.com/otherjamesbrown/recap-cli/pkg/buildinfo"
	"github.com/otherjamesbrown/recap-cli/pkg/logging"
)

// Global flags.
var (
	apiBaseURL   string
	timeout      time.Duration
	outputFormat string
	debug        bool
	jsonLogs     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "recap",
	Short: "Recap CLI - meeting intelligence from the command line",
	Long: `recap is the command-line interface for the Recap meeting-intelligence
backend.

Upload meeting recordings, follow their asynchronous processing, and
query the transcripts, summaries, and knowledge graphs the backend
extracts from them.

COMMON WORKFLOWS:
  Upload and wait:   recap upload standup.mp3 --watch
  Live job list:     recap meetings list --watch
  Read the results:  recap meetings show <id>  |  recap graph <id>
  Ask questions:     recap chat <id>
  Find a moment:     recap search "budget approval"
  Check the backend: recap health --ready

All list and detail commands accept --output json for scripting.
Run 'recap <command> --help' for flags and examples.`,
	Version:      buildinfo.Get("recap-cli").Version,
	SilenceUsage: true,
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the version, commit hash, and build time of the recap CLI.

Examples:
  recap version
  recap version --output json`,
	RunE: func(c *cobra.Command, args []string) error {
		info := buildinfo.Get("recap-cli")
		out := c.OutOrStdout()
		if outputFormat == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}
		fmt.Fprintf(out, "recap version %s\n", info.Version)
		fmt.Fprintf(out, "  commit:     %s\n", info.Commit)
		fmt.Fprintf(out, "  built:      %s\n", info.BuildTime)
		fmt.Fprintf(out, "  go:         %s\n", info.GoVersion)
		return nil
	},
}

// loadConfigWithFlags loads the configuration and applies global flag
// overrides. Each command group gets this as its config source so flags
// beat file and env settings uniformly.
func loadConfigWithFlags() (*config.CLIConfig, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if apiBaseURL != "" {
		cfg.APIBaseURL = apiBaseURL
	}
	if timeout != 0 {
		cfg.Timeout = timeout
	}
	if outputFormat != "" {
		cfg.OutputFormat = config.OutputFormat(outputFormat)
	}
	if debug {
		cfg.Debug = true
	}
	if jsonLogs {
		cfg.JSONLogs = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newDeps() *cmd.Deps {
	deps := cmd.DefaultDeps()
	deps.LoadConfig = loadConfigWithFlags
	return deps
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api-url", "", "Backend base URL (default http://localhost:8000)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (e.g., 30s, 1m)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "", "Default output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON")

	rootCmd.AddCommand(cmd.NewUploadCommand(newDeps()))
	rootCmd.AddCommand(cmd.NewMeetingsCommand(newDeps()))
	rootCmd.AddCommand(cmd.NewChatCommand(newDeps()))
	rootCmd.AddCommand(cmd.NewGraphCommand(newDeps()))
	rootCmd.AddCommand(cmd.NewSearchCommand(newDeps()))
	rootCmd.AddCommand(cmd.NewAnalyticsCommand(newDeps()))
	rootCmd.AddCommand(cmd.NewHealthCommand(newDeps()))
	rootCmd.AddCommand(cmd.NewAuthCommand(newDeps()))
	rootCmd.AddCommand(versionCmd)
}

func main() {
	// Cancel all in-flight work on Ctrl+C; pollers check the context
	// before every state update.
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger := logging.NewLogger(&logging.Config{
			Level:     logging.LevelError,
			Component: "recap",
		})
		logger.Error("Command failed", logging.Err(err))
		os.Exit(1)
	}
}

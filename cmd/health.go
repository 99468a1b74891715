package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/recap-cli/client"
	"github.com/otherjamesbrown/recap-cli/config"
)

// Health command flags.
var (
	healthReady  bool
	healthOutput string
)

// NewHealthCommand creates the 'health' command.
func NewHealthCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check backend health",
		Long: `Check that the Recap backend is reachable and healthy.

The default check hits the liveness endpoint. Use --ready for the
readiness endpoint, which also verifies the backend's own dependencies
(database, vector store, model services).

Examples:
  # Liveness
  recap health

  # Readiness with dependency checks
  recap health --ready

  # Machine-readable
  recap health --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(cmd, deps)
		},
	}

	cmd.Flags().BoolVar(&healthReady, "ready", false, "Check readiness including backend dependencies")
	cmd.Flags().StringVarP(&healthOutput, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

func runHealth(cmd *cobra.Command, deps *Deps) error {
	cfg, err := deps.resolve()
	if err != nil {
		return err
	}
	api, err := deps.apiClient(cfg)
	if err != nil {
		return err
	}
	defer api.Close()

	out := cmd.OutOrStdout()

	if healthReady {
		resp, err := api.Ready(cmd.Context())
		if err != nil {
			return fmt.Errorf("backend not ready at %s: %s", api.BaseURL(), client.ErrorMessage(err, "unreachable"))
		}
		switch outputFormat(cfg, healthOutput) {
		case config.OutputFormatJSON:
			return printJSON(out, resp)
		case config.OutputFormatYAML:
			return printYAML(out, resp)
		}
		fmt.Fprintf(out, "Backend ready at %s: %s\n", api.BaseURL(), resp.Status)
		for name, state := range resp.Checks {
			fmt.Fprintf(out, "  %-12s %s\n", name, state)
		}
		return nil
	}

	resp, err := api.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("backend unhealthy at %s: %s", api.BaseURL(), client.ErrorMessage(err, "unreachable"))
	}
	switch outputFormat(cfg, healthOutput) {
	case config.OutputFormatJSON:
		return printJSON(out, resp)
	case config.OutputFormatYAML:
		return printYAML(out, resp)
	}
	fmt.Fprintf(out, "Backend healthy at %s: %s\n", api.BaseURL(), resp.Status)
	return nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/recap-cli/config"
)

// Search command flags.
var (
	searchTopK   int
	searchOutput string
)

// NewSearchCommand creates the 'search' command.
func NewSearchCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed meeting content semantically",
		Long: `Search across all processed meetings by meaning, not keywords.
Results are transcript and summary fragments ranked by semantic
similarity; lower distance means a closer match.

Examples:
  # Find where the budget was discussed
  recap search "budget approval"

  # More results
  recap search "hiring plan" --top-k 10

  # JSON for scripting
  recap search "launch date" --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, deps, strings.Join(args, " "))
		},
	}

	cmd.Flags().IntVarP(&searchTopK, "top-k", "k", config.DefaultSearchTopK, "Number of results to return")
	cmd.Flags().StringVarP(&searchOutput, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

func runSearch(cmd *cobra.Command, deps *Deps, query string) error {
	cfg, err := deps.resolve()
	if err != nil {
		return err
	}
	api, err := deps.apiClient(cfg)
	if err != nil {
		return err
	}
	defer api.Close()

	resp, err := api.Search(cmd.Context(), query, searchTopK)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	out := cmd.OutOrStdout()
	switch outputFormat(cfg, searchOutput) {
	case config.OutputFormatJSON:
		return printJSON(out, resp)
	case config.OutputFormatYAML:
		return printYAML(out, resp)
	}

	if len(resp.Results) == 0 {
		fmt.Fprintf(out, "No results for %q.\n", query)
		return nil
	}

	for i, r := range resp.Results {
		fmt.Fprintf(out, "%d. (distance %.3f)\n", i+1, r.Distance)
		fmt.Fprintf(out, "   %s\n", truncate(strings.ReplaceAll(r.Content, "\n", " "), 200))
		if id, ok := r.Metadata["meeting_id"].(string); ok && id != "" {
			fmt.Fprintf(out, "   meeting: %s\n", id)
		}
	}
	return nil
}

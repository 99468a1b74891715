package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/recap-cli/client"
	"github.com/otherjamesbrown/recap-cli/config"
	"github.com/otherjamesbrown/recap-cli/track"
)

var graphOutput string

// NewGraphCommand creates the 'graph' command.
func NewGraphCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "graph <meeting-id>",
		Short: "Show the knowledge graph extracted from a meeting",
		Long: `Show the structured knowledge extracted from one meeting:
participants, decisions, timeline, topics, and structured action items.

The graph is built during processing; for meetings still PENDING or
PROCESSING it may be empty or partial.

Examples:
  # Human-readable graph
  recap graph 3f2a1b

  # JSON for downstream tooling
  recap graph 3f2a1b --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, deps, args[0])
		},
	}

	cmd.Flags().StringVarP(&graphOutput, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

func runGraph(cmd *cobra.Command, deps *Deps, meetingID string) error {
	cfg, err := deps.resolve()
	if err != nil {
		return err
	}
	api, err := deps.apiClient(cfg)
	if err != nil {
		return err
	}
	defer api.Close()

	fetcher := track.NewGraphContextFetcher(api, nil)
	fetcher.SetMeeting(meetingID)
	if err := fetcher.Fetch(cmd.Context()); err != nil {
		return fmt.Errorf("fetching graph: %s", fetcher.Err())
	}
	g := fetcher.Data()

	out := cmd.OutOrStdout()
	switch outputFormat(cfg, graphOutput) {
	case config.OutputFormatJSON:
		return printJSON(out, g)
	case config.OutputFormatYAML:
		return printYAML(out, g)
	}

	if g.Title != "" {
		fmt.Fprintf(out, "Meeting: %s\n", g.Title)
	}
	printParticipants(out, g.Participants)
	printDecisions(out, g.Decisions)
	printTimeline(out, g.Timeline)
	if len(g.Topics) > 0 {
		fmt.Fprintf(out, "\nTopics: %s\n", strings.Join(g.Topics, ", "))
	}
	printActionItems(out, g.ActionItems)

	if len(g.Participants) == 0 && len(g.Decisions) == 0 && len(g.Timeline) == 0 &&
		len(g.Topics) == 0 && len(g.ActionItems) == 0 {
		fmt.Fprintln(out, "No graph data extracted for this meeting yet.")
	}
	return nil
}

func printParticipants(w io.Writer, participants []client.Participant) {
	if len(participants) == 0 {
		return
	}
	fmt.Fprintln(w, "\nParticipants:")
	for _, p := range participants {
		if p.Role != "" {
			fmt.Fprintf(w, "  - %s (%s)\n", p.Name, p.Role)
		} else {
			fmt.Fprintf(w, "  - %s\n", p.Name)
		}
	}
}

func printDecisions(w io.Writer, decisions []client.Decision) {
	if len(decisions) == 0 {
		return
	}
	fmt.Fprintln(w, "\nDecisions:")
	for _, d := range decisions {
		fmt.Fprintf(w, "  - %s\n", d.Title)
		if d.Details != "" {
			fmt.Fprintf(w, "    %s\n", d.Details)
		}
	}
}

func printTimeline(w io.Writer, events []client.TimelineEvent) {
	if len(events) == 0 {
		return
	}
	fmt.Fprintln(w, "\nTimeline:")
	for _, e := range events {
		if e.Timestamp != "" {
			fmt.Fprintf(w, "  %s  %s\n", e.Timestamp, e.Label)
		} else {
			fmt.Fprintf(w, "  - %s\n", e.Label)
		}
	}
}

func printActionItems(w io.Writer, items []client.ActionItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, "\nAction Items:")
	for _, item := range items {
		line := "  - " + item.Title
		if item.Owner != "" {
			line += " (owner: " + item.Owner + ")"
		}
		fmt.Fprintln(w, line)
		if item.Details != "" {
			fmt.Fprintf(w, "    %s\n", item.Details)
		}
	}
}

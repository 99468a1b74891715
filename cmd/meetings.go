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

// Meetings command flags.
var (
	meetingsLimit  int
	meetingsStatus string
	meetingsWatch  bool
	meetingsOutput string
)

// NewMeetingsCommand creates the root meetings command with subcommands.
func NewMeetingsCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "meetings",
		Short: "List and inspect processed meetings",
		Long: `List and inspect meetings tracked by the Recap backend.

Each uploaded recording becomes a meeting job that moves through
PENDING, PROCESSING, and finally COMPLETED or FAILED. These commands
show where each job is and what the backend extracted from it.

Examples:
  # List the most recent meetings
  recap meetings list

  # Keep the list on screen, refreshing while jobs are in flight
  recap meetings list --watch

  # Show everything extracted from one meeting
  recap meetings show 3f2a1b

  # Follow one meeting's processing status
  recap meetings status 3f2a1b --watch`,
		Aliases: []string{"meeting"},
	}

	cmd.PersistentFlags().StringVarP(&meetingsOutput, "output", "o", "", "Output format: text, json, yaml")

	cmd.AddCommand(newMeetingsListCommand(deps))
	cmd.AddCommand(newMeetingsShowCommand(deps))
	cmd.AddCommand(newMeetingsStatusCommand(deps))

	return cmd
}

func newMeetingsListCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent meetings",
		Long: `List the most recent meetings, newest first.

With --watch, the list stays on screen and refreshes automatically:
every few seconds while any job is still processing, and on a slower
cadence once everything has settled. Press Ctrl+C to stop.

Examples:
  # Latest 20 meetings
  recap meetings list

  # Only failed jobs
  recap meetings list --status FAILED

  # Live view while uploads process
  recap meetings list --watch

  # JSON for scripting
  recap meetings list --output json`,
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMeetingsList(cmd, deps)
		},
	}

	cmd.Flags().IntVar(&meetingsLimit, "limit", config.DefaultListLimit, "Maximum number of meetings to list")
	cmd.Flags().StringVar(&meetingsStatus, "status", "", "Filter by status: PENDING, PROCESSING, COMPLETED, FAILED")
	cmd.Flags().BoolVarP(&meetingsWatch, "watch", "w", false, "Refresh the list until interrupted")

	return cmd
}

func newMeetingsShowCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show full details for one meeting",
		Long: `Show the full record for one meeting: transcript, summary, key
points, action items, sentiment, and tags, as far as processing has
produced them.

Examples:
  # Human-readable details
  recap meetings show 3f2a1b

  # Full record as JSON
  recap meetings show 3f2a1b --output json`,
		Aliases: []string{"get"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMeetingsShow(cmd, deps, args[0])
		},
	}
}

func newMeetingsStatusCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <id>",
		Short: "Show one meeting's processing status",
		Long: `Show the current processing status of one meeting.

With --watch, the command polls until the job reaches COMPLETED or
FAILED and then exits.

Examples:
  # One-shot status check
  recap meetings status 3f2a1b

  # Block until processing finishes
  recap meetings status 3f2a1b --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMeetingsStatus(cmd, deps, args[0])
		},
	}

	cmd.Flags().BoolVarP(&meetingsWatch, "watch", "w", false, "Poll until the job reaches a terminal status")

	return cmd
}

func runMeetingsList(cmd *cobra.Command, deps *Deps) error {
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
	updates := make(chan struct{}, 1)
	notify := func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	}

	poller := track.NewListPoller(api, track.ListPollerOptions{
		Limit:          meetingsLimit,
		StatusFilter:   client.Status(meetingsStatus),
		ActiveInterval: cfg.Polling.ListActive,
		IdleInterval:   cfg.Polling.ListIdle,
		Metrics:        trackMetrics(cfg),
		OnUpdate:       notify,
	})

	if !meetingsWatch {
		if err := poller.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("listing meetings: %s", poller.Err())
		}
		return outputMeetings(out, cfg, poller.Meetings())
	}
	poller.Start(cmd.Context())
	defer poller.Stop()

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case <-updates:
			fmt.Fprint(out, "\033[2J\033[H")
			if msg := poller.Err(); msg != "" {
				fmt.Fprintf(out, "Error: %s (showing last known list)\n\n", msg)
			}
			if err := outputMeetings(out, cfg, poller.Meetings()); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nRefreshing every %s. Press Ctrl+C to stop.\n", poller.Interval())
		}
	}
}

func runMeetingsShow(cmd *cobra.Command, deps *Deps, meetingID string) error {
	cfg, err := deps.resolve()
	if err != nil {
		return err
	}
	api, err := deps.apiClient(cfg)
	if err != nil {
		return err
	}
	defer api.Close()

	fetcher := track.NewDetailsFetcher(api, nil)
	fetcher.SetMeeting(meetingID)
	if err := fetcher.Fetch(cmd.Context()); err != nil {
		return fmt.Errorf("fetching meeting: %s", fetcher.Err())
	}
	d := fetcher.Data()

	out := cmd.OutOrStdout()
	switch outputFormat(cfg, meetingsOutput) {
	case config.OutputFormatJSON:
		return printJSON(out, d)
	case config.OutputFormatYAML:
		return printYAML(out, d)
	}

	fmt.Fprintf(out, "Meeting:  %s\n", d.OriginalFilename)
	fmt.Fprintf(out, "ID:       %s\n", d.ID)
	fmt.Fprintf(out, "Status:   %s\n", statusLabel(d.Status))
	if !d.CreatedAt.IsZero() {
		fmt.Fprintf(out, "Uploaded: %s (%s)\n", d.CreatedAt.Format("2006-01-02 15:04"), formatAge(d.CreatedAt))
	}
	if d.Tags != "" {
		fmt.Fprintf(out, "Tags:     %s\n", d.Tags)
	}
	printSection(out, "Summary", d.Summary)
	printSection(out, "Key Points", d.KeyPoints)
	printSection(out, "Action Items", d.ActionItems)
	printSection(out, "Sentiment", d.Sentiment)
	printSection(out, "Transcript", d.Transcript)
	return nil
}

func printSection(w io.Writer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Fprintf(w, "\n%s:\n%s\n", title, body)
}

func runMeetingsStatus(cmd *cobra.Command, deps *Deps, meetingID string) error {
	cfg, err := deps.resolve()
	if err != nil {
		return err
	}
	api, err := deps.apiClient(cfg)
	if err != nil {
		return err
	}
	defer api.Close()

	if meetingsWatch {
		return watchMeeting(cmd, deps, api, cfg, meetingID)
	}

	st, err := api.GetMeetingStatus(cmd.Context(), meetingID)
	if err != nil {
		return fmt.Errorf("fetching status: %s", client.ErrorMessage(err, "request failed"))
	}

	out := cmd.OutOrStdout()
	switch outputFormat(cfg, meetingsOutput) {
	case config.OutputFormatJSON:
		return printJSON(out, st)
	case config.OutputFormatYAML:
		return printYAML(out, st)
	}

	fmt.Fprintf(out, "Meeting %s: %s\n", st.MeetingID, statusLabel(st.Status))
	if st.Message != "" {
		fmt.Fprintf(out, "  %s\n", st.Message)
	}
	return nil
}

// outputMeetings renders the meeting list in the selected format.
func outputMeetings(w io.Writer, cfg *config.CLIConfig, meetings []client.Meeting) error {
	switch outputFormat(cfg, meetingsOutput) {
	case config.OutputFormatJSON:
		return printJSON(w, meetings)
	case config.OutputFormatYAML:
		return printYAML(w, meetings)
	}

	if len(meetings) == 0 {
		fmt.Fprintln(w, "No meetings found.")
		return nil
	}

	fmt.Fprintf(w, "%-38s %-12s %-10s %s\n", "ID", "STATUS", "UPLOADED", "FILE")
	for _, m := range meetings {
		fmt.Fprintf(w, "%-38s %-12s %-10s %s\n",
			m.ID,
			statusLabel(m.Status),
			formatAge(m.CreatedAt),
			truncate(m.OriginalFilename, 40))
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/recap-cli/client"
	"github.com/otherjamesbrown/recap-cli/config"
	"github.com/otherjamesbrown/recap-cli/track"
)

// Upload command flags.
var (
	uploadWatch  bool
	uploadOutput string
)

// NewUploadCommand creates the 'upload' command.
func NewUploadCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a meeting recording for processing",
		Long: `Upload a meeting recording or transcript to the Recap backend.

The backend accepts the file immediately and processes it asynchronously:
transcription, summarization, and knowledge-graph extraction. The command
prints the new meeting ID and its initial status.

With --watch, the command then polls the processing status every few
seconds and exits once the meeting reaches COMPLETED or FAILED, printing
the summary on success.

Examples:
  # Upload and return immediately
  recap upload standup.mp3

  # Upload and follow processing to completion
  recap upload standup.mp3 --watch

  # Upload with JSON output for scripting
  recap upload standup.mp3 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, deps, args[0])
		},
	}

	cmd.Flags().BoolVarP(&uploadWatch, "watch", "w", false, "Poll processing status until it completes")
	cmd.Flags().StringVarP(&uploadOutput, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

func runUpload(cmd *cobra.Command, deps *Deps, path string) error {
	cfg, err := deps.resolve()
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	api, err := deps.apiClient(cfg)
	if err != nil {
		return err
	}
	defer api.Close()

	tracker := track.NewUploadTracker(api, track.UploadTrackerOptions{})
	meeting, err := tracker.Upload(cmd.Context(), filepath.Base(path), file)
	if err != nil {
		return fmt.Errorf("uploading: %s", tracker.Err())
	}

	out := cmd.OutOrStdout()
	switch outputFormat(cfg, uploadOutput) {
	case config.OutputFormatJSON:
		if err := printJSON(out, meeting); err != nil {
			return err
		}
	case config.OutputFormatYAML:
		if err := printYAML(out, meeting); err != nil {
			return err
		}
	default:
		fmt.Fprintf(out, "Uploaded %s\n", meeting.OriginalFilename)
		fmt.Fprintf(out, "  Meeting ID: %s\n", meeting.ID)
		fmt.Fprintf(out, "  Status:     %s\n", statusLabel(meeting.Status))
	}

	if !uploadWatch {
		return nil
	}
	return watchMeeting(cmd, deps, api, cfg, meeting.ID)
}

// watchMeeting polls one meeting's status until it reaches a terminal
// state, then fetches and prints the summary.
func watchMeeting(cmd *cobra.Command, deps *Deps, api *client.Client, cfg *config.CLIConfig, meetingID string) error {
	out := cmd.OutOrStdout()
	done := make(chan client.JobStatus, 1)

	poller := track.NewStatusPoller(api, track.StatusPollerOptions{
		Interval: cfg.Polling.Status,
		Metrics:  trackMetrics(cfg),
		OnTerminal: func(st client.JobStatus) {
			done <- st
		},
	})
	poller.Track(cmd.Context(), meetingID)
	defer poller.Stop()

	fmt.Fprintf(out, "Watching processing status (interval %s)...\n", cfg.Polling.Status)

	var final client.JobStatus
	select {
	case final = <-done:
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	}

	fmt.Fprintf(out, "Status: %s\n", statusLabel(final.Status))
	if final.Message != "" {
		fmt.Fprintf(out, "  %s\n", final.Message)
	}
	if final.Status == client.StatusFailed {
		return fmt.Errorf("processing failed")
	}

	details := track.NewDetailsFetcher(api, nil)
	details.SetMeeting(meetingID)
	if err := details.Fetch(cmd.Context()); err != nil {
		return fmt.Errorf("fetching details: %s", details.Err())
	}
	if d := details.Data(); d != nil && d.Summary != "" {
		fmt.Fprintf(out, "\nSummary:\n%s\n", d.Summary)
	}
	return nil
}

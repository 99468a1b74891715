package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/recap-cli/client"
	"github.com/otherjamesbrown/recap-cli/config"
)

// Analytics command flags.
var (
	analyticsLimit  int
	analyticsDays   int
	analyticsOutput string
)

// NewAnalyticsCommand creates the root analytics command with subcommands.
func NewAnalyticsCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show statistics across all meetings",
		Long: `Show aggregate statistics the backend computes across every
processed meeting: job counts, completion rate, sentiment, and pipeline
progress.

Without a subcommand, an overview is printed. Subcommands drill into
the most-discussed topics, the sentiment trend over time, and the
cross-meeting topic graph.

Examples:
  # Overview: totals, completion rate, sentiment, pipeline progress
  recap analytics

  # Eight most-discussed topics
  recap analytics topics --limit 8

  # Sentiment trend over the last two weeks
  recap analytics timeline --days 14

  # Topic co-occurrence graph as JSON
  recap analytics graph --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyticsOverview(cmd, deps)
		},
	}

	cmd.PersistentFlags().StringVarP(&analyticsOutput, "output", "o", "", "Output format: text, json, yaml")

	cmd.AddCommand(newAnalyticsTopicsCommand(deps))
	cmd.AddCommand(newAnalyticsTimelineCommand(deps))
	cmd.AddCommand(newAnalyticsGraphCommand(deps))

	return cmd
}

func newAnalyticsTopicsCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Show the most discussed topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyticsTopics(cmd, deps)
		},
	}

	cmd.Flags().IntVar(&analyticsLimit, "limit", client.DefaultTopTopicsLimit, "Number of topics to show")

	return cmd
}

func newAnalyticsTimelineCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show the sentiment trend over time",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyticsTimeline(cmd, deps)
		},
	}

	cmd.Flags().IntVar(&analyticsDays, "days", client.DefaultTimelineDays, "Number of days to include")

	return cmd
}

func newAnalyticsGraphCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Show the cross-meeting topic graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyticsGraph(cmd, deps)
		},
	}
}

func runAnalyticsOverview(cmd *cobra.Command, deps *Deps) error {
	cfg, err := deps.resolve()
	if err != nil {
		return err
	}
	api, err := deps.apiClient(cfg)
	if err != nil {
		return err
	}
	defer api.Close()

	overview, err := api.GetAnalyticsOverview(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching analytics: %s", client.ErrorMessage(err, "request failed"))
	}
	distribution, err := api.GetSentimentDistribution(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching sentiment distribution: %s", client.ErrorMessage(err, "request failed"))
	}
	processing, err := api.GetProcessingStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching processing stats: %s", client.ErrorMessage(err, "request failed"))
	}

	out := cmd.OutOrStdout()
	switch outputFormat(cfg, analyticsOutput) {
	case config.OutputFormatJSON:
		return printJSON(out, map[string]any{
			"overview":               overview,
			"sentiment_distribution": distribution,
			"processing_stats":       processing,
		})
	case config.OutputFormatYAML:
		return printYAML(out, map[string]any{
			"overview":               overview,
			"sentiment_distribution": distribution,
			"processing_stats":       processing,
		})
	}

	fmt.Fprintf(out, "Meetings:    %d total, %d completed, %d processing, %d failed\n",
		overview.TotalMeetings, overview.CompletedMeetings,
		overview.ProcessingMeetings, overview.ErrorMeetings)
	fmt.Fprintf(out, "Completion:  %.1f%%\n", overview.CompletionRate)
	fmt.Fprintf(out, "Sentiment:   %.1f average score (%d positive, %d neutral, %d negative)\n",
		overview.AverageSentimentScore,
		distribution.Positive, distribution.Neutral, distribution.Negative)
	fmt.Fprintf(out, "\nPipeline:\n")
	fmt.Fprintf(out, "  transcribed:        %d\n", processing.Transcribed)
	fmt.Fprintf(out, "  summarized:         %d\n", processing.Summarized)
	fmt.Fprintf(out, "  sentiment analyzed: %d\n", processing.SentimentAnalyzed)
	fmt.Fprintf(out, "  topics extracted:   %d\n", processing.TopicsExtracted)
	fmt.Fprintf(out, "  transcription rate: %.1f%%\n", processing.TranscriptionRate)
	fmt.Fprintf(out, "  analysis rate:      %.1f%%\n", processing.AnalysisRate)
	return nil
}

func runAnalyticsTopics(cmd *cobra.Command, deps *Deps) error {
	cfg, err := deps.resolve()
	if err != nil {
		return err
	}
	api, err := deps.apiClient(cfg)
	if err != nil {
		return err
	}
	defer api.Close()

	resp, err := api.GetTopTopics(cmd.Context(), analyticsLimit)
	if err != nil {
		return fmt.Errorf("fetching topics: %s", client.ErrorMessage(err, "request failed"))
	}

	out := cmd.OutOrStdout()
	switch outputFormat(cfg, analyticsOutput) {
	case config.OutputFormatJSON:
		return printJSON(out, resp)
	case config.OutputFormatYAML:
		return printYAML(out, resp)
	}

	if len(resp.Topics) == 0 {
		fmt.Fprintln(out, "No topics extracted yet.")
		return nil
	}
	fmt.Fprintf(out, "%-30s %-10s %s\n", "TOPIC", "MEETINGS", "RELEVANCE")
	for _, t := range resp.Topics {
		fmt.Fprintf(out, "%-30s %-10d %.1f\n", truncate(t.Name, 30), t.Frequency, t.AvgRelevance)
	}
	return nil
}

func runAnalyticsTimeline(cmd *cobra.Command, deps *Deps) error {
	cfg, err := deps.resolve()
	if err != nil {
		return err
	}
	api, err := deps.apiClient(cfg)
	if err != nil {
		return err
	}
	defer api.Close()

	resp, err := api.GetSentimentTimeline(cmd.Context(), analyticsDays)
	if err != nil {
		return fmt.Errorf("fetching timeline: %s", client.ErrorMessage(err, "request failed"))
	}

	out := cmd.OutOrStdout()
	switch outputFormat(cfg, analyticsOutput) {
	case config.OutputFormatJSON:
		return printJSON(out, resp)
	case config.OutputFormatYAML:
		return printYAML(out, resp)
	}

	if len(resp.Timeline) == 0 {
		fmt.Fprintf(out, "No meetings in the last %d days.\n", analyticsDays)
		return nil
	}
	fmt.Fprintf(out, "%-12s %-10s %s\n", "DATE", "SENTIMENT", "MEETINGS")
	for _, p := range resp.Timeline {
		fmt.Fprintf(out, "%-12s %-10.1f %d\n", p.Date, p.SentimentScore, p.MeetingCount)
	}
	return nil
}

func runAnalyticsGraph(cmd *cobra.Command, deps *Deps) error {
	cfg, err := deps.resolve()
	if err != nil {
		return err
	}
	api, err := deps.apiClient(cfg)
	if err != nil {
		return err
	}
	defer api.Close()

	graph, err := api.GetKnowledgeGraph(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching topic graph: %s", client.ErrorMessage(err, "request failed"))
	}

	out := cmd.OutOrStdout()
	switch outputFormat(cfg, analyticsOutput) {
	case config.OutputFormatJSON:
		return printJSON(out, graph)
	case config.OutputFormatYAML:
		return printYAML(out, graph)
	}

	if len(graph.Nodes) == 0 {
		fmt.Fprintln(out, "No topic graph extracted yet.")
		return nil
	}
	printTopicNodes(out, graph.Nodes)
	printTopicEdges(out, graph.Edges)
	return nil
}

func printTopicNodes(w io.Writer, nodes []client.GraphNode) {
	fmt.Fprintln(w, "Topics:")
	for _, n := range nodes {
		fmt.Fprintf(w, "  %-30s %d meetings\n", truncate(n.Label, 30), n.Frequency)
	}
}

func printTopicEdges(w io.Writer, edges []client.GraphEdge) {
	if len(edges) == 0 {
		return
	}
	fmt.Fprintln(w, "\nCo-occurrences:")
	for _, e := range edges {
		fmt.Fprintf(w, "  %s <-> %s (%d)\n", e.Source, e.Target, e.Weight)
	}
}

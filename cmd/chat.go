package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/otherjamesbrown/recap-cli/config"
	"github.com/otherjamesbrown/recap-cli/track"
)

// Chat command flags.
var (
	chatMessage string
	chatOutput  string
)

// NewChatCommand creates the 'chat' command.
func NewChatCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "chat <meeting-id>",
		Short: "Chat with the assistant about one meeting",
		Long: `Ask questions about a processed meeting. The assistant answers from
the meeting's transcript, summary, and knowledge graph.

Without --message, an interactive session starts: each line you type is
sent with the running conversation as context. A failed send drops your
last message from the conversation; retype it to retry. Type 'exit' or
press Ctrl+D to leave.

With --message, a single question is sent and the reply printed.

Examples:
  # Interactive session
  recap chat 3f2a1b

  # One-shot question
  recap chat 3f2a1b --message "What were the action items?"

  # One-shot with JSON output
  recap chat 3f2a1b -m "Who attended?" --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, args[0])
		},
	}

	cmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message instead of starting a session")
	cmd.Flags().StringVarP(&chatOutput, "output", "o", "", "Output format for --message: text, json, yaml")

	return cmd
}

func runChat(cmd *cobra.Command, deps *Deps, meetingID string) error {
	cfg, err := deps.resolve()
	if err != nil {
		return err
	}
	api, err := deps.apiClient(cfg)
	if err != nil {
		return err
	}
	defer api.Close()

	session := track.NewChatSession(api, track.ChatSessionOptions{})
	session.SetMeeting(meetingID)

	if chatMessage != "" {
		return runChatOnce(cmd, cfg, session, chatMessage)
	}
	return runChatREPL(cmd, session)
}

func runChatOnce(cmd *cobra.Command, cfg *config.CLIConfig, session *track.ChatSession, message string) error {
	resp, err := session.Send(cmd.Context(), message)
	if err != nil {
		return fmt.Errorf("sending message: %s", session.Err())
	}
	if resp == nil {
		return fmt.Errorf("message is empty")
	}

	out := cmd.OutOrStdout()
	switch outputFormat(cfg, chatOutput) {
	case config.OutputFormatJSON:
		return printJSON(out, resp)
	case config.OutputFormatYAML:
		return printYAML(out, resp)
	}
	fmt.Fprintln(out, resp.Reply)
	return nil
}

func runChatREPL(cmd *cobra.Command, session *track.ChatSession) error {
	out := cmd.OutOrStdout()
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	if interactive {
		fmt.Fprintf(out, "Chatting about meeting %s. Type 'exit' or Ctrl+D to leave.\n", session.MeetingID())
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		select {
		case <-cmd.Context().Done():
			return nil
		default:
		}

		resp, err := session.Send(cmd.Context(), line)
		if err != nil {
			fmt.Fprintf(out, "Error: %s\n", session.Err())
			continue
		}
		if resp == nil {
			continue
		}
		fmt.Fprintf(out, "%s\n", resp.Reply)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if interactive {
		fmt.Fprintln(out, "Bye.")
	}
	return nil
}

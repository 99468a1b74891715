package cmd

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/otherjamesbrown/recap-cli/credentials"
)

var authAPIKey string

// NewAuthCommand creates the root auth command with subcommands.
func NewAuthCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored API key",
		Long: `Manage the API key the CLI sends to the Recap backend.

The key is stored encrypted in ~/.recap/credentials.yaml; the
encryption key lives in the system keyring. Set RECAP_API_KEY to
override the stored key, or RECAP_ENCRYPTION_KEY (64 hex chars) where
no keyring is available.

Examples:
  # Store a key (prompts without echo when run interactively)
  recap auth set-key

  # Store a key non-interactively
  recap auth set-key --key rc-abc123...

  # Show the stored key, masked
  recap auth show

  # Remove the stored key
  recap auth clear`,
	}

	cmd.AddCommand(newAuthSetKeyCommand(deps))
	cmd.AddCommand(newAuthShowCommand(deps))
	cmd.AddCommand(newAuthClearCommand(deps))

	return cmd
}

func newAuthSetKeyCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-key",
		Short: "Store an API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthSetKey(cmd, deps)
		},
	}

	cmd.Flags().StringVar(&authAPIKey, "key", "", "API key value (omit to be prompted)")

	return cmd
}

func newAuthShowCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored API key, masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthShow(cmd)
		},
	}
}

func newAuthClearCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Short:   "Remove the stored API key",
		Aliases: []string{"logout"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthClear(cmd)
		},
	}
}

func runAuthSetKey(cmd *cobra.Command, deps *Deps) error {
	cfg, err := deps.resolve()
	if err != nil {
		return err
	}

	key := strings.TrimSpace(authAPIKey)
	if key == "" {
		fmt.Fprint(cmd.OutOrStdout(), "API key: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("reading key: %w", err)
		}
		key = strings.TrimSpace(string(raw))
	}
	if key == "" {
		return fmt.Errorf("API key is empty")
	}

	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}

	if err := store.Save(&credentials.Credentials{
		APIKey:        key,
		ServerAddress: cfg.APIBaseURL,
	}); err != nil {
		return fmt.Errorf("storing API key: %w", err)
	}

	path, _ := credentials.CredentialsPath()
	fmt.Fprintf(cmd.OutOrStdout(), "API key stored in %s\n", path)
	return nil
}

func runAuthShow(cmd *cobra.Command) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}

	creds, err := store.Load()
	if err != nil {
		if errors.Is(err, credentials.ErrNoCredentials) {
			fmt.Fprintln(cmd.OutOrStdout(), "No API key stored. Run 'recap auth set-key'.")
			return nil
		}
		return fmt.Errorf("loading credentials: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "API key: %s\n", credentials.MaskAPIKey(creds.APIKey))
	if creds.ServerAddress != "" {
		fmt.Fprintf(out, "Server:  %s\n", creds.ServerAddress)
	}
	if !creds.LastUpdated.IsZero() {
		fmt.Fprintf(out, "Updated: %s\n", creds.LastUpdated.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runAuthClear(cmd *cobra.Command) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}
	if err := store.Delete(); err != nil {
		return fmt.Errorf("removing credentials: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Stored API key removed.")
	return nil
}

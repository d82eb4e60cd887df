package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paddle-billing/paddle-cli/internal/api"
	"github.com/paddle-billing/paddle-cli/internal/config"
	"github.com/paddle-billing/paddle-cli/internal/dryrun"
	"github.com/paddle-billing/paddle-cli/internal/iocontext"
	"github.com/paddle-billing/paddle-cli/internal/resolve"
)

const defaultProfileName = "default"

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage API credentials",
		Long:  "Store, inspect and switch Paddle API keys. Keys are kept in the OS keychain under named profiles.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthUseCmd())
	cmd.AddCommand(newAuthListCmd())

	return cmd
}

// newAuthLoginCmd creates the auth login command
func newAuthLoginCmd() *cobra.Command {
	var (
		apiKey   string
		noVerify bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save an API key to the keychain",
		Long: `Save a Paddle API key under a profile (default: "default") and make it current.

The key is checked with a one-item product list before it is saved unless
--no-verify is given.`,
		Example: strings.TrimSpace(`
  # Save a production key
  paddle auth login --api-key pdl_live_apikey_...

  # Save a sandbox key under its own profile
  paddle auth login --api-key pdl_sdbx_apikey_... --sandbox --profile sandbox

  # Read the key from stdin
  echo "$PADDLE_KEY" | paddle auth login --api-key -
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			key, err := iocontext.GetIO(cmd.Context()).ReadArg(strings.TrimSpace(apiKey))
			if err != nil {
				return fmt.Errorf("failed to read --api-key: %w", err)
			}
			apiKey = strings.TrimSpace(string(key))
			if apiKey == "" {
				return fmt.Errorf("--api-key is required")
			}

			profile := strings.TrimSpace(flags.Profile)
			if profile == "" {
				profile = defaultProfileName
			}
			sandbox := flags.Sandbox

			if !noVerify {
				client := newClientFactory(cmd).newClient(apiKey, sandbox)
				resp, err := client.Products().List(cmdContext(cmd), api.ListProductsParams{
					ListParams: api.ListParams{PerPage: 1},
				})
				if err != nil {
					return err
				}
				if err := resp.Err(); err != nil {
					return fmt.Errorf("API key rejected: %w", err)
				}
			}
			if dryrun.IsEnabled(cmd.Context()) {
				return nil
			}

			if err := config.SaveProfile(profile, config.Profile{APIKey: apiKey, Sandbox: sandbox}); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			environment := config.Profile{Sandbox: sandbox}.Environment()
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"profile":     profile,
					"environment": environment,
					"api_key":     maskToken(apiKey),
				})
			}
			printIfNotQuiet(cmd, "Saved %s credentials to profile %s\n", environment, profile)
			return nil
		}),
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "Paddle API key (- to read from stdin, @path to read a file)")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Save without checking the key against the API")
	flagAlias(cmd.Flags(), "api-key", "key")
	_ = cmd.MarkFlagRequired("api-key")

	return cmd
}

// newAuthStatusCmd creates the auth status command
func newAuthStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the credentials in use",
		Long:  "Display which credentials commands will use (the API key is masked).",
		Example: strings.TrimSpace(`
  # Check authentication status
  paddle auth status

  # JSON output for scripting
  paddle auth status --json
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			creds, err := config.Resolve(flags.Profile)
			if err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					if isJSON(cmd) {
						return printJSON(cmd, map[string]any{
							"authenticated": false,
							"message":       "Not authenticated. Run 'paddle auth login' to configure credentials.",
						})
					}
					out := iocontext.GetIO(cmd.Context()).Out
					_, _ = fmt.Fprintln(out, "Not authenticated.")
					_, _ = fmt.Fprintln(out, "Run 'paddle auth login' to configure credentials.")
					return nil
				}
				return fmt.Errorf("failed to load credentials: %w", err)
			}

			environment := config.Profile{Sandbox: creds.Sandbox || flags.Sandbox}.Environment()
			if isJSON(cmd) {
				payload := map[string]any{
					"authenticated": true,
					"environment":   environment,
					"api_key":       maskToken(creds.APIKey),
					"source":        creds.Source,
				}
				if creds.Profile != "" {
					payload["profile"] = creds.Profile
				}
				return printJSON(cmd, payload)
			}

			out := iocontext.GetIO(cmd.Context()).Out
			_, _ = fmt.Fprintln(out, "Authenticated")
			if creds.Profile != "" {
				_, _ = fmt.Fprintf(out, "  Profile: %s\n", creds.Profile)
			}
			_, _ = fmt.Fprintf(out, "  Environment: %s\n", environment)
			_, _ = fmt.Fprintf(out, "  API Key: %s\n", maskToken(creds.APIKey))
			_, _ = fmt.Fprintf(out, "  Source: %s\n", creds.Source)
			return nil
		}),
	}

	return cmd
}

// newAuthLogoutCmd creates the auth logout command
func newAuthLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove a profile from the keychain",
		Long:  "Delete the stored API key of a profile (default: the current profile).",
		Example: strings.TrimSpace(`
  # Remove the current profile
  paddle auth logout

  # Remove a named profile
  paddle auth logout --profile sandbox
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profile := strings.TrimSpace(flags.Profile)
			if profile == "" {
				current, err := config.CurrentProfile()
				if err != nil {
					return err
				}
				profile = current
			}

			if _, err := config.LoadProfile(profile); err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					printIfNotQuiet(cmd, "No credentials found.\n")
					return nil
				}
				return err
			}

			if err := config.DeleteProfile(profile); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}
			printIfNotQuiet(cmd, "Profile %s removed.\n", profile)
			return nil
		}),
	}

	return cmd
}

// newAuthUseCmd switches the current profile.
func newAuthUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <profile>",
		Short: "Switch the current profile",
		Example: strings.TrimSpace(`
  paddle auth use sandbox
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if err := config.SetCurrentProfile(name); err != nil {
				profiles, listErr := config.ListProfiles()
				if listErr == nil {
					if suggestion := resolve.Suggest(name, profiles); suggestion != "" && suggestion != name {
						return fmt.Errorf("%w (did you mean %q?)", err, suggestion)
					}
				}
				return err
			}
			printIfNotQuiet(cmd, "Switched to profile %s\n", name)
			return nil
		}),
	}

	return cmd
}

// newAuthListCmd lists stored profiles and marks the current one.
func newAuthListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored profiles",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, _ := config.CurrentProfile()

			if isJSON(cmd) {
				items := make([]map[string]any, 0, len(profiles))
				for _, name := range profiles {
					items = append(items, map[string]any{"name": name, "current": name == current})
				}
				return printJSON(cmd, items)
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			if len(profiles) == 0 {
				_, _ = fmt.Fprintln(ioStreams.ErrOut, "No profiles saved. Run 'paddle auth login' to add one.")
				return nil
			}
			for _, name := range profiles {
				marker := " "
				if name == current {
					marker = "*"
				}
				_, _ = fmt.Fprintf(ioStreams.Out, "%s %s\n", marker, name)
			}
			return nil
		}),
	}

	return cmd
}

// maskToken masks an API key for display, showing only first and last 4 characters
func maskToken(token string) string {
	if len(token) < 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage client settings",
	Long: `View and configure search display and request settings.

Settings are stored in a TOML config file and take effect immediately,
including in a running TUI.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting.

Available keys:
  context_lines    - context lines shown around each match
  max_matches      - matches shown per file before truncation (0 = all)
  display_limit    - server-side streamed result cap
  pattern_type     - standard, literal, regexp, structural, or keyword
  case_sensitive   - true or false`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings := settingsService.Get()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Server]")
	if settings.ServerURL != "" {
		cmd.Printf("  URL: %s\n", settings.ServerURL)
	} else {
		cmd.Printf("  URL: (not set)\n")
	}
	if settings.AccessToken != "" {
		cmd.Printf("  Token: %s\n", maskToken(settings.AccessToken))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Pattern type: %s\n", settings.PatternType)
	cmd.Printf("  Case sensitive: %t\n", settings.CaseSensitive)
	cmd.Printf("  Context lines: %d\n", settings.ContextLines)
	if settings.MaxMatchesPerFile == 0 {
		cmd.Printf("  Max matches per file: all\n")
	} else {
		cmd.Printf("  Max matches per file: %d\n", settings.MaxMatchesPerFile)
	}
	cmd.Printf("  Display limit: %d\n", settings.DisplayLimit)
	cmd.Println()

	if err := settings.Validate(); err != nil {
		if errors.Is(err, domain.ErrNoServer) {
			cmd.Println("No server configured. Run 'sercha-stream auth login <url>' to set one.")
		} else {
			cmd.Printf("Warning: %v\n", err)
		}
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	settings := settingsService.Get()

	switch key {
	case "context_lines":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q", key, value)
		}
		settings.ContextLines = n
	case "max_matches":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q", key, value)
		}
		settings.MaxMatchesPerFile = n
	case "display_limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q", key, value)
		}
		settings.DisplayLimit = n
	case "pattern_type":
		settings.PatternType = domain.PatternType(value)
	case "case_sensitive":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q", key, value)
		}
		settings.CaseSensitive = b
	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	if err := settingsService.Update(settings); err != nil {
		if errors.Is(err, domain.ErrNoServer) {
			return errors.New("no server configured, run 'sercha-stream auth login <url>' first")
		}
		return fmt.Errorf("updating settings: %w", err)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

// maskToken hides all but the last four characters of a token.
func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}

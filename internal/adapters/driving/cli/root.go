// Package cli implements the command-line interface using cobra.
// Commands talk to the core exclusively through driving port interfaces;
// services are injected once at startup via SetServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-stream/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-stream/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Injected services. Commands check for nil and fail with a clear error
// so tests can exercise commands without full wiring.
var (
	searchService   driving.StreamSearchService
	historyService  driving.HistoryService
	settingsService driving.SettingsService
	enrichService   driving.EnrichService
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "sercha-stream",
	Short: "Streaming code search from your terminal",
	Long: `Sercha Stream is a client for streaming code search servers.

Searches run over a live event stream: results, progress, and filters
arrive incrementally and are folded into one consistent result set.

Configure a server first:
  sercha-stream auth login https://sourcegraph.example.com`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Services bundles everything the CLI needs.
type Services struct {
	Search   driving.StreamSearchService
	History  driving.HistoryService
	Settings driving.SettingsService
	Enrich   driving.EnrichService
}

// SetServices injects the core services used by all commands.
func SetServices(s Services) {
	searchService = s.Search
	historyService = s.History
	settingsService = s.Settings
	enrichService = s.Enrich
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

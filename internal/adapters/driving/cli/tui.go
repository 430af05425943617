package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui"
	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal interface",
	Long: `Launches an interactive terminal interface for live code search.

Results stream in while you type: matches appear and refine as the
server finds them. Recent searches are available with ctrl+r and can
be re-run with enter.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	if searchService == nil {
		return errors.New("search service not configured")
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings := settingsService.Get()
	if verr := settings.Validate(); verr != nil {
		if errors.Is(verr, domain.ErrNoServer) {
			return errors.New("no server configured, run 'sercha-stream auth login <url>' first")
		}
		return verr
	}

	// A panic inside the Bubbletea loop would leave the terminal in the
	// alternate screen; recover so the error stays readable.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic in terminal interface: %v\n%s\n", r, debug.Stack())
			err = fmt.Errorf("terminal interface crashed: %v", r)
		}
	}()

	app, err := tui.NewApp(tui.Ports{
		Search:   searchService,
		History:  historyService,
		Settings: settingsService,
	})
	if err != nil {
		return fmt.Errorf("initialising terminal interface: %w", err)
	}

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running terminal interface: %w", err)
	}
	return nil
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
	"github.com/custodia-labs/sercha-stream/internal/logger"
)

var (
	searchPattern      string
	searchCase         bool
	searchContext      int
	searchMaxMatches   int
	searchDisplayLimit int
	searchTrace        bool
	searchAll          bool
	searchEnrich       bool
	searchJSON         bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a streaming code search",
	Long: `Runs a code search against the configured server.

The search streams results over a live connection: matches, progress,
and filters arrive incrementally and are folded into one result set.
The command waits for the stream to finish, then prints the final
results grouped per file with surrounding context.

Examples:
  sercha-stream search 'repo:^github\.com/golang/go$ context.Context'
  sercha-stream search --pattern regexp 'func (Test|Benchmark)\w+'
  sercha-stream search --json 'lang:go fmt.Errorf' > results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchPattern, "pattern", "p", "", "pattern type (standard, literal, regexp, structural, keyword)")
	searchCmd.Flags().BoolVarP(&searchCase, "case", "c", false, "case sensitive search")
	searchCmd.Flags().IntVar(&searchContext, "context", -1, "context lines around each match (-1 = use settings)")
	searchCmd.Flags().IntVarP(&searchMaxMatches, "max-matches", "m", -1, "matches shown per file, 0 = all (-1 = use settings)")
	searchCmd.Flags().IntVar(&searchDisplayLimit, "display-limit", 0, "server-side streamed result cap (0 = use settings)")
	searchCmd.Flags().BoolVar(&searchTrace, "trace", false, "request a server-side trace")
	searchCmd.Flags().BoolVar(&searchAll, "all", false, "show all matches per file")
	searchCmd.Flags().BoolVar(&searchEnrich, "enrich", false, "enrich repository results with code-host metadata")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings := settingsService.Get()
	if err := settings.Validate(); err != nil {
		if errors.Is(err, domain.ErrNoServer) {
			return errors.New("no server configured, run 'sercha-stream auth login <url>' first")
		}
		return err
	}

	req := buildRequest(settings, args[0])

	logger.Section("Streaming Search")
	logger.Debug("query: %s", req.Query)
	logger.Debug("pattern type: %s, case sensitive: %t", req.PatternType, req.CaseSensitive)

	agg, err := searchService.SearchCollect(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	logger.Debug("stream finished: state=%s results=%d", agg.State, len(agg.Results))

	recordHistory(cmd, req, agg)

	if searchEnrich && enrichService != nil {
		n := enrichService.EnrichRepos(cmd.Context(), agg.Results)
		logger.Debug("enriched %d repository results", n)
	}

	if searchJSON {
		return outputResultsJSON(cmd, agg)
	}
	return outputResults(cmd, agg, settings)
}

// buildRequest derives the stream request from settings with flag overrides.
func buildRequest(settings domain.Settings, query string) domain.StreamRequest {
	req := settings.Request(query)
	if searchPattern != "" {
		req.PatternType = domain.PatternType(searchPattern)
	}
	if searchCase {
		req.CaseSensitive = true
	}
	if searchDisplayLimit > 0 {
		req.DisplayLimit = searchDisplayLimit
	}
	if searchTrace {
		req.Trace = "1"
	}
	return req
}

// recordHistory stores the finished search, best effort.
func recordHistory(cmd *cobra.Command, req domain.StreamRequest, agg domain.AggregateResults) {
	if historyService == nil {
		return
	}
	if _, err := historyService.Record(cmd.Context(), req, agg); err != nil {
		logger.Warn("recording history: %v", err)
	}
}

// displayLimits resolves the per-file grouping parameters from settings
// and flags.
func displayLimits(settings domain.Settings) (maxMatches, context int) {
	maxMatches = settings.MaxMatchesPerFile
	if searchMaxMatches >= 0 {
		maxMatches = searchMaxMatches
	}
	if searchAll {
		maxMatches = 0
	}
	context = settings.ContextLines
	if searchContext >= 0 {
		context = searchContext
	}
	return maxMatches, context
}

func outputResults(cmd *cobra.Command, agg domain.AggregateResults, settings domain.Settings) error {
	if agg.Error != nil {
		cmd.Printf("Search error: %s\n", agg.Error.Message)
		if len(agg.Results) > 0 {
			cmd.Printf("Showing %d results received before the error.\n", len(agg.Results))
		}
		cmd.Println()
	}

	printSkipped(cmd, agg.Progress)

	if len(agg.Results) == 0 {
		if agg.Error == nil {
			cmd.Println("No results found.")
		}
		return nil
	}

	maxMatches, context := displayLimits(settings)

	for _, match := range agg.Results {
		printMatch(cmd, match, maxMatches, context)
	}

	cmd.Printf("%d matches in %dms", agg.Progress.MatchCount, agg.Progress.DurationMs)
	if agg.Progress.RepositoriesCount != nil {
		cmd.Printf(" across %d repositories", *agg.Progress.RepositoriesCount)
	}
	cmd.Println()
	return nil
}

// printSkipped reports server-side skips such as hit limits or cloning
// repositories.
func printSkipped(cmd *cobra.Command, progress domain.Progress) {
	for _, s := range progress.Skipped {
		label := "note"
		switch s.Severity {
		case domain.SeverityWarn:
			label = "warning"
		case domain.SeverityError:
			label = "error"
		}
		cmd.Printf("[%s] %s\n", label, s.Title)
	}
	if len(progress.Skipped) > 0 {
		cmd.Println()
	}
}

func printMatch(cmd *cobra.Command, match domain.SearchMatch, maxMatches, context int) {
	switch m := match.(type) {
	case *domain.ContentMatch:
		printContentMatch(cmd, m, maxMatches, context)
	case *domain.PathMatch:
		cmd.Printf("%s/%s\n\n", m.Repository, m.Path)
	case *domain.SymbolMatch:
		cmd.Printf("%s/%s\n", m.Repository, m.Path)
		for _, sym := range m.Symbols {
			cmd.Printf("  %d: %s %s\n", sym.Line+1, sym.Kind, sym.Name)
		}
		cmd.Println()
	case *domain.RepoMatch:
		cmd.Printf("%s", m.Repository)
		if m.RepoStars > 0 {
			cmd.Printf(" (%d stars)", m.RepoStars)
		}
		if m.Fork {
			cmd.Print(" [fork]")
		}
		if m.Archived {
			cmd.Print(" [archived]")
		}
		cmd.Println()
		if m.Description != "" {
			cmd.Printf("  %s\n", m.Description)
		}
		cmd.Println()
	case *domain.CommitMatch:
		cmd.Printf("%s %s\n", m.Repository, shortOID(m.OID))
		cmd.Printf("  %s: %s\n\n", m.AuthorName, firstLine(m.Message))
	case *domain.PersonMatch:
		cmd.Printf("person: %s\n\n", personLabel(m))
	case *domain.TeamMatch:
		cmd.Printf("team: %s\n\n", m.Name)
	}
}

// printContentMatch renders a file's matches as merged context groups.
func printContentMatch(cmd *cobra.Command, m *domain.ContentMatch, maxMatches, context int) {
	cmd.Printf("%s/%s\n", m.Repository, m.Path)

	items := domain.ItemsFromContentMatch(m)
	selected, groups := domain.GroupMatches(items, maxMatches, context)

	byLine := make(map[int]string, len(selected))
	for _, item := range selected {
		byLine[item.Line] = item.Preview
	}

	for _, g := range groups {
		for line := g.StartLine; line < g.EndLine; line++ {
			preview, ok := byLine[line]
			if !ok {
				continue
			}
			cmd.Printf("  %d: %s\n", line+1, preview)
		}
	}

	if hidden := len(items) - len(selected); maxMatches > 0 && hidden > 0 {
		cmd.Printf("  ... %d more matching lines\n", hidden)
	}
	cmd.Println()
}

func outputResultsJSON(cmd *cobra.Command, agg domain.AggregateResults) error {
	matches := make([]json.RawMessage, 0, len(agg.Results))
	for _, m := range agg.Results {
		raw, err := domain.MarshalMatch(m)
		if err != nil {
			return fmt.Errorf("encoding match: %w", err)
		}
		matches = append(matches, raw)
	}

	out := struct {
		State    domain.SearchState `json:"state"`
		Results  []json.RawMessage  `json:"results"`
		Filters  []domain.Filter    `json:"filters,omitempty"`
		Alert    *domain.Alert      `json:"alert,omitempty"`
		Progress domain.Progress    `json:"progress"`
		Error    *domain.ErrorLike  `json:"error,omitempty"`
	}{
		State:    agg.State,
		Results:  matches,
		Filters:  agg.Filters,
		Alert:    agg.Alert,
		Progress: agg.Progress,
		Error:    agg.Error,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func shortOID(oid string) string {
	if len(oid) > 8 {
		return oid[:8]
	}
	return oid
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func personLabel(m *domain.PersonMatch) string {
	switch {
	case m.DisplayName != "":
		return m.DisplayName
	case m.Username != "":
		return m.Username
	case m.Handle != "":
		return m.Handle
	default:
		return m.Email
	}
}

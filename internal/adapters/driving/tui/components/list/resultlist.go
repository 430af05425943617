// Package list provides the streamed result list component for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

// ResultList displays streamed search matches in a navigable list.
// Content matches render as merged context groups; repository, symbol,
// commit, and ownership matches render as compact summaries.
type ResultList struct {
	results  []domain.SearchMatch
	selected int
	styles   *styles.Styles
	width    int
	height   int

	// maxMatches and context control per-file truncation and grouping.
	maxMatches int
	context    int

	// expanded holds indices of results showing all matches.
	expanded map[int]bool
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles:     s,
		width:      80,
		height:     10,
		maxMatches: domain.DefaultMaxMatchesPerFile,
		context:    domain.DefaultContextLines,
		expanded:   make(map[int]bool),
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		default:
		}
		switch msg.String() {
		case "k":
			r.MoveUp()
		case "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, r.height)

	header := r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.results)))
	lines = append(lines, header, "")

	// Render a window of results around the selection. Content matches
	// take several lines each, so size the window conservatively.
	visibleCount := (r.height - 4) / 4
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.results) {
		end = len(r.results)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderMatch(i, r.results[i])...)
	}

	return strings.Join(lines, "\n")
}

// renderMatch formats a single streamed match.
func (r *ResultList) renderMatch(index int, match domain.SearchMatch) []string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	heading := r.headingFor(match)
	var headingLine string
	if index == r.selected {
		headingLine = r.styles.Selected.Render(indicator + heading)
	} else {
		headingLine = indicator + r.styles.FilePath.Render(heading)
	}

	lines := []string{headingLine}
	lines = append(lines, r.renderDetail(index, match)...)
	lines = append(lines, "")
	return lines
}

// headingFor builds the one-line heading for a match.
func (r *ResultList) headingFor(match domain.SearchMatch) string {
	switch m := match.(type) {
	case *domain.ContentMatch:
		return m.Repository + "/" + m.Path
	case *domain.PathMatch:
		return m.Repository + "/" + m.Path
	case *domain.SymbolMatch:
		return m.Repository + "/" + m.Path
	case *domain.RepoMatch:
		heading := m.Repository
		if m.RepoStars > 0 {
			heading += fmt.Sprintf(" ★%d", m.RepoStars)
		}
		if m.Archived {
			heading += " [archived]"
		}
		return heading
	case *domain.CommitMatch:
		oid := m.OID
		if len(oid) > 8 {
			oid = oid[:8]
		}
		return m.Repository + " " + oid
	case *domain.PersonMatch:
		return "person: " + personLabel(m)
	case *domain.TeamMatch:
		return "team: " + m.Name
	default:
		return match.RepoName()
	}
}

// renderDetail renders the lines shown under a match heading.
func (r *ResultList) renderDetail(index int, match domain.SearchMatch) []string {
	switch m := match.(type) {
	case *domain.ContentMatch:
		return r.renderContentGroups(index, m)
	case *domain.SymbolMatch:
		out := make([]string, 0, len(m.Symbols))
		for _, sym := range m.Symbols {
			gutter := r.styles.LineNumber.Render(fmt.Sprintf("  %5d ", sym.Line+1))
			out = append(out, gutter+r.styles.Normal.Render(sym.Kind+" "+sym.Name))
		}
		return out
	case *domain.RepoMatch:
		if m.Description != "" {
			return []string{r.styles.Muted.Render("    " + truncate(m.Description, r.width-6))}
		}
		return nil
	case *domain.CommitMatch:
		message := m.Message
		if i := strings.IndexByte(message, '\n'); i >= 0 {
			message = message[:i]
		}
		return []string{r.styles.Muted.Render("    " + m.AuthorName + ": " + truncate(message, r.width-10))}
	default:
		return nil
	}
}

// renderContentGroups renders a file's matched lines as merged context
// groups with the match spans highlighted.
func (r *ResultList) renderContentGroups(index int, m *domain.ContentMatch) []string {
	items := domain.ItemsFromContentMatch(m)

	maxMatches := r.maxMatches
	if r.expanded[index] {
		maxMatches = 0
	}

	selected, groups := domain.GroupMatches(items, maxMatches, r.context)

	byLine := make(map[int]domain.MatchItem, len(selected))
	for _, item := range selected {
		byLine[item.Line] = item
	}

	var out []string
	for gi, g := range groups {
		if gi > 0 {
			out = append(out, r.styles.Muted.Render("     ⋮"))
		}
		for line := g.StartLine; line < g.EndLine; line++ {
			item, ok := byLine[line]
			if !ok {
				continue
			}
			gutter := r.styles.LineNumber.Render(fmt.Sprintf("  %5d ", line+1))
			out = append(out, gutter+r.renderHighlighted(item))
		}
	}

	if hidden := len(items) - len(selected); maxMatches > 0 && hidden > 0 {
		out = append(out, r.styles.Muted.Render(fmt.Sprintf("    ... %d more matching lines (m to expand)", hidden)))
	}
	return out
}

// renderHighlighted renders a matched line with its spans emphasised.
func (r *ResultList) renderHighlighted(item domain.MatchItem) string {
	preview := item.Preview
	if len(item.HighlightRanges) == 0 {
		return r.styles.Normal.Render(truncate(preview, r.width-10))
	}

	var b strings.Builder
	pos := 0
	for _, hr := range item.HighlightRanges {
		start, end := hr.Start, hr.Start+hr.Length
		if start > len(preview) {
			break
		}
		if end > len(preview) {
			end = len(preview)
		}
		if start > pos {
			b.WriteString(r.styles.Normal.Render(preview[pos:start]))
		}
		b.WriteString(r.styles.Highlight.Render(preview[start:end]))
		pos = end
	}
	if pos < len(preview) {
		b.WriteString(r.styles.Normal.Render(preview[pos:]))
	}
	return b.String()
}

// SetResults replaces the list contents, keeping the selection stable
// while results stream in.
func (r *ResultList) SetResults(results []domain.SearchMatch) {
	r.results = results
	if r.selected >= len(results) {
		r.selected = 0
	}
	// New result set invalidates per-index expansion.
	if len(results) == 0 {
		r.expanded = make(map[int]bool)
	}
}

// Reset clears results and selection.
func (r *ResultList) Reset() {
	r.results = nil
	r.selected = 0
	r.expanded = make(map[int]bool)
}

// SetDisplayLimits sets the per-file truncation parameters.
func (r *ResultList) SetDisplayLimits(maxMatches, context int) {
	r.maxMatches = maxMatches
	r.context = context
}

// ToggleExpand toggles the selected result between collapsed and full.
func (r *ResultList) ToggleExpand() {
	r.expanded[r.selected] = !r.expanded[r.selected]
}

// Results returns the current results.
func (r *ResultList) Results() []domain.SearchMatch {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedResult returns the currently selected match, or nil if none.
func (r *ResultList) SelectedResult() domain.SearchMatch {
	if len(r.results) == 0 || r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}

func truncate(s string, max int) string {
	if max < 10 {
		max = 10
	}
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
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

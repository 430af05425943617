package domain

import "sort"

// HighlightRange is one highlighted span on a match line.
type HighlightRange struct {
	// Start is the 0-based character offset of the highlight.
	Start int

	// Length is the number of highlighted characters.
	Length int
}

// MatchItem is the grouper's input unit: one matched line of a file,
// derived fresh from a SearchMatch per render and never mutated.
type MatchItem struct {
	// Line is 0-based.
	Line int

	// HighlightRanges are the highlighted spans on the line,
	// in ascending offset order.
	HighlightRanges []HighlightRange

	// Preview is the literal line text.
	Preview string

	// Badge is optional display metadata attached to the line.
	Badge string
}

// Position is a 1-based display position.
type Position struct {
	Line      int
	Character int
}

// MatchGroup is one merged display window of matches plus context lines.
// StartLine is 0-based inclusive, EndLine 0-based exclusive, and
// StartLine <= Position.Line-1 < EndLine.
type MatchGroup struct {
	Matches   []MatchItem
	Position  Position
	StartLine int
	EndLine   int
}

// flatHighlight is one highlight span flattened out of a MatchItem, tagged
// with whether it lies strictly beyond the display boundary (an in-context
// match that does not count toward the visible total).
type flatHighlight struct {
	line      int
	character int
	matchIdx  int
	inContext bool
}

// GroupMatches decides which of a file's matches are shown under the
// current truncation mode and clusters them into non-overlapping display
// groups with surrounding context lines.
//
// maxMatches is the display subset limit; 0 means show all. context is the
// number of surrounding lines shown around each match. Matches whose line
// falls within context distance of the subset boundary are still selected
// so a group is never cut off mid-context, but they shrink the trailing
// context of their group instead of extending it.
//
// The returned selected slice is the eligible subset in (line, offset)
// order; groups are sorted by StartLine and pairwise non-overlapping.
// Negative line numbers are a caller contract violation.
func GroupMatches(matches []MatchItem, maxMatches, context int) (selected []MatchItem, groups []MatchGroup) {
	if len(matches) == 0 {
		return []MatchItem{}, []MatchGroup{}
	}
	if context < 0 {
		context = 0
	}

	sorted := make([]MatchItem, len(matches))
	copy(sorted, matches)
	// Ties on (line, offset) keep input order; the protocol carries no
	// further sort key.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Line != sorted[j].Line {
			return sorted[i].Line < sorted[j].Line
		}
		return firstOffset(sorted[i]) < firstOffset(sorted[j])
	})

	// The boundary is the line of the last match that counts toward the
	// visible total: the maxMatches-th sorted match when truncating,
	// otherwise the last match.
	limiting := maxMatches > 0 && len(sorted) > maxMatches
	boundary := sorted[len(sorted)-1].Line
	if limiting {
		boundary = sorted[maxMatches-1].Line
	}

	if limiting {
		selected = make([]MatchItem, 0, maxMatches)
		for i, m := range sorted {
			if i < maxMatches || m.Line <= boundary+context {
				selected = append(selected, m)
			}
		}
	} else {
		selected = sorted
	}

	flat := flatten(selected, boundary)

	var cur []flatHighlight
	for _, h := range flat {
		// Windows of ±context lines around consecutive highlights that
		// touch or overlap stay in one group.
		if len(cur) > 0 && h.line-cur[len(cur)-1].line-2*context > 1 {
			groups = append(groups, buildGroup(cur, selected, boundary, context))
			cur = nil
		}
		cur = append(cur, h)
	}
	if len(cur) > 0 {
		groups = append(groups, buildGroup(cur, selected, boundary, context))
	}
	return selected, groups
}

// flatten expands each selected match into per-highlight records in line
// order. A match with no highlight ranges still yields one record so it
// participates in grouping.
func flatten(selected []MatchItem, boundary int) []flatHighlight {
	var flat []flatHighlight
	for i, m := range selected {
		inContext := m.Line > boundary
		if len(m.HighlightRanges) == 0 {
			flat = append(flat, flatHighlight{
				line:      m.Line,
				matchIdx:  i,
				inContext: inContext,
			})
			continue
		}
		for _, r := range m.HighlightRanges {
			flat = append(flat, flatHighlight{
				line:      m.Line,
				character: r.Start,
				matchIdx:  i,
				inContext: inContext,
			})
		}
	}
	return flat
}

// buildGroup computes the display bounds for one merged run of highlights.
func buildGroup(records []flatHighlight, selected []MatchItem, boundary, context int) MatchGroup {
	first := records[0]
	lastLine := records[len(records)-1].line

	startLine := first.line - context
	if startLine < 0 {
		startLine = 0
	}

	// A highlight on a context line past the boundary does not extend the
	// window: the overrun is deducted from the trailing context so context
	// is never doubled.
	endLine := lastLine + context + 1
	for _, r := range records {
		if r.inContext {
			endLine = boundary + context + 1
			break
		}
	}

	var items []MatchItem
	lastIdx := -1
	for _, r := range records {
		if r.matchIdx != lastIdx {
			items = append(items, selected[r.matchIdx])
			lastIdx = r.matchIdx
		}
	}

	return MatchGroup{
		Matches:   items,
		Position:  Position{Line: first.line + 1, Character: first.character + 1},
		StartLine: startLine,
		EndLine:   endLine,
	}
}

func firstOffset(m MatchItem) int {
	if len(m.HighlightRanges) == 0 {
		return 0
	}
	return m.HighlightRanges[0].Start
}

// ItemsFromContentMatch converts a content match's chunk and line matches
// into grouper input. Chunk ranges spanning multiple lines contribute one
// item per highlighted start line.
func ItemsFromContentMatch(m *ContentMatch) []MatchItem {
	var items []MatchItem

	for _, lm := range m.LineMatches {
		ranges := make([]HighlightRange, 0, len(lm.OffsetAndLengths))
		for _, ol := range lm.OffsetAndLengths {
			ranges = append(ranges, HighlightRange{Start: ol[0], Length: ol[1]})
		}
		items = append(items, MatchItem{
			Line:            lm.LineNumber,
			HighlightRanges: ranges,
			Preview:         lm.Line,
		})
	}

	for _, cm := range m.ChunkMatches {
		byLine := make(map[int][]HighlightRange)
		for _, r := range cm.Ranges {
			byLine[r.Start.Line] = append(byLine[r.Start.Line], HighlightRange{
				Start:  r.Start.Column,
				Length: r.End.Offset - r.Start.Offset,
			})
		}
		lines := chunkLines(cm)
		for line, ranges := range byLine {
			preview := ""
			if idx := line - cm.ContentStart.Line; idx >= 0 && idx < len(lines) {
				preview = lines[idx]
			}
			items = append(items, MatchItem{
				Line:            line,
				HighlightRanges: ranges,
				Preview:         preview,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Line != items[j].Line {
			return items[i].Line < items[j].Line
		}
		return firstOffset(items[i]) < firstOffset(items[j])
	})
	return items
}

func chunkLines(cm ChunkMatch) []string {
	var lines []string
	start := 0
	for i := 0; i < len(cm.Content); i++ {
		if cm.Content[i] == '\n' {
			lines = append(lines, cm.Content[start:i])
			start = i + 1
		}
	}
	lines = append(lines, cm.Content[start:])
	return lines
}

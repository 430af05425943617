package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(line int, offsets ...int) MatchItem {
	ranges := make([]HighlightRange, 0, len(offsets))
	for _, o := range offsets {
		ranges = append(ranges, HighlightRange{Start: o, Length: 3})
	}
	return MatchItem{Line: line, HighlightRanges: ranges, Preview: "line"}
}

// TestGroupMatches_Empty tests that no group is produced for no matches
func TestGroupMatches_Empty(t *testing.T) {
	selected, groups := GroupMatches(nil, 0, 3)

	assert.Empty(t, selected)
	assert.Empty(t, groups)
}

// TestGroupMatches_SingleMatch tests a single match with full context
func TestGroupMatches_SingleMatch(t *testing.T) {
	matches := []MatchItem{item(4, 7)}

	selected, groups := GroupMatches(matches, 0, 3)

	require.Len(t, selected, 1)
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[0].StartLine)
	assert.Equal(t, 8, groups[0].EndLine)
	assert.Equal(t, Position{Line: 5, Character: 8}, groups[0].Position)
	assert.Len(t, groups[0].Matches, 1)
}

// TestGroupMatches_StartLineClampedAtZero tests context near file start
func TestGroupMatches_StartLineClampedAtZero(t *testing.T) {
	_, groups := GroupMatches([]MatchItem{item(1, 0)}, 0, 3)

	require.Len(t, groups, 1)
	assert.Equal(t, 0, groups[0].StartLine)
	assert.Equal(t, 5, groups[0].EndLine)
}

// TestGroupMatches_AdjacentLinesMerge tests that touching context windows
// merge into one group
func TestGroupMatches_AdjacentLinesMerge(t *testing.T) {
	matches := []MatchItem{item(10, 0), item(11, 0)}

	selected, groups := GroupMatches(matches, 0, 1)

	require.Len(t, selected, 2)
	require.Len(t, groups, 1)
	assert.Equal(t, 9, groups[0].StartLine)
	assert.Equal(t, 13, groups[0].EndLine)
	assert.Len(t, groups[0].Matches, 2)
}

// TestGroupMatches_DistantLinesSplit tests that far-apart matches form
// separate groups
func TestGroupMatches_DistantLinesSplit(t *testing.T) {
	matches := []MatchItem{item(1, 0), item(10, 2), item(20, 4)}

	_, groups := GroupMatches(matches, 0, 2)

	require.Len(t, groups, 3)
	assert.Equal(t, 0, groups[0].StartLine)
	assert.Equal(t, 4, groups[0].EndLine)
	assert.Equal(t, 8, groups[1].StartLine)
	assert.Equal(t, 13, groups[1].EndLine)
	assert.Equal(t, 18, groups[2].StartLine)
	assert.Equal(t, 23, groups[2].EndLine)
}

// TestGroupMatches_SortsByLineThenOffset tests the two-key sort
func TestGroupMatches_SortsByLineThenOffset(t *testing.T) {
	matches := []MatchItem{item(5, 9), item(2, 4), item(5, 1)}

	selected, groups := GroupMatches(matches, 0, 1)

	require.Len(t, selected, 3)
	assert.Equal(t, 2, selected[0].Line)
	assert.Equal(t, 5, selected[1].Line)
	assert.Equal(t, 1, selected[1].HighlightRanges[0].Start)
	assert.Equal(t, 5, selected[2].Line)
	assert.Equal(t, 9, selected[2].HighlightRanges[0].Start)

	require.NotEmpty(t, groups)
	assert.Equal(t, Position{Line: 3, Character: 5}, groups[0].Position)
}

// TestGroupMatches_TiesKeepInputOrder tests stable ordering for equal keys
func TestGroupMatches_TiesKeepInputOrder(t *testing.T) {
	first := MatchItem{Line: 3, HighlightRanges: []HighlightRange{{Start: 2, Length: 1}}, Badge: "a"}
	second := MatchItem{Line: 3, HighlightRanges: []HighlightRange{{Start: 2, Length: 1}}, Badge: "b"}

	selected, _ := GroupMatches([]MatchItem{first, second}, 0, 1)

	require.Len(t, selected, 2)
	assert.Equal(t, "a", selected[0].Badge)
	assert.Equal(t, "b", selected[1].Badge)
}

// TestGroupMatches_LimitExcludesDistantMatches tests subset selection
func TestGroupMatches_LimitExcludesDistantMatches(t *testing.T) {
	matches := []MatchItem{item(1, 0), item(10, 0)}

	selected, groups := GroupMatches(matches, 1, 2)

	require.Len(t, selected, 1)
	assert.Equal(t, 1, selected[0].Line)
	require.Len(t, groups, 1)
	assert.Equal(t, 0, groups[0].StartLine)
	assert.Equal(t, 4, groups[0].EndLine)
}

// TestGroupMatches_ContextLineWithHighlightKept tests that a match on a
// context line past the boundary is still selected but does not extend
// the group's trailing context
func TestGroupMatches_ContextLineWithHighlightKept(t *testing.T) {
	matches := []MatchItem{item(1, 0), item(2, 0), item(3, 0), item(4, 0)}

	selected, groups := GroupMatches(matches, 2, 2)

	// Boundary is line 2; lines 3 and 4 fall inside its context window.
	require.Len(t, selected, 4)
	require.Len(t, groups, 1)
	assert.Equal(t, 0, groups[0].StartLine)
	assert.Equal(t, 5, groups[0].EndLine)
	assert.Len(t, groups[0].Matches, 4)
}

// TestGroupMatches_BoundaryContextNotDoubled tests the trailing context
// shrink when the last in-context match sits exactly on the window edge
func TestGroupMatches_BoundaryContextNotDoubled(t *testing.T) {
	matches := []MatchItem{item(5, 0), item(7, 0)}

	selected, groups := GroupMatches(matches, 1, 2)

	// Boundary is line 5; line 7 is exactly context lines beyond it.
	require.Len(t, selected, 2)
	require.Len(t, groups, 1)
	assert.Equal(t, 3, groups[0].StartLine)
	assert.Equal(t, 8, groups[0].EndLine)
}

// TestGroupMatches_ShowAllEquivalence tests maxMatches=0 against
// maxMatches=len(matches)
func TestGroupMatches_ShowAllEquivalence(t *testing.T) {
	matches := []MatchItem{item(2, 1), item(3, 0), item(14, 5)}

	selAll, groupsAll := GroupMatches(matches, 0, 2)
	selLen, groupsLen := GroupMatches(matches, len(matches), 2)

	assert.Equal(t, selAll, selLen)
	assert.Equal(t, groupsAll, groupsLen)
}

// TestGroupMatches_Idempotent tests re-grouping the selected subset
func TestGroupMatches_Idempotent(t *testing.T) {
	matches := []MatchItem{item(2, 1), item(3, 0), item(14, 5), item(15, 2)}

	selected, groups := GroupMatches(matches, 0, 2)
	selectedAgain, groupsAgain := GroupMatches(selected, 0, 2)

	assert.Equal(t, selected, selectedAgain)
	assert.Equal(t, groups, groupsAgain)
}

// TestGroupMatches_GroupsSortedNonOverlapping tests the structural group
// invariants over a mixed input
func TestGroupMatches_GroupsSortedNonOverlapping(t *testing.T) {
	matches := []MatchItem{
		item(40, 3), item(0, 0), item(12, 7), item(13, 1),
		item(14, 0), item(29, 2), item(3, 5),
	}

	selected, groups := GroupMatches(matches, 0, 1)

	total := 0
	for i, g := range groups {
		assert.Less(t, g.StartLine, g.EndLine)
		assert.LessOrEqual(t, g.StartLine, g.Position.Line-1)
		assert.Less(t, g.Position.Line-1, g.EndLine)
		if i > 0 {
			assert.LessOrEqual(t, groups[i-1].EndLine, g.StartLine)
		}
		total += len(g.Matches)
	}
	// Every selected match belongs to exactly one group.
	assert.Equal(t, len(selected), total)
}

// TestGroupMatches_MultipleHighlightsOneLine tests that several highlights
// on the same line stay in one group and one match item
func TestGroupMatches_MultipleHighlightsOneLine(t *testing.T) {
	matches := []MatchItem{item(6, 2, 9, 17)}

	_, groups := GroupMatches(matches, 0, 1)

	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Matches, 1)
	assert.Equal(t, Position{Line: 7, Character: 3}, groups[0].Position)
}

// TestItemsFromContentMatch_LineMatches tests legacy line match conversion
func TestItemsFromContentMatch_LineMatches(t *testing.T) {
	m := &ContentMatch{
		Path:       "main.go",
		Repository: "github.com/custodia-labs/sercha-stream",
		LineMatches: []LineMatch{
			{Line: "func main() {", LineNumber: 10, OffsetAndLengths: [][2]int{{5, 4}}},
			{Line: "package main", LineNumber: 0, OffsetAndLengths: [][2]int{{8, 4}}},
		},
	}

	items := ItemsFromContentMatch(m)

	require.Len(t, items, 2)
	assert.Equal(t, 0, items[0].Line)
	assert.Equal(t, "package main", items[0].Preview)
	assert.Equal(t, 10, items[1].Line)
	assert.Equal(t, HighlightRange{Start: 5, Length: 4}, items[1].HighlightRanges[0])
}

// TestItemsFromContentMatch_ChunkMatches tests chunk match conversion
func TestItemsFromContentMatch_ChunkMatches(t *testing.T) {
	m := &ContentMatch{
		Path:       "reader.go",
		Repository: "github.com/custodia-labs/sercha-stream",
		ChunkMatches: []ChunkMatch{
			{
				Content:      "first line\nsecond line",
				ContentStart: Location{Offset: 100, Line: 7, Column: 0},
				Ranges: []Range{
					{
						Start: Location{Offset: 106, Line: 7, Column: 6},
						End:   Location{Offset: 110, Line: 7, Column: 10},
					},
					{
						Start: Location{Offset: 118, Line: 8, Column: 7},
						End:   Location{Offset: 122, Line: 8, Column: 11},
					},
				},
			},
		},
	}

	items := ItemsFromContentMatch(m)

	require.Len(t, items, 2)
	assert.Equal(t, 7, items[0].Line)
	assert.Equal(t, "first line", items[0].Preview)
	assert.Equal(t, HighlightRange{Start: 6, Length: 4}, items[0].HighlightRanges[0])
	assert.Equal(t, 8, items[1].Line)
	assert.Equal(t, "second line", items[1].Preview)
}

package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// MatchType identifies the variant of a SearchMatch.
type MatchType string

// Match types reported by the streaming search protocol.
const (
	// MatchTypeContent is a file with line-level matches.
	MatchTypeContent MatchType = "content"

	// MatchTypePath is a filename-only match.
	MatchTypePath MatchType = "path"

	// MatchTypeSymbol is a file with matching symbol definitions.
	MatchTypeSymbol MatchType = "symbol"

	// MatchTypeRepo is a repository-level match.
	MatchTypeRepo MatchType = "repo"

	// MatchTypeCommit is a commit message or diff match.
	MatchTypeCommit MatchType = "commit"

	// MatchTypePerson is an ownership match for a person.
	MatchTypePerson MatchType = "person"

	// MatchTypeTeam is an ownership match for a team.
	MatchTypeTeam MatchType = "team"
)

// IsValid returns true if the match type is recognised.
func (t MatchType) IsValid() bool {
	switch t {
	case MatchTypeContent, MatchTypePath, MatchTypeSymbol,
		MatchTypeRepo, MatchTypeCommit, MatchTypePerson, MatchTypeTeam:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t MatchType) String() string {
	return string(t)
}

// SearchMatch is one result streamed by the search server. It is a closed
// union: exactly the types in this file implement it. The type tag is fixed
// at decode time and determines which fields are populated; variants never
// mix fields from other variants.
type SearchMatch interface {
	// Type returns the variant tag.
	Type() MatchType

	// RepoName returns the repository the match belongs to.
	// Empty for ownership matches that are not tied to a repository.
	RepoName() string

	searchMatch()
}

// Location is a position within file content. Line and Column are 0-based;
// Offset is the byte offset from the start of the content.
type Location struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is a half-open [Start, End) span of file content.
type Range struct {
	Start Location `json:"start"`
	End   Location `json:"end"`
}

// ChunkMatch is a contiguous chunk of file content with one or more
// highlighted ranges inside it.
type ChunkMatch struct {
	// Content is the literal chunk text, possibly spanning several lines.
	Content string `json:"content"`

	// ContentStart is the location of the first character of Content.
	ContentStart Location `json:"contentStart"`

	// Ranges are the highlighted spans within the chunk.
	Ranges []Range `json:"ranges"`
}

// LineMatch is the legacy single-line match shape, used when chunk
// matches are disabled on the stream.
type LineMatch struct {
	// Line is the literal line text.
	Line string `json:"line"`

	// LineNumber is 0-based.
	LineNumber int `json:"lineNumber"`

	// OffsetAndLengths holds (offset, length) highlight spans on the line.
	// Offsets are non-negative and offset+length never exceeds the line.
	OffsetAndLengths [][2]int `json:"offsetAndLengths"`
}

// ContentMatch is a file whose content matched, with line-level detail.
type ContentMatch struct {
	Path         string       `json:"path"`
	Repository   string       `json:"repository"`
	RepoStars    int          `json:"repoStars,omitempty"`
	Branches     []string     `json:"branches,omitempty"`
	Commit       string       `json:"commit,omitempty"`
	Language     string       `json:"language,omitempty"`
	ChunkMatches []ChunkMatch `json:"chunkMatches,omitempty"`
	LineMatches  []LineMatch  `json:"lineMatches,omitempty"`
}

// Type implements SearchMatch.
func (m *ContentMatch) Type() MatchType { return MatchTypeContent }

// RepoName implements SearchMatch.
func (m *ContentMatch) RepoName() string { return m.Repository }

func (m *ContentMatch) searchMatch() {}

// MatchCount returns the number of highlighted spans across all chunks
// and line matches.
func (m *ContentMatch) MatchCount() int {
	n := 0
	for _, c := range m.ChunkMatches {
		n += len(c.Ranges)
	}
	for _, l := range m.LineMatches {
		n += len(l.OffsetAndLengths)
	}
	return n
}

// PathMatch is a file whose name matched the query.
type PathMatch struct {
	Path       string   `json:"path"`
	Repository string   `json:"repository"`
	RepoStars  int      `json:"repoStars,omitempty"`
	Branches   []string `json:"branches,omitempty"`
	Commit     string   `json:"commit,omitempty"`
	Language   string   `json:"language,omitempty"`
}

// Type implements SearchMatch.
func (m *PathMatch) Type() MatchType { return MatchTypePath }

// RepoName implements SearchMatch.
func (m *PathMatch) RepoName() string { return m.Repository }

func (m *PathMatch) searchMatch() {}

// Symbol is a named symbol definition within a SymbolMatch.
type Symbol struct {
	Name          string `json:"name"`
	ContainerName string `json:"containerName,omitempty"`
	Kind          string `json:"kind"`
	Line          int    `json:"line"`
	URL           string `json:"url,omitempty"`
}

// SymbolMatch is a file with matching symbol definitions.
type SymbolMatch struct {
	Path       string   `json:"path"`
	Repository string   `json:"repository"`
	RepoStars  int      `json:"repoStars,omitempty"`
	Branches   []string `json:"branches,omitempty"`
	Commit     string   `json:"commit,omitempty"`
	Language   string   `json:"language,omitempty"`
	Symbols    []Symbol `json:"symbols"`
}

// Type implements SearchMatch.
func (m *SymbolMatch) Type() MatchType { return MatchTypeSymbol }

// RepoName implements SearchMatch.
func (m *SymbolMatch) RepoName() string { return m.Repository }

func (m *SymbolMatch) searchMatch() {}

// RepoMatch is a repository-level match.
type RepoMatch struct {
	Repository  string   `json:"repository"`
	RepoStars   int      `json:"repoStars,omitempty"`
	Description string   `json:"description,omitempty"`
	Fork        bool     `json:"fork,omitempty"`
	Archived    bool     `json:"archived,omitempty"`
	Private     bool     `json:"private,omitempty"`
	Branches    []string `json:"branches,omitempty"`
}

// Type implements SearchMatch.
func (m *RepoMatch) Type() MatchType { return MatchTypeRepo }

// RepoName implements SearchMatch.
func (m *RepoMatch) RepoName() string { return m.Repository }

func (m *RepoMatch) searchMatch() {}

// CommitMatch is a commit whose message or diff matched.
type CommitMatch struct {
	Repository string    `json:"repository"`
	RepoStars  int       `json:"repoStars,omitempty"`
	OID        string    `json:"oid"`
	Message    string    `json:"message"`
	AuthorName string    `json:"authorName"`
	AuthorDate time.Time `json:"authorDate"`
	URL        string    `json:"url,omitempty"`

	// Content and Ranges carry the matched excerpt when the match
	// was inside the message or diff body.
	Content string  `json:"content,omitempty"`
	Ranges  []Range `json:"ranges,omitempty"`
}

// Type implements SearchMatch.
func (m *CommitMatch) Type() MatchType { return MatchTypeCommit }

// RepoName implements SearchMatch.
func (m *CommitMatch) RepoName() string { return m.Repository }

func (m *CommitMatch) searchMatch() {}

// PersonMatch is an ownership match resolving to a person.
type PersonMatch struct {
	Handle      string `json:"handle,omitempty"`
	Email       string `json:"email,omitempty"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// Type implements SearchMatch.
func (m *PersonMatch) Type() MatchType { return MatchTypePerson }

// RepoName implements SearchMatch. Person matches are not repository scoped.
func (m *PersonMatch) RepoName() string { return "" }

func (m *PersonMatch) searchMatch() {}

// TeamMatch is an ownership match resolving to a team.
type TeamMatch struct {
	Handle      string `json:"handle,omitempty"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
}

// Type implements SearchMatch.
func (m *TeamMatch) Type() MatchType { return MatchTypeTeam }

// RepoName implements SearchMatch. Team matches are not repository scoped.
func (m *TeamMatch) RepoName() string { return "" }

func (m *TeamMatch) searchMatch() {}

// typeTag is used to peek at the discriminator before decoding a match.
type typeTag struct {
	Type MatchType `json:"type"`
}

// UnmarshalMatch decodes one raw match payload into its concrete variant
// based on the "type" tag.
func UnmarshalMatch(raw json.RawMessage) (SearchMatch, error) {
	var tag typeTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, &ParseError{Payload: "match", Err: err}
	}

	var (
		m   SearchMatch
		err error
	)
	switch tag.Type {
	case MatchTypeContent:
		v := &ContentMatch{}
		err = json.Unmarshal(raw, v)
		m = v
	case MatchTypePath:
		v := &PathMatch{}
		err = json.Unmarshal(raw, v)
		m = v
	case MatchTypeSymbol:
		v := &SymbolMatch{}
		err = json.Unmarshal(raw, v)
		m = v
	case MatchTypeRepo:
		v := &RepoMatch{}
		err = json.Unmarshal(raw, v)
		m = v
	case MatchTypeCommit:
		v := &CommitMatch{}
		err = json.Unmarshal(raw, v)
		m = v
	case MatchTypePerson:
		v := &PersonMatch{}
		err = json.Unmarshal(raw, v)
		m = v
	case MatchTypeTeam:
		v := &TeamMatch{}
		err = json.Unmarshal(raw, v)
		m = v
	default:
		return nil, &ParseError{
			Payload: "match",
			Err:     fmt.Errorf("%w: match type %q", ErrUnsupportedType, tag.Type),
		}
	}
	if err != nil {
		return nil, &ParseError{Payload: "match", Err: err}
	}
	return m, nil
}

// MarshalMatch encodes a match with its "type" tag included, producing the
// wire shape UnmarshalMatch accepts.
func MarshalMatch(m SearchMatch) ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	tag, err := json.Marshal(typeTag{Type: m.Type()})
	if err != nil {
		return nil, err
	}
	if string(body) == "{}" {
		return tag, nil
	}
	// Splice the tag into the object: {"type":...,<fields>}
	out := append(tag[:len(tag)-1], ',')
	out = append(out, body[1:]...)
	return out, nil
}

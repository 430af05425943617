package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driving"
)

type mockSearchService struct {
	agg  domain.AggregateResults
	err  error
	reqs []domain.StreamRequest
}

func (m *mockSearchService) Search(_ context.Context, _ domain.StreamRequest) (driving.SearchSubscription, error) {
	return nil, errors.New("not used in cli tests")
}

func (m *mockSearchService) SearchCollect(_ context.Context, req domain.StreamRequest) (domain.AggregateResults, error) {
	m.reqs = append(m.reqs, req)
	if m.err != nil {
		return domain.EmptyAggregateResults(), m.err
	}
	return m.agg, nil
}

type mockHistoryService struct {
	entries  []domain.HistoryEntry
	recorded []domain.StreamRequest
	err      error
	cleared  bool
}

func (m *mockHistoryService) Record(_ context.Context, req domain.StreamRequest, _ domain.AggregateResults) (domain.HistoryEntry, error) {
	m.recorded = append(m.recorded, req)
	return domain.HistoryEntry{Query: req.Query}, m.err
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && limit < len(m.entries) {
		return m.entries[:limit], nil
	}
	return m.entries, nil
}

func (m *mockHistoryService) Clear(_ context.Context) error {
	m.cleared = true
	return m.err
}

type mockSettingsService struct {
	settings domain.Settings
	updated  []domain.Settings
	server   []string
	err      error
}

func newMockSettingsService() *mockSettingsService {
	s := domain.DefaultSettings()
	s.ServerURL = "https://search.example.com"
	s.AccessToken = "sgp_test_token_1234"
	return &mockSettingsService{settings: s}
}

func (m *mockSettingsService) Get() domain.Settings {
	return m.settings
}

func (m *mockSettingsService) Update(s domain.Settings) error {
	if m.err != nil {
		return m.err
	}
	m.settings = s
	m.updated = append(m.updated, s)
	return nil
}

func (m *mockSettingsService) SetServer(url, token string) error {
	if m.err != nil {
		return m.err
	}
	m.settings.ServerURL = url
	m.settings.AccessToken = token
	m.server = append(m.server, url)
	return nil
}

func (m *mockSettingsService) Subscribe(_ func(domain.Settings)) func() {
	return func() {}
}

type mockEnrichService struct {
	enriched int
}

func (m *mockEnrichService) EnrichRepos(_ context.Context, _ []domain.SearchMatch) int {
	m.enriched++
	return m.enriched
}

// setupTestServices installs mock services and restores the previous
// wiring and flag state when the test finishes.
func setupTestServices(t *testing.T, search *mockSearchService, history *mockHistoryService, settings *mockSettingsService) {
	t.Helper()

	prevSearch, prevHistory := searchService, historyService
	prevSettings, prevEnrich := settingsService, enrichService

	searchService = search
	historyService = history
	settingsService = settings
	enrichService = nil

	t.Cleanup(func() {
		searchService = prevSearch
		historyService = prevHistory
		settingsService = prevSettings
		enrichService = prevEnrich
		resetFlags()
	})
	resetFlags()
}

// resetFlags restores package-level flag state between command runs.
func resetFlags() {
	searchPattern = ""
	searchCase = false
	searchContext = -1
	searchMaxMatches = -1
	searchDisplayLimit = 0
	searchTrace = false
	searchAll = false
	searchEnrich = false
	searchJSON = false
	historyLimit = 20
	authToken = ""
	verboseFlag = false
}

// executeCommand runs the root command with args and captures output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func completeAggregate(matches ...domain.SearchMatch) domain.AggregateResults {
	repos := 3
	return domain.AggregateResults{
		State:   domain.SearchStateComplete,
		Results: matches,
		Progress: domain.Progress{
			MatchCount:        len(matches),
			DurationMs:        120,
			RepositoriesCount: &repos,
			Skipped:           []domain.Skipped{},
			Done:              true,
		},
	}
}

func historyEntry(query string, matches int, age time.Duration) domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:          "id-" + query,
		Query:       query,
		PatternType: domain.PatternTypeStandard,
		MatchCount:  matches,
		State:       domain.SearchStateComplete,
		CreatedAt:   time.Now().Add(-age),
	}
}

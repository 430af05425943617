package mcp

import (
	"context"
	"errors"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.StreamSearchService.
type mockSearchService struct {
	agg domain.AggregateResults
	err error
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ domain.StreamRequest,
) (driving.SearchSubscription, error) {
	return nil, errors.New("not used in mcp tests")
}

func (m *mockSearchService) SearchCollect(
	_ context.Context,
	_ domain.StreamRequest,
) (domain.AggregateResults, error) {
	return m.agg, m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	entries []domain.HistoryEntry
	err     error
}

func (m *mockHistoryService) Record(
	_ context.Context,
	_ domain.StreamRequest,
	_ domain.AggregateResults,
) (domain.HistoryEntry, error) {
	return domain.HistoryEntry{}, m.err
}

func (m *mockHistoryService) Recent(_ context.Context, _ int) ([]domain.HistoryEntry, error) {
	return m.entries, m.err
}

func (m *mockHistoryService) Clear(_ context.Context) error {
	return m.err
}

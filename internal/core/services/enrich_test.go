package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driven"
)

// mockMetadataSource implements driven.RepoMetadataSource for testing.
type mockMetadataSource struct {
	metadata map[string]driven.RepoMetadata

	mu      sync.Mutex
	lookups []string
}

func (m *mockMetadataSource) Lookup(_ context.Context, repoName string) (driven.RepoMetadata, error) {
	m.mu.Lock()
	m.lookups = append(m.lookups, repoName)
	m.mu.Unlock()
	meta, ok := m.metadata[repoName]
	if !ok {
		return driven.RepoMetadata{}, domain.ErrNotFound
	}
	return meta, nil
}

// TestEnrichRepos_FillsMissingMetadata tests best-effort enrichment
func TestEnrichRepos_FillsMissingMetadata(t *testing.T) {
	source := &mockMetadataSource{metadata: map[string]driven.RepoMetadata{
		"github.com/a/b": {Stars: 120, Description: "a library", Fork: true},
	}}
	svc := NewEnrichService(source)

	bare := &domain.RepoMatch{Repository: "github.com/a/b"}
	unknown := &domain.RepoMatch{Repository: "github.com/c/d"}
	content := &domain.ContentMatch{Repository: "github.com/a/b", Path: "x.go"}
	results := []domain.SearchMatch{bare, unknown, content}

	n := svc.EnrichRepos(context.Background(), results)

	assert.Equal(t, 1, n)
	assert.Equal(t, 120, bare.RepoStars)
	assert.Equal(t, "a library", bare.Description)
	assert.True(t, bare.Fork)
	// Unknown repos and non-repo matches are left untouched.
	assert.Zero(t, unknown.RepoStars)
	require.Len(t, source.lookups, 2)
}

// TestEnrichRepos_SkipsAlreadyComplete tests that complete matches are
// not looked up again
func TestEnrichRepos_SkipsAlreadyComplete(t *testing.T) {
	source := &mockMetadataSource{}
	svc := NewEnrichService(source)

	full := &domain.RepoMatch{Repository: "github.com/a/b", RepoStars: 5, Description: "d"}

	n := svc.EnrichRepos(context.Background(), []domain.SearchMatch{full})

	assert.Zero(t, n)
	assert.Empty(t, source.lookups)
}

// TestEnrichRepos_NilSource tests the no-op path
func TestEnrichRepos_NilSource(t *testing.T) {
	svc := NewEnrichService(nil)

	n := svc.EnrichRepos(context.Background(), []domain.SearchMatch{
		&domain.RepoMatch{Repository: "github.com/a/b"},
	})

	assert.Zero(t, n)
}

// TestEnrichRepos_StopsOnCancelledContext tests context handling
func TestEnrichRepos_StopsOnCancelledContext(t *testing.T) {
	source := &mockMetadataSource{}
	svc := NewEnrichService(source)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := svc.EnrichRepos(ctx, []domain.SearchMatch{
		&domain.RepoMatch{Repository: "github.com/a/b"},
	})

	assert.Zero(t, n)
	assert.Empty(t, source.lookups)
}

// errMetadataSource always fails lookups.
type errMetadataSource struct{}

func (errMetadataSource) Lookup(context.Context, string) (driven.RepoMetadata, error) {
	return driven.RepoMetadata{}, errors.New("rate limited")
}

// TestEnrichRepos_LookupFailureIsSkipped tests that failures do not abort
// the pass
func TestEnrichRepos_LookupFailureIsSkipped(t *testing.T) {
	svc := NewEnrichService(errMetadataSource{})

	bare := &domain.RepoMatch{Repository: "github.com/a/b"}
	n := svc.EnrichRepos(context.Background(), []domain.SearchMatch{bare})

	assert.Zero(t, n)
	assert.Zero(t, bare.RepoStars)
}

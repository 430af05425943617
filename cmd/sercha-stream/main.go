// Command sercha-stream is a streaming code search client.
package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/custodia-labs/sercha-stream/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-stream/internal/adapters/driven/enrich/github"
	"github.com/custodia-labs/sercha-stream/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-stream/internal/adapters/driven/stream/sse"
	"github.com/custodia-labs/sercha-stream/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-stream/internal/core/domain"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-stream/internal/core/services"
	"github.com/custodia-labs/sercha-stream/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// liveSource opens streams with whatever server settings hold right now,
// so auth login and config file edits take effect without a restart.
type liveSource struct {
	settings driving.SettingsService

	mu     sync.Mutex
	client *sse.Client
	url    string
	token  string
}

func (s *liveSource) Open(ctx context.Context, req domain.StreamRequest) (driven.EventStream, error) {
	cfg := s.settings.Get()

	s.mu.Lock()
	if s.client == nil || s.url != cfg.ServerURL || s.token != cfg.AccessToken {
		client, err := sse.NewClient(cfg.ServerURL, cfg.AccessToken, nil)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.client = client
		s.url = cfg.ServerURL
		s.token = cfg.AccessToken
	}
	client := s.client
	s.mu.Unlock()

	return client.Open(ctx, req)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)

	searchService := services.NewStreamSearchService(&liveSource{settings: settingsService})

	var historyService driving.HistoryService
	store, err := sqlite.NewStore("")
	if err != nil {
		// Search works without history; degrade instead of failing.
		logger.Warn("Opening history store: %v", err)
	} else {
		defer store.Close() //nolint:errcheck
		historyService = services.NewHistoryService(store)
	}

	enrichService := services.NewEnrichService(
		github.NewMetadataSource(os.Getenv("GITHUB_TOKEN")),
	)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Search:   searchService,
		History:  historyService,
		Settings: settingsService,
		Enrich:   enrichService,
	})

	return cli.Execute()
}

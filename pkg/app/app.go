// Package app wires config, storage, services and the router together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/orchis-hq/orchis/pkg/adapters/cache/valkey"
	"github.com/orchis-hq/orchis/pkg/adapters/handler"
	"github.com/orchis-hq/orchis/pkg/adapters/repository/sqlite"
	"github.com/orchis-hq/orchis/pkg/config"
	"github.com/orchis-hq/orchis/pkg/core/services"
	"github.com/orchis-hq/orchis/pkg/ports"
)

type App struct {
	Handler http.Handler
	Repo    *sqlite.SQLiteRepository

	counter *valkey.Counter
}

// New opens the database and, when VALKEY_ADDRESS is set, the Valkey
// search-term counter. Without Valkey, counters live in SQL.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	a := &App{Repo: repo}
	var terms ports.SearchTermCounter = repo
	if cfg.ValkeyAddress != "" {
		counter, err := valkey.Connect(ctx, cfg.ValkeyAddress, cfg.ValkeyPassword, logger)
		if err != nil {
			repo.Close()
			return nil, err
		}
		a.counter = counter
		terms = counter
	}

	a.Handler = handler.NewRouter(cfg, NewServices(repo, terms, logger), logger)
	return a, nil
}

// NewServices builds every service on top of one repository.
func NewServices(repo *sqlite.SQLiteRepository, terms ports.SearchTermCounter, logger *slog.Logger) handler.Services {
	return handler.Services{
		Tools:     services.NewToolService(repo, terms, logger),
		Posts:     services.NewPostService(repo, logger),
		Roadmap:   services.NewRoadmapService(repo, logger, services.ChangelogOnComplete(repo)),
		Leads:     services.NewLeadService(repo, logger),
		Analytics: services.NewAnalyticsService(repo, repo, repo, logger),
	}
}

func (a *App) Close() error {
	if a.counter != nil {
		a.counter.Close()
	}
	return a.Repo.Close()
}

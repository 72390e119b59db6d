package main

import (
	"fmt"
	"io"

	"github.com/google/subcommands"

	"invtracker/internal/config"
	"invtracker/internal/database"
	"invtracker/internal/logger"
	"invtracker/internal/repository"
	"invtracker/internal/server"
	"invtracker/internal/services"
	"invtracker/internal/valuation"
)

// environment is what a job needs from the configured deployment.
type environment struct {
	stores   *repository.Stores
	fetcher  services.QuoteFetcher
	resolver *valuation.Resolver
	close    func()
}

// opener builds the environment for a job.
type opener func() (*environment, error)

func commands(open opener, out io.Writer) []subcommands.Command {
	return []subcommands.Command{
		&backfillCmd{open: open, out: out},
		&purgeBankCmd{open: open, out: out},
		&snapshotCmd{open: open, out: out},
	}
}

// openEnvironment opens the stores selected by STORE_BACKEND. The file
// backend needs no database connection.
func openEnvironment() (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	env := &environment{close: func() {}}

	var dbManager *database.Manager
	if cfg.StoreBackend != config.BackendFile {
		dbManager, err = database.NewManager(database.NewConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to create database manager: %w", err)
		}
		if err := dbManager.RunMigrations(); err != nil {
			_ = dbManager.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		env.stores, err = server.OpenStores(cfg, dbManager.DB())
	} else {
		env.stores, err = server.OpenStores(cfg, nil)
	}
	if err != nil {
		closeManager(dbManager)
		return nil, err
	}

	env.resolver, err = server.NewResolver(cfg)
	if err != nil {
		closeManager(dbManager)
		return nil, err
	}

	fetcher, cache := server.NewQuoteFetcher(cfg)
	env.fetcher = fetcher
	env.close = func() {
		if cache != nil {
			_ = cache.Close()
		}
		closeManager(dbManager)
	}
	return env, nil
}

func closeManager(m *database.Manager) {
	if m == nil {
		return
	}
	if err := m.Close(); err != nil {
		logger.Get().Warnf("database close error: %v", err)
	}
}

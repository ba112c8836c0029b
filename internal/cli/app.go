// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - shared wiring from configuration to a ready pipeline.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/cloudnein/internal/cloud"
	"github.com/jeranaias/cloudnein/internal/config"
	"github.com/jeranaias/cloudnein/internal/ledger"
	"github.com/jeranaias/cloudnein/internal/local"
	"github.com/jeranaias/cloudnein/internal/pii"
	"github.com/jeranaias/cloudnein/internal/router"
	"github.com/jeranaias/cloudnein/internal/tools"
)

// App bundles the wired pipeline for one process.
type App struct {
	Config *config.Config
	Store  *ledger.Store
	Local  *local.Client
	Cloud  *cloud.Client // nil when no API key or --local-only
	Router *router.Router
}

// NewApp loads configuration and wires the full pipeline. CLI args override
// the loaded config.
func NewApp(ctx context.Context, args Args) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if args.Model != "" {
		cfg.Local.Model = args.Model
	}
	if args.LocalOnly {
		cfg.Cloud.APIKey = ""
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Ledger.Path), 0o755); err != nil && cfg.Ledger.Path != ":memory:" {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}
	store, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return nil, err
	}
	if cfg.Ledger.SeedDemoData {
		if err := store.Seed(ctx); err != nil {
			store.Close()
			return nil, err
		}
	}

	localClient := local.NewClient(&local.Config{
		BaseURL:   cfg.Local.BaseURL,
		Model:     cfg.Local.Model,
		Timeout:   time.Duration(cfg.Local.TimeoutSecs) * time.Second,
		MaxTokens: cfg.Local.MaxTokens,
	})

	var cloudClient *cloud.Client
	var cloudBackend router.CloudBackend
	var analyzer tools.Analyzer
	if cfg.Cloud.APIKey != "" {
		cloudClient = cloud.NewClient(cloud.Config{
			APIKey:            cfg.Cloud.APIKey,
			BaseURL:           cfg.Cloud.BaseURL,
			Models:            cfg.Cloud.Models,
			MaxRetries:        cfg.Cloud.MaxRetries,
			RequestsPerSecond: cfg.Cloud.RequestsPerSecond,
			Timeout:           time.Duration(cfg.Cloud.TimeoutSecs) * time.Second,
		})
		cloudBackend = cloudClient
		analyzer = cloudClient
	}

	exec := tools.NewExecutor(store, pii.NewDetector(), pii.NewScorer(cfg.Router.SensitivityKeywords), analyzer)
	rt := router.New(localClient, cloudBackend, exec, store, router.Config{
		ConfidenceThreshold: cfg.Router.ConfidenceThreshold,
		SensitivityKeywords: cfg.Router.SensitivityKeywords,
	})

	return &App{
		Config: cfg,
		Store:  store,
		Local:  localClient,
		Cloud:  cloudClient,
		Router: rt,
	}, nil
}

// Close releases the app's resources.
func (a *App) Close() error {
	return a.Store.Close()
}

// WatchConfig starts the config file watcher and applies the reloadable
// settings to the running pipeline. Returns nil when the config file does
// not exist yet; there is nothing to watch.
func (a *App) WatchConfig() (*config.Watcher, error) {
	path, err := config.Path()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	w, err := config.NewWatcher(path, 250*time.Millisecond, func(cfg *config.Config) {
		a.Router.SetConfidenceThreshold(cfg.Router.ConfidenceThreshold)
	})
	if err != nil {
		return nil, err
	}
	if err := w.Watch(); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}
